package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/mmdcodec/internal/config"
	"github.com/Faultbox/mmdcodec/pkg/math"
	"github.com/Faultbox/mmdcodec/pkg/pmd"
	"github.com/Faultbox/mmdcodec/pkg/vmd"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want kind
	}{
		{"pmd", append(pmd.Magic[:], 0, 0), kindModel},
		{"vmd", []byte(vmd.Magic + "\x00\x00\x00\x00\x00"), kindMotion},
		{"empty", nil, kindUnknown},
		{"other", []byte("GRAVITY"), kindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectKind(tt.data); got != tt.want {
				t.Errorf("detectKind = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFirstDiff(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"abc", "abc", 3},
		{"abc", "abd", 2},
		{"ab", "abc", 2},
		{"", "x", 0},
	}
	for _, tt := range tests {
		if got := firstDiff([]byte(tt.a), []byte(tt.b)); got != tt.want {
			t.Errorf("firstDiff(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func validModel() *pmd.Model {
	return &pmd.Model{
		Name: "cube",
		Vertices: []pmd.Vertex{
			{Bones: [2]uint16{0, 0}, Weight: 100},
			{Bones: [2]uint16{0, 1}, Weight: 50},
			{Bones: [2]uint16{1, 1}, Weight: 0},
		},
		Surfaces:  []pmd.Surface{{0, 1, 2}},
		Materials: []pmd.Material{{IndexCount: 3, ToonIndex: pmd.NoToon}},
		Bones: []pmd.ModelBone{
			{Bone: pmd.Bone{Name: "center", Parent: pmd.NoBone, Tail: 1}},
			{Bone: pmd.Bone{Name: "tip", Parent: 0}},
		},
		IKs: []pmd.ModelIK{
			{IK: pmd.IK{Bone: 1, Target: 0, ChainLength: 1}, Chain: []uint16{0}},
		},
		Morphs: []pmd.ModelMorph{
			{Morph: pmd.Morph{Name: "base", Kind: pmd.MorphBase}, Vertices: []pmd.MorphVertex{{Index: 2}}},
			{Morph: pmd.Morph{Name: "smile", Kind: pmd.MorphLip}, Vertices: []pmd.MorphVertex{{Index: 0}}},
		},
		MorphOrder:   []uint16{1},
		BoneGroups:   []pmd.BoneGroup{{Name: "body"}},
		GroupedBones: []pmd.GroupedBone{{Bone: 1, Group: 1}},
		RigidBodies:  []pmd.RigidBody{{Name: "a", Bone: 0}, {Name: "b", Bone: pmd.NoBone}},
		Joints:       []pmd.Joint{{Name: "j", RigidA: 0, RigidB: 1}},
	}
}

func TestCheckModel(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*pmd.Model)
		want   string
	}{
		{"valid", func(*pmd.Model) {}, ""},
		{"vertex bone", func(m *pmd.Model) { m.Vertices[0].Bones[1] = 7 }, "vertex 0"},
		{"vertex weight", func(m *pmd.Model) { m.Vertices[1].Weight = 101 }, "weight 101"},
		{"surface index", func(m *pmd.Model) { m.Surfaces[0][2] = 3 }, "surface 0"},
		{"material coverage", func(m *pmd.Model) { m.Materials[0].IndexCount = 6 }, "materials cover 6"},
		{"bone parent", func(m *pmd.Model) { m.Bones[1].Parent = 2 }, "parent 2"},
		{"ik chain", func(m *pmd.Model) { m.IKs[0].Chain[0] = 9 }, "chain bone 9"},
		{"ik chain length", func(m *pmd.Model) { m.IKs[0].ChainLength = 2 }, "chain length 2"},
		{"base morph kind", func(m *pmd.Model) { m.Morphs[0].Kind = pmd.MorphEye }, "want Base"},
		{"base morph vertex", func(m *pmd.Model) { m.Morphs[0].Vertices[0].Index = 3 }, "base morph"},
		{"morph base index", func(m *pmd.Model) { m.Morphs[1].Vertices[0].Index = 1 }, "base index 1"},
		{"morph order", func(m *pmd.Model) { m.MorphOrder[0] = 2 }, "morph order"},
		{"group zero", func(m *pmd.Model) { m.GroupedBones[0].Group = 0 }, "group 0"},
		{"group past end", func(m *pmd.Model) { m.GroupedBones[0].Group = 2 }, "group 2"},
		{"rigid bone", func(m *pmd.Model) { m.RigidBodies[0].Bone = 5 }, "rigid body 0"},
		{"joint rigid", func(m *pmd.Model) { m.Joints[0].RigidB = 2 }, "joint 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validModel()
			tt.mutate(m)
			got := checkModel(m)
			if tt.want == "" {
				if len(got) != 0 {
					t.Errorf("expected no problems, got %v", got)
				}
				return
			}
			if len(got) != 1 || !strings.Contains(got[0], tt.want) {
				t.Errorf("problems = %v, want one containing %q", got, tt.want)
			}
		})
	}
}

func TestCheckModel_Cap(t *testing.T) {
	m := validModel()
	for i := 0; i < 2*maxProblems; i++ {
		m.Surfaces = append(m.Surfaces, pmd.Surface{9, 9, 9})
	}
	if got := checkModel(m); len(got) != maxProblems {
		t.Errorf("expected %d problems, got %d", maxProblems, len(got))
	}
}

func TestCheckMotion(t *testing.T) {
	key := vmd.BoneMotion{Name: "center", Rotation: math.QuatIdentity(), Interpolation: vmd.LinearBoneInterpolation}

	tests := []struct {
		name   string
		motion *vmd.Motion
		want   string
	}{
		{"valid", &vmd.Motion{ModelName: "miku", BoneMotions: []vmd.BoneMotion{key}}, ""},
		{"bone curve", &vmd.Motion{BoneMotions: []vmd.BoneMotion{func() vmd.BoneMotion {
			k := key
			k.Interpolation.R.P2Y = 200
			return k
		}()}}, "control point"},
		{"rotation", &vmd.Motion{BoneMotions: []vmd.BoneMotion{func() vmd.BoneMotion {
			k := key
			k.Rotation = math.Quat{X: 1, Y: 1}
			return k
		}()}}, "not normalized"},
		{"camera curve", &vmd.Motion{ModelName: vmd.StageActName, CameraMotions: []vmd.CameraMotion{{
			Interpolation: vmd.CameraInterpolation{Angle: vmd.Bezier{P1X: 128}},
		}}}, "camera key 0"},
		{"unknown shadow", &vmd.Motion{ModelName: vmd.StageActName, ShadowMotions: []vmd.ShadowMotion{{
			Mode: vmd.ShadowUnknown, RawMode: 5,
		}}}, "unknown mode 5"},
		{"stage act bones", &vmd.Motion{ModelName: vmd.StageActName, BoneMotions: []vmd.BoneMotion{key}}, "stage act"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkMotion(tt.motion)
			if tt.want == "" {
				if len(got) != 0 {
					t.Errorf("expected no problems, got %v", got)
				}
				return
			}
			if len(got) != 1 || !strings.Contains(got[0], tt.want) {
				t.Errorf("problems = %v, want one containing %q", got, tt.want)
			}
		})
	}
}

// newTestApp returns an app with default settings whose output is captured.
func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	a, err := newApp(config.Default())
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	var out bytes.Buffer
	orig := stdout
	stdout = &out
	t.Cleanup(func() { stdout = orig })
	return a, &out
}

func writeMotion(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dance.vmd")
	motion := &vmd.Motion{
		ModelName: "miku",
		BoneMotions: []vmd.BoneMotion{
			{Name: "center", Frame: 30, Rotation: math.QuatIdentity(), Interpolation: vmd.LinearBoneInterpolation},
			{Name: "center", Frame: 60, Rotation: math.QuatIdentity(), Interpolation: vmd.LinearBoneInterpolation},
		},
		MorphMotions: []vmd.MorphMotion{{Name: "smile", Frame: 45, Weight: 1}},
	}
	if err := vmd.WriteFile(path, motion); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestCommands_Info(t *testing.T) {
	a, out := newTestApp(t)
	path := writeMotion(t, t.TempDir())

	if err := a.run("info", []string{path}); err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"VMD model motion", "Model: miku", "Last frame: 60", "center"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("info output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCommands_ReexportCheck(t *testing.T) {
	a, _ := newTestApp(t)
	dir := t.TempDir()
	in := writeMotion(t, dir)
	out := filepath.Join(dir, "out.vmd")

	if err := a.run("reexport", []string{"-check", in, out}); err != nil {
		t.Fatalf("reexport failed: %v", err)
	}
	want, _ := os.ReadFile(in)
	got, _ := os.ReadFile(out)
	if !bytes.Equal(got, want) {
		t.Error("reexported file differs from input")
	}
}

func TestCommands_ReexportNormalize(t *testing.T) {
	a, _ := newTestApp(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "drift.vmd")
	motion := &vmd.Motion{
		ModelName: "miku",
		BoneMotions: []vmd.BoneMotion{
			{Name: "center", Rotation: math.Quat{W: 2}, Interpolation: vmd.LinearBoneInterpolation},
		},
	}
	if err := vmd.WriteFile(in, motion); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	out := filepath.Join(dir, "fixed.vmd")

	if err := a.run("reexport", []string{"-normalize", in, out}); err != nil {
		t.Fatalf("reexport failed: %v", err)
	}
	got, err := vmd.ParseFile(out)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if r := got.BoneMotions[0].Rotation; r != math.QuatIdentity() {
		t.Errorf("rotation = %v, want identity", r)
	}
	if issues := checkMotion(got); len(issues) != 0 {
		t.Errorf("normalized motion still has problems: %v", issues)
	}
}

func TestCommands_Validate(t *testing.T) {
	a, out := newTestApp(t)
	dir := t.TempDir()
	good := writeMotion(t, dir)
	bad := filepath.Join(dir, "bad.vmd")
	if err := os.WriteFile(bad, []byte("not a motion"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := a.run("validate", []string{good}); err != nil {
		t.Errorf("validate of a good file failed: %v", err)
	}
	if err := a.run("validate", []string{good, bad}); err == nil {
		t.Error("expected validate to fail on a bad file")
	}
	if !strings.Contains(out.String(), "FAIL "+bad) {
		t.Errorf("expected FAIL line for %s:\n%s", bad, out.String())
	}
}

func TestCommands_Config(t *testing.T) {
	a, out := newTestApp(t)
	path := filepath.Join(t.TempDir(), "mmdtool.yaml")

	if err := a.run("config", []string{"-o", path}); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "text_encoding: shift_jis") {
		t.Errorf("unexpected config file:\n%s", data)
	}

	out.Reset()
	if err := a.run("config", []string{"-show"}); err != nil {
		t.Fatalf("config -show failed: %v", err)
	}
	if !strings.Contains(out.String(), "strict: true") {
		t.Errorf("unexpected config output:\n%s", out.String())
	}
}

func TestCommands_Unknown(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.run("explode", nil); err == nil {
		t.Error("expected error for unknown command")
	}
}
