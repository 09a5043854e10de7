package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/mmdcodec/pkg/math"
	"github.com/Faultbox/mmdcodec/pkg/pmd"
	"github.com/Faultbox/mmdcodec/pkg/vmd"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestManager_ResolveCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Tex", "Body.BMP"), []byte("bmp"))

	m := NewManager()
	if err := m.AddRoot(root); err != nil {
		t.Fatalf("AddRoot failed: %v", err)
	}

	path, err := m.Resolve(`tex\body.bmp`)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if want := filepath.Join(root, "Tex", "Body.BMP"); path != want {
		t.Errorf("Resolve = %s, want %s", path, want)
	}

	if _, err := m.Resolve("missing.bmp"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestManager_RootPriority(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(low, "a.txt"), []byte("low"))
	writeFile(t, filepath.Join(high, "a.txt"), []byte("high"))

	m := NewManager()
	m.AddRoot(low)
	m.AddRoot(high)

	data, err := m.Load("a.txt")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "high" {
		t.Errorf("Load = %q, want high", data)
	}
}

func TestManager_AddRootErrors(t *testing.T) {
	m := NewManager()
	if err := m.AddRoot("/nonexistent/root"); err == nil {
		t.Error("expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "file")
	writeFile(t, file, nil)
	if err := m.AddRoot(file); err == nil {
		t.Error("expected error for file root")
	}
}

func TestManager_LoadCaches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "m.vmd"), []byte("data"))

	m := NewManager()
	m.AddRoot(root)
	for i := 0; i < 3; i++ {
		if _, err := m.Load("m.vmd"); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	hits, misses := m.cache.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("cache stats = %d hits, %d misses; want 2, 1", hits, misses)
	}

	m.Close()
	if hits, misses := m.cache.Stats(); hits != 0 || misses != 0 {
		t.Error("Close should reset the cache")
	}
}

func TestManager_LoadModelAndTextures(t *testing.T) {
	root := t.TempDir()
	modelDir := filepath.Join(root, "miku")

	model := &pmd.Model{
		Name: "miku",
		Materials: []pmd.Material{
			{Diffuse: math.Vec3{X: 1, Y: 1, Z: 1}, Alpha: 1, ToonIndex: pmd.NoToon, IndexCount: 0, Texture: "body.bmp", SphereMap: "env.sph"},
			{Texture: "shared.png"},
			{Texture: "missing.bmp"},
		},
	}
	data, err := pmd.Encode(model)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	writeFile(t, filepath.Join(modelDir, "miku.pmd"), data)
	writeFile(t, filepath.Join(modelDir, "BODY.bmp"), []byte("bmp"))
	writeFile(t, filepath.Join(modelDir, "env.sph"), []byte("sph"))
	writeFile(t, filepath.Join(root, "shared", "shared.png"), []byte("png"))

	m := NewManager()
	m.AddRoot(root)
	m.AddRoot(filepath.Join(root, "shared"))

	loaded, err := m.LoadModel(filepath.Join(modelDir, "miku.pmd"), nil)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if loaded.Name != "miku" || len(loaded.Materials) != 3 {
		t.Fatalf("unexpected model %+v", loaded)
	}

	refs := m.ResolveTextures(loaded, modelDir)
	if len(refs) != 4 {
		t.Fatalf("expected 4 texture refs, got %d", len(refs))
	}

	tests := []struct {
		name     string
		material int
		found    bool
	}{
		{"body.bmp", 0, true},
		{"env.sph", 0, true},
		{"shared.png", 1, true},
		{"missing.bmp", 2, false},
	}
	for i, tc := range tests {
		ref := refs[i]
		if ref.Name != tc.name || ref.Material != tc.material || ref.Found() != tc.found {
			t.Errorf("ref %d = %+v, want %s on material %d found=%v", i, ref, tc.name, tc.material, tc.found)
		}
	}
}

func TestManager_LoadMotion(t *testing.T) {
	root := t.TempDir()
	motion := &vmd.Motion{
		ModelName: "miku",
		BoneMotions: []vmd.BoneMotion{
			{Name: "センター", Frame: 10, Rotation: math.QuatIdentity(), Interpolation: vmd.LinearBoneInterpolation},
		},
	}
	if err := vmd.WriteFile(filepath.Join(root, "dance.vmd"), motion); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	m := NewManager()
	m.AddRoot(root)
	got, err := m.LoadMotion("DANCE.vmd", nil, true)
	if err != nil {
		t.Fatalf("LoadMotion failed: %v", err)
	}
	if len(got.BoneMotions) != 1 || got.BoneMotions[0].Frame != 10 {
		t.Errorf("unexpected motion %+v", got)
	}
}
