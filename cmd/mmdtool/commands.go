package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/Faultbox/mmdcodec/internal/config"
	"github.com/Faultbox/mmdcodec/internal/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var stdout io.Writer = os.Stdout

func (a *app) cmdInfo(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: mmdtool info <file>")
	}

	l, err := a.load(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "File:  %s\n", l.path)
	fmt.Fprintf(stdout, "Size:  %d bytes\n", len(l.data))
	if l.model != nil {
		printModelInfo(l)
	} else {
		printMotionInfo(l)
	}
	return nil
}

func printModelInfo(l *loaded) {
	m := l.model
	fmt.Fprintln(stdout, "Type:  PMD model")
	fmt.Fprintf(stdout, "Name:  %s\n", m.Name)
	if m.HasEnglish && m.EngName != "" {
		fmt.Fprintf(stdout, "       %s\n", m.EngName)
	}
	fmt.Fprintln(stdout)

	rows := []struct {
		label string
		count int
	}{
		{"Vertices", len(m.Vertices)},
		{"Triangles", len(m.Surfaces)},
		{"Materials", len(m.Materials)},
		{"Bones", len(m.Bones)},
		{"IK chains", len(m.IKs)},
		{"Morphs", len(m.Morphs)},
		{"Bone groups", len(m.BoneGroups)},
		{"Rigid bodies", len(m.RigidBodies)},
		{"Joints", len(m.Joints)},
	}
	for _, r := range rows {
		fmt.Fprintf(stdout, "  %-13s %d\n", r.label, r.count)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "English names: %v\n", m.HasEnglish)
	fmt.Fprintf(stdout, "Toon textures: %v\n", m.ToonFiles != nil)
	fmt.Fprintf(stdout, "Physics:       %v\n", m.RigidBodies != nil)
	if m.TrailingData {
		fmt.Fprintln(stdout, "Trailing data after the last section")
	}
}

func printMotionInfo(l *loaded) {
	m := l.motion
	if m.IsStageAct() {
		fmt.Fprintln(stdout, "Type:  VMD stage act (camera and lighting)")
	} else {
		fmt.Fprintln(stdout, "Type:  VMD model motion")
		fmt.Fprintf(stdout, "Model: %s\n", m.ModelName)
	}
	fmt.Fprintf(stdout, "Last frame: %d\n", m.MaxFrame())
	fmt.Fprintln(stdout)

	rows := []struct {
		label string
		count int
	}{
		{"Bone keys", len(m.BoneMotions)},
		{"Morph keys", len(m.MorphMotions)},
		{"Camera keys", len(m.CameraMotions)},
		{"Light keys", len(m.LuminousMotions)},
		{"Shadow keys", len(m.ShadowMotions)},
	}
	for _, r := range rows {
		fmt.Fprintf(stdout, "  %-12s %d\n", r.label, r.count)
	}

	// Keys per bone, most animated first
	perBone := make(map[string]int)
	for _, k := range m.BoneMotions {
		perBone[k.Name]++
	}
	names := m.BoneNames()
	sort.SliceStable(names, func(i, j int) bool {
		return perBone[names[i]] > perBone[names[j]]
	})
	if len(names) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Bones:")
		for i, name := range names {
			if i == 10 {
				fmt.Fprintf(stdout, "  ... %d more\n", len(names)-i)
				break
			}
			fmt.Fprintf(stdout, "  %-16s %d\n", name, perBone[name])
		}
	}
	if m.TrailingData {
		fmt.Fprintln(stdout, "\nTrailing data after the last parsed section")
	}
}

func (a *app) cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	output := fs.String("o", "", "Write YAML to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: mmdtool dump [-o out.yaml] <file>")
	}

	l, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}

	var doc any = l.model
	if l.motion != nil {
		doc = l.motion
	}

	w := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer f.Close()
		w = f
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	return enc.Close()
}

func (a *app) cmdValidate(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: mmdtool validate <file>...")
	}

	failed := 0
	for _, name := range args {
		l, err := a.load(name)
		if err != nil {
			a.log.Error("parse failed", append([]zap.Field{zap.String("file", name)}, logger.ErrorFields(err)...)...)
			fmt.Fprintf(stdout, "FAIL %s: %v\n", name, err)
			failed++
			continue
		}

		var issues []string
		if l.model != nil {
			issues = checkModel(l.model)
		} else {
			issues = checkMotion(l.motion)
		}
		if len(issues) == 0 {
			fmt.Fprintf(stdout, "OK   %s\n", name)
			continue
		}
		failed++
		fmt.Fprintf(stdout, "FAIL %s: %d problems\n", name, len(issues))
		for _, p := range issues {
			fmt.Fprintf(stdout, "  - %s\n", p)
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}

func (a *app) cmdReexport(args []string) error {
	fs := flag.NewFlagSet("reexport", flag.ContinueOnError)
	check := fs.Bool("check", false, "Fail if the output differs from the input")
	normalize := fs.Bool("normalize", false, "Normalize drifted bone rotations in motions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("usage: mmdtool reexport [-check] [-normalize] <in> <out>")
	}

	l, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}
	if *normalize && l.motion != nil {
		n := l.motion.NormalizeRotations(rotationTolerance)
		a.log.Info("normalized rotations", zap.String("file", l.path), zap.Int("keys", n))
	}
	out, err := a.encode(l)
	if err != nil {
		return errors.Wrap(err, "exporting")
	}
	if err := os.WriteFile(fs.Arg(1), out, 0644); err != nil {
		return errors.Wrap(err, "writing output")
	}

	a.log.Info("reexported",
		zap.String("in", l.path),
		zap.String("out", fs.Arg(1)),
		zap.Int("in_bytes", len(l.data)),
		zap.Int("out_bytes", len(out)))

	if *check && !bytes.Equal(out, l.data) {
		return errors.Errorf("output differs from input at byte %d", firstDiff(out, l.data))
	}
	return nil
}

func (a *app) cmdTextures(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: mmdtool textures <model.pmd>")
	}

	l, err := a.load(args[0])
	if err != nil {
		return err
	}
	if l.model == nil {
		return errors.Errorf("%s is not a model", args[0])
	}

	refs := a.assets.ResolveTextures(l.model, filepath.Dir(l.path))
	missing := 0
	for _, ref := range refs {
		status := ref.Path
		if !ref.Found() {
			status = "MISSING"
			missing++
		}
		fmt.Fprintf(stdout, "%3d  %-20s %s\n", ref.Material, ref.Name, status)
	}
	fmt.Fprintf(os.Stderr, "\n(%d textures, %d missing)\n", len(refs), missing)
	return nil
}

func (a *app) cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	output := fs.String("o", "", "Write to file instead of the user config dir")
	show := fs.Bool("show", false, "Print the effective config and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *show {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(a.cfg); err != nil {
			return errors.Wrap(err, "encoding config")
		}
		return enc.Close()
	}

	path := *output
	var err error
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.yaml")
		err = a.cfg.Save()
	} else {
		err = a.cfg.SaveTo(path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
