// mmdtool is a CLI utility for inspecting and converting PMD models and
// VMD motions.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/mmdcodec/internal/assets"
	"github.com/Faultbox/mmdcodec/internal/config"
	"github.com/Faultbox/mmdcodec/internal/logger"
	"github.com/Faultbox/mmdcodec/pkg/encoding"
	"github.com/Faultbox/mmdcodec/pkg/pmd"
	"github.com/Faultbox/mmdcodec/pkg/vmd"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	a, err := newApp(cfg)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		os.Exit(1)
	}
	defer a.assets.Close()

	if err := a.run(args[0], args[1:]); err != nil {
		logger.Error(args[0]+" failed", logger.ErrorFields(err)...)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mmdtool - PMD model and VMD motion utility

Usage:
  mmdtool [flags] <command> [options]

Flags:
  -config <file>     Config file (default ./mmdtool.yaml or the user config dir)
  -debug             Enable debug logging
  -lenient           Accept VMD files with inconsistent interpolation copies
  -encoding <name>   Text encoding for names (default shift_jis)

Commands:
  info <file>                    Show a summary of a .pmd or .vmd file
  dump [-o out.yaml] <file>      Write the parsed file as YAML
  validate <file>...             Parse files and check cross references
  reexport [-check] [-normalize] <in> <out>
                                 Parse and write a file back out
  textures <model.pmd>           List textures a model references
  config [-show] [-o file]       Save or print the effective config

Examples:
  mmdtool info miku.pmd
  mmdtool -lenient dump dance.vmd
  mmdtool reexport -check camera.vmd camera_out.vmd`)
}

// app holds what every command needs.
type app struct {
	cfg    *config.Config
	codec  encoding.Codec
	assets *assets.Manager
	log    *zap.Logger
}

func newApp(cfg *config.Config) (*app, error) {
	codec, err := cfg.TextCodec()
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		codec:  codec,
		assets: assets.NewManager(),
		log:    logger.Named("mmdtool"),
	}
	for _, root := range cfg.Assets.SearchPaths {
		if err := a.assets.AddRoot(root); err != nil {
			a.log.Warn("skipping search path", zap.String("path", root), zap.Error(err))
		}
	}
	return a, nil
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "info":
		return a.cmdInfo(args)
	case "dump":
		return a.cmdDump(args)
	case "validate", "check":
		return a.cmdValidate(args)
	case "reexport", "convert":
		return a.cmdReexport(args)
	case "textures", "tex":
		return a.cmdTextures(args)
	case "config":
		return a.cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return errors.Errorf("unknown command: %s", command)
	}
}

// textDecoder builds a name decoder from the codec settings.
func (a *app) textDecoder() (*encoding.TextDecoder, error) {
	d := encoding.NewTextDecoder(a.codec)
	if err := d.SetZeroChop(a.cfg.Codec.ZeroChop); err != nil {
		return nil, err
	}
	return d, nil
}

// kind is the format of an input file.
type kind int

const (
	kindUnknown kind = iota
	kindModel
	kindMotion
)

func detectKind(data []byte) kind {
	switch {
	case bytes.HasPrefix(data, pmd.Magic[:]):
		return kindModel
	case bytes.HasPrefix(data, []byte(vmd.Magic)):
		return kindMotion
	default:
		return kindUnknown
	}
}

// loaded is a parsed input file; exactly one of model and motion is set.
type loaded struct {
	path   string
	data   []byte
	model  *pmd.Model
	motion *vmd.Motion
}

func (a *app) load(name string) (*loaded, error) {
	path, err := a.assets.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := a.assets.Load(path)
	if err != nil {
		return nil, err
	}
	text, err := a.textDecoder()
	if err != nil {
		return nil, err
	}

	l := &loaded{path: path, data: data}
	switch detectKind(data) {
	case kindModel:
		l.model, err = a.assets.LoadModel(path, text)
	case kindMotion:
		l.motion, err = a.assets.LoadMotion(path, text, a.cfg.Codec.Strict)
	default:
		return nil, errors.Errorf("%s: not a PMD or VMD file", filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	a.log.Debug("loaded", zap.String("path", path), zap.Int("bytes", len(data)))
	return l, nil
}

// encode serializes a loaded file with the configured text encoding.
func (a *app) encode(l *loaded) ([]byte, error) {
	var buf bytes.Buffer
	switch {
	case l.model != nil:
		e := pmd.NewExporter(&buf)
		e.SetCodec(a.codec)
		if err := e.Export(l.model); err != nil {
			return nil, err
		}
	case l.motion != nil:
		e := vmd.NewExporter(&buf)
		e.SetCodec(a.codec)
		if err := e.Export(l.motion); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
