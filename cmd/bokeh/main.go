// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command bokeh renders the depth-of-field demo scene headlessly.
//
// It runs the viewer for a number of frames at a fixed rate, optionally
// posting a viewport resize part way through, and writes the last presented
// frame and a thumbnail as PNG files. Settings come from an optional TOML
// file; flags given on the command line override it.
//
// Usage:
//
//	bokeh -frames 120 -resize 1024x768@60 -output frame.png -thumb thumb.png
//	bokeh -config bokeh.toml -dof=false
//	bokeh -print-config > bokeh.toml
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/bokeh"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "bokeh:", err)
		os.Exit(1)
	}
}

// resizeAt is a viewport resize posted before frame Frame.
type resizeAt struct {
	Width, Height int
	Frame         int
}

// parseResize parses WxH@N.
func parseResize(s string) (resizeAt, error) {
	size, at, ok := strings.Cut(s, "@")
	if !ok {
		return resizeAt{}, fmt.Errorf("resize %q: want WxH@FRAME", s)
	}
	ws, hs, ok := strings.Cut(size, "x")
	if !ok {
		return resizeAt{}, fmt.Errorf("resize %q: want WxH@FRAME", s)
	}
	var r resizeAt
	var err error
	if r.Width, err = strconv.Atoi(ws); err != nil {
		return resizeAt{}, fmt.Errorf("resize %q: width: %w", s, err)
	}
	if r.Height, err = strconv.Atoi(hs); err != nil {
		return resizeAt{}, fmt.Errorf("resize %q: height: %w", s, err)
	}
	if r.Frame, err = strconv.Atoi(at); err != nil {
		return resizeAt{}, fmt.Errorf("resize %q: frame: %w", s, err)
	}
	if r.Width <= 0 || r.Height <= 0 || r.Frame < 0 {
		return resizeAt{}, fmt.Errorf("resize %q: out of range", s)
	}
	return r, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bokeh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "TOML config file")
		width       = fs.Int("width", 0, "viewport width")
		height      = fs.Int("height", 0, "viewport height")
		device      = fs.String("device", "", `render device: "auto", "software" or "vulkan"`)
		frames      = fs.Int("frames", 0, "number of frames to render")
		fps         = fs.Int("fps", 0, "tick rate")
		dofOn       = fs.Bool("dof", true, "enable the depth-of-field effect")
		focus       = fs.Float64("focus", 0, "focus distance")
		maxBlur     = fs.Float64("maxblur", 0, "maximum blur radius in pixels")
		logLevel    = fs.String("log-level", "", "debug, info, warn or error")
		resize      = fs.String("resize", "", "post a resize WxH@FRAME")
		output      = fs.String("output", "", "write the last frame as PNG")
		thumb       = fs.String("thumb", "", "write a thumbnail of the last frame as PNG")
		thumbWidth  = fs.Int("thumb-width", 200, "thumbnail width")
		printConfig = fs.Bool("print-config", false, "print the effective config as TOML and exit")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := bokeh.DefaultConfig()
	if *configPath != "" {
		c, err := bokeh.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "device":
			cfg.Device = *device
		case "frames":
			cfg.Frames = *frames
		case "fps":
			cfg.FPS = *fps
		case "dof":
			cfg.DOF.Enabled = *dofOn
		case "focus":
			cfg.DOF.FocusDistance = float32(*focus)
		case "maxblur":
			cfg.DOF.MaxBlurRadius = float32(*maxBlur)
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *printConfig {
		return bokeh.EncodeConfig(stdout, cfg)
	}

	var post *resizeAt
	if *resize != "" {
		r, err := parseResize(*resize)
		if err != nil {
			return err
		}
		post = &r
	}

	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	bokeh.SetLogger(log)

	v, err := bokeh.NewViewer(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	dt := time.Second / time.Duration(cfg.FPS)
	start := time.Now()
	var fallbacks int
	for i := 0; i < cfg.Frames; i++ {
		if post != nil && post.Frame == i {
			if err := v.Post(post.Width, post.Height); err != nil {
				log.Warn("post resize", "err", err)
			}
		}
		r := v.Tick(dt)
		if r.Err != nil {
			fallbacks++
		}
		if r.Resized {
			w, h := v.Surface().Size().Width, v.Surface().Size().Height
			log.Info("resized", "frame", r.Frame, "width", w, "height", h, "path", r.Path)
		}
	}
	elapsed := time.Since(start)
	fmt.Fprintf(stdout, "rendered %d frames in %v (effect %v, %d errors)\n",
		v.Frames(), elapsed.Round(time.Millisecond), v.Pipeline().State(), fallbacks)

	if *output == "" && *thumb == "" {
		return nil
	}
	img, err := snapshot(v)
	if err != nil {
		return err
	}
	if *output != "" {
		if err := writePNG(*output, img); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", *output, img.Bounds().Dx(), img.Bounds().Dy())
	}
	if *thumb != "" {
		t := thumbnail(img, *thumbWidth)
		if err := writePNG(*thumb, t); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", *thumb, t.Bounds().Dx(), t.Bounds().Dy())
	}
	return nil
}

// imager is implemented by devices that can read back the screen.
type imager interface {
	Image() *image.RGBA
}

func snapshot(v *bokeh.Viewer) (*image.RGBA, error) {
	im, ok := v.Device().(imager)
	if !ok {
		return nil, fmt.Errorf("device %T cannot read back frames; use -device software", v.Device())
	}
	return im.Image(), nil
}

// thumbnail scales img to width pixels wide, keeping the aspect ratio.
func thumbnail(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 {
		width = b.Dx()
	}
	height := max(1, b.Dy()*width/max(1, b.Dx()))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
