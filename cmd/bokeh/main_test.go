// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseResize(t *testing.T) {
	tests := []struct {
		in      string
		want    resizeAt
		wantErr bool
	}{
		{"1024x768@30", resizeAt{1024, 768, 30}, false},
		{"8x8@0", resizeAt{8, 8, 0}, false},
		{"1024x768", resizeAt{}, true},
		{"1024@3", resizeAt{}, true},
		{"ax768@3", resizeAt{}, true},
		{"0x768@3", resizeAt{}, true},
		{"10x10@-1", resizeAt{}, true},
	}
	for _, tt := range tests {
		got, err := parseResize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseResize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseResize(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 80, 60))
	got := thumbnail(src, 20)
	if b := got.Bounds(); b.Dx() != 20 || b.Dy() != 15 {
		t.Errorf("thumbnail = %dx%d, want 20x15", b.Dx(), b.Dy())
	}
	if b := thumbnail(src, 0).Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("thumbnail(0) = %dx%d, want 80x60", b.Dx(), b.Dy())
	}
}

func TestRunPrintConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := run([]string{"-print-config", "-width", "320"}, &out, &errOut); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "width = 320") {
		t.Errorf("output = %q, want width = 320", out.String())
	}
}

func TestRunInvalid(t *testing.T) {
	tests := [][]string{
		{"-width", "0"},
		{"-resize", "bad"},
		{"-no-such-flag"},
		{"-config", filepath.Join(os.TempDir(), "bokeh-missing-config.toml")},
	}
	for _, args := range tests {
		var out, errOut bytes.Buffer
		if err := run(args, &out, &errOut); err == nil {
			t.Errorf("run(%q) succeeded", args)
		}
	}
}

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bokeh.toml")
	if err := os.WriteFile(cfgPath, []byte("device = \"software\"\nwidth = 32\nheight = 24\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "frame.png")
	thumb := filepath.Join(dir, "thumb.png")

	var out, errOut bytes.Buffer
	args := []string{
		"-config", cfgPath,
		"-frames", "3",
		"-resize", "48x32@1",
		"-output", output,
		"-thumb", thumb,
		"-thumb-width", "12",
	}
	if err := run(args, &out, &errOut); err != nil {
		t.Fatalf("run() error = %v\nstderr: %s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "rendered 3 frames") {
		t.Errorf("output = %q", out.String())
	}

	for _, tt := range []struct {
		path string
		w, h int
	}{
		{output, 48, 32},
		{thumb, 12, 8},
	} {
		f, err := os.Open(tt.path)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", tt.path, err)
		}
		if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("%s = %dx%d, want %dx%d", filepath.Base(tt.path), b.Dx(), b.Dy(), tt.w, tt.h)
		}
	}
}
