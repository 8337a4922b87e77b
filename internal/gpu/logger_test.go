// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLoggerSilent(t *testing.T) {
	if slogger().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("default logger should not be enabled")
	}
}

func TestDeviceSetLogger(t *testing.T) {
	orig := slogger()
	t.Cleanup(func() { setLogger(orig) })

	var buf bytes.Buffer
	d := newTestDevice(t, 8, 8)
	d.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	slogger().Debug("device ready")
	if !strings.Contains(buf.String(), "device ready") {
		t.Errorf("log output = %q, want device ready", buf.String())
	}

	d.SetLogger(nil)
	if slogger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
