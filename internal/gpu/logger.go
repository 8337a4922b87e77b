// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. It keeps the HAL device quiet until a viewer
// hands it a logger.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(discard{}))
}

// slogger is the logger for adapter opening and submission failures.
func slogger() *slog.Logger { return current.Load() }

// setLogger installs l for the package. bokeh.NewViewer reaches it through
// Device.SetLogger with the viewer's logger, which is bokeh.Logger unless
// WithLogger overrides it. A nil l silences the package again.
func setLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discard{})
	}
	current.Store(l)
}
