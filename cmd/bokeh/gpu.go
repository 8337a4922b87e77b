// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package main

import _ "github.com/gogpu/bokeh/gpu" // register the vulkan device
