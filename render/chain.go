// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Chain runs a fixed list of passes in order with ping-pong routing.
//
// Pass i receives the chain's read buffer as input 0, followed by its own
// Sources. A pass without a Destination that is not the terminal writes the
// write buffer, after which read and write swap. The terminal pass writes the
// device screen.
//
// A Chain is not safe for concurrent use.
type Chain struct {
	dev    Device
	passes []*Pass
	log    *slog.Logger

	read, write   FrameBuffer
	width, height int
	runs          int
	released      bool
}

// ChainOption configures a Chain during creation.
type ChainOption func(*Chain)

// WithChainLogger sets the logger used for routing diagnostics.
func WithChainLogger(l *slog.Logger) ChainOption {
	return func(c *Chain) {
		if l != nil {
			c.log = l
		}
	}
}

// ValidatePasses checks the structural invariant of a chain: at least one
// pass, exactly one terminal pass, and the terminal pass is last.
func ValidatePasses(passes []*Pass) error {
	if len(passes) == 0 {
		return &InvalidChainError{Reason: "no passes"}
	}
	terminals := 0
	for i, p := range passes {
		if p == nil {
			return &InvalidChainError{Reason: fmt.Sprintf("pass %d is nil", i)}
		}
		if p.RenderToScreen {
			terminals++
			if i != len(passes)-1 {
				return &InvalidChainError{Reason: fmt.Sprintf("terminal pass %q is not last", p.Label)}
			}
		}
	}
	switch terminals {
	case 0:
		return &InvalidChainError{Reason: "no terminal pass"}
	case 1:
		return nil
	default:
		return &InvalidChainError{Reason: fmt.Sprintf("%d terminal passes", terminals)}
	}
}

// NewChain validates passes and allocates the intermediate buffers at
// width x height. It returns *InvalidChainError for a malformed layout and
// *AllocationError when the buffers cannot be allocated; nothing is left
// allocated on error.
func NewChain(dev Device, width, height int, passes []*Pass, opts ...ChainOption) (*Chain, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if err := ValidatePasses(passes); err != nil {
		return nil, err
	}
	c := &Chain{
		dev:    dev,
		passes: passes,
		log:    slog.New(slog.DiscardHandler),
		width:  width,
		height: height,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !c.needsBuffers() {
		return c, nil
	}
	read, err := dev.NewFrameBuffer(DefaultFrameBufferDescriptor("chain_read", width, height))
	if err != nil {
		return nil, err
	}
	write, err := dev.NewFrameBuffer(DefaultFrameBufferDescriptor("chain_write", width, height))
	if err != nil {
		read.Destroy()
		return nil, err
	}
	c.read, c.write = read, write
	c.log.Debug("render: chain created", "passes", len(passes), "width", width, "height", height)
	return c, nil
}

func (c *Chain) needsBuffers() bool {
	for _, p := range c.passes {
		if p.needsSwap() {
			return true
		}
	}
	return false
}

// Passes returns the passes in execution order.
func (c *Chain) Passes() []*Pass {
	return c.passes
}

// Size returns the intermediate buffer size.
func (c *Chain) Size() (width, height int) {
	return c.width, c.height
}

// Runs returns how many times Run completed.
func (c *Chain) Runs() int {
	return c.runs
}

// Run executes every pass once, in order, on the calling goroutine.
func (c *Chain) Run(delta time.Duration) error {
	if c.released {
		return ErrDestroyed
	}
	for i, p := range c.passes {
		inputs := make([]Target, 0, 1+len(p.Sources))
		if c.read != nil {
			inputs = append(inputs, c.read)
		}
		inputs = append(inputs, p.Sources...)

		var out Target
		switch {
		case p.RenderToScreen:
			out = c.dev.Screen()
		case p.Destination != nil:
			out = p.Destination
		default:
			out = c.write
		}

		err := c.dev.Execute(Invocation{Pass: p, Inputs: inputs, Output: out, Delta: delta})
		if err != nil {
			return fmt.Errorf("render: pass %d %q: %w", i, p.Label, err)
		}
		if p.needsSwap() {
			c.read, c.write = c.write, c.read
		}
	}
	c.runs++
	return nil
}

// Reset reallocates the intermediate buffers at the new size. On failure both
// buffers keep their previous size and the *AllocationError is returned. If
// restoring the first buffer fails too, both errors are returned joined and
// the chain must be released.
func (c *Chain) Reset(width, height int) error {
	if c.released {
		return ErrDestroyed
	}
	if c.read != nil {
		if err := c.read.Resize(width, height); err != nil {
			return err
		}
		if err := c.write.Resize(width, height); err != nil {
			// Put read back so both buffers keep matching sizes.
			if rerr := c.read.Resize(c.width, c.height); rerr != nil {
				return errors.Join(err, rerr)
			}
			return err
		}
	}
	c.width, c.height = width, height
	c.log.Debug("render: chain reset", "width", width, "height", height)
	return nil
}

// Release destroys the intermediate buffers. Safe to call more than once.
func (c *Chain) Release() {
	c.released = true
	if c.read != nil {
		c.read.Destroy()
		c.read = nil
	}
	if c.write != nil {
		c.write.Destroy()
		c.write = nil
	}
}
