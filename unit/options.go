package unit

import (
	"log/slog"

	"github.com/gocc-mid/cgraph/front"
)

// Option configures a Context at construction time (teacher's
// GraphOption/BuilderOption functional-options pattern).
type Option func(*Context)

// WithLogger overrides the default slog.Default() logger used for
// diagnostic announcements.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.log = l }
}

// WithUnitAtATime selects whole-unit (true, the default) vs. streaming
// (false) mode. Mixed-mode operation within the lifetime of one Context is
// not a supported configuration, so this only takes effect at
// construction time.
func WithUnitAtATime(enabled bool) Option {
	return func(c *Context) { c.unitAtATime = enabled }
}

// WithWholeProgram selects whole-program mode for the visibility resolver
// Optimize runs.
func WithWholeProgram(enabled bool) Option {
	return func(c *Context) { c.wholeProgram = enabled }
}

// WithDiagnostics supplies the front end's error/sorry counters, consulted
// by FinalizeCompilationUnit to decide whether to skip finalization.
func WithDiagnostics(d front.Diagnostics) Option {
	return func(c *Context) { c.diags = d }
}

// WithNativeCdtorSections tells the ctor/dtor synthesizer whether the
// target supports native ctor/dtor linker sections.
func WithNativeCdtorSections(supported bool) Option {
	return func(c *Context) { c.nativeCdtorSections = supported }
}
