// Package options carries the per-call settings of record construction.
package options

import (
	"log/slog"
	"time"

	"recordkit/primitive"
)

// Options holds the resolved construction settings.
type Options struct {
	// Clock is read once per factory default (e.g. a creation timestamp).
	Clock func() time.Time
	// Logger receives silent repairs; nil keeps them unreported.
	Logger *slog.Logger
	// Coercion overrides the schema coercion categories when CoercionSet is true.
	Coercion    primitive.CategoryEnum
	CoercionSet bool
}

// Option mutates Options.
type Option func(*Options)

// WithClock replaces time.Now as the source of factory timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		if clock != nil {
			o.Clock = clock
		}
	}
}

// WithRepairLogger opts in to reporting every value that was replaced by its default.
func WithRepairLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithCoercion overrides the conversions a schema accepts for this call only.
// Field level coercion declarations still take precedence.
func WithCoercion(allowed primitive.CategoryEnum) Option {
	return func(o *Options) {
		o.Coercion = allowed
		o.CoercionSet = true
	}
}

// Apply resolves the options over the defaults.
func Apply(opts ...Option) Options {
	o := Options{Clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// Now reads the configured clock.
func (o Options) Now() time.Time {
	if o.Clock == nil {
		return time.Now()
	}

	return o.Clock()
}
