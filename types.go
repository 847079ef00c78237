package goids

import (
	"log/slog"
	"time"
)

// Phase is a step of a validation run reported through Options.OnProgress.
type Phase string

const (
	PhaseFiltering  Phase = "filtering"  // Resolving applicable entities.
	PhaseValidating Phase = "validating" // Checking requirements per entity.
	PhaseComplete   Phase = "complete"   // All specifications evaluated.
)

// Progress is a progress notification.
//
// Percentage is an estimate: (completed specifications + fraction of the
// current one) / total specifications * 100. It is advisory only and is not
// guaranteed to be monotonic when MaxEntities truncates a specification.
type Progress struct {
	Phase             Phase
	SpecIndex         int
	TotalSpecs        int
	EntitiesProcessed int
	TotalEntities     int
	Percentage        float64
}

// Options configures a validation run. The zero value is usable.
type Options struct {
	// Translator localizes descriptions; nil uses built-in English templates.
	Translator Translator
	// OnProgress receives progress notifications. Calls are serialized.
	OnProgress func(Progress)
	// MaxEntities checks at most this many applicable entities per
	// specification (0 = all). ApplicableCount is not affected.
	MaxEntities int
	// OmitPassingEntities drops passing entities from EntityResults. Counts
	// are not affected.
	OmitPassingEntities bool
	// Matcher evaluates facets; nil uses DefaultMatcher.
	Matcher Matcher
	// Concurrency > 1 evaluates that many specifications in parallel. The
	// Accessor must then tolerate concurrent reads.
	Concurrency int
	// Now stamps the report; nil uses time.Now.
	Now func() time.Time
	// Logger receives debug output; nil discards.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithTranslator localizes descriptions and messages through t.
func WithTranslator(t Translator) Option { return func(o *Options) { o.Translator = t } }

// WithProgress registers a progress callback.
func WithProgress(fn func(Progress)) Option { return func(o *Options) { o.OnProgress = fn } }

// WithMaxEntities checks at most n applicable entities per specification.
// n <= 0 checks all of them.
func WithMaxEntities(n int) Option { return func(o *Options) { o.MaxEntities = n } }

// WithOmitPassingEntities leaves passing entities out of EntityResults.
func WithOmitPassingEntities(omit bool) Option {
	return func(o *Options) { o.OmitPassingEntities = omit }
}

// WithMatcher replaces DefaultMatcher.
func WithMatcher(m Matcher) Option { return func(o *Options) { o.Matcher = m } }

// WithConcurrency evaluates up to n specifications in parallel.
func WithConcurrency(n int) Option { return func(o *Options) { o.Concurrency = n } }

// WithClock sets the function that stamps the report.
func WithClock(now func() time.Time) Option { return func(o *Options) { o.Now = now } }

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithOptions replaces every option set so far with opts.
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }

func buildOptions(opts []Option) Options {
	var o Options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.Matcher == nil {
		o.Matcher = DefaultMatcher{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.MaxEntities < 0 {
		o.MaxEntities = 0
	}
	return o
}
