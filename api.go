package goids

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Validate checks the model behind acc against every specification of doc and
// returns the complete report.
//
// Specifications are independent: each reads acc and produces its own result
// subtree. With Options.Concurrency > 1 they are evaluated in parallel and the
// results keep document order. An error returned by acc aborts the run and is
// returned wrapped with the failing specification's name; requirement
// failures are never errors.
//
// ctx is consulted at progress checkpoints only (between specifications and
// every few entities), so work up to the next checkpoint still completes after
// cancellation.
func Validate(ctx context.Context, doc *Document, acc Accessor, model ModelInfo, opts ...Option) (*Report, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if acc == nil {
		return nil, ErrNilAccessor
	}
	r := newRun(doc, acc, model, buildOptions(opts))

	var results []SpecificationResult
	if r.opts.Concurrency > 1 && len(doc.Specifications) > 1 {
		var err error
		if results, err = r.parallel(ctx); err != nil {
			return nil, err
		}
	} else {
		results = make([]SpecificationResult, 0, len(doc.Specifications))
		for sr, err := range r.sequence(ctx) {
			if err != nil {
				return nil, err
			}
			results = append(results, sr)
		}
	}
	r.complete()
	return BuildReport(doc, model, results, r.opts.Now()), nil
}

// Specifications is the cooperative form of Validate: it yields one result per
// specification in document order and evaluates the next one only when the
// caller asks for it. Breaking out of the loop stops the run. After an error
// is yielded the sequence ends.
//
// Options.Concurrency is ignored. BuildReport assembles the collected results
// into a Report.
func Specifications(ctx context.Context, doc *Document, acc Accessor, model ModelInfo, opts ...Option) iter.Seq2[SpecificationResult, error] {
	return func(yield func(SpecificationResult, error) bool) {
		switch {
		case doc == nil:
			yield(SpecificationResult{}, ErrNilDocument)
			return
		case acc == nil:
			yield(SpecificationResult{}, ErrNilAccessor)
			return
		}
		r := newRun(doc, acc, model, buildOptions(opts))
		for sr, err := range r.sequence(ctx) {
			if !yield(sr, err) || err != nil {
				return
			}
		}
		r.complete()
	}
}

// BuildReport assembles specification results into a Report stamped with now.
// The report id is derived from the document title, the model id and the
// timestamp, so equal inputs yield equal reports. A nil doc yields an empty
// Document header.
func BuildReport(doc *Document, model ModelInfo, results []SpecificationResult, now time.Time) *Report {
	ts := now.UTC()
	if results == nil {
		results = []SpecificationResult{}
	}
	var info Info
	if doc != nil {
		info = doc.Info
	}
	return &Report{
		ID:                   reportID(info.Title, model.ID, ts),
		Document:             info,
		ModelInfo:            model,
		Timestamp:            ts,
		Summary:              summarize(results),
		SpecificationResults: results,
	}
}

func reportID(title, modelID string, ts time.Time) string {
	name := "goids:" + title + "\x00" + modelID + "\x00" + ts.Format(time.RFC3339Nano)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func (r *run) sequence(ctx context.Context) iter.Seq2[SpecificationResult, error] {
	return func(yield func(SpecificationResult, error) bool) {
		for i := range r.doc.Specifications {
			sr, err := r.evaluate(ctx, i)
			if !yield(sr, err) || err != nil {
				return
			}
		}
	}
}

func (r *run) parallel(ctx context.Context) ([]SpecificationResult, error) {
	results := make([]SpecificationResult, len(r.doc.Specifications))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i := range r.doc.Specifications {
		g.Go(func() error {
			sr, err := r.evaluate(gctx, i)
			if err != nil {
				return err
			}
			results[i] = sr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
