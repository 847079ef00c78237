package goids

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
)

// checkpointEvery is the number of entities between progress checkpoints.
const checkpointEvery = 100

// run holds the state shared by the specifications of one validation.
// Everything except the progress mutex is read-only once built.
type run struct {
	doc   *Document
	acc   Accessor
	model ModelInfo
	opts  Options
	desc  describer

	mu sync.Mutex
}

func newRun(doc *Document, acc Accessor, model ModelInfo, opts Options) *run {
	return &run{doc: doc, acc: acc, model: model, opts: opts, desc: describer{tr: opts.Translator}}
}

func (r *run) evaluate(ctx context.Context, idx int) (SpecificationResult, error) {
	spec := &r.doc.Specifications[idx]
	if err := ctx.Err(); err != nil {
		return SpecificationResult{}, err
	}
	r.progress(PhaseFiltering, idx, 0, 0)

	applicable, err := r.applicable(spec)
	if err != nil {
		return SpecificationResult{}, fmt.Errorf("specification %q: applicability: %w", spec.Name, err)
	}
	checked := applicable
	if r.opts.MaxEntities > 0 && len(checked) > r.opts.MaxEntities {
		checked = checked[:r.opts.MaxEntities]
	}

	sr := SpecificationResult{
		Index:           idx,
		Specification:   *spec,
		ApplicableCount: len(applicable),
		CheckedCount:    len(checked),
		EntityResults:   []EntityResult{},
	}
	for n, id := range checked {
		if n%checkpointEvery == 0 {
			if err := ctx.Err(); err != nil {
				return SpecificationResult{}, err
			}
			r.progress(PhaseValidating, idx, n, len(checked))
		}
		er, err := r.checkEntity(spec, id)
		if err != nil {
			return SpecificationResult{}, fmt.Errorf("specification %q: entity %d: %w", spec.Name, id, err)
		}
		if er.Passed {
			sr.PassedCount++
			if r.opts.OmitPassingEntities {
				continue
			}
		} else {
			sr.FailedCount++
		}
		sr.EntityResults = append(sr.EntityResults, er)
	}
	r.progress(PhaseValidating, idx, len(checked), len(checked))

	sr.Cardinality = r.cardinality(spec, len(applicable))
	switch {
	case sr.FailedCount > 0 || (sr.Cardinality != nil && !sr.Cardinality.Passed):
		sr.Status = StatusFail
	case len(applicable) == 0:
		sr.Status = StatusNotApplicable
	default:
		sr.Status = StatusPass
	}
	sr.PassRate = passRate(sr.PassedCount, sr.CheckedCount, sr.Status == StatusFail)

	r.opts.Logger.Debug("specification evaluated",
		slog.Int("index", idx),
		slog.String("name", spec.Name),
		slog.Int("applicable", sr.ApplicableCount),
		slog.Int("passed", sr.PassedCount),
		slog.Int("failed", sr.FailedCount),
		slog.String("status", string(sr.Status)))
	return sr, nil
}

// applicable resolves the entities every applicability facet holds for. The
// first facet the matcher can filter on seeds the candidates.
func (r *run) applicable(spec *Specification) ([]EntityID, error) {
	var (
		candidates []EntityID
		seeded     bool
	)
	if cf, ok := r.opts.Matcher.(CandidateFilter); ok {
		for _, f := range spec.Applicability {
			ids, ok, err := cf.FilterByFacet(f, r.acc)
			if err != nil {
				return nil, err
			}
			if ok {
				candidates, seeded = ids, true
				break
			}
		}
	}
	if !seeded {
		ids, err := r.acc.EntityIDs()
		if err != nil {
			return nil, err
		}
		candidates = ids
	}
	out := make([]EntityID, 0, len(candidates))
	for _, id := range candidates {
		ok := true
		for _, f := range spec.Applicability {
			res, err := r.opts.Matcher.CheckFacet(f, id, r.acc)
			if err != nil {
				return nil, err
			}
			if !res.Passed {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *run) checkEntity(spec *Specification, id EntityID) (EntityResult, error) {
	typ, err := r.acc.EntityType(id)
	if err != nil {
		return EntityResult{}, err
	}
	name, _, err := r.acc.EntityName(id)
	if err != nil {
		return EntityResult{}, err
	}
	guid, _, err := r.acc.GlobalID(id)
	if err != nil {
		return EntityResult{}, err
	}
	er := EntityResult{
		EntityID:           id,
		ModelID:            r.model.ID,
		EntityType:         typ,
		EntityName:         name,
		GlobalID:           guid,
		Passed:             true,
		RequirementResults: make([]RequirementResult, 0, len(spec.Requirements)),
	}
	for i, req := range spec.Requirements {
		res, err := r.opts.Matcher.CheckFacet(req.Facet, id, r.acc)
		if err != nil {
			return EntityResult{}, fmt.Errorf("requirement %d (%s): %w", i, req.Facet.Type(), err)
		}
		rr := r.fold(i, req, res)
		if rr.Status == StatusFail {
			er.Passed = false
		}
		er.RequirementResults = append(er.RequirementResults, rr)
	}
	return er, nil
}

// fold reinterprets a facet outcome through the requirement's optionality:
// required keeps it, optional always passes, prohibited inverts it.
func (r *run) fold(idx int, req Requirement, res FacetResult) RequirementResult {
	rr := RequirementResult{
		Index:              idx,
		Requirement:        req,
		Status:             StatusPass,
		FacetType:          req.Facet.Type(),
		CheckedDescription: r.desc.requirement(req),
		ActualValue:        res.ActualValue,
		ExpectedValue:      res.ExpectedValue,
	}
	switch req.Optionality {
	case Optional:
		return rr
	case Prohibited:
		if !res.Passed {
			return rr
		}
		rr.Failure = &FailureDetail{Code: CodeProhibitedPresent, Actual: res.ActualValue, Expected: res.ExpectedValue}
	default:
		if res.Passed {
			return rr
		}
		rr.Failure = res.Failure
		if rr.Failure == nil {
			rr.Failure = &FailureDetail{Actual: res.ActualValue, Expected: res.ExpectedValue}
		}
	}
	rr.Status = StatusFail
	rr.FailureReason = r.desc.failure(FailureContext{
		Code:        rr.Failure.Code,
		FacetType:   rr.FacetType,
		Optionality: req.Optionality,
		Field:       rr.Failure.Field,
		Actual:      rr.Failure.Actual,
		Expected:    rr.Failure.Expected,
		Requirement: req,
	})
	return rr
}

func (r *run) cardinality(spec *Specification, count int) *CardinalityResult {
	if !spec.HasCardinality() {
		return nil
	}
	lo := 0
	if spec.MinOccurs != nil {
		lo = *spec.MinOccurs
	}
	cr := &CardinalityResult{MinOccurs: lo, MaxOccurs: spec.MaxOccurs, ActualCount: count, Passed: true}
	hi := "unbounded"
	if spec.MaxOccurs != nil {
		hi = spec.MaxOccurs.String()
	}
	params := map[string]string{"min": strconv.Itoa(lo), "max": hi, "actual": strconv.Itoa(count)}
	switch {
	case count < lo:
		cr.Passed = false
		cr.Message = r.desc.translate("cardinality.too_few", params, "Expected at least {min} applicable entities, found {actual}")
	case spec.MaxOccurs != nil && !spec.MaxOccurs.Unbounded && count > spec.MaxOccurs.Value:
		cr.Passed = false
		cr.Message = r.desc.translate("cardinality.too_many", params, "Expected at most {max} applicable entities, found {actual}")
	default:
		cr.Message = r.desc.translate("cardinality.ok", params, "Found {actual} applicable entities (allowed {min}..{max})")
	}
	return cr
}

func (r *run) progress(phase Phase, idx, done, total int) {
	if r.opts.OnProgress == nil {
		return
	}
	n := len(r.doc.Specifications)
	frac := 0.0
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	pct := 100.0
	if n > 0 {
		pct = (float64(idx) + frac) / float64(n) * 100
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.OnProgress(Progress{
		Phase:             phase,
		SpecIndex:         idx,
		TotalSpecs:        n,
		EntitiesProcessed: done,
		TotalEntities:     total,
		Percentage:        pct,
	})
}

func (r *run) complete() {
	if r.opts.OnProgress == nil {
		return
	}
	n := len(r.doc.Specifications)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.OnProgress(Progress{Phase: PhaseComplete, SpecIndex: n, TotalSpecs: n, Percentage: 100})
}
