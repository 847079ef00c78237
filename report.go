package goids

import (
	"io"
	"math"
	"time"

	json "github.com/goccy/go-json"
)

// Status is the outcome of a specification or requirement.
type Status string

const (
	StatusPass          Status = "pass"
	StatusFail          Status = "fail"
	StatusNotApplicable Status = "not_applicable"
)

// Report is the result of one validation run. It is built fresh per run and
// never modified afterwards.
type Report struct {
	ID                   string                `json:"id"`
	Document             Info                  `json:"document"`
	ModelInfo            ModelInfo             `json:"modelInfo"`
	Timestamp            time.Time             `json:"timestamp"`
	Summary              Summary               `json:"summary"`
	SpecificationResults []SpecificationResult `json:"specificationResults"`
}

// Summary rolls up every specification result.
type Summary struct {
	TotalSpecifications         int     `json:"totalSpecifications"`
	PassedSpecifications        int     `json:"passedSpecifications"`
	FailedSpecifications        int     `json:"failedSpecifications"`
	NotApplicableSpecifications int     `json:"notApplicableSpecifications"`
	TotalEntitiesChecked        int     `json:"totalEntitiesChecked"`
	PassedEntities              int     `json:"passedEntities"`
	FailedEntities              int     `json:"failedEntities"`
	OverallPassRate             float64 `json:"overallPassRate"`
}

// SpecificationResult is the result subtree of one specification.
//
// ApplicableCount counts every applicable entity; CheckedCount, PassedCount and
// FailedCount only those actually checked (see Options.MaxEntities).
type SpecificationResult struct {
	Index           int                `json:"index"`
	Specification   Specification      `json:"specification"`
	Status          Status             `json:"status"`
	ApplicableCount int                `json:"applicableCount"`
	CheckedCount    int                `json:"checkedCount"`
	PassedCount     int                `json:"passedCount"`
	FailedCount     int                `json:"failedCount"`
	PassRate        float64            `json:"passRate"`
	EntityResults   []EntityResult     `json:"entityResults"`
	Cardinality     *CardinalityResult `json:"cardinalityResult,omitempty"`
}

// CardinalityResult compares the applicable count with minOccurs/maxOccurs.
type CardinalityResult struct {
	MinOccurs   int     `json:"minOccurs"`
	MaxOccurs   *Occurs `json:"maxOccurs,omitempty"`
	ActualCount int     `json:"actualCount"`
	Passed      bool    `json:"passed"`
	Message     string  `json:"message"`
}

// EntityResult holds the requirement results of one applicable entity.
type EntityResult struct {
	EntityID           EntityID            `json:"entityId"`
	ModelID            string              `json:"modelId"`
	EntityType         string              `json:"entityType"`
	EntityName         string              `json:"entityName,omitempty"`
	GlobalID           string              `json:"globalId,omitempty"`
	Passed             bool                `json:"passed"`
	RequirementResults []RequirementResult `json:"requirementResults"`
}

// RequirementResult is one requirement folded through its optionality.
type RequirementResult struct {
	Index              int            `json:"index"`
	Requirement        Requirement    `json:"requirement"`
	Status             Status         `json:"status"`
	FacetType          FacetType      `json:"facetType"`
	CheckedDescription string         `json:"checkedDescription"`
	FailureReason      string         `json:"failureReason,omitempty"`
	ActualValue        string         `json:"actualValue,omitempty"`
	ExpectedValue      string         `json:"expectedValue,omitempty"`
	Failure            *FailureDetail `json:"failure,omitempty"`
}

// Failed returns the specification results with status fail.
func (r *Report) Failed() []SpecificationResult {
	var out []SpecificationResult
	for _, sr := range r.SpecificationResults {
		if sr.Status == StatusFail {
			out = append(out, sr)
		}
	}
	return out
}

// Passed reports whether no specification failed.
func (r *Report) Passed() bool { return r.Summary.FailedSpecifications == 0 }

// WriteJSON encodes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func summarize(results []SpecificationResult) Summary {
	s := Summary{TotalSpecifications: len(results)}
	for _, sr := range results {
		switch sr.Status {
		case StatusPass:
			s.PassedSpecifications++
		case StatusFail:
			s.FailedSpecifications++
		case StatusNotApplicable:
			s.NotApplicableSpecifications++
		}
		s.TotalEntitiesChecked += sr.CheckedCount
		s.PassedEntities += sr.PassedCount
		s.FailedEntities += sr.FailedCount
	}
	s.OverallPassRate = passRate(s.PassedEntities, s.PassedEntities+s.FailedEntities, s.FailedSpecifications > 0)
	return s
}

// passRate returns passed/total as a percentage with two decimals. With no
// entities it is 0 when failed is set and 100 otherwise.
func passRate(passed, total int, failed bool) float64 {
	if total == 0 {
		if failed {
			return 0
		}
		return 100
	}
	return math.Round(float64(passed)*10000/float64(total)) / 100
}
