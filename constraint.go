package goids

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// ConstraintKind names the variant of a Constraint.
type ConstraintKind string

const (
	KindSimpleValue ConstraintKind = "simpleValue"
	KindPattern     ConstraintKind = "pattern"
	KindEnumeration ConstraintKind = "enumeration"
	KindBounds      ConstraintKind = "bounds"
)

// Constraint is a value-matching rule attached to a facet field.
//
// The set of implementations is closed: SimpleValue, Pattern, Enumeration and
// Bounds. Code that needs to handle every variant implements ConstraintVisitor
// so that a new variant fails to compile until it is handled everywhere.
type Constraint interface {
	// Match reports whether the actual value satisfies the constraint.
	Match(actual string) bool
	// Kind returns the variant name.
	Kind() ConstraintKind
	// Accept dispatches to the visitor method for the concrete variant.
	Accept(v ConstraintVisitor)

	isConstraint()
}

// ConstraintVisitor has one method per Constraint variant.
type ConstraintVisitor interface {
	VisitSimpleValue(c SimpleValue)
	VisitPattern(c Pattern)
	VisitEnumeration(c Enumeration)
	VisitBounds(c Bounds)
}

// SimpleValue matches by exact string equality.
type SimpleValue struct {
	Value string
}

func (c SimpleValue) Match(actual string) bool   { return actual == c.Value }
func (SimpleValue) Kind() ConstraintKind         { return KindSimpleValue }
func (c SimpleValue) Accept(v ConstraintVisitor) { v.VisitSimpleValue(c) }
func (SimpleValue) isConstraint()                {}

func (c SimpleValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  ConstraintKind `json:"kind"`
		Value string         `json:"value"`
	}{KindSimpleValue, c.Value})
}

// Pattern matches when the whole actual value matches the regular expression.
// Patterns that fail to compile never match.
type Pattern struct {
	Pattern string
}

func (c Pattern) Match(actual string) bool {
	re := compilePattern(c.Pattern)
	if re == nil {
		return false
	}
	return re.MatchString(actual)
}
func (Pattern) Kind() ConstraintKind         { return KindPattern }
func (c Pattern) Accept(v ConstraintVisitor) { v.VisitPattern(c) }
func (Pattern) isConstraint()                {}

// Valid reports whether the pattern compiles.
func (c Pattern) Valid() bool { return compilePattern(c.Pattern) != nil }

func (c Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    ConstraintKind `json:"kind"`
		Pattern string         `json:"pattern"`
	}{KindPattern, c.Pattern})
}

// Enumeration matches when the actual value equals one of Values.
type Enumeration struct {
	Values []string
}

func (c Enumeration) Match(actual string) bool {
	for _, v := range c.Values {
		if v == actual {
			return true
		}
	}
	return false
}
func (Enumeration) Kind() ConstraintKind         { return KindEnumeration }
func (c Enumeration) Accept(v ConstraintVisitor) { v.VisitEnumeration(c) }
func (Enumeration) isConstraint()                {}

func (c Enumeration) MarshalJSON() ([]byte, error) {
	vals := c.Values
	if vals == nil {
		vals = []string{}
	}
	return json.Marshal(struct {
		Kind   ConstraintKind `json:"kind"`
		Values []string       `json:"values"`
	}{KindEnumeration, vals})
}

// Bounds matches numeric values against every bound that is set. A missing
// bound is vacuously satisfied; a non-numeric actual value never matches.
type Bounds struct {
	MinInclusive *float64
	MaxInclusive *float64
	MinExclusive *float64
	MaxExclusive *float64
}

func (c Bounds) Match(actual string) bool {
	n, ok := parseNumber(actual)
	if !ok {
		return false
	}
	if c.MinInclusive != nil && n < *c.MinInclusive {
		return false
	}
	if c.MaxInclusive != nil && n > *c.MaxInclusive {
		return false
	}
	if c.MinExclusive != nil && n <= *c.MinExclusive {
		return false
	}
	if c.MaxExclusive != nil && n >= *c.MaxExclusive {
		return false
	}
	return true
}
func (Bounds) Kind() ConstraintKind         { return KindBounds }
func (c Bounds) Accept(v ConstraintVisitor) { v.VisitBounds(c) }
func (Bounds) isConstraint()                {}

// Empty reports whether no bound is set.
func (c Bounds) Empty() bool {
	return c.MinInclusive == nil && c.MaxInclusive == nil && c.MinExclusive == nil && c.MaxExclusive == nil
}

func (c Bounds) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind         ConstraintKind `json:"kind"`
		MinInclusive *float64       `json:"minInclusive,omitempty"`
		MaxInclusive *float64       `json:"maxInclusive,omitempty"`
		MinExclusive *float64       `json:"minExclusive,omitempty"`
		MaxExclusive *float64       `json:"maxExclusive,omitempty"`
	}{KindBounds, c.MinInclusive, c.MaxInclusive, c.MinExclusive, c.MaxExclusive})
}

// matchFold matches like c.Match but ignores letter case. It is used for IFC
// class names and predefined types, which models spell in mixed case.
func matchFold(c Constraint, actual string) bool {
	switch t := c.(type) {
	case SimpleValue:
		return strings.EqualFold(t.Value, actual)
	case Enumeration:
		for _, v := range t.Values {
			if strings.EqualFold(v, actual) {
				return true
			}
		}
		return false
	case Pattern:
		return t.Match(actual) || t.Match(strings.ToUpper(actual))
	}
	return c.Match(actual)
}

// constraintText renders a constraint as the "expected" text of a result.
type constraintText struct{ s string }

func (t *constraintText) VisitSimpleValue(c SimpleValue) { t.s = c.Value }
func (t *constraintText) VisitPattern(c Pattern)         { t.s = "pattern " + c.Pattern }
func (t *constraintText) VisitEnumeration(c Enumeration) {
	t.s = "one of [" + strings.Join(c.Values, ", ") + "]"
}
func (t *constraintText) VisitBounds(c Bounds) {
	var parts []string
	if c.MinInclusive != nil {
		parts = append(parts, ">= "+formatNumber(*c.MinInclusive))
	}
	if c.MinExclusive != nil {
		parts = append(parts, "> "+formatNumber(*c.MinExclusive))
	}
	if c.MaxInclusive != nil {
		parts = append(parts, "<= "+formatNumber(*c.MaxInclusive))
	}
	if c.MaxExclusive != nil {
		parts = append(parts, "< "+formatNumber(*c.MaxExclusive))
	}
	t.s = strings.Join(parts, " and ")
}

// ConstraintString returns a short human readable rendering of c. A nil
// constraint renders as the empty string.
func ConstraintString(c Constraint) string {
	if c == nil {
		return ""
	}
	var t constraintText
	c.Accept(&t)
	return t.s
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

var patternCache sync.Map // string -> *regexp.Regexp (nil when invalid)

func compilePattern(p string) *regexp.Regexp {
	if v, ok := patternCache.Load(p); ok {
		re, _ := v.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile(`^(?:` + p + `)$`)
	if err != nil {
		re = nil
	}
	patternCache.Store(p, re)
	return re
}
