package goids

import (
	"slices"
	"strings"
)

// FacetResult is the outcome of checking one facet against one entity.
type FacetResult struct {
	Passed        bool
	ActualValue   string
	ExpectedValue string
	Failure       *FailureDetail
}

// Matcher evaluates a single facet against a single entity.
type Matcher interface {
	CheckFacet(f Facet, id EntityID, acc Accessor) (FacetResult, error)
}

// CandidateFilter is an optional Matcher capability that narrows the entities
// worth checking for a facet. Returning ok=false declines; an over-broad list
// only costs time because every candidate is still checked with CheckFacet.
type CandidateFilter interface {
	FilterByFacet(f Facet, acc Accessor) (ids []EntityID, ok bool, err error)
}

// DefaultMatcher implements Matcher and CandidateFilter on top of Accessor.
type DefaultMatcher struct{}

var (
	_ Matcher         = DefaultMatcher{}
	_ CandidateFilter = DefaultMatcher{}
)

// CheckFacet evaluates f for entity id.
func (DefaultMatcher) CheckFacet(f Facet, id EntityID, acc Accessor) (FacetResult, error) {
	c := &facetCheck{id: id, acc: acc}
	f.Accept(c)
	return c.res, c.err
}

// FilterByFacet answers entity facets naming concrete classes through the
// accessor's TypeIndex, when it has one.
func (DefaultMatcher) FilterByFacet(f Facet, acc Accessor) ([]EntityID, bool, error) {
	ti, ok := acc.(TypeIndex)
	if !ok {
		return nil, false, nil
	}
	ef, ok := f.(*EntityFacet)
	if !ok {
		return nil, false, nil
	}
	var names []string
	switch c := ef.Name.(type) {
	case SimpleValue:
		names = []string{c.Value}
	case Enumeration:
		names = c.Values
	default:
		return nil, false, nil
	}
	seen := make(map[EntityID]struct{})
	var out []EntityID
	for _, n := range names {
		ids, err := ti.EntityIDsByType(strings.ToUpper(n))
		if err != nil {
			return nil, false, err
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out, true, nil
}

// facetCheck is the FacetVisitor behind DefaultMatcher.CheckFacet.
type facetCheck struct {
	id  EntityID
	acc Accessor
	res FacetResult
	err error
}

func (c *facetCheck) pass(actual, expected string) {
	c.res = FacetResult{Passed: true, ActualValue: actual, ExpectedValue: expected}
}

func (c *facetCheck) fail(code FailureCode, field, actual, expected string) {
	c.res = FacetResult{
		ActualValue:   actual,
		ExpectedValue: expected,
		Failure:       &FailureDetail{Code: code, Field: field, Actual: actual, Expected: expected},
	}
}

func (c *facetCheck) VisitEntity(f *EntityFacet) {
	typ, err := c.acc.EntityType(c.id)
	if err != nil {
		c.err = err
		return
	}
	expected := ConstraintString(f.Name)
	if f.Name != nil && !matchFold(f.Name, typ) {
		c.fail(CodeEntityTypeMismatch, "name", typ, expected)
		return
	}
	if f.PredefinedType == nil {
		c.pass(typ, expected)
		return
	}
	want := ConstraintString(f.PredefinedType)
	pt, ok, err := c.acc.PredefinedType(c.id)
	if err != nil {
		c.err = err
		return
	}
	if !ok || pt == "" {
		c.fail(CodePredefinedTypeMissing, "predefinedType", "", want)
		return
	}
	if !matchFold(f.PredefinedType, pt) {
		c.fail(CodePredefinedTypeMismatch, "predefinedType", pt, want)
		return
	}
	c.pass(typ+"."+pt, expected+"."+want)
}

func (c *facetCheck) VisitAttribute(f *AttributeFacet) {
	field := ConstraintString(f.Name)
	expected := ConstraintString(f.Value)
	var names []string
	if sv, ok := f.Name.(SimpleValue); ok {
		names = []string{sv.Value}
	} else {
		all, err := c.acc.AttributeNames(c.id)
		if err != nil {
			c.err = err
			return
		}
		for _, n := range all {
			if f.Name == nil || f.Name.Match(n) {
				names = append(names, n)
			}
		}
	}
	var mismatch string
	found := false
	for _, n := range names {
		v, ok, err := c.acc.Attribute(c.id, n)
		if err != nil {
			c.err = err
			return
		}
		if !ok || v == "" {
			continue
		}
		if f.Value == nil || f.Value.Match(v) {
			c.pass(v, expected)
			return
		}
		if !found {
			mismatch = v
		}
		found = true
	}
	switch {
	case !found:
		c.fail(CodeAttributeMissing, field, "", expected)
	case f.Value.Kind() == KindPattern:
		c.fail(CodeAttributePatternMismatch, field, mismatch, expected)
	default:
		c.fail(CodeAttributeValueMismatch, field, mismatch, expected)
	}
}

func (c *facetCheck) VisitProperty(f *PropertyFacet) {
	psetName := ConstraintString(f.PropertySet)
	baseName := ConstraintString(f.BaseName)
	field := psetName + "." + baseName
	expected := ConstraintString(f.Value)
	sets, err := c.acc.PropertySets(c.id)
	if err != nil {
		c.err = err
		return
	}
	var props []Property
	setFound := false
	for _, ps := range sets {
		if f.PropertySet != nil && !f.PropertySet.Match(ps.Name) {
			continue
		}
		setFound = true
		for _, p := range ps.Properties {
			if f.BaseName != nil && !f.BaseName.Match(p.Name) {
				continue
			}
			if p.Value == "" {
				continue
			}
			props = append(props, p)
		}
	}
	if !setFound {
		c.fail(CodePropertySetMissing, psetName, "", psetName)
		return
	}
	if len(props) == 0 {
		c.fail(CodePropertyMissing, field, "", expected)
		return
	}
	var first *FailureDetail
	for _, p := range props {
		var code FailureCode
		switch {
		case f.DataType != "" && !strings.EqualFold(p.DataType, f.DataType):
			code = CodePropertyDataTypeMismatch
		case f.Value != nil && !f.Value.Match(p.Value):
			code = CodePropertyValueMismatch
			if f.Value.Kind() == KindBounds {
				code = CodePropertyOutOfRange
			}
		default:
			c.pass(p.Value, expected)
			return
		}
		if first == nil {
			if code == CodePropertyDataTypeMismatch {
				first = &FailureDetail{Code: code, Field: field, Actual: p.DataType, Expected: f.DataType}
			} else {
				first = &FailureDetail{Code: code, Field: field, Actual: p.Value, Expected: expected}
			}
		}
	}
	c.fail(first.Code, first.Field, first.Actual, first.Expected)
}

func (c *facetCheck) VisitClassification(f *ClassificationFacet) {
	refs, err := c.acc.Classifications(c.id)
	if err != nil {
		c.err = err
		return
	}
	wantSystem := ConstraintString(f.System)
	wantValue := ConstraintString(f.Value)
	if len(refs) == 0 {
		c.fail(CodeClassificationMissing, "classification", "", joinNonEmpty(wantSystem, wantValue))
		return
	}
	if f.System != nil {
		var kept []ClassificationRef
		for _, r := range refs {
			if f.System.Match(r.System) {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			c.fail(CodeClassificationSystemMismatch, "system", joinRefs(refs, func(r ClassificationRef) string { return r.System }), wantSystem)
			return
		}
		refs = kept
	}
	if f.Value != nil {
		for _, r := range refs {
			if f.Value.Match(r.Value) {
				c.pass(joinNonEmpty(r.System, r.Value), joinNonEmpty(wantSystem, wantValue))
				return
			}
		}
		c.fail(CodeClassificationValueMismatch, "value", joinRefs(refs, func(r ClassificationRef) string { return r.Value }), wantValue)
		return
	}
	c.pass(joinNonEmpty(refs[0].System, refs[0].Value), joinNonEmpty(wantSystem, wantValue))
}

func (c *facetCheck) VisitMaterial(f *MaterialFacet) {
	mats, err := c.acc.Materials(c.id)
	if err != nil {
		c.err = err
		return
	}
	expected := ConstraintString(f.Value)
	if len(mats) == 0 {
		c.fail(CodeMaterialMissing, "material", "", expected)
		return
	}
	if f.Value == nil {
		c.pass(mats[0], expected)
		return
	}
	for _, m := range mats {
		if f.Value.Match(m) {
			c.pass(m, expected)
			return
		}
	}
	c.fail(CodeMaterialValueMismatch, "material", strings.Join(mats, ", "), expected)
}

func (c *facetCheck) VisitPartOf(f *PartOfFacet) {
	ancestors, err := c.ancestors(f.Relation)
	if err != nil {
		c.err = err
		return
	}
	expected := string(f.Relation)
	if f.Entity != nil {
		expected = ConstraintString(f.Entity.Name)
	}
	if len(ancestors) == 0 {
		c.fail(CodePartOfRelationMissing, string(f.Relation), "", expected)
		return
	}
	var seenTypes []string
	for _, a := range ancestors {
		sub := &facetCheck{id: a, acc: c.acc}
		if f.Entity == nil {
			sub.VisitEntity(&EntityFacet{})
		} else {
			sub.VisitEntity(f.Entity)
		}
		if sub.err != nil {
			c.err = sub.err
			return
		}
		if sub.res.Passed {
			c.pass(sub.res.ActualValue, expected)
			return
		}
		seenTypes = append(seenTypes, sub.res.ActualValue)
	}
	c.fail(CodePartOfEntityMismatch, string(f.Relation), strings.Join(seenTypes, ", "), expected)
}

// ancestors walks parents through rel breadth first, nearest first. Cycles in
// the model are tolerated.
func (c *facetCheck) ancestors(rel Relation) ([]EntityID, error) {
	visited := map[EntityID]bool{c.id: true}
	queue := []EntityID{c.id}
	var out []EntityID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		parents, err := c.acc.Parents(cur, rel)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			if visited[p] {
				continue
			}
			visited[p] = true
			out = append(out, p)
			queue = append(queue, p)
		}
	}
	return out, nil
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + ":" + b
}

func joinRefs(refs []ClassificationRef, pick func(ClassificationRef) string) string {
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		if v := pick(r); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
