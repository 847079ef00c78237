package goids

import (
	"strings"
)

// Translator localizes report text. Every method may return "" to fall back
// to the built-in English templates.
type Translator interface {
	// Translate returns the message for key with {name} placeholders filled
	// from params.
	Translate(key string, params map[string]string) string
	DescribeRequirement(r Requirement) string
	DescribeFailure(fc FailureContext) string
}

// FailureContext carries everything needed to phrase a failed requirement.
type FailureContext struct {
	Code        FailureCode
	FacetType   FacetType
	Optionality Optionality
	Field       string
	Actual      string
	Expected    string
	Requirement Requirement
}

// Params flattens the context into template parameters.
func (fc FailureContext) Params() map[string]string {
	return map[string]string{
		"code":        string(fc.Code),
		"facet":       string(fc.FacetType),
		"optionality": string(fc.Optionality),
		"field":       fc.Field,
		"actual":      orNone(fc.Actual),
		"expected":    orNone(fc.Expected),
		"requirement": DescribeRequirement(fc.Requirement),
	}
}

var failureTemplates = map[FailureCode]string{
	CodeEntityTypeMismatch:           "Entity type is {actual}, expected {expected}",
	CodePredefinedTypeMissing:        "Predefined type is missing, expected {expected}",
	CodePredefinedTypeMismatch:       "Predefined type is {actual}, expected {expected}",
	CodeAttributeMissing:             "Attribute {field} is missing or empty",
	CodeAttributeValueMismatch:       "Attribute {field} is {actual}, expected {expected}",
	CodeAttributePatternMismatch:     "Attribute {field} value {actual} does not match {expected}",
	CodePropertySetMissing:           "Property set {field} is missing",
	CodePropertyMissing:              "Property {field} is missing or empty",
	CodePropertyValueMismatch:        "Property {field} is {actual}, expected {expected}",
	CodePropertyDataTypeMismatch:     "Property {field} has data type {actual}, expected {expected}",
	CodePropertyOutOfRange:           "Property {field} value {actual} is outside {expected}",
	CodeClassificationMissing:        "No classification assigned",
	CodeClassificationSystemMismatch: "Classification system is {actual}, expected {expected}",
	CodeClassificationValueMismatch:  "Classification reference is {actual}, expected {expected}",
	CodeMaterialMissing:              "No material assigned",
	CodeMaterialValueMismatch:        "Material is {actual}, expected {expected}",
	CodePartOfRelationMissing:        "Entity is not related through {field}",
	CodePartOfEntityMismatch:         "Entity is part of {actual}, expected {expected}",
	CodeProhibitedPresent:            "Prohibited: {requirement}",
}

// FailureTemplate returns the built-in template for code.
func FailureTemplate(code FailureCode) string {
	if t, ok := failureTemplates[code]; ok {
		return t
	}
	return "Requirement not met: {requirement}"
}

// DescribeFailure renders fc with the built-in template.
func DescribeFailure(fc FailureContext) string {
	return Expand(FailureTemplate(fc.Code), fc.Params())
}

// DescribeRequirement renders r with the built-in templates, e.g.
// "Must have property Pset_WallCommon.FireRating".
func DescribeRequirement(r Requirement) string {
	if r.Facet == nil {
		return ""
	}
	d := &requirementText{}
	r.Facet.Accept(d)
	return optionalityVerb(r.Optionality) + " " + d.s
}

// DescribeFacet renders f without an optionality verb, e.g. "be an IFCWALL".
func DescribeFacet(f Facet) string {
	d := &requirementText{}
	f.Accept(d)
	return d.s
}

func optionalityVerb(o Optionality) string {
	switch o {
	case Optional:
		return "Should"
	case Prohibited:
		return "Must not"
	}
	return "Must"
}

type requirementText struct{ s string }

func (d *requirementText) VisitEntity(f *EntityFacet) {
	d.s = "be " + article(ConstraintString(f.Name))
	if f.PredefinedType != nil {
		d.s += " of predefined type " + ConstraintString(f.PredefinedType)
	}
}

func (d *requirementText) VisitAttribute(f *AttributeFacet) {
	d.s = "have attribute " + ConstraintString(f.Name)
	if f.Value != nil {
		d.s += " = " + ConstraintString(f.Value)
	}
}

func (d *requirementText) VisitProperty(f *PropertyFacet) {
	d.s = "have property " + ConstraintString(f.PropertySet) + "." + ConstraintString(f.BaseName)
	if f.Value != nil {
		d.s += " = " + ConstraintString(f.Value)
	}
	if f.DataType != "" {
		d.s += " (" + f.DataType + ")"
	}
}

func (d *requirementText) VisitClassification(f *ClassificationFacet) {
	d.s = "be classified"
	if f.System != nil {
		d.s += " in " + ConstraintString(f.System)
	}
	if f.Value != nil {
		d.s += " as " + ConstraintString(f.Value)
	}
}

func (d *requirementText) VisitMaterial(f *MaterialFacet) {
	d.s = "have a material"
	if f.Value != nil {
		d.s += " " + ConstraintString(f.Value)
	}
}

func (d *requirementText) VisitPartOf(f *PartOfFacet) {
	d.s = "be part of"
	if f.Entity != nil {
		d.s += " " + article(ConstraintString(f.Entity.Name))
	} else {
		d.s += " another entity"
	}
	d.s += " via " + string(f.Relation)
}

func article(s string) string {
	if s == "" {
		return "an entity"
	}
	if strings.ContainsRune("AEIOUaeiou", rune(s[0])) {
		return "an " + s
	}
	return "a " + s
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// Expand substitutes {name} placeholders in tmpl. Unknown placeholders are
// left untouched.
func Expand(tmpl string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// describer resolves descriptions through an optional Translator.
type describer struct{ tr Translator }

func (d describer) requirement(r Requirement) string {
	if d.tr != nil {
		if s := d.tr.DescribeRequirement(r); s != "" {
			return s
		}
	}
	return DescribeRequirement(r)
}

func (d describer) failure(fc FailureContext) string {
	if d.tr != nil {
		if s := d.tr.DescribeFailure(fc); s != "" {
			return s
		}
	}
	return DescribeFailure(fc)
}

func (d describer) translate(key string, params map[string]string, fallback string) string {
	if d.tr != nil {
		if s := d.tr.Translate(key, params); s != "" {
			return s
		}
	}
	return Expand(fallback, params)
}
