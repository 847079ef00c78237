package goids

import (
	"strings"

	json "github.com/goccy/go-json"
)

// FacetType names the variant of a Facet.
type FacetType string

const (
	FacetEntity         FacetType = "entity"
	FacetAttribute      FacetType = "attribute"
	FacetProperty       FacetType = "property"
	FacetClassification FacetType = "classification"
	FacetMaterial       FacetType = "material"
	FacetPartOf         FacetType = "partOf"
)

// Facet is one testable aspect of an entity. The implementations are the six
// *...Facet types of this package; FacetVisitor enumerates them. The
// unexported method keeps other packages from adding variants.
type Facet interface {
	Type() FacetType
	Accept(v FacetVisitor)
	isFacet()
}

// FacetVisitor has one method per Facet variant.
type FacetVisitor interface {
	VisitEntity(f *EntityFacet)
	VisitAttribute(f *AttributeFacet)
	VisitProperty(f *PropertyFacet)
	VisitClassification(f *ClassificationFacet)
	VisitMaterial(f *MaterialFacet)
	VisitPartOf(f *PartOfFacet)
}

// EntityFacet constrains the IFC class and optionally its predefined type.
type EntityFacet struct {
	Name           Constraint `json:"name"`
	PredefinedType Constraint `json:"predefinedType,omitempty"`
}

func (*EntityFacet) Type() FacetType         { return FacetEntity }
func (f *EntityFacet) Accept(v FacetVisitor) { v.VisitEntity(f) }
func (*EntityFacet) isFacet()                {}

func (f *EntityFacet) MarshalJSON() ([]byte, error) {
	type plain EntityFacet
	return json.Marshal(struct {
		Type FacetType `json:"type"`
		*plain
	}{FacetEntity, (*plain)(f)})
}

// AttributeFacet constrains a direct IFC attribute. A nil Value only requires
// the attribute to be present and non-empty.
type AttributeFacet struct {
	Name  Constraint `json:"name"`
	Value Constraint `json:"value,omitempty"`
}

func (*AttributeFacet) Type() FacetType         { return FacetAttribute }
func (f *AttributeFacet) Accept(v FacetVisitor) { v.VisitAttribute(f) }
func (*AttributeFacet) isFacet()                {}

func (f *AttributeFacet) MarshalJSON() ([]byte, error) {
	type plain AttributeFacet
	return json.Marshal(struct {
		Type FacetType `json:"type"`
		*plain
	}{FacetAttribute, (*plain)(f)})
}

// PropertyFacet constrains a property inside a property set.
type PropertyFacet struct {
	PropertySet Constraint `json:"propertySet"`
	BaseName    Constraint `json:"baseName"`
	// DataType is the expected IFC measure type in upper case, e.g. IFCLABEL.
	DataType string     `json:"dataType,omitempty"`
	Value    Constraint `json:"value,omitempty"`
}

func (*PropertyFacet) Type() FacetType         { return FacetProperty }
func (f *PropertyFacet) Accept(v FacetVisitor) { v.VisitProperty(f) }
func (*PropertyFacet) isFacet()                {}

func (f *PropertyFacet) MarshalJSON() ([]byte, error) {
	type plain PropertyFacet
	return json.Marshal(struct {
		Type FacetType `json:"type"`
		*plain
	}{FacetProperty, (*plain)(f)})
}

// ClassificationFacet constrains classification references.
type ClassificationFacet struct {
	System Constraint `json:"system,omitempty"`
	Value  Constraint `json:"value,omitempty"`
	URI    string     `json:"uri,omitempty"`
}

func (*ClassificationFacet) Type() FacetType         { return FacetClassification }
func (f *ClassificationFacet) Accept(v FacetVisitor) { v.VisitClassification(f) }
func (*ClassificationFacet) isFacet()                {}

func (f *ClassificationFacet) MarshalJSON() ([]byte, error) {
	type plain ClassificationFacet
	return json.Marshal(struct {
		Type FacetType `json:"type"`
		*plain
	}{FacetClassification, (*plain)(f)})
}

// MaterialFacet constrains assigned material names.
type MaterialFacet struct {
	Value Constraint `json:"value,omitempty"`
	URI   string     `json:"uri,omitempty"`
}

func (*MaterialFacet) Type() FacetType         { return FacetMaterial }
func (f *MaterialFacet) Accept(v FacetVisitor) { v.VisitMaterial(f) }
func (*MaterialFacet) isFacet()                {}

func (f *MaterialFacet) MarshalJSON() ([]byte, error) {
	type plain MaterialFacet
	return json.Marshal(struct {
		Type FacetType `json:"type"`
		*plain
	}{FacetMaterial, (*plain)(f)})
}

// PartOfFacet requires the entity to be (transitively) related to a parent
// through Relation, optionally with the parent matching Entity.
type PartOfFacet struct {
	Relation Relation     `json:"relation"`
	Entity   *EntityFacet `json:"entity,omitempty"`
}

func (*PartOfFacet) Type() FacetType         { return FacetPartOf }
func (f *PartOfFacet) Accept(v FacetVisitor) { v.VisitPartOf(f) }
func (*PartOfFacet) isFacet()                {}

func (f *PartOfFacet) MarshalJSON() ([]byte, error) {
	type plain PartOfFacet
	return json.Marshal(struct {
		Type FacetType `json:"type"`
		*plain
	}{FacetPartOf, (*plain)(f)})
}

// Relation is a normalized IFC relationship used by PartOfFacet.
type Relation string

const (
	RelAggregates Relation = "IFCRELAGGREGATES"
	RelContained  Relation = "IFCRELCONTAINEDINSPATIALSTRUCTURE"
	RelNests      Relation = "IFCRELNESTS"
	RelVoids      Relation = "IFCRELVOIDSELEMENT"
	RelFills      Relation = "IFCRELFILLSELEMENT"
)

// LookupRelation returns the Relation whose IFC entity name equals raw,
// ignoring case. Unlike NormalizeRelation it has no default.
func LookupRelation(raw string) (Relation, bool) {
	r := Relation(strings.ToUpper(strings.TrimSpace(raw)))
	switch r {
	case RelAggregates, RelContained, RelNests, RelVoids, RelFills:
		return r, true
	}
	return "", false
}
