package goids

// EntityID identifies an entity within one model.
type EntityID int

// Property is a single property value as exposed by an Accessor.
type Property struct {
	Name     string
	Value    string
	DataType string
}

// PropertySet groups properties (or quantities) under a set name.
type PropertySet struct {
	Name       string
	Properties []Property
}

// ClassificationRef is a classification reference attached to an entity.
type ClassificationRef struct {
	System string
	Value  string
	URI    string
}

// Accessor reads the model under test. Implementations are owned by the model
// ingestion layer; the engine only reads through this interface and never
// mutates. Errors returned by any method abort the specification being
// evaluated and are returned to the caller of Validate.
//
// Lookups that find nothing return a zero value and ok=false (or an empty
// slice) rather than an error.
type Accessor interface {
	EntityIDs() ([]EntityID, error)
	EntityType(id EntityID) (string, error)
	EntityName(id EntityID) (name string, ok bool, err error)
	GlobalID(id EntityID) (guid string, ok bool, err error)
	PredefinedType(id EntityID) (value string, ok bool, err error)
	Attribute(id EntityID, name string) (value string, ok bool, err error)
	AttributeNames(id EntityID) ([]string, error)
	PropertySets(id EntityID) ([]PropertySet, error)
	Classifications(id EntityID) ([]ClassificationRef, error)
	Materials(id EntityID) ([]string, error)
	// Parents returns the direct parents of id through rel.
	Parents(id EntityID, rel Relation) ([]EntityID, error)
}

// TypeIndex is an optional Accessor capability used as a broad-phase filter.
// typeName is upper case (e.g. IFCWALL). Accessors that cannot answer cheaply
// should not implement it.
type TypeIndex interface {
	EntityIDsByType(typeName string) ([]EntityID, error)
}

// ModelInfo describes the model a report was produced for.
type ModelInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Schema string `json:"schema,omitempty"`
}
