// Package memmodel is an in-memory goids.Accessor over a flat model snapshot.
//
// Snapshots are usually exported by a model ingestion tool and read from JSON
// or YAML:
//
//	id: demo
//	schema: IFC4
//	entities:
//	  - id: 1
//	    type: IfcWall
//	    name: Wall 01
//	    propertySets:
//	      - name: Pset_WallCommon
//	        properties:
//	          - {name: FireRating, value: 2HR, dataType: IFCLABEL}
//	    relations:
//	      - {type: IfcRelContainedInSpatialStructure, parent: 10}
package memmodel

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	goids "github.com/reoring/goids"
)

// Snapshot is the serialized form of a model.
type Snapshot struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Schema   string   `json:"schema,omitempty" yaml:"schema,omitempty"`
	Entities []Entity `json:"entities" yaml:"entities"`
}

// Entity is one model entity.
type Entity struct {
	ID              int              `json:"id" yaml:"id"`
	Type            string           `json:"type" yaml:"type"`
	Name            string           `json:"name,omitempty" yaml:"name,omitempty"`
	GlobalID        string           `json:"globalId,omitempty" yaml:"globalId,omitempty"`
	PredefinedType  string           `json:"predefinedType,omitempty" yaml:"predefinedType,omitempty"`
	Attributes      map[string]Value `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	PropertySets    []PropertySet    `json:"propertySets,omitempty" yaml:"propertySets,omitempty"`
	Classifications []Classification `json:"classifications,omitempty" yaml:"classifications,omitempty"`
	Materials       []string         `json:"materials,omitempty" yaml:"materials,omitempty"`
	Relations       []Relation       `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// PropertySet is a named group of properties attached to an entity.
type PropertySet struct {
	Name       string     `json:"name" yaml:"name"`
	Properties []Property `json:"properties" yaml:"properties"`
}

// Property is one property value. DataType is the IFC measure or value type,
// e.g. IFCLABEL or IFCLENGTHMEASURE.
type Property struct {
	Name     string `json:"name" yaml:"name"`
	Value    Value  `json:"value" yaml:"value"`
	DataType string `json:"dataType,omitempty" yaml:"dataType,omitempty"`
}

// Classification is a classification reference of an entity.
type Classification struct {
	System string `json:"system,omitempty" yaml:"system,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	URI    string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// Relation links the entity to a parent. Type is the IFC relationship entity
// name (IfcRelAggregates, IfcRelContainedInSpatialStructure, IfcRelNests,
// IfcRelVoidsElement or IfcRelFillsElement), matched case-insensitively.
type Relation struct {
	Type   string `json:"type" yaml:"type"`
	Parent int    `json:"parent" yaml:"parent"`
}

// ErrUnknownEntity is returned for ids that are not in the model.
var ErrUnknownEntity = errors.New("memmodel: unknown entity")

// Model implements goids.Accessor and goids.TypeIndex. It is immutable after
// New and safe for concurrent use.
type Model struct {
	info    goids.ModelInfo
	ids     []goids.EntityID
	byID    map[goids.EntityID]*Entity
	byType  map[string][]goids.EntityID
	parents map[goids.EntityID]map[goids.Relation][]goids.EntityID
}

var (
	_ goids.Accessor  = (*Model)(nil)
	_ goids.TypeIndex = (*Model)(nil)
)

// New indexes a snapshot. Duplicate ids, entities without a type, unsupported
// relation types and relations to unknown parents are reported together.
func New(s Snapshot) (*Model, error) {
	m := &Model{
		info:    goids.ModelInfo{ID: s.ID, Name: s.Name, Schema: s.Schema},
		byID:    make(map[goids.EntityID]*Entity, len(s.Entities)),
		byType:  make(map[string][]goids.EntityID),
		parents: make(map[goids.EntityID]map[goids.Relation][]goids.EntityID),
	}
	entities := slices.Clone(s.Entities)
	var errs []error
	for i := range entities {
		e := &entities[i]
		id := goids.EntityID(e.ID)
		if _, dup := m.byID[id]; dup {
			errs = append(errs, fmt.Errorf("entity %d: duplicate id", e.ID))
			continue
		}
		if strings.TrimSpace(e.Type) == "" {
			errs = append(errs, fmt.Errorf("entity %d: missing type", e.ID))
			continue
		}
		m.byID[id] = e
		m.ids = append(m.ids, id)
		typ := strings.ToUpper(e.Type)
		m.byType[typ] = append(m.byType[typ], id)
	}
	for _, id := range m.ids {
		e := m.byID[id]
		for _, rel := range e.Relations {
			r, ok := goids.LookupRelation(rel.Type)
			if !ok {
				errs = append(errs, fmt.Errorf("entity %d: unsupported relation type %q", e.ID, rel.Type))
				continue
			}
			parent := goids.EntityID(rel.Parent)
			if _, ok := m.byID[parent]; !ok {
				errs = append(errs, fmt.Errorf("entity %d: relation %s to unknown parent %d", e.ID, rel.Type, rel.Parent))
				continue
			}
			byRel := m.parents[id]
			if byRel == nil {
				byRel = make(map[goids.Relation][]goids.EntityID)
				m.parents[id] = byRel
			}
			byRel[r] = append(byRel[r], parent)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	slices.Sort(m.ids)
	for _, ids := range m.byType {
		slices.Sort(ids)
	}
	return m, nil
}

// Info describes the model for goids.Validate.
func (m *Model) Info() goids.ModelInfo { return m.info }

// Len returns the number of entities.
func (m *Model) Len() int { return len(m.ids) }

func (m *Model) entity(id goids.EntityID) (*Entity, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	return e, nil
}

// EntityIDs returns every entity id in ascending order.
func (m *Model) EntityIDs() ([]goids.EntityID, error) {
	return slices.Clone(m.ids), nil
}

// EntityIDsByType returns the ids of entities whose type equals typeName,
// ignoring case. Subtypes are not included.
func (m *Model) EntityIDsByType(typeName string) ([]goids.EntityID, error) {
	return slices.Clone(m.byType[strings.ToUpper(typeName)]), nil
}

// EntityType returns the IFC class name as written in the snapshot.
func (m *Model) EntityType(id goids.EntityID) (string, error) {
	e, err := m.entity(id)
	if err != nil {
		return "", err
	}
	return e.Type, nil
}

// EntityName returns the Name field; ok is false when it is empty.
func (m *Model) EntityName(id goids.EntityID) (string, bool, error) {
	e, err := m.entity(id)
	if err != nil {
		return "", false, err
	}
	return e.Name, e.Name != "", nil
}

// GlobalID returns the GlobalId field; ok is false when it is empty.
func (m *Model) GlobalID(id goids.EntityID) (string, bool, error) {
	e, err := m.entity(id)
	if err != nil {
		return "", false, err
	}
	return e.GlobalID, e.GlobalID != "", nil
}

// PredefinedType returns the PredefinedType field; ok is false when it is
// empty.
func (m *Model) PredefinedType(id goids.EntityID) (string, bool, error) {
	e, err := m.entity(id)
	if err != nil {
		return "", false, err
	}
	return e.PredefinedType, e.PredefinedType != "", nil
}

// Attribute resolves explicit attributes first, then the Name, GlobalId and
// PredefinedType fields of the entity.
func (m *Model) Attribute(id goids.EntityID, name string) (string, bool, error) {
	e, err := m.entity(id)
	if err != nil {
		return "", false, err
	}
	if v, ok := e.Attributes[name]; ok {
		return string(v), true, nil
	}
	var v string
	switch name {
	case "Name":
		v = e.Name
	case "GlobalId":
		v = e.GlobalID
	case "PredefinedType":
		v = e.PredefinedType
	}
	return v, v != "", nil
}

// AttributeNames returns the sorted names of the explicit attributes plus
// the non-empty Name, GlobalId and PredefinedType fields.
func (m *Model) AttributeNames(id goids.EntityID) ([]string, error) {
	e, err := m.entity(id)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(e.Attributes)+3)
	for k := range e.Attributes {
		names = append(names, k)
	}
	for k, v := range map[string]string{"Name": e.Name, "GlobalId": e.GlobalID, "PredefinedType": e.PredefinedType} {
		if _, ok := e.Attributes[k]; !ok && v != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names, nil
}

// PropertySets returns copies of the entity's property sets in snapshot order.
func (m *Model) PropertySets(id goids.EntityID) ([]goids.PropertySet, error) {
	e, err := m.entity(id)
	if err != nil {
		return nil, err
	}
	out := make([]goids.PropertySet, len(e.PropertySets))
	for i, ps := range e.PropertySets {
		props := make([]goids.Property, len(ps.Properties))
		for j, p := range ps.Properties {
			props[j] = goids.Property{Name: p.Name, Value: string(p.Value), DataType: p.DataType}
		}
		out[i] = goids.PropertySet{Name: ps.Name, Properties: props}
	}
	return out, nil
}

// Classifications returns the entity's classification references.
func (m *Model) Classifications(id goids.EntityID) ([]goids.ClassificationRef, error) {
	e, err := m.entity(id)
	if err != nil {
		return nil, err
	}
	out := make([]goids.ClassificationRef, len(e.Classifications))
	for i, c := range e.Classifications {
		out[i] = goids.ClassificationRef{System: c.System, Value: c.Value, URI: c.URI}
	}
	return out, nil
}

// Materials returns the names of the entity's materials.
func (m *Model) Materials(id goids.EntityID) ([]string, error) {
	e, err := m.entity(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(e.Materials), nil
}

// Parents returns the direct parents of id through rel. Transitive lookup is
// left to the matcher.
func (m *Model) Parents(id goids.EntityID, rel goids.Relation) ([]goids.EntityID, error) {
	if _, err := m.entity(id); err != nil {
		return nil, err
	}
	return slices.Clone(m.parents[id][rel]), nil
}
