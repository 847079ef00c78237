package memmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goids "github.com/reoring/goids"
)

func snapshot() Snapshot {
	return Snapshot{
		ID:     "demo",
		Schema: "IFC4",
		Entities: []Entity{
			{
				ID:             2,
				Type:           "IfcWall",
				Name:           "Wall 02",
				GlobalID:       "g2",
				PredefinedType: "SHEAR",
				Attributes:     map[string]Value{"Description": "outer", "Name": "Override"},
				PropertySets: []PropertySet{{
					Name:       "Pset_WallCommon",
					Properties: []Property{{Name: "FireRating", Value: "2HR", DataType: "IFCLABEL"}},
				}},
				Classifications: []Classification{{System: "Uniclass", Value: "EF_25_10"}},
				Materials:       []string{"Concrete"},
				Relations:       []Relation{{Type: "IfcRelContainedInSpatialStructure", Parent: 10}},
			},
			{ID: 1, Type: "IFCWALL"},
			{ID: 10, Type: "IfcBuildingStorey", Name: "Level 1"},
		},
	}
}

func TestNew(t *testing.T) {
	m, err := New(snapshot())
	require.NoError(t, err)
	assert.Equal(t, goids.ModelInfo{ID: "demo", Schema: "IFC4"}, m.Info())
	assert.Equal(t, 3, m.Len())

	ids, err := m.EntityIDs()
	require.NoError(t, err)
	assert.Equal(t, []goids.EntityID{1, 2, 10}, ids)

	walls, err := m.EntityIDsByType("ifcwall")
	require.NoError(t, err)
	assert.Equal(t, []goids.EntityID{1, 2}, walls)

	none, err := m.EntityIDsByType("IfcDoor")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNew_Errors(t *testing.T) {
	s := Snapshot{Entities: []Entity{
		{ID: 1, Type: "IfcWall", Relations: []Relation{{Type: "IfcRelAggregates", Parent: 99}}},
		{ID: 1, Type: "IfcDoor"},
		{ID: 2, Type: " "},
	}}
	_, err := New(s)
	require.Error(t, err)
	assert.ErrorContains(t, err, "entity 1: duplicate id")
	assert.ErrorContains(t, err, "entity 2: missing type")
	assert.ErrorContains(t, err, "entity 1: relation IfcRelAggregates to unknown parent 99")
}

func TestNew_RelationTypes(t *testing.T) {
	s := Snapshot{Entities: []Entity{
		{ID: 1, Type: "IfcWall", Relations: []Relation{{Type: "IfcRelAssignsToGroup", Parent: 2}}},
		{ID: 2, Type: "IfcGroup"},
		{ID: 3, Type: "IfcWall", Relations: []Relation{{Type: "IfcRelDefinesByType", Parent: 2}}},
		{ID: 4, Type: "IfcWall", Relations: []Relation{{Type: "IfcRelContainedInSpatial", Parent: 2}}},
	}}
	_, err := New(s)
	require.Error(t, err)
	assert.ErrorContains(t, err, `entity 1: unsupported relation type "IfcRelAssignsToGroup"`)
	assert.ErrorContains(t, err, `entity 3: unsupported relation type "IfcRelDefinesByType"`)
	assert.ErrorContains(t, err, `entity 4: unsupported relation type "IfcRelContainedInSpatial"`)

	m, err := New(Snapshot{Entities: []Entity{
		{ID: 1, Type: "IfcDoor", Relations: []Relation{{Type: "IFCRELFILLSELEMENT", Parent: 2}}},
		{ID: 2, Type: "IfcOpeningElement", Relations: []Relation{{Type: "ifcrelvoidselement", Parent: 3}}},
		{ID: 3, Type: "IfcWall"},
	}})
	require.NoError(t, err)
	parents, err := m.Parents(1, goids.RelFills)
	require.NoError(t, err)
	assert.Equal(t, []goids.EntityID{2}, parents)
	parents, err = m.Parents(2, goids.RelVoids)
	require.NoError(t, err)
	assert.Equal(t, []goids.EntityID{3}, parents)
	parents, err = m.Parents(1, goids.RelContained)
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestModel_Accessor(t *testing.T) {
	m, err := New(snapshot())
	require.NoError(t, err)

	typ, err := m.EntityType(2)
	require.NoError(t, err)
	assert.Equal(t, "IfcWall", typ)

	name, ok, err := m.EntityName(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Wall 02", name)

	_, ok, err = m.EntityName(1)
	require.NoError(t, err)
	assert.False(t, ok)

	gid, ok, err := m.GlobalID(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "g2", gid)

	pt, ok, err := m.PredefinedType(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "SHEAR", pt)

	v, ok, err := m.Attribute(2, "Name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Override", v, "explicit attributes win")

	v, ok, err = m.Attribute(2, "GlobalId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "g2", v)

	_, ok, err = m.Attribute(1, "Description")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := m.AttributeNames(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Description", "GlobalId", "Name", "PredefinedType"}, names)

	names, err = m.AttributeNames(1)
	require.NoError(t, err)
	assert.Empty(t, names)

	psets, err := m.PropertySets(2)
	require.NoError(t, err)
	require.Len(t, psets, 1)
	assert.Equal(t, goids.PropertySet{
		Name:       "Pset_WallCommon",
		Properties: []goids.Property{{Name: "FireRating", Value: "2HR", DataType: "IFCLABEL"}},
	}, psets[0])

	cls, err := m.Classifications(2)
	require.NoError(t, err)
	assert.Equal(t, []goids.ClassificationRef{{System: "Uniclass", Value: "EF_25_10"}}, cls)

	mats, err := m.Materials(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Concrete"}, mats)

	parents, err := m.Parents(2, goids.RelContained)
	require.NoError(t, err)
	assert.Equal(t, []goids.EntityID{10}, parents)

	parents, err = m.Parents(2, goids.RelAggregates)
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestModel_UnknownEntity(t *testing.T) {
	m, err := New(snapshot())
	require.NoError(t, err)

	_, err = m.EntityType(42)
	assert.ErrorIs(t, err, ErrUnknownEntity)
	_, _, err = m.Attribute(42, "Name")
	assert.ErrorIs(t, err, ErrUnknownEntity)
	_, err = m.PropertySets(42)
	assert.ErrorIs(t, err, ErrUnknownEntity)
	_, err = m.Parents(42, goids.RelNests)
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestModel_ReturnsCopies(t *testing.T) {
	s := snapshot()
	m, err := New(s)
	require.NoError(t, err)

	s.Entities[0].Type = "IfcDoor"
	typ, err := m.EntityType(2)
	require.NoError(t, err)
	assert.Equal(t, "IfcWall", typ)

	ids, err := m.EntityIDs()
	require.NoError(t, err)
	ids[0] = 99
	again, err := m.EntityIDs()
	require.NoError(t, err)
	assert.Equal(t, goids.EntityID(1), again[0])

	mats, err := m.Materials(2)
	require.NoError(t, err)
	mats[0] = "Steel"
	mats, err = m.Materials(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Concrete"}, mats)
}
