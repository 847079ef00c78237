package goids_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	goids "github.com/reoring/goids"
	"github.com/reoring/goids/memmodel"
)

// buildingModel is a small building: two walls, a door and a slab contained
// in a storey that is aggregated into a building and a site.
func buildingModel(t testing.TB) *memmodel.Model {
	t.Helper()
	contained := func(parent int) []memmodel.Relation {
		return []memmodel.Relation{{Type: "IfcRelContainedInSpatialStructure", Parent: parent}}
	}
	m, err := memmodel.New(memmodel.Snapshot{
		ID:     "building",
		Name:   "Test building",
		Schema: "IFC4",
		Entities: []memmodel.Entity{
			{
				ID: 1, Type: "IfcWall", Name: "W-01", GlobalID: "2O2Fr$t4X7Zf8NOew3FLOH", PredefinedType: "SHEAR",
				Attributes: map[string]memmodel.Value{"Description": "external"},
				PropertySets: []memmodel.PropertySet{{Name: "Pset_WallCommon", Properties: []memmodel.Property{
					{Name: "FireRating", Value: "2HR", DataType: "IFCLABEL"},
					{Name: "LoadBearing", Value: ""},
					{Name: "Width", Value: "250", DataType: "IFCLENGTHMEASURE"},
				}}},
				Classifications: []memmodel.Classification{{System: "Uniclass", Value: "EF_25_10"}},
				Materials:       []string{"Concrete"},
				Relations:       contained(10),
			},
			{ID: 2, Type: "IFCWALL", Name: "W-02", Relations: contained(10)},
			{ID: 3, Type: "IfcDoor", Name: "D-01"},
			{ID: 4, Type: "IfcSlab", Name: "S-01", Relations: contained(10)},
			{ID: 10, Type: "IfcBuildingStorey", Name: "Level 1", Relations: []memmodel.Relation{{Type: "IfcRelAggregates", Parent: 20}}},
			{ID: 20, Type: "IfcBuilding", Name: "B", Relations: []memmodel.Relation{{Type: "IfcRelAggregates", Parent: 30}}},
			{ID: 30, Type: "IfcSite", Name: "Site"},
			{ID: 40, Type: "IfcPump", Relations: []memmodel.Relation{{Type: "IfcRelNests", Parent: 41}}},
			{ID: 41, Type: "IfcPump", Relations: []memmodel.Relation{{Type: "IfcRelNests", Parent: 40}}},
		},
	})
	require.NoError(t, err)
	return m
}

func sv(s string) goids.SimpleValue { return goids.SimpleValue{Value: s} }

func entity(name string) *goids.EntityFacet { return &goids.EntityFacet{Name: sv(name)} }

// plainAccessor hides optional capabilities such as goids.TypeIndex.
type plainAccessor struct{ goids.Accessor }

var errBackend = errors.New("backend unavailable")

// failingAccessor fails the configured method once calls reach failAfter.
type failingAccessor struct {
	goids.Accessor
	method    string
	failAfter int

	mu    sync.Mutex
	calls int
}

func (f *failingAccessor) hit(method string) error {
	if method != f.method {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls > f.failAfter {
		return errBackend
	}
	return nil
}

func (f *failingAccessor) EntityIDs() ([]goids.EntityID, error) {
	if err := f.hit("EntityIDs"); err != nil {
		return nil, err
	}
	return f.Accessor.EntityIDs()
}

func (f *failingAccessor) EntityType(id goids.EntityID) (string, error) {
	if err := f.hit("EntityType"); err != nil {
		return "", err
	}
	return f.Accessor.EntityType(id)
}

func (f *failingAccessor) PropertySets(id goids.EntityID) ([]goids.PropertySet, error) {
	if err := f.hit("PropertySets"); err != nil {
		return nil, err
	}
	return f.Accessor.PropertySets(id)
}

func newTextLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
