package goids_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goids "github.com/reoring/goids"
)

func specDoc(body string) string {
	return `<ids xmlns="http://standards.buildingsmart.org/IDS" xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <info><title>T</title></info>
  <specifications>` + body + `</specifications>
</ids>`
}

func parseOne(t *testing.T, spec string) goids.Specification {
	t.Helper()
	doc, err := goids.ParseDocumentString(specDoc(spec))
	require.NoError(t, err)
	require.Len(t, doc.Specifications, 1)
	return doc.Specifications[0]
}

func TestParseDocument_Defaults(t *testing.T) {
	doc, err := goids.ParseDocumentString(`<ids><specifications><specification/></specifications></ids>`)
	require.NoError(t, err)

	assert.Equal(t, goids.DefaultTitle, doc.Info.Title)
	require.Len(t, doc.Specifications, 1)
	s := doc.Specifications[0]
	assert.Equal(t, "spec-1", s.Identifier)
	assert.Equal(t, "spec-1", s.Name)
	assert.Equal(t, []goids.Version{goids.IFC4}, s.IFCVersions)
	assert.NotNil(t, s.Applicability)
	assert.Empty(t, s.Applicability)
	assert.NotNil(t, s.Requirements)
	assert.Nil(t, s.MinOccurs)
	assert.Nil(t, s.MaxOccurs)
	assert.False(t, s.HasCardinality())
}

func TestParseDocument_InfoAndEmptySpecifications(t *testing.T) {
	doc, err := goids.ParseDocumentString(`<ids:ids xmlns:ids="http://standards.buildingsmart.org/IDS">
  <ids:info>
    <ids:title> Fire safety </ids:title>
    <ids:author>bim@example.com</ids:author>
    <ids:milestone>Design</ids:milestone>
  </ids:info>
</ids:ids>`)
	require.NoError(t, err)
	assert.Equal(t, "Fire safety", doc.Info.Title)
	assert.Equal(t, "bim@example.com", doc.Info.Author)
	assert.Equal(t, "Design", doc.Info.Milestone)
	assert.NotNil(t, doc.Specifications)
	assert.Empty(t, doc.Specifications)
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty input", "", "no root element"},
		{"text only", "hello", "no root element"},
		{"malformed", "<ids><info></ids>", "malformed document"},
		{"wrong root", "<schema/>", "unrecognized root element"},
		{"entity without name", specDoc(`<specification name="s"><applicability><entity/></applicability></specification>`), "entity facet without name"},
		{"attribute without name", specDoc(`<specification name="s"><requirements><attribute><value>x</value></attribute></requirements></specification>`), "attribute facet without name"},
		{"property without base name", specDoc(`<specification name="s"><requirements><property><propertySet>P</propertySet></property></requirements></specification>`), "property facet requires"},
		{"partOf entity without name", specDoc(`<specification name="s"><requirements><partOf><entity/></partOf></requirements></specification>`), "entity facet without name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goids.ParseDocumentString(tt.input)
			require.Error(t, err)
			assert.Nil(t, doc)
			pe, ok := goids.AsParseError(err)
			require.True(t, ok, "want *ParseError, got %T", err)
			assert.Contains(t, pe.Message, tt.msg)
		})
	}
}

func TestParseDocument_ErrorDetailsNameSpecification(t *testing.T) {
	_, err := goids.ParseDocumentString(specDoc(`<specification identifier="S-7"><applicability><entity/></applicability></specification>`))
	pe, ok := goids.AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, "specification S-7 applicability", pe.Details)
	assert.Equal(t, "goids: parse: entity facet without name (specification S-7 applicability)", pe.Error())
}

func TestParseDocument_MalformedKeepsCause(t *testing.T) {
	_, err := goids.ParseDocument([]byte("<ids><a></b></ids>"))
	pe, ok := goids.AsParseError(err)
	require.True(t, ok)
	assert.NotNil(t, pe.Cause)
	assert.ErrorIs(t, err, pe.Cause)
}

func TestNormalizeVersions(t *testing.T) {
	tests := []struct {
		raw  string
		want []goids.Version
	}{
		{"", []goids.Version{goids.IFC4}},
		{"IFC4", []goids.Version{goids.IFC4}},
		{"ifc2x3", []goids.Version{goids.IFC2X3}},
		{"IFC2X3 IFC4X3_ADD2", []goids.Version{goids.IFC2X3, goids.IFC4X3}},
		{"IFC4X3-TC1,IFC4_ADD2_TC1", []goids.Version{goids.IFC4X3, goids.IFC4}},
		{"IFC4 IFC4ADD1 IFC4_ADD2", []goids.Version{goids.IFC4}},
		{"IFC4X3_RC4", []goids.Version{goids.IFC4X3}},
		{"IFC2X3_FOO", []goids.Version{goids.IFC2X3}},
		{"IFC5", []goids.Version{goids.IFC4}},
		{"IFC5 IFC2X3", []goids.Version{goids.IFC2X3}},
		{"garbage, more garbage", []goids.Version{goids.IFC4}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, goids.NormalizeVersions(tt.raw))
		})
	}
}

func TestNormalizeVersion_Unknown(t *testing.T) {
	_, ok := goids.NormalizeVersion("IFC5")
	assert.False(t, ok)
	v, ok := goids.NormalizeVersion("Ifc4x3 add2")
	assert.True(t, ok)
	assert.Equal(t, goids.IFC4X3, v)
}

func TestParseSpecification_Cardinality(t *testing.T) {
	one := 1
	two := 2
	tests := []struct {
		name    string
		spec    string
		wantMin *int
		wantMax *goids.Occurs
	}{
		{"on specification", `<specification minOccurs="1" maxOccurs="unbounded"/>`, &one, goids.Unbounded()},
		{"on applicability", `<specification><applicability minOccurs="2" maxOccurs="2"/></specification>`, &two, goids.OccursOf(2)},
		{"specification wins", `<specification minOccurs="1"><applicability minOccurs="2" maxOccurs="2"/></specification>`, &one, nil},
		{"upper case unbounded", `<specification maxOccurs="UNBOUNDED"/>`, nil, goids.Unbounded()},
		{"integral float", `<specification minOccurs="2.0"/>`, &two, nil},
		{"fractional is absent", `<specification minOccurs="1.5"/>`, nil, nil},
		{"negative is absent", `<specification minOccurs="-1" maxOccurs="-3"/>`, nil, nil},
		{"non numeric is absent", `<specification minOccurs="abc" maxOccurs="many"/>`, nil, nil},
		{"infinite is absent", `<specification maxOccurs="Inf"/>`, nil, nil},
		{"zero max", `<specification maxOccurs="0"/>`, nil, goids.OccursOf(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseOne(t, tt.spec)
			assert.Equal(t, tt.wantMin, s.MinOccurs)
			assert.Equal(t, tt.wantMax, s.MaxOccurs)
		})
	}
}

func requirementFacet(t *testing.T, facetXML string) goids.Requirement {
	t.Helper()
	s := parseOne(t, `<specification name="s"><requirements>`+facetXML+`</requirements></specification>`)
	require.Len(t, s.Requirements, 1)
	return s.Requirements[0]
}

func TestParseRequirement_Optionality(t *testing.T) {
	tests := []struct {
		name  string
		attrs string
		want  goids.Optionality
	}{
		{"default", ``, goids.Required},
		{"cardinality prohibited", `cardinality="prohibited"`, goids.Prohibited},
		{"cardinality optional", `cardinality="Optional"`, goids.Optional},
		{"use attribute", `use="optional"`, goids.Optional},
		{"legacy maxOccurs zero", `minOccurs="0" maxOccurs="0"`, goids.Prohibited},
		{"legacy minOccurs zero", `minOccurs="0" maxOccurs="unbounded"`, goids.Optional},
		{"cardinality wins over legacy", `cardinality="required" minOccurs="0"`, goids.Required},
		{"unknown cardinality falls through", `cardinality="sometimes" use="prohibited"`, goids.Prohibited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := requirementFacet(t, `<material `+tt.attrs+`/>`)
			assert.Equal(t, tt.want, r.Optionality)
		})
	}
}

func TestParseRequirement_DescriptionAndInstructions(t *testing.T) {
	r := requirementFacet(t, `<attribute instructions="Fill in the name" description="Named"><name>Name</name></attribute>`)
	assert.Equal(t, "Fill in the name", r.Instructions)
	assert.Equal(t, "Named", r.Description)
}

func TestParseConstraint_Priority(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  goids.Constraint
	}{
		{"simple value", `<simpleValue>2HR</simpleValue>`, goids.SimpleValue{Value: "2HR"}},
		{"simple value beats restriction", `<simpleValue>A</simpleValue><xs:restriction><xs:enumeration value="B"/></xs:restriction>`, goids.SimpleValue{Value: "A"}},
		{"pattern beats enumeration", `<xs:restriction base="xs:string"><xs:enumeration value="B"/><xs:pattern value="EW-.*"/></xs:restriction>`, goids.Pattern{Pattern: "EW-.*"}},
		{"enumeration beats bounds", `<xs:restriction><xs:minInclusive value="1"/><xs:enumeration value="A"/><xs:enumeration value="B"/></xs:restriction>`, goids.Enumeration{Values: []string{"A", "B"}}},
		{"bounds", `<xs:restriction base="xs:double"><xs:minInclusive value="0"/><xs:maxExclusive value="10"/></xs:restriction>`, goids.Bounds{MinInclusive: ptr(0), MaxExclusive: ptr(10)}},
		{"unparsable bounds are ignored", `<xs:restriction base="xs:double"><xs:minInclusive value="low"/></xs:restriction>`, goids.SimpleValue{Value: "xs:double"}},
		{"base token", `<xs:restriction base="xs:string"/>`, goids.SimpleValue{Value: "xs:string"}},
		{"restriction text", `<xs:restriction>raw</xs:restriction>`, goids.SimpleValue{Value: "raw"}},
		{"direct text", `Pset_WallCommon`, goids.SimpleValue{Value: "Pset_WallCommon"}},
		{"empty", ``, goids.SimpleValue{Value: ""}},
		{"escaped quotes kept", `<simpleValue>say \"hi\"</simpleValue>`, goids.SimpleValue{Value: `say \"hi\"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := requirementFacet(t, `<material><value>`+tt.value+`</value></material>`)
			mf, ok := r.Facet.(*goids.MaterialFacet)
			require.True(t, ok)
			assert.Equal(t, tt.want, mf.Value)
		})
	}
}

func TestParseConstraint_MultiplePatternsAreAlternatives(t *testing.T) {
	r := requirementFacet(t, `<material><value><xs:restriction><xs:pattern value="A\d"/><xs:pattern value="B\d"/></xs:restriction></value></material>`)
	c := r.Facet.(*goids.MaterialFacet).Value
	assert.True(t, c.Match("A1"))
	assert.True(t, c.Match("B2"))
	assert.False(t, c.Match("A1B2"))
}

func TestParseFacets(t *testing.T) {
	s := parseOne(t, `<specification name="All facets" identifier="F1" ifcVersion="IFC4 IFC4X3">
  <applicability>
    <entity>
      <name><simpleValue>IFCWALL</simpleValue></name>
      <predefinedType><simpleValue>SHEAR</simpleValue></predefinedType>
    </entity>
    <unknownFacet/>
  </applicability>
  <requirements>
    <attribute><name><simpleValue>Name</simpleValue></name><value><xs:restriction><xs:pattern value="W-.*"/></xs:restriction></value></attribute>
    <property dataType="IfcLabel"><propertySet>Pset_WallCommon</propertySet><baseName>FireRating</baseName></property>
    <property><propertySet>Qto</propertySet><name>Width</name></property>
    <classification uri="https://identifier.buildingsmart.org/uniclass"><system>Uniclass</system><value>EF_25_10</value></classification>
    <material><value>Concrete</value></material>
    <partOf relation="IFCRELAGGREGATES"><entity><name>IFCBUILDINGSTOREY</name></entity></partOf>
    <partOf/>
  </requirements>
</specification>`)

	assert.Equal(t, "F1", s.Identifier)
	assert.Equal(t, "All facets", s.Name)
	assert.Equal(t, []goids.Version{goids.IFC4, goids.IFC4X3}, s.IFCVersions)

	require.Len(t, s.Applicability, 1)
	ef := s.Applicability[0].(*goids.EntityFacet)
	assert.Equal(t, goids.SimpleValue{Value: "IFCWALL"}, ef.Name)
	assert.Equal(t, goids.SimpleValue{Value: "SHEAR"}, ef.PredefinedType)

	require.Len(t, s.Requirements, 7)
	types := make([]goids.FacetType, len(s.Requirements))
	for i, r := range s.Requirements {
		types[i] = r.Facet.Type()
	}
	assert.Equal(t, []goids.FacetType{
		goids.FacetAttribute, goids.FacetProperty, goids.FacetProperty,
		goids.FacetClassification, goids.FacetMaterial, goids.FacetPartOf, goids.FacetPartOf,
	}, types)

	af := s.Requirements[0].Facet.(*goids.AttributeFacet)
	assert.Equal(t, goids.Pattern{Pattern: "W-.*"}, af.Value)

	pf := s.Requirements[1].Facet.(*goids.PropertyFacet)
	assert.Equal(t, "IFCLABEL", pf.DataType)
	assert.Nil(t, pf.Value)

	legacy := s.Requirements[2].Facet.(*goids.PropertyFacet)
	assert.Equal(t, goids.SimpleValue{Value: "Width"}, legacy.BaseName)

	cf := s.Requirements[3].Facet.(*goids.ClassificationFacet)
	assert.Equal(t, "https://identifier.buildingsmart.org/uniclass", cf.URI)
	assert.Equal(t, goids.SimpleValue{Value: "Uniclass"}, cf.System)

	po := s.Requirements[5].Facet.(*goids.PartOfFacet)
	assert.Equal(t, goids.RelAggregates, po.Relation)
	require.NotNil(t, po.Entity)
	assert.Equal(t, goids.SimpleValue{Value: "IFCBUILDINGSTOREY"}, po.Entity.Name)

	bare := s.Requirements[6].Facet.(*goids.PartOfFacet)
	assert.Equal(t, goids.RelContained, bare.Relation)
	assert.Nil(t, bare.Entity)
}

func TestNormalizeRelation(t *testing.T) {
	tests := map[string]goids.Relation{
		"IFCRELAGGREGATES":                  goids.RelAggregates,
		"IfcRelAggregates":                  goids.RelAggregates,
		"IFCRELNESTS":                       goids.RelNests,
		"IfcRelVoidsElement":                goids.RelVoids,
		"IFCRELFILLSELEMENT":                goids.RelFills,
		"IFCRELCONTAINEDINSPATIALSTRUCTURE": goids.RelContained,
		"IfcRelContainedInSpatialStructure": goids.RelContained,
		"":                                  goids.RelContained,
		"IFCRELASSIGNSTOGROUP":              goids.RelContained,
	}
	for raw, want := range tests {
		assert.Equal(t, want, goids.NormalizeRelation(raw), raw)
	}
}

func TestLookupRelation(t *testing.T) {
	tests := []struct {
		raw  string
		want goids.Relation
		ok   bool
	}{
		{"IfcRelAggregates", goids.RelAggregates, true},
		{" ifcrelnests ", goids.RelNests, true},
		{"IFCRELVOIDSELEMENT", goids.RelVoids, true},
		{"IfcRelFillsElement", goids.RelFills, true},
		{"IfcRelContainedInSpatialStructure", goids.RelContained, true},
		{"IfcRelAssignsToGroup", "", false},
		{"IfcRelDefinesByType", "", false},
		{"IfcRelContained", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := goids.LookupRelation(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestParseDocumentReader(t *testing.T) {
	doc, err := goids.ParseDocumentReader(strings.NewReader(specDoc(`<specification name="a"/><specification name="b"/>`)))
	require.NoError(t, err)
	require.Len(t, doc.Specifications, 2)
	assert.Equal(t, "spec-2", doc.Specifications[1].Identifier)
	assert.Equal(t, "b", doc.Specifications[1].Name)
}
