package goids

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
)

// ParseDocument parses a serialized rule document (IDS XML).
//
// It fails with *ParseError when the input has no root element, the root is
// not an ids element, or a facet lacks a mandatory part (entity and attribute
// facets without a name, property facets without a property set or base
// name). Otherwise it is permissive: missing blocks and attributes get
// defaults, unknown elements are skipped.
func ParseDocument(data []byte) (*Document, error) {
	return ParseDocumentReader(bytes.NewReader(data))
}

// ParseDocumentString is ParseDocument for string input.
func ParseDocumentString(s string) (*Document, error) {
	return ParseDocumentReader(strings.NewReader(s))
}

// ParseDocumentReader parses a rule document from r.
func ParseDocumentReader(r io.Reader) (*Document, error) {
	xd := etree.NewDocument()
	if _, err := xd.ReadFrom(r); err != nil {
		return nil, &ParseError{Message: "malformed document", Cause: err}
	}
	root := xd.Root()
	if root == nil {
		return nil, parseErrorf("", "no root element")
	}
	if !strings.EqualFold(root.Tag, "ids") {
		return nil, parseErrorf("root="+root.Tag, "unrecognized root element")
	}

	doc := &Document{Info: parseInfo(child(root, "info"))}
	specsEl := child(root, "specifications")
	if specsEl == nil {
		doc.Specifications = []Specification{}
		return doc, nil
	}
	specEls := children(specsEl, "specification")
	doc.Specifications = make([]Specification, 0, len(specEls))
	for i, el := range specEls {
		spec, err := parseSpecification(el, i)
		if err != nil {
			return nil, err
		}
		doc.Specifications = append(doc.Specifications, spec)
	}
	return doc, nil
}

func parseInfo(el *etree.Element) Info {
	info := Info{Title: DefaultTitle}
	if el == nil {
		return info
	}
	if t := text(child(el, "title")); t != "" {
		info.Title = t
	}
	info.Copyright = text(child(el, "copyright"))
	info.Version = text(child(el, "version"))
	info.Description = text(child(el, "description"))
	info.Author = text(child(el, "author"))
	info.Date = text(child(el, "date"))
	info.Purpose = text(child(el, "purpose"))
	info.Milestone = text(child(el, "milestone"))
	return info
}

func parseSpecification(el *etree.Element, pos int) (Specification, error) {
	spec := Specification{
		Identifier:   attr(el, "identifier"),
		Name:         attr(el, "name"),
		Description:  attr(el, "description"),
		Instructions: attr(el, "instructions"),
		IFCVersions:  NormalizeVersions(attr(el, "ifcVersion")),
	}
	if spec.Identifier == "" {
		spec.Identifier = fmt.Sprintf("spec-%d", pos+1)
	}
	if spec.Name == "" {
		spec.Name = spec.Identifier
	}
	where := "specification " + spec.Identifier

	appEl := child(el, "applicability")
	minRaw, maxRaw := attr(el, "minOccurs"), attr(el, "maxOccurs")
	if minRaw == "" && maxRaw == "" && appEl != nil {
		minRaw, maxRaw = attr(appEl, "minOccurs"), attr(appEl, "maxOccurs")
	}
	spec.MinOccurs = parseMinOccurs(minRaw)
	spec.MaxOccurs = parseMaxOccurs(maxRaw)

	spec.Applicability = []Facet{}
	if appEl != nil {
		for _, fe := range appEl.ChildElements() {
			f, err := parseFacet(fe, where+" applicability")
			if err != nil {
				return Specification{}, err
			}
			if f != nil {
				spec.Applicability = append(spec.Applicability, f)
			}
		}
	}

	spec.Requirements = []Requirement{}
	if reqEl := child(el, "requirements"); reqEl != nil {
		for _, fe := range reqEl.ChildElements() {
			f, err := parseFacet(fe, where+" requirements")
			if err != nil {
				return Specification{}, err
			}
			if f == nil {
				continue
			}
			spec.Requirements = append(spec.Requirements, Requirement{
				Facet:        f,
				Optionality:  parseOptionality(fe),
				Description:  attr(fe, "description"),
				Instructions: attr(fe, "instructions"),
			})
		}
	}
	return spec, nil
}

// parseFacet returns nil, nil for elements that are not facets.
func parseFacet(el *etree.Element, where string) (Facet, error) {
	switch el.Tag {
	case "entity":
		return parseEntityFacet(el, where)
	case "attribute":
		name := child(el, "name")
		if name == nil {
			return nil, parseErrorf(where, "attribute facet without name")
		}
		return &AttributeFacet{Name: parseConstraint(name), Value: optionalConstraint(child(el, "value"))}, nil
	case "property":
		pset := child(el, "propertySet")
		base := child(el, "baseName")
		if base == nil {
			// IDS 0.9 spelled the base name as <name>.
			base = child(el, "name")
		}
		if pset == nil || base == nil {
			return nil, parseErrorf(where, "property facet requires propertySet and baseName")
		}
		return &PropertyFacet{
			PropertySet: parseConstraint(pset),
			BaseName:    parseConstraint(base),
			DataType:    strings.ToUpper(attr(el, "dataType")),
			Value:       optionalConstraint(child(el, "value")),
		}, nil
	case "classification":
		return &ClassificationFacet{
			System: optionalConstraint(child(el, "system")),
			Value:  optionalConstraint(child(el, "value")),
			URI:    attr(el, "uri"),
		}, nil
	case "material":
		return &MaterialFacet{Value: optionalConstraint(child(el, "value")), URI: attr(el, "uri")}, nil
	case "partOf":
		f := &PartOfFacet{Relation: NormalizeRelation(attr(el, "relation"))}
		if ee := child(el, "entity"); ee != nil {
			ef, err := parseEntityFacet(ee, where+" partOf")
			if err != nil {
				return nil, err
			}
			f.Entity = ef
		}
		return f, nil
	}
	return nil, nil
}

func parseEntityFacet(el *etree.Element, where string) (*EntityFacet, error) {
	name := child(el, "name")
	if name == nil {
		return nil, parseErrorf(where, "entity facet without name")
	}
	return &EntityFacet{Name: parseConstraint(name), PredefinedType: optionalConstraint(child(el, "predefinedType"))}, nil
}

func parseOptionality(el *etree.Element) Optionality {
	for _, key := range []string{"cardinality", "use"} {
		switch Optionality(strings.ToLower(attr(el, key))) {
		case Required:
			return Required
		case Optional:
			return Optional
		case Prohibited:
			return Prohibited
		}
	}
	if strings.TrimSpace(attr(el, "maxOccurs")) == "0" {
		return Prohibited
	}
	if strings.TrimSpace(attr(el, "minOccurs")) == "0" {
		return Optional
	}
	return Required
}

func optionalConstraint(el *etree.Element) Constraint {
	if el == nil {
		return nil
	}
	return parseConstraint(el)
}

// parseConstraint reads a facet field: an explicit simpleValue, else an XSD
// restriction, else the element text.
func parseConstraint(el *etree.Element) Constraint {
	if sv := child(el, "simpleValue"); sv != nil {
		return SimpleValue{Value: text(sv)}
	}
	if r := child(el, "restriction"); r != nil {
		return parseRestriction(r)
	}
	return SimpleValue{Value: text(el)}
}

func parseRestriction(r *etree.Element) Constraint {
	var (
		patterns []string
		values   []string
		b        Bounds
	)
	for _, c := range r.ChildElements() {
		v := attr(c, "value")
		switch c.Tag {
		case "pattern":
			patterns = append(patterns, v)
		case "enumeration":
			values = append(values, v)
		case "minInclusive":
			b.MinInclusive = parseBound(v)
		case "maxInclusive":
			b.MaxInclusive = parseBound(v)
		case "minExclusive":
			b.MinExclusive = parseBound(v)
		case "maxExclusive":
			b.MaxExclusive = parseBound(v)
		}
	}
	switch {
	case len(patterns) == 1:
		return Pattern{Pattern: patterns[0]}
	case len(patterns) > 1:
		// Sibling patterns in one restriction step are alternatives.
		alts := make([]string, len(patterns))
		for i, p := range patterns {
			alts[i] = "(?:" + p + ")"
		}
		return Pattern{Pattern: strings.Join(alts, "|")}
	case len(values) > 0:
		return Enumeration{Values: values}
	case !b.Empty():
		return b
	}
	if base := attr(r, "base"); base != "" {
		return SimpleValue{Value: base}
	}
	return SimpleValue{Value: text(r)}
}

func parseBound(s string) *float64 {
	n, ok := parseNumber(s)
	if !ok {
		return nil
	}
	return &n
}

func parseMinOccurs(s string) *int {
	n, ok := parseCount(s)
	if !ok {
		return nil
	}
	return &n
}

func parseMaxOccurs(s string) *Occurs {
	if strings.EqualFold(strings.TrimSpace(s), "unbounded") {
		return Unbounded()
	}
	n, ok := parseCount(s)
	if !ok {
		return nil
	}
	return OccursOf(n)
}

// parseCount accepts non-negative integral numbers. Anything else is reported
// as absent so that a malformed attribute never turns into a zero bound.
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0
	}
	f, ok := parseNumber(s)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

var versionAliases = map[string]Version{
	"IFC2X3":      IFC2X3,
	"IFC2X3TC1":   IFC2X3,
	"IFC4":        IFC4,
	"IFC4ADD1":    IFC4,
	"IFC4ADD2":    IFC4,
	"IFC4ADD2TC1": IFC4,
	"IFC4X3":      IFC4X3,
	"IFC4X3ADD1":  IFC4X3,
	"IFC4X3ADD2":  IFC4X3,
	"IFC4X3TC1":   IFC4X3,
}

// NormalizeVersion maps a raw schema token to its family. ok is false for
// tokens that belong to no known family.
func NormalizeVersion(token string) (Version, bool) {
	norm := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return -1
	}, token)
	if v, ok := versionAliases[norm]; ok {
		return v, true
	}
	switch {
	case strings.HasPrefix(norm, "IFC4X3"):
		return IFC4X3, true
	case strings.HasPrefix(norm, "IFC2X3"):
		return IFC2X3, true
	case strings.HasPrefix(norm, "IFC4"):
		return IFC4, true
	}
	return "", false
}

// NormalizeVersions parses a whitespace or comma separated ifcVersion list.
// Unknown tokens are dropped; an empty result becomes [IFC4].
func NormalizeVersions(raw string) []Version {
	var out []Version
	seen := make(map[Version]bool)
	for _, tok := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
		v, ok := NormalizeVersion(tok)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return []Version{IFC4}
	}
	return out
}

// NormalizeRelation maps a free-text relation name to a Relation, defaulting to
// spatial containment.
func NormalizeRelation(raw string) Relation {
	up := strings.ToUpper(raw)
	switch {
	case strings.Contains(up, "AGGREGAT"):
		return RelAggregates
	case strings.Contains(up, "NEST"):
		return RelNests
	case strings.Contains(up, "VOID"):
		return RelVoids
	case strings.Contains(up, "FILL"):
		return RelFills
	}
	return RelContained
}

func child(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func children(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// attr looks an attribute up by local name, ignoring any namespace prefix.
func attr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
