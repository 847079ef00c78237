// Package i18n provides dictionary based goids.Translator implementations.
package i18n

import (
	"golang.org/x/text/language"

	goids "github.com/reoring/goids"
)

// Translator is the built-in dictionary Translator. English requirement and
// failure texts are left to the goids fallback templates; German and
// Japanese dictionaries cover every facet and failure code.
type Translator struct {
	lang string
	dict map[string]string
}

var _ goids.Translator = (*Translator)(nil)

var (
	supported = []language.Tag{language.English, language.German, language.Japanese}
	bases     = []string{"en", "de", "ja"}
	matcher   = language.NewMatcher(supported)
)

// Match maps a BCP 47 tag such as "de-CH" to the closest supported language.
// Unknown or malformed tags fall back to "en".
func Match(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return "en"
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return "en"
	}
	return bases[idx]
}

// Languages lists the supported base languages.
func Languages() []string { return append([]string(nil), bases...) }

// New returns the Translator for the language closest to tag.
func New(tag string) *Translator {
	lang := Match(tag)
	return &Translator{lang: lang, dict: dictionaries[lang]}
}

// Lang returns the selected base language.
func (t *Translator) Lang() string { return t.lang }

// Translate returns the message for key, or "" when the dictionary has none.
func (t *Translator) Translate(key string, params map[string]string) string {
	tmpl, ok := t.dict[key]
	if !ok {
		return ""
	}
	return goids.Expand(tmpl, params)
}

// DescribeRequirement phrases r in the selected language.
func (t *Translator) DescribeRequirement(r goids.Requirement) string {
	if r.Facet == nil {
		return ""
	}
	verb, ok := t.dict["verb."+string(r.Optionality)]
	if !ok {
		return ""
	}
	p := &facetParams{params: map[string]string{"verb": verb}}
	r.Facet.Accept(p)
	tmpl, ok := t.dict["requirement."+string(r.Facet.Type())]
	if !ok {
		return ""
	}
	for _, s := range p.suffixes {
		tmpl += t.dict["suffix."+s]
	}
	return goids.Expand(tmpl, p.params)
}

// DescribeFailure phrases fc in the selected language.
func (t *Translator) DescribeFailure(fc goids.FailureContext) string {
	tmpl, ok := t.dict["failure."+string(fc.Code)]
	if !ok {
		return ""
	}
	params := fc.Params()
	if d := t.DescribeRequirement(fc.Requirement); d != "" {
		params["requirement"] = d
	}
	if fc.Actual == "" {
		params["actual"] = t.dict["none"]
	}
	if fc.Expected == "" {
		params["expected"] = t.dict["none"]
	}
	return goids.Expand(tmpl, params)
}

// facetParams collects template parameters for a facet. Suffix names select
// optional template fragments ("suffix.value" etc.).
type facetParams struct {
	params   map[string]string
	suffixes []string
}

func (p *facetParams) set(key string, c goids.Constraint) {
	if c == nil {
		return
	}
	p.params[key] = goids.ConstraintString(c)
	p.suffixes = append(p.suffixes, key)
}

func (p *facetParams) VisitEntity(f *goids.EntityFacet) {
	p.params["name"] = goids.ConstraintString(f.Name)
	p.set("predefinedType", f.PredefinedType)
}

func (p *facetParams) VisitAttribute(f *goids.AttributeFacet) {
	p.params["name"] = goids.ConstraintString(f.Name)
	p.set("value", f.Value)
}

func (p *facetParams) VisitProperty(f *goids.PropertyFacet) {
	p.params["pset"] = goids.ConstraintString(f.PropertySet)
	p.params["name"] = goids.ConstraintString(f.BaseName)
	p.set("value", f.Value)
	if f.DataType != "" {
		p.params["dataType"] = f.DataType
		p.suffixes = append(p.suffixes, "dataType")
	}
}

func (p *facetParams) VisitClassification(f *goids.ClassificationFacet) {
	p.set("system", f.System)
	p.set("value", f.Value)
}

func (p *facetParams) VisitMaterial(f *goids.MaterialFacet) {
	p.set("value", f.Value)
}

func (p *facetParams) VisitPartOf(f *goids.PartOfFacet) {
	p.params["relation"] = string(f.Relation)
	if f.Entity != nil {
		p.params["parent"] = goids.ConstraintString(f.Entity.Name)
		p.suffixes = append(p.suffixes, "parent")
	}
}
