package goids

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// Document is a parsed rule document. It is not modified after parsing and may
// be shared between concurrent validations.
type Document struct {
	Info           Info            `json:"info"`
	Specifications []Specification `json:"specifications"`
}

// Info is the document header.
type Info struct {
	Title       string `json:"title"`
	Copyright   string `json:"copyright,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Date        string `json:"date,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
	Milestone   string `json:"milestone,omitempty"`
}

// DefaultTitle is used when the document has no info block or no title.
const DefaultTitle = "Untitled"

// Version is a normalized IFC schema family.
type Version string

const (
	IFC2X3 Version = "IFC2X3"
	IFC4   Version = "IFC4"
	IFC4X3 Version = "IFC4X3"
)

// Specification declares which entities it applies to and what they must
// satisfy. Requirements are ANDed; their order only matters for display.
type Specification struct {
	Identifier    string        `json:"identifier"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Instructions  string        `json:"instructions,omitempty"`
	IFCVersions   []Version     `json:"ifcVersions"`
	Applicability []Facet       `json:"applicability"`
	Requirements  []Requirement `json:"requirements"`
	MinOccurs     *int          `json:"minOccurs,omitempty"`
	MaxOccurs     *Occurs       `json:"maxOccurs,omitempty"`
}

// HasCardinality reports whether either occurrence bound is declared.
func (s *Specification) HasCardinality() bool { return s.MinOccurs != nil || s.MaxOccurs != nil }

// Occurs is a maxOccurs value: a count or "unbounded".
type Occurs struct {
	Value     int
	Unbounded bool
}

// Unbounded is the "unbounded" maxOccurs value.
func Unbounded() *Occurs { return &Occurs{Unbounded: true} }

// OccursOf returns a bounded maxOccurs value.
func OccursOf(n int) *Occurs { return &Occurs{Value: n} }

func (o Occurs) String() string {
	if o.Unbounded {
		return "unbounded"
	}
	return strconv.Itoa(o.Value)
}

// MarshalJSON encodes an unbounded value as the string "unbounded".
func (o Occurs) MarshalJSON() ([]byte, error) {
	if o.Unbounded {
		return json.Marshal("unbounded")
	}
	return json.Marshal(o.Value)
}

// Optionality governs how a facet outcome folds into a requirement status.
type Optionality string

const (
	Required   Optionality = "required"
	Optional   Optionality = "optional"
	Prohibited Optionality = "prohibited"
)

// Requirement is one facet of a specification's requirements together with
// its optionality. Its identifier is its index in Specification.Requirements.
type Requirement struct {
	Facet        Facet       `json:"facet"`
	Optionality  Optionality `json:"optionality"`
	Description  string      `json:"description,omitempty"`
	Instructions string      `json:"instructions,omitempty"`
}
