package goids

import (
	"errors"
	"fmt"
	"strings"
)

// FailureCode classifies why a facet did not hold for an entity.
type FailureCode string

// Failure codes (exported consts for IDE completion and type safety by convention)
const (
	CodeEntityTypeMismatch           FailureCode = "entity_type_mismatch"
	CodePredefinedTypeMissing        FailureCode = "predefined_type_missing"
	CodePredefinedTypeMismatch       FailureCode = "predefined_type_mismatch"
	CodeAttributeMissing             FailureCode = "attribute_missing"
	CodeAttributeValueMismatch       FailureCode = "attribute_value_mismatch"
	CodeAttributePatternMismatch     FailureCode = "attribute_pattern_mismatch"
	CodePropertySetMissing           FailureCode = "property_set_missing"
	CodePropertyMissing              FailureCode = "property_missing"
	CodePropertyValueMismatch        FailureCode = "property_value_mismatch"
	CodePropertyDataTypeMismatch     FailureCode = "property_datatype_mismatch"
	CodePropertyOutOfRange           FailureCode = "property_out_of_range"
	CodeClassificationMissing        FailureCode = "classification_missing"
	CodeClassificationSystemMismatch FailureCode = "classification_system_mismatch"
	CodeClassificationValueMismatch  FailureCode = "classification_value_mismatch"
	CodeMaterialMissing              FailureCode = "material_missing"
	CodeMaterialValueMismatch        FailureCode = "material_value_mismatch"
	CodePartOfRelationMissing        FailureCode = "part_of_relation_missing"
	CodePartOfEntityMismatch         FailureCode = "part_of_entity_mismatch"

	// Requirement level: a prohibited facet held for the entity.
	CodeProhibitedPresent FailureCode = "prohibited_present"
)

// FailureCodes lists every failure code in a stable order.
var FailureCodes = []FailureCode{
	CodeEntityTypeMismatch,
	CodePredefinedTypeMissing,
	CodePredefinedTypeMismatch,
	CodeAttributeMissing,
	CodeAttributeValueMismatch,
	CodeAttributePatternMismatch,
	CodePropertySetMissing,
	CodePropertyMissing,
	CodePropertyValueMismatch,
	CodePropertyDataTypeMismatch,
	CodePropertyOutOfRange,
	CodeClassificationMissing,
	CodeClassificationSystemMismatch,
	CodeClassificationValueMismatch,
	CodeMaterialMissing,
	CodeMaterialValueMismatch,
	CodePartOfRelationMissing,
	CodePartOfEntityMismatch,
	CodeProhibitedPresent,
}

// FailureDetail is the structured part of a failed facet check.
type FailureDetail struct {
	Code     FailureCode `json:"code"`
	Field    string      `json:"field,omitempty"`
	Actual   string      `json:"actual,omitempty"`
	Expected string      `json:"expected,omitempty"`
}

// ParseError reports a rule document that is structurally invalid. No partial
// document accompanies it.
type ParseError struct {
	Message string
	Details string
	Cause   error
}

func (e *ParseError) Error() string {
	b := &strings.Builder{}
	b.WriteString("goids: parse: ")
	b.WriteString(e.Message)
	if e.Details != "" {
		fmt.Fprintf(b, " (%s)", e.Details)
	}
	if e.Cause != nil {
		fmt.Fprintf(b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Cause }

func parseErrorf(details string, format string, a ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, a...), Details: details}
}

// AsParseError extracts a *ParseError from an error using errors.As internally.
func AsParseError(err error) (*ParseError, bool) {
	if err == nil {
		return nil, false
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

var (
	// ErrNilDocument is returned when Validate is called without a document.
	ErrNilDocument = errors.New("goids: nil document")
	// ErrNilAccessor is returned when Validate is called without an accessor.
	ErrNilAccessor = errors.New("goids: nil accessor")
)
