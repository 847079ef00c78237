// Package goids checks BIM models against buildingSMART Information Delivery
// Specification (IDS) documents.
//
// It provides:
//
// - A permissive IDS parser producing an immutable Document of typed facets and constraints (ParseDocument)
// - Closed Facet and Constraint sum types with visitor interfaces for exhaustive handling
// - A facet matcher over an abstract, read-only model Accessor (DefaultMatcher)
// - A validation orchestrator producing a serializable Report (Validate, Specifications)
// - Built-in English descriptions for requirements and failures, replaceable through a Translator
//
// Design policy:
// - Keep only public APIs in the root package; put CLI plumbing under internal/.
// - Model access lives behind Accessor; memmodel/ is an in-memory implementation.
// - Translations under i18n/, Prometheus collectors under metrics/, the CLI under cmd/idscheck.
//
// Typical usage:
//
//	doc, err := goids.ParseDocument(idsXML)
//	model, err := memmodel.LoadFile("model.yaml")
//	report, err := goids.Validate(ctx, doc, model, model.Info(),
//	    goids.WithTranslator(i18n.New("de")),
//	    goids.WithMaxEntities(1000))
//
// Results are folded through each requirement's optionality: required keeps
// the facet outcome, optional always passes, prohibited inverts it.
package goids
