// Package render writes validation reports and parsed documents in the
// formats offered by idscheck.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	goids "github.com/reoring/goids"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json, yaml and yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("render: unknown format %q", s)
}

// Report writes r in format f. tr localizes the text format and may be nil.
func Report(w io.Writer, r *goids.Report, f Format, tr goids.Translator) error {
	switch f {
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatYAML:
		return YAML(w, r)
	case FormatText:
		return Text(w, r, tr)
	}
	return fmt.Errorf("render: unknown format %q", f)
}

// Value writes any JSON-serializable value as JSON or YAML. The text format is
// not supported.
func Value(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		return YAML(w, v)
	}
	return fmt.Errorf("render: format %q not supported here", f)
}

// YAML writes v as YAML. The value goes through its JSON form first so that
// field names and custom MarshalJSON methods are shared with the JSON output;
// map keys come out sorted.
func YAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// Text writes a human readable summary: the header, one block per
// specification and the failed requirements of every failing entity.
func Text(w io.Writer, r *goids.Report, tr goids.Translator) error {
	bw := bufio.NewWriter(w)
	t := texts{tr: tr}
	s := r.Summary

	fmt.Fprintf(bw, "%s: %s\n", t.get("report.title", nil, "IDS validation report"), r.Document.Title)
	model := r.ModelInfo.ID
	if r.ModelInfo.Schema != "" {
		model += " (" + r.ModelInfo.Schema + ")"
	}
	fmt.Fprintf(bw, "%s: %s\n", t.get("report.model", nil, "Model"), model)
	fmt.Fprintf(bw, "%s: %s\n", t.get("report.summary", nil, "Summary"), t.get("report.specifications", map[string]string{
		"passed": strconv.Itoa(s.PassedSpecifications),
		"failed": strconv.Itoa(s.FailedSpecifications),
		"na":     strconv.Itoa(s.NotApplicableSpecifications),
		"total":  strconv.Itoa(s.TotalSpecifications),
	}, "{passed} passed, {failed} failed, {na} not applicable of {total} specifications"))
	fmt.Fprintf(bw, "  %s\n", t.get("report.entities", map[string]string{
		"passed":  strconv.Itoa(s.PassedEntities),
		"checked": strconv.Itoa(s.TotalEntitiesChecked),
		"rate":    formatRate(s.OverallPassRate),
	}, "{passed} of {checked} checked entities passed ({rate}%)"))

	for _, sr := range r.SpecificationResults {
		fmt.Fprintf(bw, "\n[%s] %s  (%s)\n", t.status(sr.Status), sr.Specification.Name, t.get("report.applicable", map[string]string{
			"applicable": strconv.Itoa(sr.ApplicableCount),
			"checked":    strconv.Itoa(sr.CheckedCount),
			"failed":     strconv.Itoa(sr.FailedCount),
		}, "{applicable} applicable, {checked} checked, {failed} failed"))
		if c := sr.Cardinality; c != nil && !c.Passed {
			fmt.Fprintf(bw, "  ! %s\n", c.Message)
		}
		for _, er := range sr.EntityResults {
			if er.Passed {
				continue
			}
			fmt.Fprintf(bw, "  #%d %s", er.EntityID, er.EntityType)
			if er.EntityName != "" {
				fmt.Fprintf(bw, " %q", er.EntityName)
			}
			if er.GlobalID != "" {
				fmt.Fprintf(bw, " [%s]", er.GlobalID)
			}
			bw.WriteString("\n")
			for _, rr := range er.RequirementResults {
				if rr.Status == goids.StatusFail {
					fmt.Fprintf(bw, "    - %s\n", rr.FailureReason)
				}
			}
		}
	}
	return bw.Flush()
}

type texts struct{ tr goids.Translator }

func (t texts) get(key string, params map[string]string, fallback string) string {
	if t.tr != nil {
		if s := t.tr.Translate(key, params); s != "" {
			return s
		}
	}
	return goids.Expand(fallback, params)
}

func (t texts) status(s goids.Status) string {
	switch s {
	case goids.StatusPass:
		return t.get("status.pass", nil, "PASS")
	case goids.StatusFail:
		return t.get("status.fail", nil, "FAIL")
	}
	return t.get("status.not_applicable", nil, "N/A")
}

func formatRate(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
