// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"
)

// ErrInvalidRequest marks a request whose envelope fields are unusable: a
// bad report name, an unknown document type, or a missing record.
var ErrInvalidRequest = errors.New("invalid request")

// DocumentType selects the output format of a report.
type DocumentType string

const (
	// DocumentDocx is the editable word-processor format.
	DocumentDocx DocumentType = "docx"

	// DocumentPDF is the fixed-layout format.
	DocumentPDF DocumentType = "pdf"
)

// Ext returns the file extension for the format, without the dot.
func (d DocumentType) Ext() string { return string(d) }

// Valid reports whether d is a supported format.
func (d DocumentType) Valid() bool {
	return d == DocumentDocx || d == DocumentPDF
}

// ParseDocumentType maps a format name to a DocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	d := DocumentType(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: unsupported document type %q: use docx or pdf", ErrInvalidRequest, s)
	}
	return d, nil
}

// ReportRequest is one report to generate.
type ReportRequest struct {
	// Name is the report title and the base of every output file name.
	Name string

	// DocumentType is the requested output format.
	DocumentType DocumentType

	// Password protects the output when non-empty.
	Password string

	// Record is the content to render.
	Record Record
}

// Validate checks the envelope fields and wraps every failure in
// ErrInvalidRequest. The record itself is never rejected for missing
// content.
func (r ReportRequest) Validate() error {
	var errs []error
	if err := ValidateReportName(r.Name); err != nil {
		errs = append(errs, err)
	}
	if !r.DocumentType.Valid() {
		errs = append(errs, fmt.Errorf("unsupported document type %q: use docx or pdf", r.DocumentType))
	}
	if r.Record == nil {
		errs = append(errs, errors.New("record is required"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidRequest, errors.Join(errs...))
}

// ValidateReportName rejects names that cannot be used as a file name inside
// the output directory.
func ValidateReportName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("report name is required")
	case name == "." || name == "..":
		return fmt.Errorf("report name %q is not a valid file name", name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("report name %q must not contain path separators", name)
	}
	return nil
}

// wireRequest is the JSON shape of a request.
type wireRequest struct {
	NameReport   string          `json:"name_report"`
	DocumentType string          `json:"document_type"`
	Password     *string         `json:"password"`
	Data         json.RawMessage `json:"data"`
}

// DecodeRequest parses a JSON request whose data field holds a record of
// the given kind.
func DecodeRequest(kind RecordKind, data []byte) (ReportRequest, error) {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return ReportRequest{}, fmt.Errorf("parsing request: %w", err)
	}

	docType, err := ParseDocumentType(w.DocumentType)
	if err != nil {
		return ReportRequest{}, err
	}

	rec, err := NewRecord(kind)
	if err != nil {
		return ReportRequest{}, err
	}
	if len(bytes.TrimSpace(w.Data)) > 0 && !bytes.Equal(bytes.TrimSpace(w.Data), []byte("null")) {
		if err := json.Unmarshal(w.Data, rec); err != nil {
			return ReportRequest{}, fmt.Errorf("parsing %s record: %w", kind, err)
		}
	}

	req := ReportRequest{
		Name:         w.NameReport,
		DocumentType: docType,
		Record:       rec,
	}
	if w.Password != nil {
		req.Password = *w.Password
	}
	if err := req.Validate(); err != nil {
		return ReportRequest{}, err
	}
	return req, nil
}

// DecodeRequestYAML parses a YAML request. The document is converted to JSON
// first so both forms share the same field codecs.
func DecodeRequestYAML(kind RecordKind, data []byte) (ReportRequest, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ReportRequest{}, fmt.Errorf("parsing request yaml: %w", err)
	}
	raw, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return ReportRequest{}, fmt.Errorf("converting request yaml: %w", err)
	}
	return DecodeRequest(kind, raw)
}

// DecodeRequestTOML parses a TOML request. Like YAML it is routed through
// JSON, with native TOML dates and times rewritten to the text forms the
// record codecs accept.
func DecodeRequestTOML(kind RecordKind, data []byte) (ReportRequest, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return ReportRequest{}, fmt.Errorf("parsing request toml: %w", err)
	}
	raw, err := json.Marshal(normalizeTOML(doc))
	if err != nil {
		return ReportRequest{}, fmt.Errorf("converting request toml: %w", err)
	}
	return DecodeRequest(kind, raw)
}

// TOML local values decode to time.Time in zones named after their kind.
// A local time has no date and would otherwise marshal as year zero.
const (
	tomlLocalTime     = "time-local"
	tomlLocalDate     = "date-local"
	tomlLocalDatetime = "datetime-local"
)

// normalizeTOML replaces time.Time values with text that keeps their TOML
// kind: "15:04:05" for local times, "2006-01-02" for local dates, a
// zone-less date-time for local date-times, and RFC 3339 otherwise.
func normalizeTOML(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			node[k] = normalizeTOML(child)
		}
		return node
	case []map[string]any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = normalizeTOML(child)
		}
		return out
	case []any:
		for i, child := range node {
			node[i] = normalizeTOML(child)
		}
		return node
	case time.Time:
		switch node.Location().String() {
		case tomlLocalTime:
			return node.Format("15:04:05.999999999")
		case tomlLocalDate:
			return node.Format("2006-01-02")
		case tomlLocalDatetime:
			return node.Format("2006-01-02T15:04:05.999999999")
		default:
			return node.Format(time.RFC3339Nano)
		}
	default:
		return v
	}
}

// normalizeYAML rewrites map[any]any nodes, which encoding/json cannot
// marshal, into map[string]any.
func normalizeYAML(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			node[k] = normalizeYAML(child)
		}
		return node
	case map[any]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return out
	case []any:
		for i, child := range node {
			node[i] = normalizeYAML(child)
		}
		return node
	default:
		return v
	}
}
