// Package diag defines Arc's diagnostic model. It reuses hcl.Pos, hcl.Range
// and hcl.Diagnostic as the generic position/severity primitives rather than
// inventing a parallel type: Arc never parses HCL, but the shape of "a
// severity, a human summary/detail, and a byte/line/column range into a
// named file" is exactly what hcl.Diagnostic already models.
package diag

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/hcl/v2"
)

// Code is a stable machine-readable diagnostic identifier, e.g. "ARC-PIPELINE-CYCLE".
type Code string

const (
	CodeIOFailure         Code = "ARC-IO-FAILURE"
	CodeParseError        Code = "ARC-PARSE-ERROR"
	CodeInvalidLiteral    Code = "ARC-INVALID-LITERAL"
	CodeUnknownDecorator  Code = "ARC-UNKNOWN-DECORATOR"
	CodeMissingField      Code = "ARC-MISSING-FIELD"
	CodeInvalidFieldType  Code = "ARC-INVALID-FIELD-TYPE"
	CodeDuplicateName     Code = "ARC-DUPLICATE-NAME"
	CodeDuplicateStepID   Code = "ARC-DUPLICATE-STEP-ID"
	CodeUnknownDependency Code = "ARC-UNKNOWN-DEPENDENCY"
	CodePipelineCycle     Code = "ARC-PIPELINE-CYCLE"
	CodeConfigInvalid     Code = "ARC-CONFIG-INVALID"
	CodeBundleWriteFailed Code = "ARC-BUNDLE-WRITE-FAILED"
)

// New builds an hcl.Diagnostic carrying a Code in its Extra slot.
func New(severity hcl.DiagnosticSeverity, code Code, summary, detail string, rng hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: severity,
		Summary:  summary,
		Detail:   detail,
		Subject:  &rng,
		Extra:    code,
	}
}

// Errorf builds an error-severity diagnostic using fmt.Sprintf for the detail.
func Errorf(code Code, rng hcl.Range, summary, format string, args ...any) *hcl.Diagnostic {
	return New(hcl.DiagError, code, summary, fmt.Sprintf(format, args...), rng)
}

// CodeOf extracts the Code stashed in Diagnostic.Extra, if any.
func CodeOf(d *hcl.Diagnostic) (Code, bool) {
	code, ok := d.Extra.(Code)
	return code, ok
}

// Sink accumulates diagnostics from concurrently running per-file tasks.
// It is safe for concurrent use by multiple goroutines.
type Sink struct {
	mutex sync.Mutex
	diags hcl.Diagnostics
}

// NewSink returns an empty, ready-to-use Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends diagnostics to the sink. Nil diagnostics are ignored.
func (s *Sink) Add(diags ...*hcl.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, d := range diags {
		if d != nil {
			s.diags = append(s.diags, d)
		}
	}
}

// AddAll appends an hcl.Diagnostics slice to the sink.
func (s *Sink) AddAll(diags hcl.Diagnostics) {
	if len(diags) == 0 {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.diags = append(s.diags, diags...)
}

// HasErrors reports whether the sink contains at least one error-severity diagnostic.
func (s *Sink) HasErrors() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.diags.HasErrors()
}

// Sorted returns a deterministically ordered copy of the accumulated
// diagnostics: by filename, then by starting byte offset, then by summary
// as a final tie-break for diagnostics that share a position.
func (s *Sink) Sorted() hcl.Diagnostics {
	s.mutex.Lock()
	out := make(hcl.Diagnostics, len(s.diags))
	copy(out, s.diags)
	s.mutex.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := subjectRange(out[i]), subjectRange(out[j])
		if ri.Filename != rj.Filename {
			return ri.Filename < rj.Filename
		}
		if ri.Start.Byte != rj.Start.Byte {
			return ri.Start.Byte < rj.Start.Byte
		}
		return out[i].Summary < out[j].Summary
	})
	return out
}

func subjectRange(d *hcl.Diagnostic) hcl.Range {
	if d.Subject != nil {
		return *d.Subject
	}
	return hcl.Range{}
}

// Record is the machine-readable shape of one diagnostic: one JSON object
// per line when a caller requests the structured stream alongside the
// human-readable output.
type Record struct {
	Severity string `json:"severity"`
	Code     Code   `json:"code"`
	File     string `json:"file"`
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
	Message  string `json:"message"`
}

// ToRecord converts an hcl.Diagnostic into its machine-readable Record.
func ToRecord(d *hcl.Diagnostic) Record {
	rng := subjectRange(d)
	sev := "error"
	switch d.Severity {
	case hcl.DiagWarning:
		sev = "warning"
	case hcl.DiagInvalid:
		sev = "invalid"
	}
	code, _ := CodeOf(d)
	msg := d.Summary
	if d.Detail != "" {
		msg = fmt.Sprintf("%s: %s", d.Summary, d.Detail)
	}
	return Record{
		Severity: sev,
		Code:     code,
		File:     rng.Filename,
		Offset:   rng.Start.Byte,
		Length:   rng.End.Byte - rng.Start.Byte,
		Message:  msg,
	}
}

// Counts tallies error- and warning-severity diagnostics for the footer
// line printed after a run's diagnostic output.
func Counts(diags hcl.Diagnostics) (errors, warnings int) {
	for _, d := range diags {
		switch d.Severity {
		case hcl.DiagError:
			errors++
		case hcl.DiagWarning:
			warnings++
		}
	}
	return errors, warnings
}

// Format renders a diagnostic as "file:line:col: severity[CODE]: message",
// a compact, tool-friendly style suitable for terminal output and
// editor integration alike.
func Format(d *hcl.Diagnostic) string {
	rng := subjectRange(d)
	sev := "error"
	switch d.Severity {
	case hcl.DiagWarning:
		sev = "warning"
	case hcl.DiagInvalid:
		sev = "invalid"
	}
	code, _ := CodeOf(d)
	msg := d.Summary
	if d.Detail != "" {
		msg = fmt.Sprintf("%s: %s", d.Summary, d.Detail)
	}
	return fmt.Sprintf("%s:%d:%d: %s[%s]: %s", rng.Filename, rng.Start.Line, rng.Start.Column, sev, code, msg)
}
