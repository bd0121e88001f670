package diagnostic

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Diagnostics holds all diagnostic information from resolution and generation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Enum identifies which union this relates to (if any).
	Enum string
	// Variant identifies which variant this relates to (if any).
	Variant string
	// Pos is the source location (if known).
	Pos string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, enum, variant string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Enum:     enum,
		Variant:  variant,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, enum, variant string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Enum:     enum,
		Variant:  variant,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, enum, variant string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Enum:     enum,
		Variant:  variant,
	})
}

// Add appends a prepared diagnostic to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// ForEnum returns the diagnostics that belong to the named union.
func (d *Diagnostics) ForEnum(name string) Diagnostics {
	var out Diagnostics

	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range list {
			if diag.Enum == name {
				out.Add(diag)
			}
		}
	}

	return out
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Pos != "" {
		prefix = append(prefix, d.Pos)
	}

	switch {
	case d.Enum != "" && d.Variant != "":
		prefix = append(prefix, "["+d.Enum+"."+d.Variant+"]")
	case d.Enum != "":
		prefix = append(prefix, "["+d.Enum+"]")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// Write prints every diagnostic, errors first, one per line. When color is
// set the severity label is wrapped in ANSI colors.
func (d *Diagnostics) Write(w io.Writer, color bool) error {
	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range list {
			label := diag.Severity.String()
			if color {
				label = severityColor(diag.Severity) + label + ansiReset
			}

			if _, err := fmt.Fprintf(w, "%s: %s\n", label, diag); err != nil {
				return err
			}
		}
	}

	return nil
}

func severityColor(s Severity) string {
	switch s {
	case SeverityError:
		return ansiRed
	case SeverityWarning:
		return ansiYellow
	default:
		return ansiCyan
	}
}
