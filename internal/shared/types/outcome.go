package types

// CompileRequest asks for a previewable document
type CompileRequest struct {
	Framework Framework `json:"framework"`
	Files     SourceSet `json:"files"`
}

// CompileError describes why a compile failed
type CompileError struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// CompileOutcome is exactly one of a document or an error
type CompileOutcome struct {
	Success  bool          `json:"success"`
	Document string        `json:"html,omitempty"`
	Error    *CompileError `json:"error,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// Succeeded builds a success outcome
func Succeeded(document string, warnings ...string) CompileOutcome {
	return CompileOutcome{Success: true, Document: document, Warnings: warnings}
}

// Failed builds a failure outcome
func Failed(message, file string) CompileOutcome {
	return CompileOutcome{Error: &CompileError{Message: message, File: file}}
}

// FailedAt builds a failure outcome with a source position
func FailedAt(message, file string, line, column int) CompileOutcome {
	return CompileOutcome{Error: &CompileError{Message: message, File: file, Line: line, Column: column}}
}

// Valid reports whether the outcome carries exactly one of document or error
func (o CompileOutcome) Valid() bool {
	if o.Success {
		return o.Error == nil
	}
	return o.Error != nil && o.Document == ""
}

// WithWarnings returns a copy with extra warnings appended
func (o CompileOutcome) WithWarnings(warnings ...string) CompileOutcome {
	if len(warnings) == 0 {
		return o
	}
	merged := make([]string, 0, len(o.Warnings)+len(warnings))
	merged = append(merged, o.Warnings...)
	o.Warnings = append(merged, warnings...)
	return o
}
