package types

import (
	"encoding/json"
	"path"
	"strings"
)

// FileKind classifies a source file
type FileKind string

const (
	KindMarkup FileKind = "markup"
	KindStyle  FileKind = "style"
	KindScript FileKind = "script"
	KindJSX    FileKind = "jsx"
	KindVue    FileKind = "vue"
	KindSvelte FileKind = "svelte"
)

// ParseKind maps editor file types and kind names onto a FileKind.
// Unknown values yield the empty kind.
func ParseKind(s string) FileKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markup", "html", "htm":
		return KindMarkup
	case "style", "css":
		return KindStyle
	case "script", "js", "mjs", "ts":
		return KindScript
	case "jsx", "tsx":
		return KindJSX
	case "vue":
		return KindVue
	case "svelte":
		return KindSvelte
	default:
		return ""
	}
}

// KindFromName infers the kind from a file extension
func KindFromName(name string) FileKind {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if kind := ParseKind(ext); kind != "" {
		return kind
	}
	return KindScript
}

// FileRecord is one named source file. Values are never patched in place;
// an edit produces a new record via WithContent.
type FileRecord struct {
	Name    string
	Content string
	Kind    FileKind
}

// NewFile creates a record with the kind inferred from its name
func NewFile(name, content string) FileRecord {
	return FileRecord{Name: name, Content: content, Kind: KindFromName(name)}
}

// WithContent returns a copy of the record holding new content
func (f FileRecord) WithContent(content string) FileRecord {
	f.Content = content
	return f
}

// Ext returns the lower-cased extension including the dot
func (f FileRecord) Ext() string {
	return strings.ToLower(path.Ext(f.Name))
}

// HasSuffix reports a case-insensitive suffix match on the name
func (f FileRecord) HasSuffix(suffix string) bool {
	return strings.HasSuffix(strings.ToLower(f.Name), strings.ToLower(suffix))
}

type fileJSON struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Kind    string `json:"kind,omitempty"`
	Type    string `json:"type,omitempty"`
}

// MarshalJSON encodes the record using the wire field names
func (f FileRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(fileJSON{Name: f.Name, Content: f.Content, Kind: string(f.Kind)})
}

// UnmarshalJSON accepts both "kind" and the editor's "type" field
func (f *FileRecord) UnmarshalJSON(data []byte) error {
	var raw fileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Name = raw.Name
	f.Content = raw.Content
	f.Kind = ParseKind(raw.Kind)
	if f.Kind == "" {
		f.Kind = ParseKind(raw.Type)
	}
	if f.Kind == "" && f.Name != "" {
		f.Kind = KindFromName(f.Name)
	}
	return nil
}
