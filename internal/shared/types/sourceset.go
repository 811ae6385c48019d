package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrDuplicateFile is returned when two records share a name
	ErrDuplicateFile = errors.New("duplicate file name")
	// ErrEmptyFileName is returned for records without a name
	ErrEmptyFileName = errors.New("empty file name")
)

// SourceSet maps unique file names to records. Names are case-sensitive.
// A SourceSet is immutable once built; With returns a modified copy.
type SourceSet struct {
	files map[string]FileRecord
}

// NewSourceSet builds a set from records, rejecting duplicate names
func NewSourceSet(records ...FileRecord) (SourceSet, error) {
	files := make(map[string]FileRecord, len(records))
	for _, rec := range records {
		if rec.Name == "" {
			return SourceSet{}, ErrEmptyFileName
		}
		if _, exists := files[rec.Name]; exists {
			return SourceSet{}, fmt.Errorf("%w: %s", ErrDuplicateFile, rec.Name)
		}
		if rec.Kind == "" {
			rec.Kind = KindFromName(rec.Name)
		}
		files[rec.Name] = rec
	}
	return SourceSet{files: files}, nil
}

// MustSourceSet is NewSourceSet that panics on error, for fixtures and templates
func MustSourceSet(records ...FileRecord) SourceSet {
	set, err := NewSourceSet(records...)
	if err != nil {
		panic(err)
	}
	return set
}

// SourceSetFromMap builds a set from name → content pairs
func SourceSetFromMap(contents map[string]string) SourceSet {
	files := make(map[string]FileRecord, len(contents))
	for name, content := range contents {
		if name == "" {
			continue
		}
		files[name] = NewFile(name, content)
	}
	return SourceSet{files: files}
}

// Get returns the record stored under name
func (s SourceSet) Get(name string) (FileRecord, bool) {
	rec, ok := s.files[name]
	return rec, ok
}

// Has reports whether name is present
func (s SourceSet) Has(name string) bool {
	_, ok := s.files[name]
	return ok
}

// Len returns the number of files
func (s SourceSet) Len() int {
	return len(s.files)
}

// Names returns all file names in lexical order
func (s SourceSet) Names() []string {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Records returns all records ordered by name
func (s SourceSet) Records() []FileRecord {
	names := s.Names()
	out := make([]FileRecord, len(names))
	for i, name := range names {
		out[i] = s.files[name]
	}
	return out
}

// WithSuffix returns the names ending in suffix, lexically ordered
func (s SourceSet) WithSuffix(suffix string) []string {
	var out []string
	for _, name := range s.Names() {
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(suffix)) {
			out = append(out, name)
		}
	}
	return out
}

// First returns the first name matching the suffixes, trying them in order
// and breaking ties lexically
func (s SourceSet) First(suffixes ...string) (string, bool) {
	for _, suffix := range suffixes {
		if names := s.WithSuffix(suffix); len(names) > 0 {
			return names[0], true
		}
	}
	return "", false
}

// TotalSize returns the summed content length in bytes
func (s SourceSet) TotalSize() int {
	total := 0
	for _, rec := range s.files {
		total += len(rec.Content)
	}
	return total
}

// With returns a copy of the set with rec added or replaced
func (s SourceSet) With(rec FileRecord) SourceSet {
	files := make(map[string]FileRecord, len(s.files)+1)
	for name, existing := range s.files {
		files[name] = existing
	}
	if rec.Kind == "" {
		rec.Kind = KindFromName(rec.Name)
	}
	files[rec.Name] = rec
	return SourceSet{files: files}
}

// Contents returns name → content pairs
func (s SourceSet) Contents() map[string]string {
	out := make(map[string]string, len(s.files))
	for name, rec := range s.files {
		out[name] = rec.Content
	}
	return out
}

// MarshalJSON encodes the set as an object keyed by file name
func (s SourceSet) MarshalJSON() ([]byte, error) {
	if s.files == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.files)
}

// UnmarshalJSON decodes an object keyed by file name. The key is
// authoritative for the record name.
func (s *SourceSet) UnmarshalJSON(data []byte) error {
	var raw map[string]FileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	files := make(map[string]FileRecord, len(raw))
	for name, rec := range raw {
		if name == "" {
			return ErrEmptyFileName
		}
		rec.Name = name
		if rec.Kind == "" {
			rec.Kind = KindFromName(name)
		}
		files[name] = rec
	}
	s.files = files
	return nil
}
