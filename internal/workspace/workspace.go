// Package workspace moves source sets between the filesystem and memory.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/utils"
)

// DefaultExcludes are skipped when loading a project directory
var DefaultExcludes = []string{"node_modules/**", ".git/**", "dist/**", "build/**", ".*"}

// Options controls Load
type Options struct {
	Include      []string // doublestar patterns; empty includes everything
	Exclude      []string
	MaxFileBytes int64
}

// DefaultOptions returns the loader defaults
func DefaultOptions() Options {
	return Options{
		Exclude:      DefaultExcludes,
		MaxFileBytes: utils.MaxFileSize,
	}
}

// Result is a loaded project
type Result struct {
	Files   types.SourceSet
	Skipped []string // binary, oversized or undecodable files
}

// Load reads the text files under dir into a SourceSet. Names are slash
// separated and relative to dir.
func Load(ctx context.Context, dir string, opts Options) (Result, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return Result{}, fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return Result{}, fmt.Errorf("open project: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("%s is not a directory", dir)
	}

	var (
		mu      sync.Mutex
		records []types.FileRecord
		skipped []string
	)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		if matchAny(opts.Exclude, name) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if len(opts.Include) > 0 && !matchAny(opts.Include, name) {
			return nil
		}

		content, ok := readText(p, opts.MaxFileBytes)
		mu.Lock()
		defer mu.Unlock()
		if !ok {
			skipped = append(skipped, name)
			return nil
		}
		records = append(records, types.NewFile(name, content))
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("walk %s: %w", dir, err)
	}

	set, err := types.NewSourceSet(records...)
	if err != nil {
		return Result{}, err
	}
	sort.Strings(skipped)
	return Result{Files: set, Skipped: skipped}, nil
}

// Write materializes set under dir, creating directories as needed
func Write(dir string, set types.SourceSet) error {
	for _, rec := range set.Records() {
		if err := utils.ValidateFileName(rec.Name); err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(rec.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", rec.Name, err)
		}
		if err := os.WriteFile(target, []byte(rec.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rec.Name, err)
		}
	}
	return nil
}

// matchAny reports whether name or its base name matches a pattern
func matchAny(patterns []string, name string) bool {
	base := filepath.Base(name)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// readText returns a file's content as UTF-8, or false for binary files
func readText(path string, limit int64) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || (limit > 0 && info.Size() > limit) {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	if !IsText(data) {
		return "", false
	}
	if utf8.Valid(data) {
		return string(data), true
	}
	return decode(data)
}

// IsText reports whether data sniffs as a text format
func IsText(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// decode converts legacy-encoded text to UTF-8 using the detected charset
func decode(data []byte) (string, bool) {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "", false
	}
	enc, _ := charset.Lookup(result.Charset)
	if enc == nil {
		return "", false
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(out) {
		return "", false
	}
	return string(out), true
}
