// Package fragment parses implementor fragments as documentation build
// tooling emits them: either a bare JSON object mapping component names to
// entry lists, or a JS fragment wrapping that object in a closure that
// registers it with the page runtime.
package fragment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"implidx/internal/common/fsutil"
	"implidx/pkg/types"
)

// Fragment is one parsed implementor file.
type Fragment struct {
	// Name is the source filename (including extension).
	Name string
	// Path is the absolute file path.
	Path string
	// Map is the decoded implementor map.
	Map types.ImplementorMap
}

// Parse decodes fragment bytes. Bare JSON objects are decoded directly;
// anything else is treated as a JS fragment and the brace-balanced object
// following the `implementors` assignment is extracted and decoded. The
// register-or-stash tail around the object is ignored.
func Parse(data []byte) (types.ImplementorMap, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return parseJSON([]byte(trimmed))
	}
	obj, err := extractImplementorsObject(trimmed)
	if err != nil {
		return nil, err
	}
	return parseJSON([]byte(obj))
}

func parseJSON(data []byte) (types.ImplementorMap, error) {
	var m types.ImplementorMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode implementors object: %w", err)
	}
	return m, nil
}

// extractImplementorsObject finds the JSON object assigned to the
// `implementors` variable inside a JS fragment and returns it verbatim.
func extractImplementorsObject(src string) (string, error) {
	idx := strings.Index(src, "implementors")
	if idx < 0 {
		return "", fmt.Errorf("no implementors assignment in fragment")
	}
	rest := src[idx+len("implementors"):]
	eq := strings.Index(rest, "=")
	if eq < 0 {
		return "", fmt.Errorf("no implementors assignment in fragment")
	}
	rest = rest[eq+1:]
	open := strings.Index(rest, "{")
	if open < 0 {
		return "", fmt.Errorf("no object literal after implementors assignment")
	}
	return balancedObject(rest[open:])
}

// balancedObject returns the leading brace-balanced object from s,
// honoring string literals and escapes so braces inside entry text do not
// terminate the scan early.
func balancedObject(s string) (string, error) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated implementors object")
}

// LoadFile parses a single fragment file, dispatching on extension:
// .js fragments get the closure stripped, .json files must be bare maps.
func LoadFile(path string) (Fragment, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Fragment{}, fmt.Errorf("abs path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Fragment{}, err
	}
	var m types.ImplementorMap
	switch ext := strings.ToLower(filepath.Ext(abs)); ext {
	case ".js":
		m, err = Parse(data)
	case ".json":
		m, err = parseJSON(data)
	default:
		return Fragment{}, fmt.Errorf("unsupported fragment extension: %s", ext)
	}
	if err != nil {
		return Fragment{}, fmt.Errorf("%s: %w", filepath.Base(abs), err)
	}
	return Fragment{Name: filepath.Base(abs), Path: abs, Map: m}, nil
}

// LoadDir scans dir (non-recursively) for *.js and *.json fragment files
// and parses each. Results are ordered by filename so repeated loads
// publish in a deterministic order.
func LoadDir(dir string) ([]Fragment, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var frags []Fragment
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch ext := strings.ToLower(filepath.Ext(name)); ext {
		case ".js", ".json":
		default:
			continue
		}
		f, err := LoadFile(filepath.Join(abs, name))
		if err != nil {
			return nil, err
		}
		frags = append(frags, f)
	}
	sort.Slice(frags, func(i, j int) bool { return frags[i].Name < frags[j].Name })
	return frags, nil
}
