package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// DetectedEntry is a best-effort guess at a bundle's entry file,
// narrowed from the teacher's internal/meta.Detect priority-chain
// idiom down to the one branch (package.json) that applies to an
// ECMAScript-bundle tool — Maven/Gradle/Go have no SPEC_FULL
// component to feed.
type DetectedEntry struct {
	Module string
	Entry  string
}

// Detect probes root for a package.json and returns its module name
// and preferred entry file (ESM "module" field over CJS "main"). It
// never errors: like meta.Detect, this is inference, not configuration
// — an absent or unreadable package.json simply yields a zero value.
func Detect(root string) DetectedEntry {
	path := filepath.Join(root, "package.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return DetectedEntry{}
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return DetectedEntry{}
	}

	name := strField(obj, "name")
	main := strField(obj, "main")
	module := strField(obj, "module")
	entry := module
	if entry == "" {
		entry = main
	}
	if name == "" {
		name = filepath.Base(root)
	}
	return DetectedEntry{Module: name, Entry: entry}
}

func strField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
