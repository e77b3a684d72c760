package signature

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SpiceSniper/port-explorer/internal/logger"
	"gopkg.in/yaml.v3"
)

// Load walks dir recursively and collects signatures from every yaml
// document found. Documents may take several shapes: a mapping with a
// "signatures" list, a flat name-to-match mapping, or a bare list of
// entries. Malformed entries and unreadable files are skipped with a
// warning. The returned slice is sorted by (name, match) and
// deduplicated so match priority is stable across filesystems.
func Load(dir string) ([]Signature, error) {
	log := logger.New()

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("signatures directory not found: %w", err)
	}

	signatures := []Signature{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			return nil
		}

		if d.IsDir() || !isYamlFile(path) {
			return nil
		}

		raw, err := os.ReadFile(path)

		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to read signature file")
			return nil
		}

		var doc any

		if err := yaml.Unmarshal(raw, &doc); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to parse signature file")
			return nil
		}

		signatures = append(signatures, fromDocument(doc)...)

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(signatures, func(i, j int) bool {
		if signatures[i].Name != signatures[j].Name {
			return signatures[i].Name < signatures[j].Name
		}
		return signatures[i].Match < signatures[j].Match
	})

	return dedup(signatures), nil
}

func isYamlFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// fromDocument extracts signatures from one parsed yaml document,
// accepting any of the supported shapes
func fromDocument(doc any) []Signature {
	switch val := doc.(type) {
	case map[string]any:
		return fromMapping(val)
	case []any:
		return fromSequence(val)
	default:
		return nil
	}
}

func fromMapping(m map[string]any) []Signature {
	if seq, ok := m["signatures"].([]any); ok {
		return fromSequence(seq)
	}

	// fallback: treat the mapping as flat name -> match pairs
	out := []Signature{}

	for name, v := range m {
		match, ok := v.(string)

		if !ok || name == "" || match == "" {
			continue
		}

		out = append(out, Signature{Name: name, Match: match})
	}

	return out
}

func fromSequence(seq []any) []Signature {
	out := []Signature{}

	for _, item := range seq {
		m, ok := item.(map[string]any)

		if !ok {
			continue
		}

		if sig, ok := fromEntry(m); ok {
			out = append(out, sig)
		}
	}

	return out
}

// fromEntry builds one signature from a mapping entry. Both "match"
// and the legacy "match_" key are accepted. Entries with an empty
// name or match are dropped here, never at match time.
func fromEntry(m map[string]any) (Signature, bool) {
	name, _ := m["name"].(string)
	match, ok := m["match_"].(string)

	if !ok {
		match, _ = m["match"].(string)
	}

	if name == "" || match == "" {
		return Signature{}, false
	}

	return Signature{Name: name, Match: match}, true
}

func dedup(signatures []Signature) []Signature {
	out := signatures[:0]

	for i, sig := range signatures {
		if i > 0 && sig == signatures[i-1] {
			continue
		}
		out = append(out, sig)
	}

	return out
}
