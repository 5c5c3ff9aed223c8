package model

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// TagSet maps a risk-category tag name to the natural-language definition
// the oracle applies when extracting indicators. The set is open: callers
// define whatever tags they need. An empty set is legal and means no
// indicators will ever be extracted.
type TagSet map[string]string

// DefaultTags returns the built-in risk categories.
func DefaultTags() TagSet {
	return TagSet{
		"VAGUE":         "Use this label for unspecific wording such as 'eco-friendly', 'green' or 'we are committed', when NO concrete measures or figures are named.",
		"INCONSISTENCY": "Watch for contradictions between imagery (see visual-description markers in the text) and the written content. Example: the image shows untouched nature while the text describes heavy industry.",
		"DATA_GAP":      "When a figure is stated (e.g. '-50% CO2') but no source or baseline year is given, flag it as a hint of a missing data source.",
	}
}

// LoadTagsFile reads a tag set from a YAML file mapping tag name to
// definition. Entries with an empty name or definition are dropped.
func LoadTagsFile(path string) (TagSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tags file: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tags file: %w", err)
	}
	tags := make(TagSet, len(raw))
	for name, def := range raw {
		name = strings.ToUpper(strings.TrimSpace(name))
		def = strings.TrimSpace(def)
		if name == "" || def == "" {
			continue
		}
		tags[name] = def
	}
	return tags, nil
}

// Names returns the tag names in sorted order, so prompt construction is
// deterministic across runs.
func (t TagSet) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
