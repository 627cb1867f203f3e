package survey

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Section is one display page of the questionnaire: a half-open index range
// [Start, End) over the question list. The partition is presentation
// configuration, not a server-side grouping guarantee.
type Section struct {
	Label string `yaml:"label"`
	Start int    `yaml:"start"` // inclusive
	End   int    `yaml:"end"`   // exclusive
}

// DefaultSections returns the standard three-page split of the 57-item
// questionnaire.
func DefaultSections() []Section {
	return []Section{
		{Label: "仕事のストレス要因", Start: 0, End: 17},
		{Label: "心身のストレス反応", Start: 17, End: 46},
		{Label: "周囲のサポート・満足度", Start: 46, End: 57},
	}
}

// LoadSections parses a section table from YAML and validates it.
func LoadSections(data []byte) ([]Section, error) {
	var sections []Section
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("unable to parse section table: %w", err)
	}
	if err := ValidateSections(sections, QuestionCount); err != nil {
		return nil, err
	}
	return sections, nil
}

// ValidateSections checks that the sections exactly tile [0, total) with no
// gaps and no overlaps.
func ValidateSections(sections []Section, total int) error {
	if len(sections) == 0 {
		return fmt.Errorf("section table is empty")
	}
	sorted := make([]Section, len(sections))
	copy(sorted, sections)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	next := 0
	for _, s := range sorted {
		if s.Start != next {
			return fmt.Errorf("section %q starts at %d, want %d", s.Label, s.Start, next)
		}
		if s.End <= s.Start {
			return fmt.Errorf("section %q is empty or inverted", s.Label)
		}
		next = s.End
	}
	if next != total {
		return fmt.Errorf("sections cover [0,%d), want [0,%d)", next, total)
	}
	return nil
}
