package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSectionsTileQuestionnaire(t *testing.T) {
	require.NoError(t, ValidateSections(DefaultSections(), QuestionCount))
}

func TestValidateSectionsRejectsGaps(t *testing.T) {
	sections := []Section{
		{Label: "a", Start: 0, End: 10},
		{Label: "b", Start: 12, End: 57},
	}
	assert.Error(t, ValidateSections(sections, QuestionCount))
}

func TestValidateSectionsRejectsOverlap(t *testing.T) {
	sections := []Section{
		{Label: "a", Start: 0, End: 30},
		{Label: "b", Start: 25, End: 57},
	}
	assert.Error(t, ValidateSections(sections, QuestionCount))
}

func TestValidateSectionsRejectsShortCoverage(t *testing.T) {
	sections := []Section{
		{Label: "a", Start: 0, End: 50},
	}
	assert.Error(t, ValidateSections(sections, QuestionCount))
}

func TestValidateSectionsRejectsEmptySection(t *testing.T) {
	sections := []Section{
		{Label: "a", Start: 0, End: 0},
		{Label: "b", Start: 0, End: 57},
	}
	assert.Error(t, ValidateSections(sections, QuestionCount))
}

func TestValidateSectionsAcceptsUnsortedInput(t *testing.T) {
	sections := []Section{
		{Label: "b", Start: 17, End: 46},
		{Label: "c", Start: 46, End: 57},
		{Label: "a", Start: 0, End: 17},
	}
	require.NoError(t, ValidateSections(sections, QuestionCount))
}

func TestLoadSections(t *testing.T) {
	data := []byte(`
- label: 仕事のストレス要因
  start: 0
  end: 17
- label: 心身のストレス反応
  start: 17
  end: 46
- label: 周囲のサポート・満足度
  start: 46
  end: 57
`)
	sections, err := LoadSections(data)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, "心身のストレス反応", sections[1].Label)
	assert.Equal(t, 17, sections[1].Start)
	assert.Equal(t, 46, sections[1].End)
}

func TestLoadSectionsRejectsBadTable(t *testing.T) {
	data := []byte(`
- label: partial
  start: 0
  end: 40
`)
	_, err := LoadSections(data)
	assert.Error(t, err)
}
