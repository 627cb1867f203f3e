package survey

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformAnswers(value int) map[string]int {
	answers := make(map[string]int, QuestionCount)
	for i := 1; i <= QuestionCount; i++ {
		answers[fmt.Sprintf("q%d", i)] = value
	}
	return answers
}

func TestQuestionsCatalog(t *testing.T) {
	qs := Questions()
	require.Len(t, qs, QuestionCount)

	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, "q57", qs[56].ID)
	assert.Equal(t, CategoryJobStress, qs[16].Category)
	assert.Equal(t, CategoryStressReaction, qs[17].Category)
	assert.Equal(t, CategorySupport, qs[46].Category)
	assert.Equal(t, CategorySatisfaction, qs[55].Category)

	// Returned slice must be a copy of the catalog.
	qs[0].Text = "mutated"
	assert.NotEqual(t, "mutated", Questions()[0].Text)
}

func TestCalculateUniform(t *testing.T) {
	for _, value := range []int{1, 2, 3, 4} {
		scores := Calculate(uniformAnswers(value))
		v := float64(value)
		assert.InDelta(t, v, scores.JobStress, 1e-9)
		assert.InDelta(t, v, scores.StressReaction, 1e-9)
		assert.InDelta(t, v, scores.Support, 1e-9)
		assert.InDelta(t, v, scores.Satisfaction, 1e-9)
		assert.InDelta(t, float64(value*QuestionCount), scores.Total, 1e-9)
	}
}

func TestCalculateMissingItemsScoreZero(t *testing.T) {
	scores := Calculate(map[string]int{"q1": 4, "q2": 4, "q3": 4, "q4": 4})
	// jobQuantity subscale is 4, the other four job subscales are 0.
	assert.InDelta(t, 0.8, scores.JobStress, 1e-9)
	assert.InDelta(t, 16, scores.Total, 1e-9)
}

func TestIsHighStress(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
		want   bool
	}{
		{"low reaction", Scores{StressReaction: 1.9, JobStress: 4, Support: 1}, false},
		{"high reaction alone", Scores{StressReaction: 3.0, JobStress: 1, Support: 4}, true},
		{"moderate reaction high job stress", Scores{StressReaction: 2.5, JobStress: 3.0, Support: 3}, true},
		{"moderate reaction low support", Scores{StressReaction: 2.5, JobStress: 2.0, Support: 1.9}, true},
		{"moderate reaction otherwise fine", Scores{StressReaction: 2.5, JobStress: 2.9, Support: 2.0}, false},
		{"boundary reaction two", Scores{StressReaction: 2.0, JobStress: 3.0, Support: 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scores.IsHighStress())
		})
	}
}

func TestValidateAnswers(t *testing.T) {
	require.NoError(t, ValidateAnswers(map[string]int{"q1": 1, "q2": 4}))
	require.NoError(t, ValidateAnswers(map[string]int{}))

	err := ValidateAnswers(map[string]int{"q1": 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q1")

	err = ValidateAnswers(map[string]int{"q9": 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q9")
}
