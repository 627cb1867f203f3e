package survey

import "fmt"

// Scores holds the computed scale scores for one completed answer set.
// Scale scores are means of subscale means and stay in the [1,4] answer
// range; TotalScore is the plain sum over all answered items.
type Scores struct {
	JobStress      float64
	StressReaction float64
	Support        float64
	Satisfaction   float64
	Total          float64
}

// ValidateAnswers checks that every answer value is within the accepted
// range. It does not require completeness; drafts call it too.
func ValidateAnswers(answers map[string]int) error {
	for id, v := range answers {
		if v < AnswerMin || v > AnswerMax {
			return fmt.Errorf("有効な回答を選択してください: %s", id)
		}
	}
	return nil
}

// Calculate computes all scale scores from an answer set. Missing items
// contribute zero, matching the questionnaire's lenient scoring.
func Calculate(answers map[string]int) Scores {
	get := func(i int) float64 {
		return float64(answers[fmt.Sprintf("q%d", i)])
	}
	mean := func(lo, hi int) float64 { // inclusive item range
		var sum float64
		for i := lo; i <= hi; i++ {
			sum += get(i)
		}
		return sum / float64(hi-lo+1)
	}

	jobQuantity := mean(1, 4)
	jobQuality := mean(5, 8)
	control := mean(9, 11)
	suitability := mean(12, 14)
	relationships := mean(15, 17)
	jobStress := (jobQuantity + jobQuality + control + suitability + relationships) / 5

	vitality := mean(18, 22)
	irritation := mean(23, 27)
	fatigue := mean(28, 32)
	anxiety := mean(33, 37)
	depression := mean(38, 42)
	physical := mean(43, 46)
	stressReaction := (vitality + irritation + fatigue + anxiety + depression + physical) / 6

	supervisor := mean(47, 49)
	colleague := mean(50, 52)
	family := mean(53, 55)
	support := (supervisor + colleague + family) / 3

	satisfaction := mean(56, 57)

	var total float64
	for _, v := range answers {
		total += float64(v)
	}

	return Scores{
		JobStress:      jobStress,
		StressReaction: stressReaction,
		Support:        support,
		Satisfaction:   satisfaction,
		Total:          total,
	}
}

// IsHighStress applies the referral threshold rule:
// a high stress reaction alone, or a moderate stress reaction combined with
// either a high job-stress load or low surrounding support.
func (s Scores) IsHighStress() bool {
	if s.StressReaction >= 3.0 {
		return true
	}
	if s.StressReaction >= 2.0 && s.StressReaction < 3.0 && s.JobStress >= 3.0 {
		return true
	}
	if s.StressReaction >= 2.0 && s.StressReaction < 3.0 && s.Support < 2.0 {
		return true
	}
	return false
}
