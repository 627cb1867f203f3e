// Package survey holds the stress-check questionnaire catalog and the
// scoring rules applied to completed answer sets. The 57-item layout follows
// the Brief Job Stress Questionnaire used for the annual check.
package survey

import "github.com/kokoro-care/kokoro/pkg/api"

// Item categories as they appear on the wire.
const (
	CategoryJobStress      = "仕事のストレス要因"
	CategoryStressReaction = "心身のストレス反応"
	CategorySupport        = "周囲のサポート"
	CategorySatisfaction   = "満足度"
)

// QuestionCount is the number of items a complete submission must answer.
const QuestionCount = 57

// AnswerMin and AnswerMax bound a single item response.
const (
	AnswerMin = 1
	AnswerMax = 4
)

// Questions returns the full questionnaire in display order. The slice is
// freshly allocated so callers may not mutate the catalog.
func Questions() []api.Question {
	out := make([]api.Question, len(questionCatalog))
	copy(out, questionCatalog)
	return out
}

var questionCatalog = []api.Question{
	{ID: "q1", Text: "あなたの仕事について教えてください。", Category: CategoryJobStress},
	{ID: "q2", Text: "仕事の量は適切ですか？", Category: CategoryJobStress},
	{ID: "q3", Text: "仕事の質についてどう感じますか？", Category: CategoryJobStress},
	{ID: "q4", Text: "仕事のコントロール感はありますか？", Category: CategoryJobStress},
	{ID: "q5", Text: "仕事の適性についてどう感じますか？", Category: CategoryJobStress},
	{ID: "q6", Text: "職場の人間関係は良好ですか？", Category: CategoryJobStress},
	{ID: "q7", Text: "職場の雰囲気は良いですか？", Category: CategoryJobStress},
	{ID: "q8", Text: "仕事の負担は適切ですか？", Category: CategoryJobStress},
	{ID: "q9", Text: "仕事の裁量権はありますか？", Category: CategoryJobStress},
	{ID: "q10", Text: "仕事のやりがいは感じますか？", Category: CategoryJobStress},
	{ID: "q11", Text: "仕事の評価は適切ですか？", Category: CategoryJobStress},
	{ID: "q12", Text: "仕事のスキルは適切ですか？", Category: CategoryJobStress},
	{ID: "q13", Text: "仕事のキャリア展望はありますか？", Category: CategoryJobStress},
	{ID: "q14", Text: "仕事の環境は良いですか？", Category: CategoryJobStress},
	{ID: "q15", Text: "職場のコミュニケーションは良好ですか？", Category: CategoryJobStress},
	{ID: "q16", Text: "職場のサポートはありますか？", Category: CategoryJobStress},
	{ID: "q17", Text: "職場の協力関係は良好ですか？", Category: CategoryJobStress},
	{ID: "q18", Text: "最近、活気を感じますか？", Category: CategoryStressReaction},
	{ID: "q19", Text: "最近、イライラすることがありますか？", Category: CategoryStressReaction},
	{ID: "q20", Text: "最近、疲れを感じますか？", Category: CategoryStressReaction},
	{ID: "q21", Text: "最近、不安を感じますか？", Category: CategoryStressReaction},
	{ID: "q22", Text: "最近、気分が落ち込むことがありますか？", Category: CategoryStressReaction},
	{ID: "q23", Text: "最近、体調不良を感じますか？", Category: CategoryStressReaction},
	{ID: "q24", Text: "最近、睡眠の質は良いですか？", Category: CategoryStressReaction},
	{ID: "q25", Text: "最近、食欲はありますか？", Category: CategoryStressReaction},
	{ID: "q26", Text: "最近、集中力はありますか？", Category: CategoryStressReaction},
	{ID: "q27", Text: "最近、やる気はありますか？", Category: CategoryStressReaction},
	{ID: "q28", Text: "最近、ストレスを感じますか？", Category: CategoryStressReaction},
	{ID: "q29", Text: "最近、緊張することがありますか？", Category: CategoryStressReaction},
	{ID: "q30", Text: "最近、落ち着かないことがありますか？", Category: CategoryStressReaction},
	{ID: "q31", Text: "最近、心配事はありますか？", Category: CategoryStressReaction},
	{ID: "q32", Text: "最近、憂鬱な気分になることがありますか？", Category: CategoryStressReaction},
	{ID: "q33", Text: "最近、悲しい気持ちになることがありますか？", Category: CategoryStressReaction},
	{ID: "q34", Text: "最近、希望を感じますか？", Category: CategoryStressReaction},
	{ID: "q35", Text: "最近、楽しみはありますか？", Category: CategoryStressReaction},
	{ID: "q36", Text: "最近、満足感はありますか？", Category: CategoryStressReaction},
	{ID: "q37", Text: "最近、達成感はありますか？", Category: CategoryStressReaction},
	{ID: "q38", Text: "最近、頭痛がすることがありますか？", Category: CategoryStressReaction},
	{ID: "q39", Text: "最近、肩こりがすることがありますか？", Category: CategoryStressReaction},
	{ID: "q40", Text: "最近、腰痛がすることがありますか？", Category: CategoryStressReaction},
	{ID: "q41", Text: "最近、目の疲れを感じますか？", Category: CategoryStressReaction},
	{ID: "q42", Text: "最近、胃の調子は良いですか？", Category: CategoryStressReaction},
	{ID: "q43", Text: "最近、めまいがすることがありますか？", Category: CategoryStressReaction},
	{ID: "q44", Text: "最近、動悸がすることがありますか？", Category: CategoryStressReaction},
	{ID: "q45", Text: "最近、息切れがすることがありますか？", Category: CategoryStressReaction},
	{ID: "q46", Text: "最近、手足のしびれを感じますか？", Category: CategoryStressReaction},
	{ID: "q47", Text: "上司からのサポートはありますか？", Category: CategorySupport},
	{ID: "q48", Text: "上司との関係は良好ですか？", Category: CategorySupport},
	{ID: "q49", Text: "上司からの理解はありますか？", Category: CategorySupport},
	{ID: "q50", Text: "同僚からのサポートはありますか？", Category: CategorySupport},
	{ID: "q51", Text: "同僚との関係は良好ですか？", Category: CategorySupport},
	{ID: "q52", Text: "同僚からの理解はありますか？", Category: CategorySupport},
	{ID: "q53", Text: "家族・友人からのサポートはありますか？", Category: CategorySupport},
	{ID: "q54", Text: "家族・友人との関係は良好ですか？", Category: CategorySupport},
	{ID: "q55", Text: "家族・友人からの理解はありますか？", Category: CategorySupport},
	{ID: "q56", Text: "現在の仕事に満足していますか？", Category: CategorySatisfaction},
	{ID: "q57", Text: "現在の生活に満足していますか？", Category: CategorySatisfaction},
}
