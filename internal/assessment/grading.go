package assessment

import "strings"

// Grade scores a set of answers against an assessment's questions. The score
// is expressed as earned points over total points, on a 0-100 scale. An
// assessment without questions grades to zero.
func Grade(assessment *Assessment, answers map[string]string) (score float64, passed bool) {
	total := assessment.TotalPoints()
	if total <= 0 {
		return 0, false
	}

	var earned float64
	for _, question := range assessment.Questions {
		answer, ok := answers[question.ID]
		if !ok {
			continue
		}
		if answerMatches(question, answer) {
			earned += question.Points
		}
	}

	score = earned / total * 100
	return score, score >= assessment.PassingScore
}

func answerMatches(question Question, answer string) bool {
	switch question.Type {
	case QuestionShortAnswer:
		return strings.EqualFold(normalizeAnswer(answer), normalizeAnswer(question.Answer))
	case QuestionTrueFalse:
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(question.Answer))
	default:
		return strings.TrimSpace(answer) == strings.TrimSpace(question.Answer)
	}
}

func normalizeAnswer(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
