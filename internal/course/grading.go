package course

import (
	"shaqyru-backend/internal/models"
)

// IsMultiChoice reports whether a test expects a set of answers rather
// than a single one: more than one answer is flagged correct.
func IsMultiChoice(t models.Test) bool {
	correct := 0
	for _, a := range t.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	return correct > 1
}

// CorrectAnswerIDs lists the correct answers of a test. Only exposed to
// clients after a submission has been recorded.
func CorrectAnswerIDs(t models.Test) []int64 {
	var ids []int64
	for _, a := range t.Answers {
		if a.IsCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Grade scores one submission against a test. Single-choice tests pass
// when the one selected answer is correct; multi-choice tests pass only
// when the selected set matches the correct set exactly.
func Grade(t models.Test, selected []int64, attempts int) models.TestResult {
	correctSet := make(map[int64]bool)
	for _, a := range t.Answers {
		if a.IsCorrect {
			correctSet[a.ID] = true
		}
	}

	selectedSet := make(map[int64]bool)
	for _, id := range selected {
		selectedSet[id] = true
	}

	correctCount := 0
	incorrectCount := 0
	for id := range selectedSet {
		if correctSet[id] {
			correctCount++
		} else {
			incorrectCount++
		}
	}

	total := len(correctSet)
	if total == 0 {
		total = 1
	}

	passed := incorrectCount == 0 && correctCount == len(correctSet) && len(selectedSet) > 0

	score := 0
	if passed {
		score = 100
	} else if total > 0 {
		score = correctCount * 100 / total
	}

	return models.TestResult{
		TestID:         t.ID,
		Passed:         passed,
		Score:          score,
		CorrectCount:   correctCount,
		IncorrectCount: incorrectCount,
		TotalQuestions: total,
		Attempts:       attempts,
		AnswerIDs:      selected,
	}
}

// LessonCompleted reports whether every test in the lesson has a passed
// result. Lessons without tests never auto-complete; those go through the
// explicit completion path.
func LessonCompleted(lesson models.Lesson, results map[int64]models.TestResult) bool {
	if len(lesson.Tests) == 0 {
		return false
	}
	for _, t := range lesson.Tests {
		r, ok := results[t.ID]
		if !ok || !r.Passed {
			return false
		}
	}
	return true
}
