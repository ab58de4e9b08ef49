package course

import (
	"encoding/json"
	"fmt"

	"shaqyru-backend/internal/models"
)

// Progress is the canonical learning-progress value. Every known backend
// payload shape is mapped into it at the boundary; nothing downstream ever
// inspects raw progress payloads.
type Progress struct {
	Percent          int
	CompletedLessons []int64
	CompletedTests   []int64
}

// NormalizeProgress accepts the three payload shapes older endpoints used
// for the same value: progress nested under "enrollment", a top-level
// "progress" number, or no percentage at all (derived from the completed
// lesson count). totalLessons is used only for the derived case.
func NormalizeProgress(raw []byte, totalLessons int) (Progress, error) {
	var shape struct {
		Enrollment *struct {
			Progress         *float64 `json:"progress"`
			CompletedLessons []int64  `json:"completed_lessons"`
			CompletedTests   []int64  `json:"completed_tests"`
		} `json:"enrollment"`
		Progress         *float64 `json:"progress"`
		CompletedLessons []int64  `json:"completed_lessons"`
		CompletedTests   []int64  `json:"completed_tests"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return Progress{}, fmt.Errorf("failed to parse progress payload: %w", err)
	}

	p := Progress{
		CompletedLessons: shape.CompletedLessons,
		CompletedTests:   shape.CompletedTests,
	}
	if shape.Enrollment != nil {
		if len(p.CompletedLessons) == 0 {
			p.CompletedLessons = shape.Enrollment.CompletedLessons
		}
		if len(p.CompletedTests) == 0 {
			p.CompletedTests = shape.Enrollment.CompletedTests
		}
	}

	switch {
	case shape.Enrollment != nil && shape.Enrollment.Progress != nil:
		p.Percent = clampPercent(int(*shape.Enrollment.Progress))
	case shape.Progress != nil:
		p.Percent = clampPercent(int(*shape.Progress))
	default:
		p.Percent = ComputePercent(len(p.CompletedLessons), totalLessons)
	}

	return p, nil
}

// ComputePercent derives a 0-100 progress value from completed lesson
// counts.
func ComputePercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return clampPercent(completed * 100 / total)
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// TotalLessons counts lessons across all chapters of a course.
func TotalLessons(c *models.Course) int {
	total := 0
	for _, ch := range c.Chapters {
		total += len(ch.Lessons)
	}
	return total
}
