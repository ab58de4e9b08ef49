package models

import (
	"time"

	"github.com/google/uuid"
)

// Course with its nested chapter/lesson/test tree.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Language    string    `json:"language"`
	Status      string    `json:"status"` // "draft", "published"
	Price       int64     `json:"price"`
	IsFree      bool      `json:"is_free"`
	Chapters    []Chapter `json:"chapters,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Chapter struct {
	ID       int64    `json:"id"`
	CourseID int64    `json:"course_id"`
	Order    int      `json:"order"`
	Title    string   `json:"title"`
	Lessons  []Lesson `json:"lessons,omitempty"`
}

type Lesson struct {
	ID        int64  `json:"id"`
	ChapterID int64  `json:"chapter_id"`
	Order     int    `json:"order"`
	Title     string `json:"title"`
	VideoURL  string `json:"video_url"`
	Tests     []Test `json:"tests,omitempty"`
}

type Test struct {
	ID       int64  `json:"id"`
	LessonID int64  `json:"lesson_id"`
	Question string `json:"question"`
	// Derived from the answers; clients need it to render a multi-select
	// form without seeing which answers are correct.
	MultipleChoice bool     `json:"multiple_choice"`
	Answers        []Answer `json:"answers,omitempty"`
}

type Answer struct {
	ID         int64  `json:"id"`
	TestID     int64  `json:"test_id"`
	AnswerText string `json:"answer_text"`
	// Never serialized; the client must not learn which answers are
	// correct before submitting.
	IsCorrect bool `json:"-"`
}

// Enrollment ties a user to a course.
type Enrollment struct {
	UserID    uuid.UUID `json:"user_id"`
	CourseID  int64     `json:"course_id"`
	Status    string    `json:"status"` // "active", "completed"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TestResult is the graded outcome of one test submission. Once recorded
// for a test it is final for the session; resubmissions are rejected.
type TestResult struct {
	TestID         int64     `json:"test_id"`
	UserID         uuid.UUID `json:"-"`
	Passed         bool      `json:"passed"`
	Score          int       `json:"score"`
	CorrectCount   int       `json:"correct_count"`
	IncorrectCount int       `json:"incorrect_count"`
	TotalQuestions int       `json:"total_questions"`
	Attempts       int       `json:"attempts"`
	AnswerIDs      []int64   `json:"answer_ids"`
	CreatedAt      time.Time `json:"created_at"`
}
