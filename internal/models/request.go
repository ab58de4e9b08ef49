package models

// AutofillRequest carries the user-filled template field values. Keys are
// dataset field names, values the text to substitute.
type AutofillRequest struct {
	Values     map[string]string `json:"values" binding:"required"`
	Title      string            `json:"title,omitempty"`
	DesignType string            `json:"design_type,omitempty"` // defaults to the template's type
}

type EnrollRequest struct {
	CourseID int64 `json:"course_id" binding:"required"`
}

type SubmitTestRequest struct {
	AnswerIDs []int64 `json:"answer_ids" binding:"required"`
}

type CompleteLessonRequest struct {
	LessonID int64  `json:"lesson_id" binding:"required"`
	Source   string `json:"source,omitempty"` // "manual", "video_end", "tests_passed"
}

// CropRequest maps the crop rectangle drawn in the client's display space
// onto the uploaded source image. DisplayWidth/DisplayHeight are the
// rendered dimensions the rectangle was drawn against.
type CropRequest struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width" binding:"required"`
	Height        float64 `json:"height" binding:"required"`
	DisplayWidth  float64 `json:"display_width" binding:"required"`
	DisplayHeight float64 `json:"display_height" binding:"required"`
}
