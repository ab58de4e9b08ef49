package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type TemplateResponse struct {
	ID            string                 `json:"id"`
	CanvaID       string                 `json:"canva_id"`
	TemplateName  string                 `json:"template_name"`
	TemplateType  string                 `json:"template_type"`
	PreviewURL    string                 `json:"preview_url,omitempty"`
	AudioURL      string                 `json:"audio_url,omitempty"`
	DatasetFields []DatasetFieldResponse `json:"dataset_fields"`
}

type DatasetFieldResponse struct {
	ID          int64  `json:"id"`
	FieldName   string `json:"field_name"`
	FieldNameKZ string `json:"field_name_kz"`
	HintTextKZ  string `json:"hint_text_kz,omitempty"`
}

type RenderResponse struct {
	RenderID string `json:"render_id"`
	Phase    string `json:"phase"`
	Status   string `json:"status"`
}

type RenderStatusResponse struct {
	RenderID   string    `json:"render_id"`
	Phase      string    `json:"phase"`
	Status     string    `json:"status"`
	DesignID   string    `json:"design_id,omitempty"`
	ViewURL    string    `json:"view_url,omitempty"`
	EditURL    string    `json:"edit_url,omitempty"`
	Thumbnail  string    `json:"thumbnail,omitempty"`
	URLs       []string  `json:"urls,omitempty"`
	Video      bool      `json:"video"`
	Error      string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProgressResponse is the canonical progress shape. Older backends returned
// this value in three different nestings; this service only ever returns
// this one.
type ProgressResponse struct {
	CourseID         int64   `json:"course_id"`
	Progress         int     `json:"progress"` // 0-100
	CompletedLessons []int64 `json:"completed_lessons"`
	CompletedTests   []int64 `json:"completed_tests"`
}

type CourseListResponse struct {
	Courses []Course `json:"courses"`
	Total   int64    `json:"total"`
}

type UploadImageResponse struct {
	ImageID    string `json:"image_id"`
	Stage      string `json:"stage"`
	StorageURL string `json:"storage_url"`
	BgRemoved  bool   `json:"bg_removed"`
}

type SubmitTestResponse struct {
	Result TestResult `json:"result"`
	// Revealed only now that the result is locked in, so clients can
	// highlight each answer as correct or incorrect.
	CorrectAnswerIDs []int64 `json:"correct_answer_ids"`
	LessonCompleted  bool    `json:"lesson_completed"`
}
