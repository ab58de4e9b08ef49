package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"shaqyru-backend/internal/course"
	"shaqyru-backend/internal/models"
	"shaqyru-backend/internal/render"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

// --- templates ---

func (d *DatabaseClient) GetTemplate(templateID uuid.UUID) (*models.Template, error) {
	var t models.Template
	err := d.db.QueryRow(`
		SELECT id, canva_id, template_name, template_type, category_id, preview_url, audio_url, created_at, updated_at
		FROM templates
		WHERE id = $1
	`, templateID).Scan(
		&t.ID, &t.CanvaID, &t.TemplateName, &t.TemplateType,
		&t.CategoryID, &t.PreviewURL, &t.AudioURL, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	// Ascending id keeps the form field order stable across fetches.
	rows, err := d.db.Query(`
		SELECT id, template_id, field_name, field_name_kz, hint_text_kz
		FROM dataset_fields
		WHERE template_id = $1
		ORDER BY id ASC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset fields: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f models.DatasetField
		if err := rows.Scan(&f.ID, &f.TemplateID, &f.FieldName, &f.FieldNameKZ, &f.HintTextKZ); err != nil {
			return nil, fmt.Errorf("failed to scan dataset field: %w", err)
		}
		t.DatasetFields = append(t.DatasetFields, f)
	}

	return &t, nil
}

// --- render jobs ---

func (d *DatabaseClient) CreateRenderJob(job *models.RenderJob) error {
	_, err := d.db.Exec(`
		INSERT INTO render_jobs (id, user_id, template_id, phase, status, design_type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, job.ID, job.UserID, job.TemplateID, job.Phase, job.Status, job.DesignType)
	if err != nil {
		return fmt.Errorf("failed to create render job: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetRenderJob(renderID, userID uuid.UUID) (*models.RenderJob, error) {
	var job models.RenderJob
	err := d.db.QueryRow(`
		SELECT id, user_id, template_id, phase, status, autofill_job_id, export_job_id,
		       design_id, design_type, view_url, edit_url, thumbnail, export_urls, error_message,
		       created_at, updated_at
		FROM render_jobs
		WHERE id = $1 AND user_id = $2
	`, renderID, userID).Scan(
		&job.ID, &job.UserID, &job.TemplateID, &job.Phase, &job.Status,
		&job.AutofillJobID, &job.ExportJobID, &job.DesignID, &job.DesignType,
		&job.ViewURL, &job.EditURL, &job.Thumbnail, &job.ExportURLs, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get render job: %w", err)
	}
	return &job, nil
}

// UpdateRenderState writes a state machine snapshot back to the job row.
// Implements render.Store.
func (d *DatabaseClient) UpdateRenderState(renderID uuid.UUID, snap render.Snapshot) error {
	urlsJSON, _ := json.Marshal(snap.URLs)

	_, err := d.db.Exec(`
		UPDATE render_jobs
		SET phase = $1, status = $2,
		    autofill_job_id = NULLIF($3, ''), export_job_id = NULLIF($4, ''),
		    design_id = NULLIF($5, ''), view_url = NULLIF($6, ''),
		    edit_url = NULLIF($7, ''), thumbnail = NULLIF($8, ''),
		    export_urls = $9, error_message = NULLIF($10, ''),
		    updated_at = NOW()
		WHERE id = $11
	`, string(snap.Phase), string(snap.State),
		snap.AutofillJobID, snap.ExportJobID,
		snap.DesignID, snap.ViewURL, snap.EditURL, snap.Thumbnail,
		urlsJSON, snap.Err, renderID)
	if err != nil {
		return fmt.Errorf("failed to update render job: %w", err)
	}
	return nil
}

// --- courses ---

func (d *DatabaseClient) ListCourses(search, language string, limit, offset int) ([]models.Course, int64, error) {
	where := "WHERE status = 'published'"
	args := []interface{}{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	if language != "" {
		args = append(args, language)
		where += fmt.Sprintf(" AND language = $%d", len(args))
	}

	var total int64
	if err := d.db.QueryRow("SELECT COUNT(*) FROM courses "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, title, description, image_url, language, status, price, is_free, created_at, updated_at
		FROM courses %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Language,
			&c.Status, &c.Price, &c.IsFree, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}

	return courses, total, nil
}

// GetCourse loads a course with its full chapter/lesson/test/answer tree.
func (d *DatabaseClient) GetCourse(courseID int64) (*models.Course, error) {
	var c models.Course
	err := d.db.QueryRow(`
		SELECT id, title, description, image_url, language, status, price, is_free, created_at, updated_at
		FROM courses
		WHERE id = $1
	`, courseID).Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Language,
		&c.Status, &c.Price, &c.IsFree, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	chapters, err := d.getChapters(courseID)
	if err != nil {
		return nil, err
	}
	c.Chapters = chapters

	return &c, nil
}

func (d *DatabaseClient) getChapters(courseID int64) ([]models.Chapter, error) {
	rows, err := d.db.Query(`
		SELECT id, course_id, "order", title
		FROM chapters
		WHERE course_id = $1
		ORDER BY "order" ASC
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters: %w", err)
	}
	defer rows.Close()

	var chapters []models.Chapter
	for rows.Next() {
		var ch models.Chapter
		if err := rows.Scan(&ch.ID, &ch.CourseID, &ch.Order, &ch.Title); err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, ch)
	}

	for i := range chapters {
		lessons, err := d.getLessons(chapters[i].ID)
		if err != nil {
			return nil, err
		}
		chapters[i].Lessons = lessons
	}

	return chapters, nil
}

func (d *DatabaseClient) getLessons(chapterID int64) ([]models.Lesson, error) {
	rows, err := d.db.Query(`
		SELECT id, chapter_id, "order", title, video_url
		FROM lessons
		WHERE chapter_id = $1
		ORDER BY "order" ASC
	`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.ChapterID, &l.Order, &l.Title, &l.VideoURL); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	for i := range lessons {
		tests, err := d.getTests(lessons[i].ID)
		if err != nil {
			return nil, err
		}
		lessons[i].Tests = tests
	}

	return lessons, nil
}

func (d *DatabaseClient) getTests(lessonID int64) ([]models.Test, error) {
	rows, err := d.db.Query(`
		SELECT id, lesson_id, question
		FROM tests
		WHERE lesson_id = $1
		ORDER BY id ASC
	`, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tests: %w", err)
	}
	defer rows.Close()

	var tests []models.Test
	for rows.Next() {
		var t models.Test
		if err := rows.Scan(&t.ID, &t.LessonID, &t.Question); err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		tests = append(tests, t)
	}

	for i := range tests {
		answers, err := d.getAnswers(tests[i].ID)
		if err != nil {
			return nil, err
		}
		tests[i].Answers = answers
		tests[i].MultipleChoice = course.IsMultiChoice(tests[i])
	}

	return tests, nil
}

func (d *DatabaseClient) getAnswers(testID int64) ([]models.Answer, error) {
	rows, err := d.db.Query(`
		SELECT id, test_id, answer_text, is_correct
		FROM answers
		WHERE test_id = $1
		ORDER BY id ASC
	`, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.TestID, &a.AnswerText, &a.IsCorrect); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}

	return answers, nil
}

// GetLesson loads one lesson with its tests and answers.
func (d *DatabaseClient) GetLesson(lessonID int64) (*models.Lesson, error) {
	var l models.Lesson
	err := d.db.QueryRow(`
		SELECT id, chapter_id, "order", title, video_url
		FROM lessons
		WHERE id = $1
	`, lessonID).Scan(&l.ID, &l.ChapterID, &l.Order, &l.Title, &l.VideoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	tests, err := d.getTests(lessonID)
	if err != nil {
		return nil, err
	}
	l.Tests = tests

	return &l, nil
}

// GetTest loads one test with its answers.
func (d *DatabaseClient) GetTest(testID int64) (*models.Test, error) {
	var t models.Test
	err := d.db.QueryRow(`
		SELECT id, lesson_id, question
		FROM tests
		WHERE id = $1
	`, testID).Scan(&t.ID, &t.LessonID, &t.Question)
	if err != nil {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	answers, err := d.getAnswers(testID)
	if err != nil {
		return nil, err
	}
	t.Answers = answers
	t.MultipleChoice = course.IsMultiChoice(t)

	return &t, nil
}

// CourseIDForLesson resolves which course a lesson belongs to.
func (d *DatabaseClient) CourseIDForLesson(lessonID int64) (int64, error) {
	var courseID int64
	err := d.db.QueryRow(`
		SELECT c.course_id
		FROM lessons l
		JOIN chapters c ON c.id = l.chapter_id
		WHERE l.id = $1
	`, lessonID).Scan(&courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve course for lesson: %w", err)
	}
	return courseID, nil
}

// --- enrollments and progress ---

func (d *DatabaseClient) CreateEnrollment(userID uuid.UUID, courseID int64) error {
	_, err := d.db.Exec(`
		INSERT INTO enrollments (user_id, course_id, status)
		VALUES ($1, $2, 'active')
		ON CONFLICT (user_id, course_id) DO NOTHING
	`, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// GetEnrollment returns sql.ErrNoRows (wrapped) when the user is not
// enrolled; callers translate that into the not-enrolled redirect.
func (d *DatabaseClient) GetEnrollment(userID uuid.UUID, courseID int64) (*models.Enrollment, error) {
	var e models.Enrollment
	err := d.db.QueryRow(`
		SELECT user_id, course_id, status, created_at, updated_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`, userID, courseID).Scan(&e.UserID, &e.CourseID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &e, nil
}

func (d *DatabaseClient) CompleteLesson(userID uuid.UUID, courseID, lessonID int64) error {
	_, err := d.db.Exec(`
		INSERT INTO completed_lessons (user_id, course_id, lesson_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, lesson_id) DO NOTHING
	`, userID, courseID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to complete lesson: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetCompletedLessons(userID uuid.UUID, courseID int64) ([]int64, error) {
	rows, err := d.db.Query(`
		SELECT lesson_id
		FROM completed_lessons
		WHERE user_id = $1 AND course_id = $2
		ORDER BY lesson_id ASC
	`, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed lessons: %w", err)
	}
	defer rows.Close()

	var lessons []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan lesson id: %w", err)
		}
		lessons = append(lessons, id)
	}

	return lessons, nil
}

// --- test results ---

func (d *DatabaseClient) CreateTestResult(courseID int64, res *models.TestResult) error {
	answersJSON, _ := json.Marshal(res.AnswerIDs)

	_, err := d.db.Exec(`
		INSERT INTO test_results (user_id, course_id, test_id, passed, score, correct_count, incorrect_count, total_questions, attempts, answer_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, res.UserID, courseID, res.TestID, res.Passed, res.Score,
		res.CorrectCount, res.IncorrectCount, res.TotalQuestions, res.Attempts, answersJSON)
	if err != nil {
		return fmt.Errorf("failed to create test result: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetTestResult(userID uuid.UUID, testID int64) (*models.TestResult, error) {
	var res models.TestResult
	var answersJSON []byte
	err := d.db.QueryRow(`
		SELECT test_id, user_id, passed, score, correct_count, incorrect_count, total_questions, attempts, answer_ids, created_at
		FROM test_results
		WHERE user_id = $1 AND test_id = $2
	`, userID, testID).Scan(&res.TestID, &res.UserID, &res.Passed, &res.Score,
		&res.CorrectCount, &res.IncorrectCount, &res.TotalQuestions, &res.Attempts,
		&answersJSON, &res.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}
	_ = json.Unmarshal(answersJSON, &res.AnswerIDs)
	return &res, nil
}

// GetLessonTestResults returns the recorded results for every test in a
// lesson, keyed by test id.
func (d *DatabaseClient) GetLessonTestResults(userID uuid.UUID, lessonID int64) (map[int64]models.TestResult, error) {
	rows, err := d.db.Query(`
		SELECT r.test_id, r.user_id, r.passed, r.score, r.correct_count, r.incorrect_count, r.total_questions, r.attempts, r.answer_ids, r.created_at
		FROM test_results r
		JOIN tests t ON t.id = r.test_id
		WHERE r.user_id = $1 AND t.lesson_id = $2
	`, userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson test results: %w", err)
	}
	defer rows.Close()

	results := make(map[int64]models.TestResult)
	for rows.Next() {
		var res models.TestResult
		var answersJSON []byte
		if err := rows.Scan(&res.TestID, &res.UserID, &res.Passed, &res.Score,
			&res.CorrectCount, &res.IncorrectCount, &res.TotalQuestions, &res.Attempts,
			&answersJSON, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan test result: %w", err)
		}
		_ = json.Unmarshal(answersJSON, &res.AnswerIDs)
		results[res.TestID] = res
	}

	return results, nil
}

func (d *DatabaseClient) GetCompletedTests(userID uuid.UUID, courseID int64) ([]int64, error) {
	rows, err := d.db.Query(`
		SELECT test_id
		FROM test_results
		WHERE user_id = $1 AND course_id = $2 AND passed = TRUE
		ORDER BY test_id ASC
	`, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed tests: %w", err)
	}
	defer rows.Close()

	var tests []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan test id: %w", err)
		}
		tests = append(tests, id)
	}

	return tests, nil
}

// --- invitation images ---

func (d *DatabaseClient) UpsertInvitationImage(img *models.InvitationImage) error {
	_, err := d.db.Exec(`
		INSERT INTO invitation_images (id, user_id, site_id, stage, storage_path, storage_url, file_size, mime_type, bg_removed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, site_id) DO UPDATE
		SET stage = EXCLUDED.stage,
		    storage_path = EXCLUDED.storage_path,
		    storage_url = EXCLUDED.storage_url,
		    file_size = EXCLUDED.file_size,
		    mime_type = EXCLUDED.mime_type,
		    bg_removed = EXCLUDED.bg_removed,
		    updated_at = NOW()
	`, img.ID, img.UserID, img.SiteID, img.Stage, img.StoragePath, img.StorageURL,
		img.FileSize, img.MimeType, img.BgRemoved)
	if err != nil {
		return fmt.Errorf("failed to upsert invitation image: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetInvitationImage(siteID, userID uuid.UUID) (*models.InvitationImage, error) {
	var img models.InvitationImage
	err := d.db.QueryRow(`
		SELECT id, user_id, site_id, stage, storage_path, storage_url, file_size, mime_type, bg_removed, created_at, updated_at
		FROM invitation_images
		WHERE site_id = $1 AND user_id = $2
	`, siteID, userID).Scan(&img.ID, &img.UserID, &img.SiteID, &img.Stage,
		&img.StoragePath, &img.StorageURL, &img.FileSize, &img.MimeType,
		&img.BgRemoved, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation image: %w", err)
	}
	return &img, nil
}
