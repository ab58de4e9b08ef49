package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shaqyru-backend/internal/course"
	"shaqyru-backend/internal/i18n"
	"shaqyru-backend/internal/models"
	"shaqyru-backend/internal/storage"
)

type LessonsHandler struct {
	dbClient *storage.DatabaseClient
}

func NewLessonsHandler(dbClient *storage.DatabaseClient) *LessonsHandler {
	return &LessonsHandler{dbClient: dbClient}
}

// CompleteLesson marks a lesson completed from a manual or video-end
// trigger. Lessons that carry tests are gated: they only complete through
// passing every test, so direct completion is rejected until then.
func (h *LessonsHandler) CompleteLesson(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lang := requestLang(c)

	var req models.CompleteLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	lesson, err := h.dbClient.GetLesson(req.LessonID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "lesson not found"})
		return
	}

	courseID, err := h.dbClient.CourseIDForLesson(req.LessonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to resolve course",
			Message: err.Error(),
		})
		return
	}

	if _, err := h.dbClient.GetEnrollment(userID, courseID); err != nil {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error: i18n.T(lang, "course.not_enrolled"),
			Code:  "not_enrolled",
		})
		return
	}

	if len(lesson.Tests) > 0 {
		results, err := h.dbClient.GetLessonTestResults(userID, req.LessonID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to load results",
				Message: err.Error(),
			})
			return
		}
		if !course.LessonCompleted(*lesson, results) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error: "lesson has unpassed tests",
				Code:  "tests_required",
			})
			return
		}
	}

	if err := h.dbClient.CompleteLesson(userID, courseID, req.LessonID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to complete lesson",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lesson_id": req.LessonID, "completed": true})
}
