package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shaqyru-backend/internal/course"
	"shaqyru-backend/internal/i18n"
	"shaqyru-backend/internal/models"
	"shaqyru-backend/internal/storage"
)

type TestsHandler struct {
	dbClient *storage.DatabaseClient
}

func NewTestsHandler(dbClient *storage.DatabaseClient) *TestsHandler {
	return &TestsHandler{dbClient: dbClient}
}

// SubmitTest grades a submission and records the result. A test locks
// after its first recorded result; resubmissions get a 409. When the
// submission passes the last open test of its lesson, the lesson is
// marked completed as a side effect.
func (h *TestsHandler) SubmitTest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lang := requestLang(c)

	testID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid test id"})
		return
	}

	var req models.SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.AnswerIDs) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: i18n.T(lang, "tests.empty_answer"),
			Code:  "empty_answer",
		})
		return
	}

	test, err := h.dbClient.GetTest(testID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "test not found"})
		return
	}

	courseID, err := h.dbClient.CourseIDForLesson(test.LessonID)
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

	if _, err := h.dbClient.GetTestResult(userID, testID); err == nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: i18n.T(lang, "tests.already_submitted"),
			Code:  "already_submitted",
		})
		return
	}

	result := course.Grade(*test, req.AnswerIDs, 1)
	result.UserID = userID

	if err := h.dbClient.CreateTestResult(courseID, &result); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to record result",
			Message: err.Error(),
		})
		return
	}

	lesson, err := h.dbClient.GetLesson(test.LessonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load lesson",
			Message: err.Error(),
		})
		return
	}

	results, err := h.dbClient.GetLessonTestResults(userID, test.LessonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load results",
			Message: err.Error(),
		})
		return
	}

	lessonCompleted := course.LessonCompleted(*lesson, results)
	if lessonCompleted {
		if err := h.dbClient.CompleteLesson(userID, courseID, test.LessonID); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to complete lesson",
				Message: err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, models.SubmitTestResponse{
		Result:           result,
		CorrectAnswerIDs: course.CorrectAnswerIDs(*test),
		LessonCompleted:  lessonCompleted,
	})
}
