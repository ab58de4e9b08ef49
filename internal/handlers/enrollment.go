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

type EnrollmentHandler struct {
	dbClient *storage.DatabaseClient
	cache    *storage.Cache
}

func NewEnrollmentHandler(dbClient *storage.DatabaseClient, cache *storage.Cache) *EnrollmentHandler {
	return &EnrollmentHandler{dbClient: dbClient, cache: cache}
}

// Enroll puts the user into a course. Enrolling twice is a no-op.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if _, err := h.cache.GetCourse(c.Request.Context(), req.CourseID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "course not found"})
		return
	}

	if err := h.dbClient.CreateEnrollment(userID, req.CourseID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to enroll",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"course_id": req.CourseID, "status": "active"})
}

// GetProgress returns the user's progress in a course in the canonical
// shape. An unenrolled user gets a 404 with code "not_enrolled" so
// clients can redirect to the course page.
func (h *EnrollmentHandler) GetProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lang := requestLang(c)

	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid course id"})
		return
	}

	if _, err := h.dbClient.GetEnrollment(userID, courseID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: i18n.T(lang, "course.not_enrolled"),
			Code:  "not_enrolled",
		})
		return
	}

	crs, err := h.cache.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "course not found"})
		return
	}

	completedLessons, err := h.dbClient.GetCompletedLessons(userID, courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load progress",
			Message: err.Error(),
		})
		return
	}
	completedTests, err := h.dbClient.GetCompletedTests(userID, courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load progress",
			Message: err.Error(),
		})
		return
	}

	if completedLessons == nil {
		completedLessons = []int64{}
	}
	if completedTests == nil {
		completedTests = []int64{}
	}

	c.JSON(http.StatusOK, models.ProgressResponse{
		CourseID:         courseID,
		Progress:         course.ComputePercent(len(completedLessons), course.TotalLessons(crs)),
		CompletedLessons: completedLessons,
		CompletedTests:   completedTests,
	})
}
