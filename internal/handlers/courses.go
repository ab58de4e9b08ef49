package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shaqyru-backend/internal/models"
	"shaqyru-backend/internal/storage"
)

type CoursesHandler struct {
	cache *storage.Cache
}

func NewCoursesHandler(cache *storage.Cache) *CoursesHandler {
	return &CoursesHandler{cache: cache}
}

// ListCourses returns the published catalog page. Results are served from
// the Redis cache when warm.
func (h *CoursesHandler) ListCourses(c *gin.Context) {
	search := c.Query("search")
	language := c.Query("language")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	courses, total, err := h.cache.ListCourses(c.Request.Context(), search, language, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list courses",
			Message: err.Error(),
		})
		return
	}

	if courses == nil {
		courses = []models.Course{}
	}
	c.JSON(http.StatusOK, models.CourseListResponse{Courses: courses, Total: total})
}

// GetCourse returns one course with its chapter/lesson/test tree. Correct
// answers are never included.
func (h *CoursesHandler) GetCourse(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid course id"})
		return
	}

	course, err := h.cache.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "course not found"})
		return
	}

	c.JSON(http.StatusOK, course)
}
