package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/http/middleware"
	"github.com/eunsilJANG/EasyGo/internal/service"
)

// CourseHandler exposes saved travel courses.
type CourseHandler struct {
	Courses *service.CourseService
}

type courseRequest struct {
	Name  string        `json:"name" binding:"required"`
	Spots []domain.Spot `json:"spots"`
}

func courseView(course domain.Course) gin.H {
	return gin.H{
		"id":        course.ID,
		"userId":    course.UserID,
		"name":      course.Name,
		"spots":     course.Spots,
		"createdAt": course.CreatedAt,
	}
}

// SaveCourse handles POST /api/courses.
func (h *CourseHandler) SaveCourse(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Authentication required."})
		return
	}
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Course name required."})
		return
	}
	course, err := h.Courses.SaveCourse(c.Request.Context(), principal, req.Name, req.Spots)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Could not save course."})
		return
	}
	c.JSON(http.StatusCreated, courseView(course))
}

// ListCourses handles GET /api/courses.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Authentication required."})
		return
	}
	courses, err := h.Courses.ListCourses(c.Request.Context(), principal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Could not list courses."})
		return
	}
	views := make([]gin.H, 0, len(courses))
	for _, course := range courses {
		views = append(views, courseView(course))
	}
	c.JSON(http.StatusOK, views)
}

// GetCourse handles GET /api/courses/:id.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Authentication required."})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	course, err := h.Courses.GetCourse(c.Request.Context(), principal, id)
	if err != nil {
		writeBlogError(c, err)
		return
	}
	c.JSON(http.StatusOK, courseView(course))
}
