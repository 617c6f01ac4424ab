package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
	"github.com/smart-result/records-service/internal/services"
	"github.com/smart-result/records-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// Enroll registers a student for a course offering
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req services.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Data: enrollment})
}

// Unenroll removes a student from a course
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req services.UnenrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	removed, err := h.enrollmentService.Unenroll(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"removed": removed}})
}

// ListEnrollments lists ledger entries with optional filters
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	filters := repositories.EnrollmentFilters{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}
	if courseID := c.Query("course_id"); courseID != "" {
		filters.CourseID = &courseID
	}
	if session := c.Query("session"); session != "" {
		filters.Session = &session
	}
	if semesterParam := c.Query("semester"); semesterParam != "" {
		semester := models.Semester(semesterParam)
		filters.Semester = &semester
	}

	resp, err := h.enrollmentService.List(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}
