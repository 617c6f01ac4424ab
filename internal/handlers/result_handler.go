package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smart-result/records-service/internal/repositories"
	"github.com/smart-result/records-service/internal/services"
	"github.com/smart-result/records-service/internal/utils"
)

type ResultHandler struct {
	BaseHandler
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler:   NewBaseHandler(logger),
		resultService: resultService,
	}
}

// SubmitResult records or overwrites the score for an enrollment
func (h *ResultHandler) SubmitResult(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req services.SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting result", "enrollment_id", req.EnrollmentID)

	result, err := h.resultService.Submit(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: result})
}

// GetResultByEnrollment fetches the single result attached to an enrollment
func (h *ResultHandler) GetResultByEnrollment(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	result, err := h.resultService.GetByEnrollment(c.Request.Context(), c.Param("enrollment_id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: result})
}

// ListResults lists results scoped to the caller's role
func (h *ResultHandler) ListResults(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	filters := repositories.ResultFilters{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if courseID := c.Query("course_id"); courseID != "" {
		filters.CourseID = &courseID
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}
	if publishedParam := c.Query("published"); publishedParam != "" {
		published := publishedParam == "true"
		filters.Published = &published
	}

	resp, err := h.resultService.List(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// PublishResults releases (or retracts) every result of a course
func (h *ResultHandler) PublishResults(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req services.PublishResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	flipped, err := h.resultService.PublishCourse(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"updated": flipped}})
}
