package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/repositories"
	"github.com/smart-result/records-service/internal/services"
	"github.com/smart-result/records-service/internal/utils"
)

// UserHandler covers admin-side account provisioning and directory
// listings.
type UserHandler struct {
	BaseHandler
	identityService services.IdentityService
}

func NewUserHandler(identityService services.IdentityService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:     NewBaseHandler(logger),
		identityService: identityService,
	}
}

// AddLecturer registers a lecturer account with its staff profile
func (h *UserHandler) AddLecturer(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req services.AddLecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Adding lecturer", "email", req.Email)

	user, err := h.identityService.AddLecturer(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Data: user})
}

// AddStudent registers a student account with its academic profile
func (h *UserHandler) AddStudent(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req services.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Adding student", "email", req.Email)

	user, err := h.identityService.AddStudent(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Data: user})
}

// ListUsers lists accounts, optionally filtered by role
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	filters := repositories.UserFilters{
		Query:  c.Query("q"),
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if roleParam := c.Query("role"); roleParam != "" {
		role := models.UserRole(roleParam)
		filters.Role = &role
	}

	resp, err := h.identityService.ListUsers(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// intQuery reads an integer query parameter with a fallback.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
