package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskapp/backend/internal/models"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for administrator business logic
type AdminService interface {
	// ListUsers retrieves every user ordered by ID
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	ListUsers(ctx context.Context) ([]models.User, error)
}

// AdminHandler handles admin-only HTTP requests
type AdminHandler struct {
	BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin handler routes
// Note: This assumes the router is already scoped to /api
func (h *AdminHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.With(adminMiddleware).Get("/users", h.ListUsers)
}

// ListUsers handles GET /users
// @Summary Get list of users
// @Description Get every registered user. Requires the admin role.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.User "List of users"
// @Failure 401 {object} map[string]string "Unauthorized - authentication required"
// @Failure 403 {object} map[string]string "Forbidden - administrator access required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}
