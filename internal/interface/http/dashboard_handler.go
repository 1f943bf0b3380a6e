package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blisscet/store-api/internal/application"
	"github.com/blisscet/store-api/pkg/response"
	"github.com/blisscet/store-api/pkg/uploads"
	"github.com/blisscet/store-api/pkg/validation"
)

// DashboardHandler serves the admin dashboard's user management.
type DashboardHandler struct {
	Accounts *application.AccountService
	Images   *application.ImageStore
	Logger   *logrus.Logger
}

func NewDashboardHandler(accounts *application.AccountService, images *application.ImageStore, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Accounts: accounts, Images: images, Logger: logger}
}

// setAdminRequest requires an explicit boolean, "truthy" strings are rejected
// by binding before they reach the service.
type setAdminRequest struct {
	Admin *bool `json:"admin" binding:"required"`
}

// ListAdmins handles GET /dashboard/admin.
func (h *DashboardHandler) ListAdmins(c *gin.Context) {
	admins, err := h.Accounts.ListAdmins(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("failed to list admins")
		response.Error[any](c, http.StatusInternalServerError, "failed to list admins", nil)
		return
	}
	out := make([]gin.H, 0, len(admins))
	for i := range admins {
		out = append(out, userPayload(&admins[i]))
	}
	response.Success(c, http.StatusOK, out, "admins", nil)
}

// CreateAdmin handles POST /dashboard/admin, the registration flow with the
// admin flag forced on.
func (h *DashboardHandler) CreateAdmin(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.RegisterInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}

	file, err := uploads.Image(c, "userAvatar", uploads.MaxAvatarSize)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if file != nil {
		defer file.Close()
		ref, uerr := h.Images.Upload(c.Request.Context(), application.AvatarFolder, file)
		if uerr != nil {
			h.Logger.WithError(uerr).Error("avatar upload failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to store avatar", nil)
			return
		}
		in.Avatar = &ref
	}

	u, err := h.Accounts.CreateAdmin(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("failed to create admin")
		response.Error[any](c, http.StatusInternalServerError, "failed to create admin", nil)
		return
	}
	response.Success(c, http.StatusCreated, userPayload(u), "admin created", nil)
}

// SetAdmin handles PATCH /dashboard/admin/:id.
func (h *DashboardHandler) SetAdmin(c *gin.Context) {
	var req setAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "admin must be true or false", nil)
		return
	}
	u, err := h.Accounts.SetAdmin(c.Request.Context(), c.Param("id"), *req.Admin)
	if err != nil {
		h.writeUserError(c, err, "failed to update admin flag")
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "admin flag updated", nil)
}

// DeleteAdmin handles DELETE /dashboard/admin/:id.
func (h *DashboardHandler) DeleteAdmin(c *gin.Context) {
	if err := h.Accounts.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		h.writeUserError(c, err, "failed to delete admin")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account deleted", nil)
}

// ListUsers handles GET /dashboard/users.
func (h *DashboardHandler) ListUsers(c *gin.Context) {
	users, err := h.Accounts.ListUsers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("failed to list users")
		response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userPayload(&users[i]))
	}
	response.Success(c, http.StatusOK, out, "users", nil)
}

// DeleteUser handles DELETE /dashboard/users/:id.
func (h *DashboardHandler) DeleteUser(c *gin.Context) {
	if err := h.Accounts.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		h.writeUserError(c, err, "failed to delete user")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account deleted", nil)
}

func (h *DashboardHandler) writeUserError(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error[any](c, http.StatusNotFound, "no user found", nil)
		return
	}
	h.Logger.WithError(err).Error(logMsg)
	response.Error[any](c, http.StatusInternalServerError, logMsg, nil)
}
