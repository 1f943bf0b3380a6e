package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blisscet/store-api/internal/application"
	"github.com/blisscet/store-api/internal/domain/repository"
	"github.com/blisscet/store-api/internal/interface/middleware"
	"github.com/blisscet/store-api/pkg/response"
	"github.com/blisscet/store-api/pkg/uploads"
	"github.com/blisscet/store-api/pkg/validation"
)

// UserHandler serves account settings for the authenticated user.
type UserHandler struct {
	Accounts *application.AccountService
	Images   *application.ImageStore
	Logger   *logrus.Logger
}

func NewUserHandler(accounts *application.AccountService, images *application.ImageStore, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Accounts: accounts, Images: images, Logger: logger}
}

// updateProfileRequest carries optional fields, empty means unchanged.
type updateProfileRequest struct {
	Username  string `json:"username" form:"username" binding:"omitempty,alphanum"`
	FirstName string `json:"firstName" form:"firstName" binding:"omitempty,min=2"`
	LastName  string `json:"lastName" form:"lastName" binding:"omitempty,min=2"`
	Email     string `json:"email" form:"email" binding:"omitempty,email"`
}

type changePasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

// Profile handles GET /userSettings for the token's subject.
func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.Accounts.Profile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		h.writeAccountError(c, err, "failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "profile", nil)
}

// UpdateProfile handles PATCH /userSettings/:id, the path id is the target.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	upd := repository.ProfileUpdate{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
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
		upd.Avatar = &ref
	}

	u, err := h.Accounts.UpdateProfile(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.writeAccountError(c, err, "failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "profile updated", nil)
}

// ChangePassword handles PATCH /userSettingsCP/:id.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Accounts.ChangePassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		h.writeAccountError(c, err, "failed to change password")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated", nil)
}

// Delete handles DELETE /userSettings/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Accounts.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		h.writeAccountError(c, err, "failed to delete account")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account deleted", nil)
}

func (h *UserHandler) writeAccountError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "no user found", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.WithError(err).Error(logMsg)
		response.Error[any](c, http.StatusInternalServerError, logMsg, nil)
	}
}
