package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blisscet/store-api/internal/application"
	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/pkg/response"
	"github.com/blisscet/store-api/pkg/uploads"
	"github.com/blisscet/store-api/pkg/validation"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Accounts *application.AccountService
	Images   *application.ImageStore
	Logger   *logrus.Logger
}

func NewAuthHandler(accounts *application.AccountService, images *application.ImageStore, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Images: images, Logger: logger}
}

// registerRequest binds from JSON or multipart form, the avatar file is
// read separately.
type registerRequest struct {
	Username  string `json:"username" form:"username" binding:"required,alphanum"`
	FirstName string `json:"firstName" form:"firstName" binding:"required,min=2"`
	LastName  string `json:"lastName" form:"lastName" binding:"required,min=2"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password" form:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
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

	u, token, err := h.Accounts.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.Logger.WithError(err).Error("registration failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to register", nil)
		return
	}

	data := userPayload(u)
	data["token"] = token
	response.Success(c, http.StatusCreated, data, "registration successful", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotRegistered), errors.Is(err, application.ErrInvalidCredentials):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to log in", nil)
		}
		return
	}

	data := userPayload(u)
	data["token"] = token
	response.Success(c, http.StatusOK, data, "login successful", nil)
}

// userPayload is the user as returned over the wire, password never included.
func userPayload(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID.Hex(),
		"username":   u.Username,
		"firstName":  u.FirstName,
		"lastName":   u.LastName,
		"email":      u.Email,
		"userAvatar": u.UserAvatar,
		"admin":      u.Admin,
		"cart":       u.Cart,
		"createdAt":  u.CreatedAt,
		"updatedAt":  u.UpdatedAt,
	}
}
