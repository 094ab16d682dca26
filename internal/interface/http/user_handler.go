package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aros-club/aros-api/internal/application"
	"github.com/aros-club/aros-api/internal/domain/repository"
	"github.com/aros-club/aros-api/pkg/helpers"
	"github.com/aros-club/aros-api/pkg/response"
	"github.com/aros-club/aros-api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"accessToken"`
	IsAdmin     bool   `json:"isAdmin"`
}

type loginResponse struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
	Name        string `json:"name"`
	LoggedIn    bool   `json:"loggedIn"`
	IsAdmin     bool   `json:"isAdmin"`
}

type notFoundResponse struct {
	NotFound bool `json:"notFound"`
}

// createUserDetails turns a registration failure into the errors object of
// the 400 response.
func createUserDetails(err error) any {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		return ve.Fields
	case errors.Is(err, repository.ErrDuplicate):
		if strings.Contains(err.Error(), "email") {
			return map[string]string{"email": "is already registered"}
		}
		return map[string]string{"user": "already exists"}
	default:
		return nil
	}
}

// RegisterMember creates a user. Neither the email nor the password is
// echoed back.
func (h *UserHandler) RegisterMember(c *gin.Context) {
	var req application.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Could not create user", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req)
	if errors.Is(err, application.ErrInvalidEmail) {
		response.Message(c, http.StatusBadRequest, "Invalid email")
		return
	}
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Warn("register member failed")
		}
		response.Error(c, http.StatusBadRequest, "Could not create user", createUserDetails(err))
		return
	}
	response.JSON(c, http.StatusCreated, registerResponse{
		ID:          u.ID,
		Name:        u.Name,
		AccessToken: u.AccessToken,
		IsAdmin:     u.IsAdmin,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.JSON(c, http.StatusNotFound, notFoundResponse{NotFound: true})
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Message(c, http.StatusUnauthorized, "Username or password are incorrect")
	case err != nil:
		helpers.LogError(h.Logger, "login lookup failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Error(c, http.StatusNotFound, "Could not find user", nil)
	default:
		response.JSON(c, http.StatusOK, loginResponse{
			UserID:      u.ID,
			AccessToken: u.AccessToken,
			Name:        u.Name,
			LoggedIn:    true,
			IsAdmin:     u.IsAdmin,
		})
	}
}
