package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aros-club/aros-api/internal/application"
	"github.com/aros-club/aros-api/internal/domain/entity"
	"github.com/aros-club/aros-api/pkg/helpers"
	"github.com/aros-club/aros-api/pkg/response"
)

// CtxUserKey is where the gates store the resolved *entity.User.
const CtxUserKey = "user"

// TokenResolver finds the owner of an access token. Unknown tokens must be
// reported as application.ErrUserNotFound; anything else is a lookup failure.
type TokenResolver interface {
	ResolveByToken(ctx context.Context, token string) (*entity.User, error)
}

type notLoggedInBody struct {
	LoggedIn bool   `json:"loggedIn"`
	Message  string `json:"message"`
}

func accessToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("Authorization"))
}

func lookupFailed(c *gin.Context, logger *logrus.Logger, err error) {
	helpers.LogError(logger, "access token lookup failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
	response.Abort(c, http.StatusForbidden, response.ErrorBody{Message: "Access token missing or invalid"})
}

// UserGate lets the request through when the Authorization header holds the
// access token of any user.
func UserGate(res TokenResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := res.ResolveByToken(c.Request.Context(), accessToken(c))
		if errors.Is(err, application.ErrUserNotFound) {
			response.Abort(c, http.StatusUnauthorized, notLoggedInBody{Message: "Please try logging in again"})
			return
		}
		if err != nil {
			lookupFailed(c, logger, err)
			return
		}
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// AdminGate is UserGate restricted to admins. Unknown tokens and non-admin
// users get the same 401.
func AdminGate(res TokenResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := res.ResolveByToken(c.Request.Context(), accessToken(c))
		if errors.Is(err, application.ErrUserNotFound) || (err == nil && !u.IsAdmin) {
			response.Abort(c, http.StatusUnauthorized, response.MessageBody{Message: "not Admin"})
			return
		}
		if err != nil {
			lookupFailed(c, logger, err)
			return
		}
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user resolved by a gate earlier in the chain.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
