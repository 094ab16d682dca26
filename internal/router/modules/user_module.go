package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/aros-club/aros-api/internal/interface/http"
)

// UserModule wires the member routes.
// Public: GET /, POST /login
// User: POST /settings
// Admin: POST /registerMembers, GET /secretPages/
type UserModule struct {
	Root    *handlers.RootHandler
	Handler *handlers.UserHandler
	Gates   Gates
}

func NewUserModule(root *handlers.RootHandler, h *handlers.UserHandler, gates Gates) *UserModule {
	return &UserModule{Root: root, Handler: h, Gates: gates}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Root.Greeting)
	rg.POST("/login", m.Handler.Login)

	rg.POST("/settings", m.Gates.User, m.Root.Settings)

	rg.POST("/registerMembers", m.Gates.Admin, m.Handler.RegisterMember)
	rg.GET("/secretPages/", m.Gates.Admin, m.Root.SecretPages)
}
