package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

type DebugModule struct {
	Gates Gates
}

func NewDebugModule(gates Gates) *DebugModule { return &DebugModule{Gates: gates} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Runtime metrics (expvar), admins only
	rg.GET("/debug/vars", m.Gates.Admin, gin.WrapH(expvar.Handler()))
}
