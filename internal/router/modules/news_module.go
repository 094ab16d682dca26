package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/aros-club/aros-api/internal/interface/http"
)

// NewsModule wires the news routes. Only creation is admin-gated.
type NewsModule struct {
	Handler *handlers.NewsHandler
	Gates   Gates
}

func NewNewsModule(h *handlers.NewsHandler, gates Gates) *NewsModule {
	return &NewsModule{Handler: h, Gates: gates}
}

func (m *NewsModule) Register(rg *gin.RouterGroup) {
	rg.POST("/news", m.Gates.Admin, m.Handler.Create)

	news := rg.Group("/news")
	{
		news.GET("/newsList", m.Handler.List)
		news.GET("/search", m.Handler.Search)
		news.GET("/:id", m.Handler.Get)
	}
}
