package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aros-club/aros-api/internal/application"
	"github.com/aros-club/aros-api/internal/container"
	"github.com/aros-club/aros-api/internal/infrastructure/cache"
	"github.com/aros-club/aros-api/internal/infrastructure/gcs"
	"github.com/aros-club/aros-api/internal/infrastructure/search"
	handlers "github.com/aros-club/aros-api/internal/interface/http"
	"github.com/aros-club/aros-api/internal/interface/middleware"
	"github.com/aros-club/aros-api/internal/router/modules"
	"github.com/aros-club/aros-api/pkg/validation"
)

// Services are the application services built from a container.
type Services struct {
	Users *application.UserService
	News  *application.NewsService
}

// BuildServices wires the application layer to whatever infrastructure the
// container holds. Missing optional clients leave the matching port nil.
func BuildServices(c *container.Container) Services {
	cfg := c.Config

	var emails application.EmailPublisher
	if c.RabbitPub != nil {
		emails = c.RabbitPub
	}
	users := application.NewUserService(c.Users, emails, c.Logger, cfg.SiteName, cfg.LoginURL)

	var images application.ImageUploader
	if c.GCS != nil {
		images = gcs.NewImageUploader(c.GCS, gcs.Options{
			Bucket:    cfg.GCSBucket,
			Folder:    cfg.ImageFolder,
			MaxWidth:  cfg.ImageMaxWidth,
			MaxHeight: cfg.ImageMaxHeight,
			MaxBytes:  cfg.ImageMaxBytes,
		})
	}
	var newsCache application.NewsCache
	if c.Redis != nil {
		newsCache = cache.NewNewsCache(c.Redis, cfg.NewsCacheTTL, c.Logger)
	}
	var index application.NewsIndex
	if c.ES != nil {
		index = search.NewNewsIndex(c.ES, cfg.ESNewsIndex, c.Logger)
	}
	news := application.NewNewsService(c.News, images, newsCache, index, c.Logger, cfg.NewsPageSize)

	return Services{Users: users, News: news}
}

// InitModules initializes all application modules and registers them with the router registry
func InitModules(r *Registry, c *container.Container, svc Services) {
	gates := modules.Gates{
		User:  middleware.UserGate(svc.Users, c.Logger),
		Admin: middleware.AdminGate(svc.Users, c.Logger),
	}
	r.Add(modules.NewUserModule(handlers.NewRootHandler(), handlers.NewUserHandler(svc.Users, c.Logger), gates))
	r.Add(modules.NewNewsModule(handlers.NewNewsHandler(svc.News, c.Logger), gates))
	r.Add(modules.NewDebugModule(gates))
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewEngine builds the gin engine with global middleware and every module.
func NewEngine(c *container.Container, svc Services) *gin.Engine {
	validation.Init()

	r := gin.New()
	r.MaxMultipartMemory = c.Config.ImageMaxBytes + 1<<20
	r.Use(gin.Recovery())

	reg := NewRegistry(r)
	reg.Use(middleware.RequestID(), middleware.RealIP())
	if c.Config.HTTPLogEnabled {
		reg.Use(middleware.AccessLog(c.Logger))
	}
	reg.Use(cors.New(corsConfig(c.Config.CORSOrigins())))
	InitModules(reg, c, svc)
	reg.RegisterAll()
	return r
}
