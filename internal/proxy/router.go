package proxy

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abhisek/tutorpro/internal/logger"
	"github.com/abhisek/tutorpro/internal/tutor"
)

const serviceName = "tutorpro"

// NewRouter builds the gin engine for the tutor API.
func NewRouter(svc tutor.Service, cfg Config, log *logger.Logger) (*gin.Engine, error) {
	if svc == nil {
		return nil, errNoService
	}
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(RequestContext())
	r.Use(RequestLogger(log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}

	h := NewHandler(svc, log)
	r.NoMethod(methodNotAllowed)
	r.NoRoute(notFound)

	r.GET("/healthz", h.Health)
	api := r.Group("/api")
	{
		api.POST("/tutor", h.Tutor)
	}
	return r, nil
}
