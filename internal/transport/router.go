// Package transport is the HTTP façade named in SPEC_FULL.md §4.8: it maps
// /add, /top, /counts and /metrics onto the async adapter and, for /top,
// the cluster merge in merge.go. Grounded in the teacher corpus's gin
// router/handler split (see dragonflyoss-Dragonfly2's manager/server and
// manager/handlers packages).
package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/domainrank/urlcounter/internal/metrics"
	"github.com/domainrank/urlcounter/internal/topology"
	"github.com/domainrank/urlcounter/internal/wire"
	"github.com/domainrank/urlcounter/pkg/approxtop"
	"github.com/domainrank/urlcounter/pkg/async"
)

// Handler bundles the collaborators every route needs. Unlike the teacher's
// service-layer indirection, there is exactly one backing store per
// process, so Handler holds concrete types rather than an interface.
type Handler struct {
	adapter    *async.Adapter
	router     topology.Router
	client     *RemoteClient
	log        *zap.Logger
	rpcTimeout time.Duration

	// sketch is the optional heavy-hitter diagnostic from SPEC_FULL.md §10.
	// It is nil-safe: a nil sketch simply makes /debug/heavyhitters return
	// an empty list, and handleAdd skips feeding it.
	sketch approxtop.Sketch
}

// NewHandler constructs a Handler. rpcTimeout bounds every handler's
// downstream work: local adapter calls as well as remote add-proxy calls
// and cluster-merge fan-out. sketch may be nil to disable the
// /debug/heavyhitters diagnostic entirely.
func NewHandler(adapter *async.Adapter, router topology.Router, client *RemoteClient, log *zap.Logger, rpcTimeout time.Duration, sketch approxtop.Sketch) *Handler {
	return &Handler{adapter: adapter, router: router, client: client, log: log, rpcTimeout: rpcTimeout, sketch: sketch}
}

// NewRouter builds the gin engine and registers every route from
// SPEC_FULL.md §4.8. verbose mirrors the teacher's own initRouter switch
// between gin.ReleaseMode and gin's default debug mode.
func NewRouter(h *Handler, verbose bool) *gin.Engine {
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(errorMiddleware(h.log))

	r.GET("/add/*url", h.handleAdd)
	r.GET("/top/:n", h.handleTop)
	r.GET("/counts/:n", h.handleCounts)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/debug/heavyhitters", h.handleHeavyHitters)

	return r
}

// errorMiddleware renders the last error attached to the context as a JSON
// body, following the teacher's middlewares.Error() pattern of centralizing
// error-to-status translation instead of repeating it in every handler.
func errorMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil {
			return
		}
		log.Warn("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err.Err))

		switch {
		case c.Writer.Written():
			return
		case err.Type == gin.ErrorTypeBind:
			c.Render(http.StatusBadRequest, wire.JSON{Data: errorResponse{Message: err.Error()}})
		case c.Writer.Status() >= http.StatusBadRequest:
			// The handler already chose an error status via c.Status; keep it.
			c.Render(c.Writer.Status(), wire.JSON{Data: errorResponse{Message: err.Error()}})
		default:
			c.Render(http.StatusInternalServerError, wire.JSON{Data: errorResponse{Message: err.Error()}})
		}
	}
}

type errorResponse struct {
	Message string `json:"message"`
}
