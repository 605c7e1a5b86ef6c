package app

import (
	"net/http"
	"time"

	"innkeep/pkg/config"
	httputil "innkeep/pkg/http"

	"github.com/julienschmidt/httprouter"
)

type healthHandler struct {
	cfg *config.Config
}

func (h *healthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *healthHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	_ = httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}

// Ready reports whether the backing store answers a ping.
func (h *healthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.cfg.Client.Mongo == nil {
		_ = httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "store not connected"})
		return
	}

	ctx, cancel := contextWithTimeout(r, 2*time.Second)
	defer cancel()

	if err := h.cfg.Client.Mongo.Ping(ctx, nil); err != nil {
		_ = httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "store unreachable"})
		return
	}

	_ = httputil.WriteSuccess(w, map[string]string{"status": "ready"})
}
