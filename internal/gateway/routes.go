package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	transferHttp "github.com/imagineread/lite-backend/internal/modules/transfer/interfaces/http"
	"github.com/imagineread/lite-backend/internal/shared/utils"
)

// RouterConfig holds the handlers needed for routing
type RouterConfig struct {
	TransferHandler *transferHttp.TransferHandler
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Health Check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "ImagineRead Lite",
		})
	})

	// Prometheus Metrics Endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// Transfer Routes
	mux.HandleFunc("POST /api/upload", config.TransferHandler.Upload)
	mux.HandleFunc("GET /api/file/{code}", config.TransferHandler.Info)
	mux.HandleFunc("GET /api/download/{code}", config.TransferHandler.Download)
	mux.HandleFunc("GET /api/check/{code}", config.TransferHandler.Check)

	return mux
}
