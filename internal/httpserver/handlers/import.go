package handlers

import (
	"net/http"

	"github.com/kbazin/marks/internal/httpserver/deps"
	"github.com/kbazin/marks/internal/logger"
)

// Import triggers a manual seed-file import.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			w.WriteHeader(http.StatusNotImplemented)
			if _, err := w.Write([]byte("seed import is not configured\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			d.Logger.Info("manual seed import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("import triggered\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("seed import already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("import already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
