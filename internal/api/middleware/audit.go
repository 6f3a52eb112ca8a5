package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskerp-api/internal/api/shared"
	"github.com/phrazzld/taskerp-api/internal/audit"
	"github.com/phrazzld/taskerp-api/internal/domain"
	"github.com/phrazzld/taskerp-api/internal/platform/logger"
	"github.com/phrazzld/taskerp-api/internal/redact"
)

type requestDetails struct {
	Path   string            `json:"path"`
	Params map[string]string `json:"params,omitempty"`
	Query  map[string]string `json:"query,omitempty"`
	Status int               `json:"status"`
}

// RequestAudit records an HTTP_REQUEST_<METHOD> entry for every authenticated
// request once it has been served. Request bodies are never recorded.
func RequestAudit(sink audit.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				return
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			details := requestDetails{
				Path:   r.URL.Path,
				Params: routeParams(r),
				Query:  redact.Values(r.URL.Query()),
				Status: status,
			}
			if err := sink.Record(r.Context(), actor.ID, domain.HTTPRequestAction(r.Method), details); err != nil {
				logger.FromContext(r.Context()).Warn("failed to record request audit entry",
					slog.String("error", err.Error()))
			}
		})
	}
}

// routeParams returns the chi URL parameters matched for the request. They are
// only populated once routing has completed.
func routeParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}
