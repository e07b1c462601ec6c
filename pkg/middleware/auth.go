package middleware

import (
	"context"
	"net/http"
	"time"

	"aura/pkg/handlers"
	"aura/pkg/session"

	"go.uber.org/zap"
)

// authRoutes lists the endpoints that require a live session. /api/me is
// deliberately absent: it answers user:null instead of 401.
var authRoutes = map[string]string{
	"/api/posts":  http.MethodPost,
	"/api/vote":   http.MethodPost,
	"/api/logout": http.MethodPost,
}

func Auth(logger *zap.SugaredLogger, sm session.SessionManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m, ok := authRoutes[r.URL.Path]
		if !ok || m != r.Method {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		sess, err := sm.Check(ctx, r)
		if err != nil {
			logger.Debugw("unauthorized", "path", r.URL.Path, "error", err)
			handlers.WriteError(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), session.SessionKey, sess)))
	})
}
