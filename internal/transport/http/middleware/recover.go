package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/logger"
	"github.com/vedran77/taskly/internal/transport/http/response"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorLogger.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
			response.Error(w, domain.Internal(fmt.Errorf("panic: %v", rec)))
		}()
		next.ServeHTTP(w, r)
	})
}
