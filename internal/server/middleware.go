package server

//go:generate mockery --name=StatsDClient -r --case underscore --with-expecter --structname StatsDClient --filename statsd_client.go --output=./mocks

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	gmux "github.com/gorilla/mux"
	"github.com/goto/datahub/pkg/statsd"
	"github.com/goto/salt/log"
)

const headerRequestID = "X-Request-Id"

type contextKey struct{ name string }

var (
	userContextKey      = contextKey{"user"}
	requestIDContextKey = contextKey{"request-id"}
)

// UserFromContext returns the caller's user uuid, empty when anonymous.
func UserFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userContextKey).(string)
	return id
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// UserHeaderCtx propagates the user uuid found in headerKey. Requests
// without the header are anonymous.
func UserHeaderCtx(headerKey string) gmux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(headerKey))
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID keeps the inbound request id or assigns a new one, and echoes
// it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type StatsDClient interface {
	Histogram(name string, value float64) *statsd.Metric
}

// StatsD reports the response time of every routed request, tagged with
// the route template and status code.
func StatsD(statsdReporter StatsDClient) gmux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if statsdReporter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			statsdReporter.Histogram("responseTime", float64(time.Since(start)/time.Millisecond)).
				Tag("route", routeTemplate(r)).
				Tag("status", strconv.Itoa(sw.status)).
				Publish()
		})
	}
}

func routeTemplate(r *http.Request) string {
	route := gmux.CurrentRoute(r)
	if route == nil {
		return r.URL.Path
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return r.URL.Path
	}
	return tpl
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type recoveryLogger struct {
	logger log.Logger
}

func (l recoveryLogger) Println(args ...interface{}) {
	l.logger.Error("recovered from panic", "err", fmt.Sprint(args...))
}
