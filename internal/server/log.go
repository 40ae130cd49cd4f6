package server

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-Id"

type timer interface {
	Now() time.Time
	Since(time.Time) time.Duration
}

type realClock struct{}

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }

// LogOptions configures the access log middleware.
type LogOptions struct {
	Formatter      logrus.Formatter
	EnableStarting bool
}

// Logger writes one access log entry per request, plus an optional entry
// when the request starts.
type Logger struct {
	logger         *logrus.Logger
	clock          timer
	enableStarting bool
}

func NewLogger(opts ...LogOptions) *Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.GetLevel())

	l := &Logger{
		logger: logger,
		clock:  &realClock{},
	}

	if len(opts) > 0 {
		if opts[0].Formatter != nil {
			logger.SetFormatter(opts[0].Formatter)
		}
		l.enableStarting = opts[0].EnableStarting
	}

	return l
}

func (l *Logger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := l.clock.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		entry := l.logger.WithFields(logrus.Fields{
			"requestId":  requestID,
			"remoteAddr": realIP(r),
			"method":     r.Method,
			"request":    r.RequestURI,
		})

		if l.enableStarting {
			entry.Info("started handling request")
		}

		lw := newLoggingResponseWriter(w)
		next.ServeHTTP(lw, r)

		entry.WithFields(logrus.Fields{
			"status": lw.statusCode,
			"bytes":  lw.size,
			"took":   l.clock.Since(start),
		}).Info("completed handling request")
	})
}

// realIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// socket peer.
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return strings.TrimSpace(xrip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	wroteHeader bool
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (lw *loggingResponseWriter) WriteHeader(code int) {
	if !lw.wroteHeader {
		lw.statusCode = code
		lw.wroteHeader = true
	}
	lw.ResponseWriter.WriteHeader(code)
}

func (lw *loggingResponseWriter) Write(b []byte) (int, error) {
	lw.wroteHeader = true
	n, err := lw.ResponseWriter.Write(b)
	lw.size += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (lw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lw.ResponseWriter
}
