package httpapi

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger used by the HTTP layer.
var zlog = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LevelOff
	case "error":
		return LevelError
	case "info", "":
		return LevelInfo
	case "debug", "1":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// defaultLogLevel applies when a request carries no override.
var defaultLogLevel = parseLevel(os.Getenv("OLLAMACHAT_HTTP_LOG_LEVEL"))

// SetRequestLogLevel sets the default per-request log level (off, error, info, debug).
func SetRequestLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// chatLog writes the start and end lines of one chat exchange at the
// request's level.
type chatLog struct {
	lvl   LogLevel
	base  zerolog.Logger
	start time.Time
}

func newChatLog(r *http.Request, model string) *chatLog {
	c := zlog.With().Str("path", r.URL.Path).Str("model", model)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		c = c.Str("request_id", rid)
	}
	return &chatLog{lvl: requestLogLevel(r), base: c.Logger(), start: time.Now()}
}

func (l *chatLog) begin(msgLen int) {
	if l.lvl >= LevelDebug {
		l.base.Debug().Int("chars", msgLen).Msg("chat start")
	}
}

func (l *chatLog) end(status int, err error) {
	switch {
	case err != nil && l.lvl >= LevelError:
		l.base.Error().Int("status", status).Dur("dur", time.Since(l.start)).Err(err).Msg("chat end")
	case err == nil && l.lvl >= LevelInfo:
		l.base.Info().Int("status", status).Dur("dur", time.Since(l.start)).Msg("chat end")
	}
}
