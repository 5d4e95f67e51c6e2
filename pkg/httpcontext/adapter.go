package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/taskboard/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderSessionID = "X-Session-ID"
)

// UserValueActor is the fasthttp user value holding the authenticated
// subject. Only server-side middleware sets it; it is never read from headers.
const UserValueActor = "actor"

// SetActor records the authenticated subject on the request.
func SetActor(ctx *fasthttp.RequestCtx, actor string) {
	ctx.SetUserValue(UserValueActor, actor)
}

// ActorOf returns the subject recorded by SetActor, if any.
func ActorOf(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return ""
	}
	actor, _ := ctx.UserValue(UserValueActor).(string)
	return actor
}

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	if ctx == nil {
		return stdCtx, cancel
	}
	ctx.Response.Header.Set(HeaderRequestID, reqID)

	if sessionID := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderSessionID))); sessionID != "" {
		stdCtx = appLogger.ContextWithSessionID(stdCtx, sessionID)
	}
	if actor := ActorOf(ctx); actor != "" {
		stdCtx = appLogger.ContextWithActor(stdCtx, actor)
	}
	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek(HeaderRequestID)); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
