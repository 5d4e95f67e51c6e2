package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/pkg/httpcontext"
	appLogger "github.com/fastygo/taskboard/pkg/logger"
)

const testSecret = "board-secret"

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func run(handler fasthttp.RequestHandler, method, auth string, headers ...string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI("/api/tasks")
	if auth != "" {
		ctx.Request.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		ctx.Request.Header.Set(headers[i], headers[i+1])
	}
	handler(ctx)
	return ctx
}

func TestJWTAuth(t *testing.T) {
	var actor, logged string
	adapter := httpcontext.NewAdapter(time.Second)
	next := func(ctx *fasthttp.RequestCtx) {
		actor = httpcontext.ActorOf(ctx)
		stdCtx, cancel := adapter.Attach(ctx)
		defer cancel()
		logged = appLogger.Actor(stdCtx)
		ctx.SetStatusCode(fasthttp.StatusOK)
	}
	guarded := JWTAuth(testSecret, nil)(next)

	t.Run("missing token", func(t *testing.T) {
		ctx := run(guarded, fasthttp.MethodPost, "")
		assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Body()), "UNAUTHORIZED")
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := sign(t, jwt.MapClaims{"sub": "ana"}, "other")
		ctx := run(guarded, fasthttp.MethodPost, "Bearer "+token)
		assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	})

	t.Run("expired", func(t *testing.T) {
		token := sign(t, jwt.MapClaims{"sub": "ana", "exp": time.Now().Add(-time.Minute).Unix()}, testSecret)
		ctx := run(guarded, fasthttp.MethodPost, "Bearer "+token)
		assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	})

	t.Run("valid subject", func(t *testing.T) {
		token := sign(t, jwt.MapClaims{"sub": "ana", "exp": time.Now().Add(time.Hour).Unix()}, testSecret)
		ctx := run(guarded, fasthttp.MethodPost, "Bearer "+token)
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, "ana", actor)
		assert.Equal(t, "ana", logged)
	})

	t.Run("client actor header is ignored", func(t *testing.T) {
		token := sign(t, jwt.MapClaims{"sub": "ana"}, testSecret)
		ctx := run(guarded, fasthttp.MethodPost, "Bearer "+token, "X-Actor-ID", "mallory")
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, "ana", actor)
		assert.Equal(t, "ana", logged)
	})

	t.Run("legacy user_id claim", func(t *testing.T) {
		token := sign(t, jwt.MapClaims{"user_id": "bruno"}, testSecret)
		ctx := run(guarded, fasthttp.MethodPost, token)
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, "bruno", actor)
	})
}

func TestJWTAuthDisabledWithoutSecret(t *testing.T) {
	called := false
	var logged string
	guarded := JWTAuth("", nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
		stdCtx, cancel := httpcontext.NewAdapter(time.Second).Attach(ctx)
		defer cancel()
		logged = appLogger.Actor(stdCtx)
	})

	run(guarded, fasthttp.MethodPost, "", "X-Actor-ID", "mallory")
	assert.True(t, called)
	assert.Empty(t, logged)
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS("http://localhost:5173")(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := run(h, fasthttp.MethodOptions, "")
	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	assert.Equal(t, "http://localhost:5173", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Contains(t, string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")), "PATCH")

	ctx = run(h, fasthttp.MethodGet, "")
	assert.True(t, called)
	assert.Equal(t, "http://localhost:5173", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
}
