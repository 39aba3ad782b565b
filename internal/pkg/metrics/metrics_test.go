package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/sessions/:id", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/sessions/:id", "204"))
	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/sessions/"+id, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, 204, resp.StatusCode)
	}
	after := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/sessions/:id", "204"))
	assert.Equal(t, 2.0, after-before)
}

func TestTurnRecorder(t *testing.T) {
	before := testutil.ToFloat64(ChatTurnsTotal.WithLabelValues("busy"))
	TurnRecorder{}.ObserveTurn("busy", time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(ChatTurnsTotal.WithLabelValues("busy"))-before)
}
