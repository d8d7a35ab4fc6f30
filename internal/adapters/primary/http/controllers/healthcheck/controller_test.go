package healthcheckController

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

func serve(c *HealthCheckController, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestLiveness(t *testing.T) {
	w := serve(New("topdj_bot", nil, logger.Discard()), "/liveness")
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestReady(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	w := serve(New("topdj_bot", map[string]Pinger{"postgres": ok}, logger.Discard()), "/ready")
	if w.Code != http.StatusOK {
		t.Fatalf("ready status = %d", w.Code)
	}

	w = serve(New("topdj_bot", map[string]Pinger{"postgres": ok, "redis": down}, logger.Discard()), "/ready")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "redis") {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}
