package httpapi_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/httpapi"
	"github.com/andrescamacho/edsm-checker-go/internal/application/lookup"
	"github.com/andrescamacho/edsm-checker-go/test/helpers"
)

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestRouter_EnqueueThenStatus(t *testing.T) {
	// Arrange
	catalog := helpers.NewMockCatalogClient()
	catalog.SetSystem("Sol", `{"name":"Sol","id64":10477373803}`)
	catalog.SetBodiesByAddress(10477373803, `{"requirePermit":true,"bodyCount":3,"bodies":[1,2]}`)
	controller := lookup.NewController(catalog, lookup.WithPollInterval(5*time.Millisecond))
	controller.Start()
	t.Cleanup(controller.Stop)
	router := httpapi.NewRouter(controller)

	// Act
	accepted := serve(router, http.MethodPost, "/targets", `{"name":"Sol"}`)
	require.Eventually(t, func() bool { return controller.Pending() == 0 }, 2*time.Second, 5*time.Millisecond)
	rec := serve(router, http.MethodGet, "/status", "")

	// Assert
	assert.Equal(t, http.StatusAccepted, accepted.Code)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp httpapi.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Sol - Permit [2/3]", resp.Status)
	assert.True(t, resp.Running)
	assert.NotEmpty(t, resp.UpdatedAt)
}

func TestRouter_EnqueueRejectsBadInput(t *testing.T) {
	controller := lookup.NewController(helpers.NewMockCatalogClient())
	router := httpapi.NewRouter(controller)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"malformed json", `{"name":`, ""},
		{"non numeric address", `{"name":"Sol","address":"abc"}`, "address"},
		{"nothing to look up", `{}`, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, "/targets", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp httpapi.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.field, resp.Field)
		})
	}
	assert.Equal(t, 0, controller.Pending())
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := httpapi.NewRouter(lookup.NewController(helpers.NewMockCatalogClient()),
		httpapi.WithMetrics("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("metrics"))
		})))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, "metrics", serve(router, http.MethodGet, "/metrics", "").Body.String())
	assert.Equal(t, http.StatusMethodNotAllowed, serve(router, http.MethodGet, "/targets", "").Code)
}

func TestRouter_WithoutMetrics(t *testing.T) {
	router := httpapi.NewRouter(lookup.NewController(helpers.NewMockCatalogClient()))

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/metrics", "").Code)
}

func TestLoggingMiddleware(t *testing.T) {
	logger := &helpers.RecordingLogger{}
	router := httpapi.NewRouter(lookup.NewController(helpers.NewMockCatalogClient()),
		httpapi.WithMiddlewares(httpapi.LoggingMiddleware(logger)))

	serve(router, http.MethodGet, "/healthz", "")

	entries := logger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "HTTP GET /healthz 200", entries[0].Message)
}

func TestRouter_HandlersLogThroughRouterLogger(t *testing.T) {
	logger := &helpers.RecordingLogger{}
	router := httpapi.NewRouter(lookup.NewController(helpers.NewMockCatalogClient()),
		httpapi.WithRouterLogger(logger))

	serve(router, http.MethodPost, "/targets", `{"name":"Sol"}`)
	serve(router, http.MethodPost, "/targets", `{"address":"abc"}`)

	entries := logger.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "target enqueued", entries[0].Message)
	assert.Equal(t, "Sol", entries[0].Metadata["target"])
	assert.Equal(t, "WARNING", entries[1].Level)
	assert.Equal(t, "rejected target", entries[1].Message)
}

func TestServer_ServeListenerShutsDownOnCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server := httpapi.NewServer(lis.Addr().String(), httpapi.NewRouter(lookup.NewController(helpers.NewMockCatalogClient())), nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- server.ServeListener(ctx, lis) }()

	resp, err := http.Get("http://" + lis.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-served)
}
