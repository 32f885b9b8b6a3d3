package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benzenoid/nomenclator/internal/application/naming"
	"github.com/benzenoid/nomenclator/internal/config"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/prometheus"
	nomtypes "github.com/benzenoid/nomenclator/pkg/types/nomenclature"
)

func newTestServer(t *testing.T) (*Server, *prom.Registry) {
	t.Helper()
	reg := prom.NewRegistry()
	svc := naming.NewService(naming.Options{Metrics: prometheus.New(reg)})
	return NewServer(config.ServerConfig{Addr: ":0", Mode: "release"}, svc, nil, reg), reg
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestName_OK(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv.Handler(), "/api/v1/name", map[string]string{"smiles": "CCO"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result nomtypes.NamingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "ethanol", result.Name)
	assert.Equal(t, "CCO", result.Input)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestName_InvalidSMILES(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv.Handler(), "/api/v1/name", map[string]string{"smiles": "C1CC"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MOL_005", resp.Code)
	assert.NotEmpty(t, resp.Message)
}

func TestName_BadBody(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/name", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, srv.Handler(), "/api/v1/name", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv.Handler(), "/api/v1/batch",
		map[string]any{"smiles": []string{"CCO", "bad(", "C"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []naming.BatchItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "ethanol", resp.Items[0].Result.Name)
	assert.NotEmpty(t, resp.Items[1].Error)
	assert.Equal(t, "methane", resp.Items[2].Result.Name)
}

func TestBatch_EmptyRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv.Handler(), "/api/v1/batch", map[string]any{"smiles": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	// Drive one naming call so the counters have samples.
	rec := postJSON(t, srv.Handler(), "/api/v1/name", map[string]string{"smiles": "CCO"})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(mrec, req)
	require.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), "nomen_names_total")
}
