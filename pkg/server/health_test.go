package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealthzReportsOkWhenAllConnected(t *testing.T) {
	h := NewHealthStatus()
	h.SetSourceRPC("connected")
	h.SetDatabase("connected")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.HandleHealthz(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var snapshot healthSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "ok", snapshot.Status)
}

func TestHandleHealthzReportsUnhealthyWhenSourceRPCDown(t *testing.T) {
	h := NewHealthStatus()
	h.SetSourceRPC("disconnected")
	h.SetDatabase("connected")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.HandleHealthz(rec, req)

	var snapshot healthSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "unhealthy", snapshot.Status)
}

func TestHandleHealthzReportsDegradedWhenDatabaseDown(t *testing.T) {
	h := NewHealthStatus()
	h.SetSourceRPC("connected")
	h.SetDatabase("disconnected")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.HandleHealthz(rec, req)

	var snapshot healthSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "degraded", snapshot.Status)
}
