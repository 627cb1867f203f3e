package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	s := newTestServer(t)
	req, _ := http.NewRequest("GET", "/version", nil)
	response := executeTestRequest(t, s, req, nil)

	require.Equal(t, http.StatusOK, response.Code)
	checkHeader(t, response.Result().Header)
	compareJson(t,
		&getVersionRsp{
			ServerVersion: "Kokoro Check Server: " + ServerVersion,
			ApiVersion:    ApiVersion,
		}, response.Body.String())
}

func TestGetReadiness(t *testing.T) {
	s := newTestServer(t)
	req, _ := http.NewRequest("GET", "/ready", nil)
	response := executeTestRequest(t, s, req, nil)

	require.Equal(t, http.StatusOK, response.Code)
	compareJson(t, map[string]string{"status": "ready"}, response.Body.String())
}
