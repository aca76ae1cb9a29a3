package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-advisor/internal/catalog"
	"service-advisor/internal/llm"
)

func TestRecommendRouteSuccess(t *testing.T) {
	client := &fakeLLM{resp: envelopeWithText(t, "```json\n"+sampleSet+"\n```")}
	svc := newTestService(client, fakeData{transactions: `[]`, services: `[]`})
	router := setupRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/recommend", nil)
	req.Header.Set("X-Request-Id", "req-ok")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json"))
	assert.JSONEq(t, sampleSet, resp.Body.String())

	outcomes, err := svc.Outcomes.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "req-ok", outcomes[0].RequestID)
	assert.Equal(t, OperationRecommend, outcomes[0].Operation)
	assert.Equal(t, OutcomeSuccess, outcomes[0].Kind)
	assert.Equal(t, 1, outcomes[0].RecommendationCount)
}

func TestSearchRouteMissingQuery(t *testing.T) {
	for _, target := range []string{"/search", "/search?query=", "/search?query=%20%20"} {
		t.Run(target, func(t *testing.T) {
			client := &fakeLLM{}
			router := setupRouter(t, newTestService(client, fakeData{services: `[]`}))

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusBadRequest, resp.Code)
			env := decodeError(t, resp.Body.Bytes())
			assert.Equal(t, "ClientInputError", env.Error.Type)
			assert.Equal(t, "Missing or empty query parameter.", env.Error.Details)
			assert.Zero(t, client.calls())
		})
	}
}

func TestSearchRouteSuccess(t *testing.T) {
	client := &fakeLLM{resp: envelopeWithText(t, `{"recommendations":[]}`)}
	router := setupRouter(t, newTestService(client, fakeData{services: `[{"Title":"Taxi"}]`}))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/search?query=lacn%C3%BD+taxik", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `{"recommendations":[]}`, strings.TrimSpace(resp.Body.String()))
	require.Equal(t, 1, client.calls())
	assert.Contains(t, client.prompts[0], "lacný taxik")
}

func TestRecommendRouteEmitsGeneratedObjectsVerbatim(t *testing.T) {
	generated := `{"Title":"A & B","Provider":"P","Price":"<5 EUR>","Reason":"r"}`
	client := &fakeLLM{resp: envelopeWithText(t, `{"recommendations":[`+generated+`]}`)}
	router := setupRouter(t, newTestService(client, fakeData{transactions: `[]`, services: `[]`}))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/recommend", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `{"recommendations":[`+generated+`]}`, strings.TrimSpace(resp.Body.String()))
}

func TestUnknownRoutesReturnNotFound(t *testing.T) {
	router := setupRouter(t, newTestService(&fakeLLM{}, fakeData{}))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/unknown"},
		{http.MethodGet, "/recommend/"},
		{http.MethodGet, "/Recommend"},
		{http.MethodGet, "/search/extra"},
		{http.MethodPost, "/recommend"},
		{http.MethodPut, "/search?query=x"},
		{http.MethodDelete, "/recommend"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, http.StatusNotFound, resp.Code)
			assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json"))
			assert.JSONEq(t, `{"error":{"message":"Not Found","type":"NotFound"}}`, resp.Body.String())
		})
	}
}

func TestPipelineFailuresRenderEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
		data   fakeData
		target string
		status int
		kind   ErrorKind
	}{
		{
			name:   "missing credential",
			client: llm.PlaceholderClient{},
			data:   fakeData{services: `[]`},
			target: "/recommend",
			status: http.StatusInternalServerError,
			kind:   KindConfiguration,
		},
		{
			name:   "data unavailable",
			client: &fakeLLM{},
			data:   fakeData{txErr: catalog.ErrDataUnavailable},
			target: "/recommend",
			status: http.StatusInternalServerError,
			kind:   KindDataUnavailable,
		},
		{
			name:   "network failure",
			client: &fakeLLM{err: &llm.TransportError{Op: "request", Err: context.DeadlineExceeded}},
			data:   fakeData{services: `[]`},
			target: "/search?query=kino",
			status: http.StatusServiceUnavailable,
			kind:   KindNetwork,
		},
		{
			name:   "rate limited",
			client: &fakeLLM{resp: llm.RawResponse{StatusCode: http.StatusTooManyRequests, Body: []byte(`{"error":{"code":429}}`)}},
			data:   fakeData{services: `[]`},
			target: "/search?query=kino",
			status: http.StatusTooManyRequests,
			kind:   KindRateLimited,
		},
		{
			name:   "upstream rejected",
			client: &fakeLLM{resp: llm.RawResponse{StatusCode: http.StatusBadRequest, Body: []byte(`{"error":{"message":"secret detail"}}`)}},
			data:   fakeData{transactions: `[]`, services: `[]`},
			target: "/recommend",
			status: http.StatusBadGateway,
			kind:   KindUpstream,
		},
		{
			name:   "content filtered",
			client: &fakeLLM{resp: llm.RawResponse{StatusCode: http.StatusOK, Body: []byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`)}},
			data:   fakeData{transactions: `[]`, services: `[]`},
			target: "/recommend",
			status: http.StatusInternalServerError,
			kind:   KindContentFiltered,
		},
		{
			name:   "invalid generated content",
			client: &fakeLLM{resp: envelopeWithText(t, `{"recommendations":"oops"}`)},
			data:   fakeData{transactions: `[]`, services: `[]`},
			target: "/recommend",
			status: http.StatusInternalServerError,
			kind:   KindInvalidGeneratedContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t, newTestService(tt.client, tt.data))

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, tt.status, resp.Code)
			assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json"))
			env := decodeError(t, resp.Body.Bytes())
			assert.Equal(t, string(tt.kind), env.Error.Type)
			assert.NotEmpty(t, env.Error.Message)
			assert.NotContains(t, resp.Body.String(), "secret detail")
			assert.NotContains(t, resp.Body.String(), "SAFETY")
			assert.NotContains(t, resp.Body.String(), "oops")

			var generic map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &generic))
			assert.Len(t, generic, 1)
		})
	}
}
