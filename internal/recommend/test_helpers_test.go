package recommend

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"service-advisor/internal/llm"
	"service-advisor/internal/shared/server/middleware"
	"service-advisor/internal/shared/telemetry"
)

type fakeLLM struct {
	mu      sync.Mutex
	resp    llm.RawResponse
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (llm.RawResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return llm.RawResponse{}, f.err
	}
	return f.resp, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeData struct {
	transactions string
	services     string
	txErr        error
	svcErr       error
}

func (f fakeData) Transactions(ctx context.Context) (string, error) {
	return f.transactions, f.txErr
}

func (f fakeData) Services(ctx context.Context) (string, error) {
	return f.services, f.svcErr
}

func newTestService(client llm.Client, data DataSource) *Service {
	return &Service{
		LLM:            client,
		Data:           data,
		Prompts:        llm.NewPromptBuilder(""),
		Outcomes:       NewMemoryRepo(10),
		Model:          "gemini-test",
		MaxQueryLength: 50,
	}
}

func quietLogs(t *testing.T) {
	t.Helper()
	t.Cleanup(telemetry.SetOutput(io.Discard))
}

func setupRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	quietLogs(t)

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.RequestID(), middleware.Recovery())
	NewHandler(svc).RegisterRoutes(r)
	r.NoRoute(NotFound)
	return r
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Details string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, body []byte) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode error envelope %q: %v", body, err)
	}
	return env
}

