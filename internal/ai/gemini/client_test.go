package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeEmbedResponse struct {
	values []float32
	err    error
}

type fakeModels struct {
	mu      sync.Mutex
	queue   []fakeEmbedResponse
	models  []string
	configs []*genai.EmbedContentConfig
	texts   []string
}

func (f *fakeModels) enqueue(values []float32, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeEmbedResponse{values: values, err: err})
}

func (f *fakeModels) EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	f.models = append(f.models, model)
	f.configs = append(f.configs, config)
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.texts = append(f.texts, contents[0].Parts[0].Text)
	}
	if res.err != nil {
		return nil, res.err
	}
	return &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{{Values: res.values}}}, nil
}

func (f *fakeModels) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.models)
}

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	original := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { sleep = original })
	return &delays
}

func TestEmbedderRetriesOnTemporaryError(t *testing.T) {
	delays := stubSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue([]float32{0.1, 0.2}, nil)

	e := newEmbedder(models, Config{MaxRetries: 2}, zap.NewNop())
	got, err := e.Embed(context.Background(), "  golang engineer ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected embedding: %v", got)
	}
	if models.calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls())
	}
	if len(*delays) != 1 || (*delays)[0] != baseBackoff {
		t.Fatalf("expected one backoff of %v, got %v", baseBackoff, *delays)
	}
	for i, cfg := range models.configs {
		if cfg == nil || cfg.TaskType != taskType {
			t.Fatalf("call %d: expected task type %q", i, taskType)
		}
		if models.models[i] != DefaultModel {
			t.Fatalf("call %d: expected default model, got %q", i, models.models[i])
		}
		if models.texts[i] != "golang engineer" {
			t.Fatalf("call %d: expected trimmed text, got %q", i, models.texts[i])
		}
	}
}

func TestEmbedderStopsAfterRetriesExhausted(t *testing.T) {
	stubSleep(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	e := newEmbedder(models, Config{MaxRetries: 2}, zap.NewNop())
	_, err := e.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
	if models.calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls())
	}
}

func TestEmbedderQuotaDelay(t *testing.T) {
	t.Run("long delay is not retried", func(t *testing.T) {
		stubSleep(t)
		models := &fakeModels{}
		models.enqueue(nil, genai.APIError{
			Code:    http.StatusTooManyRequests,
			Status:  "RESOURCE_EXHAUSTED",
			Message: "quota exhausted, retry after 60 seconds",
		})

		e := newEmbedder(models, Config{MaxRetries: 3}, zap.NewNop())
		if _, err := e.Embed(context.Background(), "text"); err == nil {
			t.Fatal("expected error when quota delay too long")
		}
		if models.calls() != 1 {
			t.Fatalf("expected single call, got %d", models.calls())
		}
	})

	t.Run("short delay is honoured", func(t *testing.T) {
		delays := stubSleep(t)
		models := &fakeModels{}
		models.enqueue(nil, genai.APIError{
			Code:    http.StatusTooManyRequests,
			Message: "Please retry in 2s.",
		})
		models.enqueue([]float32{1}, nil)

		e := newEmbedder(models, Config{MaxRetries: 3}, zap.NewNop())
		if _, err := e.Embed(context.Background(), "text"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(*delays) != 1 || (*delays)[0] != 2*time.Second {
			t.Fatalf("expected 2s delay, got %v", *delays)
		}
	})
}

func TestEmbedderDoesNotRetryClientErrors(t *testing.T) {
	stubSleep(t)
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	e := newEmbedder(models, Config{}, zap.NewNop())
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error")
	}
	if models.calls() != 1 {
		t.Fatalf("expected single call, got %d", models.calls())
	}
}

func TestEmbedderRejectsEmptyText(t *testing.T) {
	e := newEmbedder(&fakeModels{}, Config{}, zap.NewNop())
	if _, err := e.Embed(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestNewEmbedderRequiresKey(t *testing.T) {
	if _, err := NewEmbedder(context.Background(), " ", Config{}, nil); err == nil {
		t.Fatal("expected missing key error")
	}
}
