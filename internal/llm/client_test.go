package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     h,
	}
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

type request struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestSummarizeSingleChunk(t *testing.T) {
	var calls int
	client := &Client{
		BaseURL: "https://api.test/v1",
		APIKey:  "sk-test",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				calls++
				if req.URL.Path != "/v1/chat/completions" {
					t.Errorf("unexpected path %s", req.URL.Path)
				}
				if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
					t.Errorf("Authorization = %q", got)
				}
				var r request
				if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				if r.Model != "gpt-test" || len(r.Messages) != 2 || r.Messages[1].Content != "Adorei o produto." {
					t.Errorf("unexpected request %+v", r)
				}
				return jsonResponse(200, completion(" Cliente satisfeito. "))
			}),
		},
	}

	out, err := client.Summarize(context.Background(), "Adorei o produto.")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "Cliente satisfeito." {
		t.Fatalf("unexpected output: %q", out)
	}
	if calls != 1 {
		t.Errorf("expected one request, got %d", calls)
	}
}

func TestSummarizeChunked(t *testing.T) {
	var prompts []string
	client := &Client{
		BaseURL:   "https://api.test/v1",
		Model:     "gpt-test",
		ChunkSize: 20,
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				var r request
				_ = json.NewDecoder(req.Body).Decode(&r)
				prompts = append(prompts, r.Messages[1].Content)
				if strings.HasPrefix(r.Messages[1].Content, "Partial summaries") {
					return jsonResponse(200, completion("final"))
				}
				return jsonResponse(200, completion("part"))
			}),
		},
	}

	out, err := client.Summarize(context.Background(), "primeira parte longa segunda parte longa")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "final" {
		t.Errorf("output = %q, want final", out)
	}
	if len(prompts) != 3 {
		t.Fatalf("expected two chunk requests and one merge, got %d", len(prompts))
	}
	if !strings.Contains(prompts[2], "1. part") || !strings.Contains(prompts[2], "2. part") {
		t.Errorf("merge prompt = %q", prompts[2])
	}
}

func TestSummarizeError(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return jsonResponse(400, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
			}),
		},
	}
	if _, err := client.Summarize(context.Background(), "texto"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := client.Summarize(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank text")
	}
}

func TestChatRequiresModel(t *testing.T) {
	client := &Client{}
	if _, err := client.Chat(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error without a model")
	}
}
