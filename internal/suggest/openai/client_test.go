package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"resume-builder/internal/suggest"
)

type recorder struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (r *recorder) add(body map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies = append(r.bodies, body)
}

func (r *recorder) all() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]any(nil), r.bodies...)
}

type reply struct {
	status int
	body   string
}

func newServer(t *testing.T, rec *recorder, replies ...reply) {
	t.Helper()
	oldURL := baseURL
	t.Cleanup(func() { baseURL = oldURL })

	var mu sync.Mutex
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		rec.add(payload)

		mu.Lock()
		next := replies[min(calls, len(replies)-1)]
		calls++
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(next.status)
		_, _ = w.Write([]byte(next.body))
	}))
	t.Cleanup(server.Close)
	baseURL = server.URL + "/"
}

func chatReply(content string) reply {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return reply{status: http.StatusOK, body: string(body)}
}

// messageText returns the text of a request message whether its content was
// sent as a string or as text parts.
func messageText(m any) string {
	msg, _ := m.(map[string]any)
	switch content := msg["content"].(type) {
	case string:
		return content
	case []any:
		var b strings.Builder
		for _, part := range content {
			p, _ := part.(map[string]any)
			text, _ := p["text"].(string)
			b.WriteString(text)
		}
		return b.String()
	}
	return ""
}

func sampleRequest() suggest.Request {
	return suggest.Request{
		Sections:     map[string]string{"Summary": "Engineer", "Experience e1": "• Wrote code"},
		DesiredRoles: "Staff Engineer",
	}
}

func TestSuggestDecodesObject(t *testing.T) {
	rec := &recorder{}
	newServer(t, rec, chatReply(`{"Summary":"Senior engineer","Experience e1":"• Shipped code"}`))

	client, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := client.Suggest(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if out["Summary"] != "Senior engineer" || out["Experience e1"] != "• Shipped code" {
		t.Fatalf("unexpected suggestions: %#v", out)
	}

	bodies := rec.all()
	if len(bodies) != 1 {
		t.Fatalf("expected 1 request, got %d", len(bodies))
	}
	if _, ok := bodies[0]["temperature"]; !ok {
		t.Fatalf("expected temperature for gpt-4o-mini")
	}
	format, _ := bodies[0]["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %#v", bodies[0]["response_format"])
	}
	messages, _ := bodies[0]["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	content := messageText(messages[1])
	if !strings.Contains(content, "Desired Roles: Staff Engineer") || !strings.Contains(content, "Section Name: Experience e1") {
		t.Fatalf("prompt missing request data: %q", content)
	}
}

func TestSuggestOmitsTemperatureForGPT5(t *testing.T) {
	rec := &recorder{}
	newServer(t, rec, chatReply(`{}`))

	client, err := NewClient("test-key", "gpt-5-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Suggest(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if _, ok := rec.all()[0]["temperature"]; ok {
		t.Fatalf("expected temperature to be omitted for gpt-5 models")
	}
}

func TestSuggestRetriesOnceOnInvalidJSON(t *testing.T) {
	rec := &recorder{}
	newServer(t, rec, chatReply(`not json`), chatReply(`{"Summary":"fixed"}`))

	client, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := client.Suggest(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if out["Summary"] != "fixed" {
		t.Fatalf("unexpected suggestions: %#v", out)
	}
	bodies := rec.all()
	if len(bodies) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(bodies))
	}
	messages, _ := bodies[1]["messages"].([]any)
	if len(messages) != 4 {
		t.Fatalf("expected repair conversation of 4 messages, got %d", len(messages))
	}
	if got := messageText(messages[2]); got != "not json" {
		t.Fatalf("expected the invalid reply echoed back, got %q", got)
	}
}

func TestSuggestNoInfiniteRetry(t *testing.T) {
	rec := &recorder{}
	newServer(t, rec, chatReply(`["not","an","object"]`))

	client, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Suggest(context.Background(), sampleRequest()); err == nil {
		t.Fatalf("expected error for repeated invalid output")
	}
	if n := len(rec.all()); n != 2 {
		t.Fatalf("expected 2 requests (one retry), got %d", n)
	}
}

func TestSuggestSurfacesAPIError(t *testing.T) {
	rec := &recorder{}
	newServer(t, rec, reply{
		status: http.StatusUnauthorized,
		body:   `{"error":{"message":"bad key","type":"invalid_request_error"}}`,
	})

	client, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Suggest(context.Background(), sampleRequest())
	if err == nil || !strings.Contains(err.Error(), "openai http status 401") {
		t.Fatalf("expected api error, got %v", err)
	}
	if n := len(rec.all()); n != 1 {
		t.Fatalf("expected 1 request, got %d", n)
	}
}

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Fatalf("expected error for missing key")
	}
	if _, err := NewClient("key", " "); err == nil {
		t.Fatalf("expected error for missing model")
	}
}

func TestIsGPT5(t *testing.T) {
	cases := map[string]bool{
		"gpt-5":       true,
		" GPT-5-mini": true,
		"gpt-4o-mini": false,
		"":            false,
	}
	for model, want := range cases {
		if got := isGPT5(model); got != want {
			t.Fatalf("isGPT5(%q) = %v, want %v", model, got, want)
		}
	}
}
