package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustCommand(t *testing.T, key string) Command {
	t.Helper()
	cmd, ok := Registry()[key]
	if !ok {
		t.Fatalf("command %q not registered", key)
	}
	return cmd
}

func decodeBody(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	return payload
}

func TestRegistryKeysAreUnique(t *testing.T) {
	commands := Registry()
	keys := Keys(commands)
	if len(keys) != len(commands) {
		t.Fatalf("keys=%d commands=%d", len(keys), len(commands))
	}
	for _, key := range keys {
		cmd := commands[key]
		if cmd.Key() != key {
			t.Fatalf("command %q registered under %q", cmd.Key(), key)
		}
		if strings.Contains(cmd.PathTemplate, ":view") && cmd.ViewKind == "" {
			t.Fatalf("command %q addresses a view without a kind", key)
		}
	}
}

func TestBuildRequestPaths(t *testing.T) {
	cases := []struct {
		key    string
		params Params
		method string
		path   string
	}{
		{"questions get", Params{"question_id": "3"}, "GET", "/api/v1/questions/3"},
		{"detail open", Params{"id": "1"}, "POST", "/api/v1/views/questions/1"},
		{"detail vote-answer", Params{"view": "v1", "answer_id": "2", "dir": "up"}, "POST", "/api/v1/views/detail/v1/answers/2/vote"},
		{"compose tag-remove", Params{"view": "v2", "tag": "API Design"}, "DELETE", "/api/v1/views/compose/v2/tags/API%20Design"},
		{"listing close", Params{"view_id": "v3"}, "DELETE", "/api/v1/views/listing/v3"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			req, err := BuildRequest(mustCommand(t, tc.key), tc.params)
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			if req.Method != tc.method || req.Path != tc.path {
				t.Fatalf("got %s %s, want %s %s", req.Method, req.Path, tc.method, tc.path)
			}
		})
	}
}

func TestBuildRequestMissingOrBadPathParam(t *testing.T) {
	if _, err := BuildRequest(mustCommand(t, "listing show"), Params{}); err == nil || !strings.Contains(err.Error(), "view") {
		t.Fatalf("expected missing view error, got %v", err)
	}
	if _, err := BuildRequest(mustCommand(t, "questions get"), Params{"id": "abc"}); err == nil {
		t.Fatal("expected invalid id error")
	}
}

func TestBuildRequestQueryString(t *testing.T) {
	req, err := BuildRequest(mustCommand(t, "questions list"), Params{"query": "jwt", "tags": "React, Security,", "sort": "votes"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if req.Path != "/api/v1/questions?q=jwt&sort=votes&tags=React%2CSecurity" {
		t.Fatalf("unexpected path %q", req.Path)
	}
	if req.Body != nil {
		t.Fatal("GET must not carry a body")
	}
}

func TestBuildRequestOmitsUnsetFields(t *testing.T) {
	req, err := BuildRequest(mustCommand(t, "compose update"), Params{"view": "v1", "title": "Hello"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	payload := decodeBody(t, req.Body)
	if len(payload) != 1 || payload["title"] != "Hello" {
		t.Fatalf("unexpected payload %v", payload)
	}

	req, err = BuildRequest(mustCommand(t, "detail submit"), Params{"view": "v1"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if req.Body != nil {
		t.Fatalf("expected no body, got %s", req.Body)
	}
}

func TestBuildRequestKeepsExplicitEmpty(t *testing.T) {
	req, err := BuildRequest(mustCommand(t, "listing query"), Params{"view": "v1", "q": ""})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	payload := decodeBody(t, req.Body)
	if v, ok := payload["query"]; !ok || v != "" {
		t.Fatalf("expected empty query sent, got %v", payload)
	}
}

func TestBuildRequestReadsFileField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.md")
	if err := os.WriteFile(path, []byte("Use httpOnly cookies."), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	req, err := BuildRequest(mustCommand(t, "detail draft"), Params{"view": "v1", "content": "ignored", "content_file": path})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	payload := decodeBody(t, req.Body)
	if payload["content"] != "Use httpOnly cookies." {
		t.Fatalf("expected file content, got %v", payload)
	}
	if _, ok := payload["content_file"]; ok {
		t.Fatal("file path must not be sent")
	}

	if _, err := BuildRequest(mustCommand(t, "detail draft"), Params{"view": "v1", "content_file": path + ".missing"}); err == nil {
		t.Fatal("expected read error")
	}
}

func TestParseArgs(t *testing.T) {
	params, err := ParseArgs([]string{"Tag=API Design", "q="})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if params.Get("tag") != "API Design" || !params.Has("q") {
		t.Fatalf("unexpected params %v", params)
	}
	if _, err := ParseArgs([]string{"novalue"}); err == nil {
		t.Fatal("expected invalid param error")
	}
	if _, err := ParseArgs([]string{"=x"}); err == nil {
		t.Fatal("expected invalid param error for empty key")
	}
}
