package http

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestMessageAPI_CRUD(t *testing.T) {
	env := setupTestEnv(t, nil)

	rec := performRequest(env.router, http.MethodPost, "/api/messages", map[string]string{"messageText": "hello"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Message struct {
			ID          int64  `json:"id"`
			MessageText string `json:"messageText"`
			CreatedAt   string `json:"createdAt"`
		} `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Message.ID != 1 || created.Message.MessageText != "hello" || created.Message.CreatedAt == "" {
		t.Fatalf("unexpected created message %+v", created.Message)
	}

	rec = performRequest(env.router, http.MethodGet, "/api/messages/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodPatch, "/api/messages/1", map[string]string{"messageText": "updated"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on patch, got %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodGet, "/api/messages", nil)
	var list struct {
		Messages []struct {
			MessageText string `json:"messageText"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Messages) != 1 || list.Messages[0].MessageText != "updated" {
		t.Fatalf("unexpected list %+v", list.Messages)
	}

	rec = performRequest(env.router, http.MethodDelete, "/api/messages/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = performRequest(env.router, http.MethodGet, "/api/messages/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	rec = performRequest(env.router, http.MethodDelete, "/api/messages/1", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 deleting missing id, got %d", rec.Code)
	}
}

func TestMessageAPI_Validation(t *testing.T) {
	env := setupTestEnv(t, nil)

	rec := performRequest(env.router, http.MethodPost, "/api/messages", map[string]string{"messageText": "  "})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Fields["messageText"] == "" {
		t.Fatalf("expected field error, got %s", rec.Body.String())
	}

	env.seed(t, "x")
	rec = performRequest(env.router, http.MethodPatch, "/api/messages/1", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty patch, got %d", rec.Code)
	}
	rec = performRequest(env.router, http.MethodGet, "/api/messages/0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for falsy id, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct == "" || ct[:16] != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
}
