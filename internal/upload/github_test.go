package upload

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/repos/acme/campaign/contents/uploaded_audio/reminder_v2.mp3" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token gh-token" {
			t.Errorf("authorization = %q", got)
		}

		var req putContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			t.Fatalf("content is not base64: %v", err)
		}
		if string(decoded) != "audio-bytes" {
			t.Errorf("content = %q", decoded)
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"content":{"name":"reminder_v2.mp3"}}`))
	}))
	defer server.Close()

	c := NewClient("gh-token", "acme/campaign", "uploaded_audio", WithBaseURLs(server.URL, "https://raw.example.com"))
	// Spaces in the filename are normalized before the PUT.
	url, err := c.Upload("reminder v2.mp3", []byte("audio-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	want := "https://raw.example.com/acme/campaign/main/uploaded_audio/reminder_v2.mp3"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestUploadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid request"}`))
	}))
	defer server.Close()

	c := NewClient("gh-token", "acme/campaign", "uploaded_audio", WithBaseURLs(server.URL, "https://raw.example.com"))
	if _, err := c.Upload("a.mp3", []byte("x")); err == nil {
		t.Fatal("expected error on 422")
	}
}

func TestUploadMissingToken(t *testing.T) {
	c := NewClient("", "acme/campaign", "uploaded_audio")
	if _, err := c.Upload("a.mp3", []byte("x")); err == nil {
		t.Fatal("expected error for missing token")
	}
}
