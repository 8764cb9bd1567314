package imgbb

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticCredentials map[string]string

func (s staticCredentials) Credential(ctx context.Context, name string) (string, error) {
	return s[name], nil
}

func TestUploadSendsBase64Form(t *testing.T) {
	var gotKey, gotImage, gotName string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotKey = r.PostFormValue("key")
		gotImage = r.PostFormValue("image")
		gotName = r.PostFormValue("name")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"status":200,"data":{"display_url":"https://i.ibb.co/abc/pothole.jpg"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticCredentials{"imgbb_key": "secret-key"})

	url, err := client.Upload(context.Background(), "pothole.jpg", []byte{0xFF, 0xD8, 0xFF, 0xD9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://i.ibb.co/abc/pothole.jpg" {
		t.Errorf("unexpected url %q", url)
	}
	if gotKey != "secret-key" {
		t.Errorf("unexpected key %q", gotKey)
	}
	if gotName != "pothole.jpg" {
		t.Errorf("unexpected name %q", gotName)
	}
	want := base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF, 0xD9})
	if gotImage != want {
		t.Errorf("expected base64 image %q, got %q", want, gotImage)
	}
}

func TestUploadRejectedByHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"status":400}`))
	}))
	defer srv.Close()

	client := New(srv.URL, staticCredentials{"imgbb_key": "k"})

	if _, err := client.Upload(context.Background(), "x.jpg", []byte{1}); err == nil {
		t.Fatal("expected error for rejected upload")
	}
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL, staticCredentials{"imgbb_key": "k"})

	if _, err := client.Upload(context.Background(), "x.jpg", []byte{1}); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}
