package openaisdk

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/transcription"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("model") != "whisper-1" {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		_, hdr, err := r.FormFile("file")
		if err != nil || hdr.Filename != "recording.webm" {
			t.Errorf("file part: %v %v", hdr, err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"Create an invoice template"}`)
	}))
	defer srv.Close()

	reg := transcription.NewRegistry()
	Register(reg)
	p, err := transcription.New(reg, transcription.Config{Provider: transcription.ProviderOpenAISDK, BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := p.Transcribe(context.Background(), transcription.Request{
		Audio: []byte("c1c2"), FileName: "recording.webm", APIKey: "sk-test",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if resp.Text != "Create an invoice template" {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestTranscribeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   errors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, errors.ErrCodeAuth},
		{"server error", http.StatusInternalServerError, errors.ErrCodeUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"error":{"message":"nope","type":"invalid_request_error"}}`)
			}))
			defer srv.Close()

			p, err := New(transcription.Config{BaseURL: srv.URL})
			if err != nil {
				t.Fatal(err)
			}
			_, err = p.Transcribe(context.Background(), transcription.Request{Audio: []byte("x"), APIKey: "sk-bad"})
			if !errors.HasCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}
