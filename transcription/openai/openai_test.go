package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/transcription"
)

func TestTranscribeSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("model") != "whisper-1" || r.FormValue("response_format") != "json" {
			t.Errorf("fields = %v", r.MultipartForm.Value)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file part: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "recording.webm" || string(data) != "c1c2" {
			t.Errorf("file = %s %q", hdr.Filename, data)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "audio/webm" {
			t.Errorf("file content type = %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"Create an invoice template"}`)
	}))
	defer srv.Close()

	reg := transcription.NewRegistry()
	Register(reg)
	p, err := transcription.New(reg, transcription.Config{BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := p.Transcribe(context.Background(), transcription.Request{
		Audio: []byte("c1c2"), FileName: "recording.webm", MIMEType: "audio/webm", APIKey: "sk-test",
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
		body   string
		code   errors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, errors.ErrCodeAuth},
		{"forbidden", http.StatusForbidden, ``, errors.ErrCodeAuth},
		{"server error", http.StatusInternalServerError, `oops`, errors.ErrCodeUpstream},
		{"rate limited", http.StatusTooManyRequests, ``, errors.ErrCodeUpstream},
		{"not json", http.StatusOK, `<html>`, errors.ErrCodeUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
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

func TestMissingTextIsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"language":"en"}`)
	}))
	defer srv.Close()

	p, _ := New(transcription.Config{BaseURL: srv.URL})
	resp, err := p.Transcribe(context.Background(), transcription.Request{Audio: []byte("x")})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if resp.Text != "" || resp.Language != "en" {
		t.Errorf("resp = %+v", resp)
	}
}
