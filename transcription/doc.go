// Package transcription sends recorded audio to a speech-to-text backend
// and returns the transcript.
//
// Providers:
//
//   - openai: multipart POST to {base}/audio/transcriptions over httpclient
//   - openaisdk: the same endpoint through github.com/sashabaranov/go-openai
//   - whisper: a local faster-whisper HTTP sidecar
//
// Usage:
//
//	reg := transcription.NewRegistry()
//	openai.Register(reg)
//	p, err := transcription.New(reg, cfg)
//	text, err := transcription.NewClient(p, log).Transcribe(ctx, payload, apiKey)
package transcription
