package transcription

// Request holds the audio and parameters for a transcription call.
type Request struct {
	// Audio is the encoded recording.
	Audio []byte `json:"-"`
	// FileName is the name the audio is uploaded under (e.g. "recording.webm").
	FileName string `json:"file_name"`
	// MIMEType is the audio content type (e.g. "audio/webm").
	MIMEType string `json:"mime_type"`
	// APIKey is the bearer credential for the endpoint.
	APIKey string `json:"-"`
	// Model overrides the provider's configured model.
	Model string `json:"model,omitempty"`
	// Language is the expected language of the audio (e.g. "en").
	Language string `json:"language,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
