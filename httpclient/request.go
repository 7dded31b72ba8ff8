package httpclient

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is appended to the client's BaseURL. A full URL is used as is.
	Path string
	// Headers are request-specific headers merged over client defaults.
	Headers map[string]string
	// Body accepts *MultipartBody, io.Reader, []byte, string, or any value
	// that is JSON-encoded.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
