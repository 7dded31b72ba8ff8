// Package httpclient provides the outbound HTTP client used for the
// transcription and webhook calls.
//
// Requests are sent exactly once. Non-2xx statuses come back as a classified
// *Error next to the response, so callers can tell a rejected credential
// (IsAuth) from any other failure.
//
//	client, _ := httpclient.New(httpclient.Config{BaseURL: "https://api.openai.com/v1"})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/audio/transcriptions",
//	    Body:   &httpclient.MultipartBody{...},
//	    Auth:   httpclient.BearerAuth(key),
//	})
package httpclient
