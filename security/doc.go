// Package security builds crypto/tls configurations from file-based
// settings. The same TLSConfig serves outbound clients (a private CA for a
// self-hosted transcription sidecar or webhook, optional client
// certificates) and the console listener (certificate and key).
package security
