package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends "Authorization: Bearer <token>".
	AuthBearer
	// AuthAPIKey sends the key in a named header.
	AuthAPIKey
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type  AuthType
	Token string
	// Key and Name are used by AuthAPIKey. Name defaults to X-API-Key.
	Key  string
	Name string
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// APIKeyAuth creates an API key auth config sent in header name.
func APIKeyAuth(key, name string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Name: name}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		req.Header.Set(name, a.Key)
	}
}
