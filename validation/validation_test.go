package validation

import (
	"testing"

	"github.com/kbukum/voicedoc/errors"
)

type signUp struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type webhookSettings struct {
	Key string `json:"apiKey" validate:"required,startswith=sk-"`
	URL string `json:"url" validate:"required,url"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		input      signUp
		wantFields []string
	}{
		{"valid", signUp{Email: "a@example.com", Password: "password1"}, nil},
		{"missing email", signUp{Password: "password1"}, []string{"email"}},
		{"bad email", signUp{Email: "nope", Password: "password1"}, []string{"email"}},
		{"short password", signUp{Email: "a@example.com", Password: "short"}, []string{"password"}},
		{"both", signUp{}, []string{"email", "password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			fields := Fields(err)
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("fields = %+v, want %v", fields, tt.wantFields)
			}
			for i, f := range fields {
				if f.Field != tt.wantFields[i] {
					t.Errorf("field[%d] = %q, want %q", i, f.Field, tt.wantFields[i])
				}
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   webhookSettings
		wantErr bool
		field   string
		message string
	}{
		{"valid", webhookSettings{Key: "sk-abc", URL: "https://hooks.example.com/x"}, false, "", ""},
		{"empty key", webhookSettings{URL: "https://hooks.example.com/x"}, true, "apiKey", "is required"},
		{"key prefix", webhookSettings{Key: "pk-abc", URL: "https://hooks.example.com/x"}, true, "apiKey", "must start with sk-"},
		{"bad url", webhookSettings{Key: "sk-abc", URL: "not a url"}, true, "url", "must be a valid URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.HasCode(err, errors.ErrCodeConfigValidation) {
				t.Fatalf("expected CONFIG_VALIDATION, got %v", err)
			}
			fields := Fields(err)
			if len(fields) != 1 || fields[0].Field != tt.field || fields[0].Message != tt.message {
				t.Errorf("fields = %+v", fields)
			}
		})
	}
}

func TestVar(t *testing.T) {
	if err := Var("email", "user@example.com", "required,email"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := Var("email", "user", "required,email")
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
