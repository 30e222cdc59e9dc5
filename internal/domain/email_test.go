package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jonesrussell/mail-triage/internal/domain"
)

func TestEmailInput_Sanitize(t *testing.T) {
	tests := []struct {
		name        string
		input       domain.EmailInput
		wantSubject string
		wantBody    string
		wantSender  string
	}{
		{
			name:        "passthrough for well formed input",
			input:       domain.EmailInput{Subject: "Server down", Body: "The API is unreachable", Sender: "ops@example.com"},
			wantSubject: "Server down",
			wantBody:    "The API is unreachable",
			wantSender:  "ops@example.com",
		},
		{
			name:        "empty subject gets default",
			input:       domain.EmailInput{Body: "hello there", Sender: "a@b.com"},
			wantSubject: domain.DefaultSubject,
			wantBody:    "hello there",
			wantSender:  "a@b.com",
		},
		{
			name:        "empty body falls back to subject",
			input:       domain.EmailInput{Subject: "Invoice question", Sender: "a@b.com"},
			wantSubject: "Invoice question",
			wantBody:    "Invoice question",
			wantSender:  "a@b.com",
		},
		{
			name:        "both empty uses default subject everywhere",
			input:       domain.EmailInput{},
			wantSubject: domain.DefaultSubject,
			wantBody:    domain.DefaultSubject,
			wantSender:  "",
		},
		{
			name:        "whitespace only counts as empty",
			input:       domain.EmailInput{Subject: "   ", Body: "\n\t"},
			wantSubject: domain.DefaultSubject,
			wantBody:    domain.DefaultSubject,
		},
		{
			name:        "sender is lowercased",
			input:       domain.EmailInput{Subject: "hi", Body: "hi", Sender: "Ops@Example.COM"},
			wantSubject: "hi",
			wantBody:    "hi",
			wantSender:  "ops@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Sanitize()
			if got.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", got.Subject, tt.wantSubject)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.Sender != tt.wantSender {
				t.Errorf("Sender = %q, want %q", got.Sender, tt.wantSender)
			}
		})
	}
}

func TestEmailInput_SanitizeTruncation(t *testing.T) {
	input := domain.EmailInput{
		Subject: strings.Repeat("s", domain.MaxSubjectLength+50),
		Body:    strings.Repeat("b", domain.MaxBodyLength+500),
	}

	got := input.Sanitize()

	if len(got.Subject) != domain.MaxSubjectLength {
		t.Errorf("Subject length = %d, want %d", len(got.Subject), domain.MaxSubjectLength)
	}
	if len(got.Body) != domain.MaxBodyLength {
		t.Errorf("Body length = %d, want %d", len(got.Body), domain.MaxBodyLength)
	}
}

func TestEmailInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.EmailInput
		wantErr bool
	}{
		{name: "subject and body", input: domain.EmailInput{Subject: "a", Body: "b"}, wantErr: false},
		{name: "subject only", input: domain.EmailInput{Subject: "a"}, wantErr: false},
		{name: "body only", input: domain.EmailInput{Body: "b"}, wantErr: false},
		{name: "both empty", input: domain.EmailInput{Sender: "a@b.com"}, wantErr: true},
		{name: "whitespace only", input: domain.EmailInput{Subject: " ", Body: "\t"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr && !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
