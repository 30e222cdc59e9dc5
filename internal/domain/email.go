// Package domain contains the core domain models for the mail-triage service.
package domain

import "strings"

// Sanitation limits applied to incoming email text.
const (
	// MaxSubjectLength is the maximum subject length kept for classification.
	MaxSubjectLength = 200
	// MaxBodyLength is the maximum body length kept for classification.
	MaxBodyLength = 5000
	// DefaultSubject is substituted when an email arrives with no subject.
	DefaultSubject = "No Subject"
)

// EmailInput represents a single email submitted for classification.
type EmailInput struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Sender  string `json:"sender"`
}

// Validate checks that the email carries at least one usable text field.
// The engine itself tolerates empty text; callers that require non-empty
// input (API handlers, batch ingestion) enforce it with this check.
func (e EmailInput) Validate() error {
	if strings.TrimSpace(e.Subject) == "" && strings.TrimSpace(e.Body) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Sanitize returns a normalized copy of the email suitable for classification.
// A missing subject is replaced with DefaultSubject, a missing body falls back
// to the subject text, and both fields are truncated to their limits.
func (e EmailInput) Sanitize() EmailInput {
	out := EmailInput{
		Subject: strings.TrimSpace(e.Subject),
		Body:    strings.TrimSpace(e.Body),
		Sender:  strings.TrimSpace(strings.ToLower(e.Sender)),
	}

	if out.Subject == "" {
		out.Subject = DefaultSubject
	}
	if out.Body == "" {
		out.Body = out.Subject
	}

	if len(out.Subject) > MaxSubjectLength {
		out.Subject = out.Subject[:MaxSubjectLength]
	}
	if len(out.Body) > MaxBodyLength {
		out.Body = out.Body[:MaxBodyLength]
	}

	return out
}

// Text returns the combined subject and body used for scoring.
func (e EmailInput) Text() string {
	return e.Subject + " " + e.Body
}
