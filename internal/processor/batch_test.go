//nolint:testpackage // Testing internal processor requires same package access
package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonesrussell/mail-triage/internal/domain"
)

// mockLogger discards all log output.
type mockLogger struct{}

func (mockLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockClassifier echoes the email subject into the result so tests can
// verify slot alignment. Subjects containing "boom" fail.
type mockClassifier struct {
	calls      atomic.Int64
	inFlight   atomic.Int64
	maxInUse   atomic.Int64
	classifyFn func(ctx context.Context, email domain.EmailInput) (*domain.ClassificationResult, error)
}

func (m *mockClassifier) Classify(ctx context.Context, email domain.EmailInput) (*domain.ClassificationResult, error) {
	m.calls.Add(1)

	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		observed := m.maxInUse.Load()
		if current <= observed || m.maxInUse.CompareAndSwap(observed, current) {
			break
		}
	}

	if m.classifyFn != nil {
		return m.classifyFn(ctx, email)
	}
	if strings.Contains(email.Subject, "boom") {
		return nil, errors.New("provider returned 503")
	}
	return &domain.ClassificationResult{
		Urgency:    "low",
		Department: email.Subject,
	}, nil
}

func makeEmails(n int) []domain.EmailInput {
	emails := make([]domain.EmailInput, n)
	for i := range emails {
		emails[i] = domain.EmailInput{
			Subject: fmt.Sprintf("email-%d", i),
			Body:    "body text",
			Sender:  "user@example.com",
		}
	}
	return emails
}

func TestNewBatchProcessor_DefaultConcurrency(t *testing.T) {
	testCases := []struct {
		name        string
		concurrency int
		expected    int
	}{
		{name: "zero falls back to default", concurrency: 0, expected: DefaultConcurrency},
		{name: "negative falls back to default", concurrency: -3, expected: DefaultConcurrency},
		{name: "explicit value kept", concurrency: 4, expected: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewBatchProcessor(&mockClassifier{}, tc.concurrency, mockLogger{})
			if p.Concurrency() != tc.expected {
				t.Errorf("expected concurrency %d, got %d", tc.expected, p.Concurrency())
			}
		})
	}
}

func TestBatchProcessor_Process_PreservesOrder(t *testing.T) {
	mc := &mockClassifier{
		classifyFn: func(_ context.Context, email domain.EmailInput) (*domain.ClassificationResult, error) {
			// Stagger completion so out-of-order finishes would show up.
			time.Sleep(time.Duration(len(email.Subject)%3) * time.Millisecond)
			return &domain.ClassificationResult{Urgency: "low", Department: email.Subject}, nil
		},
	}
	p := NewBatchProcessor(mc, 5, mockLogger{})

	emails := makeEmails(25)
	results := p.Process(context.Background(), emails)

	if len(results) != len(emails) {
		t.Fatalf("expected %d results, got %d", len(emails), len(results))
	}
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("result %d: unexpected error: %v", i, res.Err)
		}
		if res.Email.Subject != emails[i].Subject {
			t.Errorf("result %d: expected email %q, got %q", i, emails[i].Subject, res.Email.Subject)
		}
		if res.Result.Department != emails[i].Subject {
			t.Errorf("result %d: expected result for %q, got %q", i, emails[i].Subject, res.Result.Department)
		}
	}
}

func TestBatchProcessor_Process_IsolatesFailures(t *testing.T) {
	p := NewBatchProcessor(&mockClassifier{}, 3, mockLogger{})

	emails := makeEmails(6)
	emails[2].Subject = "boom-2"
	emails[4].Subject = "boom-4"

	results := p.Process(context.Background(), emails)

	if len(results) != len(emails) {
		t.Fatalf("expected %d results, got %d", len(emails), len(results))
	}
	for i, res := range results {
		failing := i == 2 || i == 4
		if failing {
			if res.Err == nil {
				t.Errorf("result %d: expected error, got nil", i)
				continue
			}
			if !strings.Contains(res.Err.Error(), "classification failed") {
				t.Errorf("result %d: expected wrapped classification error, got %v", i, res.Err)
			}
			if res.Result != nil {
				t.Errorf("result %d: expected nil result alongside error", i)
			}
			continue
		}
		if res.Err != nil {
			t.Errorf("result %d: unexpected error: %v", i, res.Err)
		}
		if res.Result == nil {
			t.Errorf("result %d: expected result, got nil", i)
		}
	}
}

func TestBatchProcessor_Process_RejectsInvalidItems(t *testing.T) {
	mc := &mockClassifier{}
	p := NewBatchProcessor(mc, 2, mockLogger{})

	emails := makeEmails(3)
	emails[1] = domain.EmailInput{Sender: "user@example.com"}

	results := p.Process(context.Background(), emails)

	if !errors.Is(results[1].Err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty item, got %v", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("expected surrounding items to succeed, got %v and %v", results[0].Err, results[2].Err)
	}
	if got := mc.calls.Load(); got != 2 {
		t.Errorf("expected classifier called for 2 valid items, got %d", got)
	}
}

func TestBatchProcessor_Process_EmptyBatch(t *testing.T) {
	p := NewBatchProcessor(&mockClassifier{}, 2, mockLogger{})

	results := p.Process(context.Background(), nil)

	if results == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_Process_ContextCanceled(t *testing.T) {
	mc := &mockClassifier{}
	p := NewBatchProcessor(mc, 4, mockLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := p.Process(ctx, makeEmails(8))

	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	for i, res := range results {
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("result %d: expected context.Canceled, got %v", i, res.Err)
		}
	}
	if got := mc.calls.Load(); got != 0 {
		t.Errorf("expected classifier never called after cancel, got %d calls", got)
	}
}

func TestBatchProcessor_Process_RespectsConcurrencyBound(t *testing.T) {
	const bound = 3

	mc := &mockClassifier{
		classifyFn: func(_ context.Context, email domain.EmailInput) (*domain.ClassificationResult, error) {
			time.Sleep(2 * time.Millisecond)
			return &domain.ClassificationResult{Urgency: "low", Department: email.Subject}, nil
		},
	}
	p := NewBatchProcessor(mc, bound, mockLogger{})

	p.Process(context.Background(), makeEmails(30))

	if got := mc.maxInUse.Load(); got > bound {
		t.Errorf("expected at most %d concurrent classifications, got %d", bound, got)
	}
	if got := mc.calls.Load(); got != 30 {
		t.Errorf("expected 30 classifications, got %d", got)
	}
}
