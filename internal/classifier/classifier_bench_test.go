package classifier

import (
	"context"
	"testing"

	"github.com/jonesrussell/mail-triage/internal/config"
	"github.com/jonesrussell/mail-triage/internal/domain"
	"github.com/jonesrussell/mail-triage/internal/logger"
)

var benchEmails = []domain.EmailInput{
	{
		Subject: "URGENT: Production database is down",
		Body:    "The primary database crashed an hour ago and the API returns errors for every customer. We need someone on this immediately.",
		Sender:  "ops@bigcustomer.com",
	},
	{
		Subject: "Question about last month's invoice",
		Body:    "I noticed a charge on invoice 4821 that I don't recognize. Could someone from billing walk me through it?",
		Sender:  "finance@smallshop.io",
	},
	{
		Subject: "Demo request",
		Body:    "We're evaluating triage tools for our support team and would love a demo of the enterprise plan pricing.",
		Sender:  "buyer@prospect.example",
	},
	{
		Subject: "password reset not working!!!",
		Body:    "I've tried resetting my password three times and the email never arrives. Please help.",
		Sender:  "user@gmail.com",
	},
}

// BenchmarkTokenize benchmarks text normalization and tokenization.
func BenchmarkTokenize(b *testing.B) {
	text := benchEmails[0].Text()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Tokenize(text)
	}
}

// BenchmarkMatcherMatch benchmarks keyword matching against the built-in
// urgency patterns.
func BenchmarkMatcherMatch(b *testing.B) {
	snap := config.DefaultSnapshot()
	m := NewMatcher(snap.Urgency.Patterns)
	text := benchEmails[0].Text()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = m.Match(text)
	}
}

// BenchmarkEngineClassify benchmarks the full classification pipeline with
// pattern matching, aggregation, band resolution, and escalation. No
// providers are configured, so this measures the local path.
func BenchmarkEngineClassify(b *testing.B) {
	engine := NewEngine(config.DefaultSnapshot(), nil, logger.NewNop(), nil)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		email := benchEmails[i%len(benchEmails)]
		if _, err := engine.Classify(ctx, email); err != nil {
			b.Fatalf("classify: %v", err)
		}
	}
}
