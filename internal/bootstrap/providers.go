package bootstrap

import (
	"github.com/jonesrussell/mail-triage/internal/config"
	"github.com/jonesrussell/mail-triage/internal/logger"
	"github.com/jonesrussell/mail-triage/internal/provider"
)

// SetupProviders builds the signal provider clients in fan-out order:
// sentiment, then emotion, then topic. Clients are always constructed;
// whether each one is consulted on a classification is decided by the
// active snapshot, and an unreachable provider degrades results instead
// of failing them.
func SetupProviders(cfg *config.Config, log logger.Logger) []provider.SignalProvider {
	providers := []provider.SignalProvider{
		provider.NewSentiment(cfg.Providers.Sentiment.URL, cfg.Providers.Sentiment.Timeout),
		provider.NewEmotion(cfg.Providers.Emotion.URL, cfg.Providers.Emotion.Timeout),
		provider.NewTopic(cfg.Providers.Topic.URL, cfg.Providers.Topic.Timeout),
	}

	log.Info("Signal providers configured",
		logger.String("sentiment_url", cfg.Providers.Sentiment.URL),
		logger.String("emotion_url", cfg.Providers.Emotion.URL),
		logger.String("topic_url", cfg.Providers.Topic.URL),
	)

	return providers
}
