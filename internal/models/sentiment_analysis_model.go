package models

import "strings"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment lowercases and trims s, returning neutral for anything
// outside the known labels.
func ParseSentiment(s string) (Sentiment, bool) {
	switch label := Sentiment(strings.ToLower(strings.TrimSpace(s))); label {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return label, true
	default:
		return SentimentNeutral, false
	}
}

type SentimentResult struct {
	Label      Sentiment `json:"label"`
	Confidence float64   `json:"confidence"`
}
