package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/sentigen/internal/models"
)

const (
	vaderPositiveCutoff = 0.20
	vaderNegativeCutoff = -0.20
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := tagPattern.ReplaceAllString(string(output), "")
	plainText = strings.Join(strings.Fields(plainText), " ")

	return RemoveLinks(plainText)
}

// VaderClassifier is a lexicon classifier with no model weights. It is the
// engine to reach for when no inference endpoint is available.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Classify(_ context.Context, text string) (string, float64, error) {
	score, label := v.AnalyzeWithVADER(text)
	if label == string(models.SentimentNeutral) {
		return label, 1 - math.Abs(score), nil
	}
	return label, math.Abs(score), nil
}

// AnalyzeWithVADER returns the compound polarity and its coarse label.
func (v *VaderClassifier) AnalyzeWithVADER(text string) (float64, string) {
	plainText := ConvertMarkdownToText(text)

	sentiment := v.analyzer.PolarityScores(plainText)
	score := sentiment.Compound

	var label models.Sentiment
	if score >= vaderPositiveCutoff {
		label = models.SentimentPositive
	} else if score <= vaderNegativeCutoff {
		label = models.SentimentNegative
	} else {
		label = models.SentimentNeutral
	}

	return score, string(label)
}
