package generation

import (
	"strings"

	"github.com/spacesedan/sentigen/internal/models"
)

// Templates hold the instruction text sent to the engine. {sentiment} and
// {prompt} are substituted. Strict tiers only add wording to the prompt;
// nothing checks that the output obeys it.
type Templates struct {
	Normal        string
	Strict        string
	StrictNeutral string
}

var DefaultTemplates = Templates{
	Normal: "Write a {sentiment} paragraph about: {prompt}\n\nParagraph:",
	Strict: "Write a strictly {sentiment} paragraph about: {prompt}. " +
		"Every sentence must express a {sentiment} tone. " +
		"Do not include contradictory or neutral statements.\n\nParagraph:",
	StrictNeutral: "Write a strictly neutral paragraph about: {prompt}. " +
		"Every sentence must stay factual and even in tone. " +
		"Do not include positive, negative or emotionally charged statements.\n\nParagraph:",
}

func (t Templates) Build(prompt string, sentiment models.Sentiment, strict bool) string {
	tmpl := t.Normal
	if strict {
		tmpl = t.Strict
		if sentiment == models.SentimentNeutral && t.StrictNeutral != "" {
			tmpl = t.StrictNeutral
		}
	}

	r := strings.NewReplacer("{sentiment}", string(sentiment), "{prompt}", prompt)
	return r.Replace(tmpl)
}
