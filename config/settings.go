package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultSentimentEngine  = "huggingface"
	DefaultSentimentModel   = "distilbert/distilbert-base-uncased-finetuned-sst-2-english"
	DefaultNeutralThreshold = 0.55
	DefaultInferenceURL     = "https://router.huggingface.co/hf-inference/models"
	DefaultModel            = "gpt2"
)

var DefaultMarkers = []string{"Paragraph:", "OUTPUT:", "TEXT:"}

type Settings struct {
	AppEnv   string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	SentimentEngine  string  `mapstructure:"sentiment_engine"`
	SentimentModel   string  `mapstructure:"sentiment_model"`
	NeutralThreshold float64 `mapstructure:"neutral_threshold"`
	HugotModelPath   string  `mapstructure:"hugot_model_path"`

	HFAPIToken      string `mapstructure:"hf_api_token"`
	HFInferenceURL  string `mapstructure:"hf_inference_url"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`

	// Empty base URLs keep each SDK's public endpoint.
	OpenAIBaseURL    string `mapstructure:"openai_base_url"`
	AnthropicBaseURL string `mapstructure:"anthropic_base_url"`
	GeminiBaseURL    string `mapstructure:"gemini_base_url"`

	DefaultModel      string `mapstructure:"default_model"`
	GenerationMarkers string `mapstructure:"generation_markers"`
}

// Markers splits GENERATION_MARKERS on commas, falling back to the
// built-in marker set when it is empty.
func (s Settings) Markers() []string {
	var markers []string
	for _, m := range strings.Split(s.GenerationMarkers, ",") {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, m)
		}
	}
	if len(markers) == 0 {
		return append([]string(nil), DefaultMarkers...)
	}
	return markers
}

func (s Settings) Validate() error {
	switch s.SentimentEngine {
	case "huggingface", "hugot", "vader":
	default:
		return fmt.Errorf("unknown sentiment engine %q", s.SentimentEngine)
	}
	if s.NeutralThreshold < 0 || s.NeutralThreshold > 1 {
		return fmt.Errorf("neutral threshold %v out of range [0,1]", s.NeutralThreshold)
	}
	if s.SentimentEngine == "hugot" && s.HugotModelPath == "" {
		return fmt.Errorf("HUGOT_MODEL_PATH is required for the hugot engine")
	}
	return nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("sentiment_engine", DefaultSentimentEngine)
	v.SetDefault("sentiment_model", DefaultSentimentModel)
	v.SetDefault("neutral_threshold", DefaultNeutralThreshold)
	v.SetDefault("hugot_model_path", "")
	v.SetDefault("hf_api_token", "")
	v.SetDefault("hf_inference_url", DefaultInferenceURL)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("anthropic_base_url", "")
	v.SetDefault("gemini_base_url", "")
	v.SetDefault("default_model", DefaultModel)
	v.SetDefault("generation_markers", strings.Join(DefaultMarkers, ","))
}

// Load resolves Settings from defaults and the process environment. Call
// LoadEnv first so .env files are visible.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	s.SentimentEngine = strings.ToLower(strings.TrimSpace(s.SentimentEngine))

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
