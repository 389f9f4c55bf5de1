package news

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a pipeline run.
// All values originate from Viper so the pipeline can be configured via files,
// env vars, or CLI flags.
type Config struct {
	Sources        []string
	UserAgent      string
	Concurrency    int
	JSONDir        string
	MarkdownDir    string
	LLMBaseURL     string
	LLMAPIKey      string
	LLMModel       string
	LLMTemperature float64
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Sources:        normalizeSources(v.GetStringSlice("news.sources")),
		UserAgent:      v.GetString("news.user_agent"),
		Concurrency:    v.GetInt("news.concurrency"),
		JSONDir:        v.GetString("output.json_dir"),
		MarkdownDir:    v.GetString("output.markdown_dir"),
		LLMBaseURL:     v.GetString("llm.base_url"),
		LLMAPIKey:      v.GetString("llm.api_key"),
		LLMModel:       v.GetString("llm.model"),
		LLMTemperature: v.GetFloat64("llm.temperature"),
		RequestTimeout: v.GetDuration("llm.request_timeout"),
		MaxRetries:     v.GetInt("llm.max_retries"),
		RetryBaseDelay: v.GetDuration("llm.retry_base_delay"),
		RetryMaxDelay:  v.GetDuration("llm.retry_max_delay"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("news.sources must include at least one source")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("news.user_agent must be set")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("news.concurrency must be > 0")
	}
	if c.JSONDir == "" {
		return fmt.Errorf("output.json_dir must be set")
	}
	if c.MarkdownDir == "" {
		return fmt.Errorf("output.markdown_dir must be set")
	}
	if c.LLMBaseURL == "" {
		return fmt.Errorf("llm.base_url must be set")
	}
	if c.LLMModel == "" {
		return fmt.Errorf("llm.model must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("llm.request_timeout must be > 0")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must be >= 0")
	}
	if c.RetryBaseDelay <= 0 {
		return fmt.Errorf("llm.retry_base_delay must be > 0")
	}
	if c.RetryMaxDelay < c.RetryBaseDelay {
		return fmt.Errorf("llm.retry_max_delay must be >= llm.retry_base_delay")
	}
	return nil
}

func normalizeSources(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{})
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
