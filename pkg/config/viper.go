// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/awfulsec/textnews/internal/logging"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup to ensure that configuration is loaded and
// available to all other packages.
func InitConfig(cfgFile string) {
	// --- Set Search Paths ---
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")               // Current working directory
		viper.AddConfigPath("/etc/textnews/")  // System-wide configuration
		viper.AddConfigPath("$HOME/.textnews") // User-specific configuration
	}

	// --- Set Defaults ---
	const defaultUA = "TextNews-Aggregator/1.0 (+https://github.com/awfulsec/textnews)"
	viper.SetDefault("news.user_agent", defaultUA)
	viper.SetDefault("news.sources", []string{"cnnlite", "nprtext", "aljazeera"})
	viper.SetDefault("news.concurrency", 12)

	viper.SetDefault("output.json_dir", "data/json")
	viper.SetDefault("output.markdown_dir", "data/markdown")

	viper.SetDefault("llm.base_url", "http://localhost:8080")
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.model", "hermes-3-llama-3.1-8b")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.request_timeout", "120s")
	viper.SetDefault("llm.max_retries", 5)
	viper.SetDefault("llm.retry_base_delay", "1s")
	viper.SetDefault("llm.retry_max_delay", "30s")

	viper.SetDefault("log.development", false)

	// --- Environment Variables ---
	viper.SetEnvPrefix("TEXTNEWS") // e.g., TEXTNEWS_LLM_BASE_URL=http://llm:8080
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// --- Read Config File ---
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; not fatal, defaults and env vars suffice.
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
