package config

import (
	"encoding/json"
	"log"
	"os"

	"github.com/caarlos0/env/v6"
)

const DefaultPath = "config/settings.json"

// Config is the full assistant configuration. Values come from three
// layers, later ones winning: built-in defaults, the optional JSON
// settings file (deep-merged, only present keys replace), and
// environment variables.
type Config struct {
	Model     ModelConfig     `json:"mistral"`
	User      UserConfig      `json:"user"`
	Assistant AssistantConfig `json:"assistant"`
	Skills    SkillsConfig    `json:"skills"`
	Telegram  TelegramConfig  `json:"telegram"`
	Report    ReportConfig    `json:"report"`

	// Unvalidated passthrough settings for experiments; merged
	// recursively like a key-value tree.
	Extra map[string]any `json:"extra"`
}

type ModelConfig struct {
	APIKey      string  `json:"api_key" env:"OPENROUTER_API_KEY"`
	Model       string  `json:"model" env:"OPENROUTER_MODEL"`
	BaseURL     string  `json:"base_url" env:"OPENROUTER_BASE_URL"`
	MaxTokens   int     `json:"max_tokens" env:"AI_MAX_TOKENS"`
	Temperature float32 `json:"temperature" env:"AI_TEMPERATURE"`
}

type UserConfig struct {
	Name      string   `json:"name" env:"USER_NAME"`
	Location  string   `json:"location" env:"USER_LOCATION"`
	Interests []string `json:"interests"`
}

type AssistantConfig struct {
	Name        string `json:"name"`
	Personality string `json:"personality"`
	MaxHistory  int    `json:"max_history" env:"MAX_HISTORY"`
}

type SkillsConfig struct {
	Weather WeatherConfig `json:"weather"`
}

type WeatherConfig struct {
	APIKey      string `json:"api_key" env:"OPENWEATHER_API_KEY"`
	DefaultCity string `json:"default_city" env:"WEATHER_DEFAULT_CITY"`
}

type TelegramConfig struct {
	BotToken    string `json:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	AllowedUser int64  `json:"allowed_user" env:"TELEGRAM_ALLOWED_USER"`
}

type ReportConfig struct {
	// Cron spec for periodic usage-stats reports; empty disables them.
	CronSpec string `json:"cron" env:"STATS_REPORT_CRON"`
}

func Defaults() *Config {
	return &Config{
		Model: ModelConfig{
			APIKey:      "your_openrouter_api_key",
			Model:       "mistralai/mistral-7b-instruct:free",
			MaxTokens:   500,
			Temperature: 0.7,
		},
		User: UserConfig{
			Name:      "Пользователь",
			Location:  "Москва",
			Interests: []string{"технологии", "музыка", "спорт"},
		},
		Assistant: AssistantConfig{
			Name:        "Алекса",
			Personality: "дружелюбная, умная, помогающая",
			MaxHistory:  100,
		},
		Skills: SkillsConfig{
			Weather: WeatherConfig{
				APIKey:      "",
				DefaultCity: "Москва",
			},
		},
		Report: ReportConfig{
			CronSpec: "0 * * * *",
		},
		Extra: map[string]any{},
	}
}

// Load builds the configuration. A missing or malformed settings file
// is logged and the defaults stand; processing always continues.
func Load(path string) *Config {
	cfg := Defaults()

	if path == "" {
		path = DefaultPath
	}
	if data, err := os.ReadFile(path); err == nil {
		defaultExtra := cfg.Extra
		// Unmarshalling over the defaults only touches keys present in
		// the file, which is exactly the deep-merge we want for the
		// typed sections.
		if err := json.Unmarshal(data, cfg); err != nil {
			log.Printf("malformed settings file %s: %v, using defaults", path, err)
			cfg = Defaults()
		} else {
			cfg.Extra = MergeTree(defaultExtra, cfg.Extra)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("cannot read settings file %s: %v", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		log.Printf("failed to parse environment overrides: %v", err)
	}
	return cfg
}

// MergeTree recursively merges override into base: keys present in
// override replace, nested mappings merge. Neither argument is
// mutated.
func MergeTree(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		ov, overrideIsMap := v.(map[string]any)
		bv, baseIsMap := out[k].(map[string]any)
		if overrideIsMap && baseIsMap {
			out[k] = MergeTree(bv, ov)
			continue
		}
		out[k] = v
	}
	return out
}
