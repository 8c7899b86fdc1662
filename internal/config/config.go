package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	TTS      TTSConfig      `mapstructure:"tts"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=0,lte=31"`
}

// LLMConfig contains all settings for the reading generator's model calls.
type LLMConfig struct {
	GeminiAPIKey          string `mapstructure:"gemini_api_key"          validate:"required"`
	ModelName             string `mapstructure:"model_name"              validate:"required"`
	PromptTemplatePath    string `mapstructure:"prompt_template_path"    validate:"required"`
	MaxRetries            int    `mapstructure:"max_retries"             validate:"gte=0"`
	RetryDelaySeconds     int    `mapstructure:"retry_delay_seconds"     validate:"gte=0"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gt=0"`

	// OnInvalidOutput selects the fallback policy when the model response
	// fails shape validation: "fail" (default) or "degrade".
	OnInvalidOutput string `mapstructure:"on_invalid_output" validate:"required,oneof=fail degrade"`
}

// TTSConfig contains all settings for the narration synthesizer.
type TTSConfig struct {
	APIKey                string `mapstructure:"api_key"                 validate:"required"`
	VoiceName             string `mapstructure:"voice_name"              validate:"required"`
	LanguageCode          string `mapstructure:"language_code"           validate:"required"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}
