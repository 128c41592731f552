// Package config provides the configuration schema and loader for the
// lyralign alignment pipeline.
package config

// LogLevel controls log verbosity for lyralign.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// STTName selects the speech-to-text backend.
type STTName string

const (
	// STTWhisper uses a running whisper-server over HTTP.
	STTWhisper STTName = "whisper"

	// STTWhisperNative uses the whisper.cpp CGO bindings in-process.
	STTWhisperNative STTName = "whisper-native"
)

// IsValid reports whether s is a recognised STT backend name.
func (s STTName) IsValid() bool {
	return s == STTWhisper || s == STTWhisperNative
}

// Config is the root configuration structure for lyralign.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity. Default: info.
	LogLevel LogLevel `yaml:"log_level"`

	Audio     AudioConfig     `yaml:"audio"`
	STT       STTConfig       `yaml:"stt"`
	Translate TranslateConfig `yaml:"translate"`
	Lyrics    LyricsConfig    `yaml:"lyrics"`
	Align     AlignConfig     `yaml:"align"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AudioConfig fixes the audio format for a session.
type AudioConfig struct {
	// SampleRate is the target mono sample rate in Hz. Whisper models expect
	// 16000. Default: 16000.
	SampleRate int `yaml:"sample_rate"`

	// ChunkDuration is the accumulation threshold in seconds: audio is
	// buffered until this much has arrived, then flushed to the STT engine
	// in one blocking call. Default: 5.0.
	ChunkDuration float64 `yaml:"chunk_duration"`
}

// STTConfig selects and configures the speech-to-text backend.
type STTConfig struct {
	// Name is the backend: "whisper" (HTTP server) or "whisper-native"
	// (CGO bindings). Default: whisper.
	Name STTName `yaml:"name"`

	// ServerURL is the whisper-server address for the "whisper" backend
	// (e.g., "http://localhost:8080").
	ServerURL string `yaml:"server_url"`

	// ModelPath is the ggml model file path for the "whisper-native"
	// backend.
	ModelPath string `yaml:"model_path"`

	// Model is an optional model identifier forwarded to the whisper-server.
	Model string `yaml:"model"`

	// Language is the BCP-47 recognition language hint (e.g., "en", "de").
	Language string `yaml:"language"`
}

// TranslateConfig configures the LLM-backed line translator.
type TranslateConfig struct {
	// Provider is the any-llm provider name ("openai", "anthropic",
	// "gemini", "ollama", ...). Default: openai.
	Provider string `yaml:"provider"`

	// Model is the model identifier (e.g., "gpt-4o-mini").
	Model string `yaml:"model"`

	// APIKey overrides the provider's environment-variable key lookup.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default endpoint (local servers,
	// proxies).
	BaseURL string `yaml:"base_url"`
}

// LyricsConfig configures lyric retrieval.
type LyricsConfig struct {
	// BaseURL is the lyrics API base URL. Default:
	// "https://api.lyrics.ovh/v1".
	BaseURL string `yaml:"base_url"`

	// CacheAddr is an optional Redis address (e.g., "localhost:6379") for
	// caching fetched lyrics. Empty disables caching.
	CacheAddr string `yaml:"cache_addr"`

	// CacheTTLHours bounds how long cached lyrics live. Zero selects the
	// one-week default.
	CacheTTLHours int `yaml:"cache_ttl_hours"`
}

// AlignConfig tunes the transcript-to-lyrics matcher.
type AlignConfig struct {
	// MinRatio is the similarity threshold for accepting a match, in
	// (0, 1]. Default: 0.45.
	MinRatio float64 `yaml:"min_ratio"`

	// DisableCorrection turns off the phonetic vocabulary correction that
	// normally runs on each transcript before alignment.
	DisableCorrection bool `yaml:"disable_correction"`
}

// TelemetryConfig configures metrics export.
type TelemetryConfig struct {
	// MetricsAddr, when non-empty, serves Prometheus metrics at
	// this address (e.g., ":9091").
	MetricsAddr string `yaml:"metrics_addr"`
}
