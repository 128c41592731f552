package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns a Config populated with usable defaults: 16 kHz audio,
// 5-second accumulation, the HTTP whisper backend, and the stock alignment
// threshold.
func Default() *Config {
	return &Config{
		LogLevel: LogInfo,
		Audio: AudioConfig{
			SampleRate:    16000,
			ChunkDuration: 5.0,
		},
		STT: STTConfig{
			Name:      STTWhisper,
			ServerURL: "http://localhost:8080",
		},
		Translate: TranslateConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Align: AlignConfig{
			MinRatio: 0.45,
		},
	}
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of [Default] and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if cfg.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %d must be positive", cfg.Audio.SampleRate))
	}
	if cfg.Audio.ChunkDuration <= 0 {
		errs = append(errs, fmt.Errorf("audio.chunk_duration %.2f must be positive", cfg.Audio.ChunkDuration))
	}

	if cfg.STT.Name != "" && !cfg.STT.Name.IsValid() {
		errs = append(errs, fmt.Errorf("stt.name %q is invalid; valid values: whisper, whisper-native", cfg.STT.Name))
	}
	switch cfg.STT.Name {
	case STTWhisper:
		if cfg.STT.ServerURL == "" {
			errs = append(errs, errors.New("stt.server_url is required for the whisper backend"))
		}
	case STTWhisperNative:
		if cfg.STT.ModelPath == "" {
			errs = append(errs, errors.New("stt.model_path is required for the whisper-native backend"))
		}
	}

	if cfg.Translate.Provider == "" {
		errs = append(errs, errors.New("translate.provider is required"))
	}
	if cfg.Translate.Model == "" {
		errs = append(errs, errors.New("translate.model is required"))
	}

	if cfg.Align.MinRatio <= 0 || cfg.Align.MinRatio > 1 {
		errs = append(errs, fmt.Errorf("align.min_ratio %.2f is out of range (0, 1]", cfg.Align.MinRatio))
	}

	if cfg.Lyrics.CacheTTLHours < 0 {
		errs = append(errs, fmt.Errorf("lyrics.cache_ttl_hours %d must not be negative", cfg.Lyrics.CacheTTLHours))
	}

	return errors.Join(errs...)
}
