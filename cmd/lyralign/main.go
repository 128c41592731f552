// Command lyralign listens to a song — live from the default microphone or
// from a WAV file — and prints each lyric line together with its translation
// the moment the sung line is recognised.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/abotescu20-maker/lyralign/internal/align"
	"github.com/abotescu20-maker/lyralign/internal/config"
	"github.com/abotescu20-maker/lyralign/internal/lyrics"
	"github.com/abotescu20-maker/lyralign/internal/observe"
	"github.com/abotescu20-maker/lyralign/internal/resilience"
	"github.com/abotescu20-maker/lyralign/internal/session"
	"github.com/abotescu20-maker/lyralign/internal/transcript"
	"github.com/abotescu20-maker/lyralign/pkg/audio"
	paudio "github.com/abotescu20-maker/lyralign/pkg/audio/portaudio"
	"github.com/abotescu20-maker/lyralign/pkg/audio/wavfile"
	"github.com/abotescu20-maker/lyralign/pkg/provider/stt"
	"github.com/abotescu20-maker/lyralign/pkg/provider/stt/whisper"
	translateanyllm "github.com/abotescu20-maker/lyralign/pkg/provider/translate/anyllm"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	artist := flag.String("artist", "", "artist name for lyric lookup")
	title := flag.String("title", "", "song title for lyric lookup")
	target := flag.String("target", "en", "target language for translation (ISO-639-1 code)")
	lyricsFile := flag.String("lyrics-file", "", "path to a local lyrics file, skips the HTTP lookup")
	audioFile := flag.String("audio-file", "", "align a local WAV file instead of the microphone")
	chunkDuration := flag.Float64("chunk-duration", 0, "seconds of audio to accumulate before each transcription (overrides config)")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lyralign: %v\n", err)
			return 1
		}
	} else {
		cfg = config.Default()
	}
	if *chunkDuration > 0 {
		cfg.Audio.ChunkDuration = *chunkDuration
	}
	if *lyricsFile == "" && (*artist == "" || *title == "") {
		fmt.Fprintln(os.Stderr, "lyralign: -artist and -title are required unless -lyrics-file is given")
		return 2
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	slog.SetDefault(newLogger(cfg.LogLevel))

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		MetricsAddr: cfg.Telemetry.MetricsAddr,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Lyrics ────────────────────────────────────────────────────────────────
	lines, err := loadLyrics(ctx, cfg, *artist, *title, *lyricsFile)
	if err != nil {
		slog.Error("failed to load lyrics", "err", err)
		return 1
	}
	slog.Info("lyrics loaded", "lines", len(lines))

	// ── Translation ───────────────────────────────────────────────────────────
	translations, err := translateLines(ctx, cfg, lines, *target)
	if err != nil {
		slog.Error("failed to translate lyrics", "err", err, "target", *target)
		return 1
	}

	// ── Aligner ───────────────────────────────────────────────────────────────
	aligner, err := align.New(lines, translations, align.WithMinRatio(cfg.Align.MinRatio))
	if err != nil {
		slog.Error("failed to build aligner", "err", err)
		return 1
	}

	// ── STT provider ──────────────────────────────────────────────────────────
	sttProvider, sttClose, err := buildSTT(cfg)
	if err != nil {
		slog.Error("failed to build STT provider", "err", err)
		return 1
	}
	defer sttClose()

	// ── Audio source ──────────────────────────────────────────────────────────
	source, err := buildSource(cfg, *audioFile)
	if err != nil {
		slog.Error("failed to open audio source", "err", err)
		return 1
	}

	// ── Session ───────────────────────────────────────────────────────────────
	sessOpts := []session.Option{}
	if !cfg.Align.DisableCorrection {
		sessOpts = append(sessOpts, session.WithCorrector(transcript.NewCorrector(lines)))
	}
	sess, err := session.New(source, sttProvider, aligner, session.Config{
		SampleRate:    cfg.Audio.SampleRate,
		ChunkDuration: time.Duration(cfg.Audio.ChunkDuration * float64(time.Second)),
	}, sessOpts...)
	if err != nil {
		slog.Error("failed to create session", "err", err)
		return 1
	}
	if err := sess.Start(ctx); err != nil {
		slog.Error("failed to start session", "err", err)
		return 1
	}

	if *artist != "" || *title != "" {
		fmt.Printf("🎵 %s – %s\n", *artist, *title)
	}
	fmt.Println("Listening… press Ctrl+C to stop.")
	fmt.Println()

	// ── Consumer loop ─────────────────────────────────────────────────────────
	consume(ctx, sess)

	fmt.Println("Session ended. Goodbye!")
	return 0
}

// consume drains accepted matches until the session ends. An interrupt is
// an explicit stop request: the session is torn down and any matches queued
// before the stop are still printed.
func consume(ctx context.Context, sess *session.Session) {
	for {
		select {
		case match, ok := <-sess.Matches():
			if !ok {
				return
			}
			printMatch(match)

		case <-ctx.Done():
			fmt.Println("\nStopping…")
			sess.Stop()
			for match := range sess.Matches() {
				printMatch(match)
			}
			return

		case <-time.After(time.Second):
			// Periodic liveness check while no match arrives.
			if !sess.Running() {
				for match := range sess.Matches() {
					printMatch(match)
				}
				return
			}
		}
	}
}

func printMatch(m align.Match) {
	fmt.Printf("[ORIGINAL] %s\n[TRANSLATED] %s\n\n", m.Original, m.Translation)
}

// loadLyrics returns the session's normalised lyric lines, from a local file
// when path is non-empty and from the lyrics API otherwise. The optional
// Redis cache is attached only for API lookups.
func loadLyrics(ctx context.Context, cfg *config.Config, artist, title, path string) ([]string, error) {
	if path != "" {
		return lyrics.LoadFile(path)
	}

	opts := []lyrics.Option{}
	if cfg.Lyrics.BaseURL != "" {
		opts = append(opts, lyrics.WithBaseURL(cfg.Lyrics.BaseURL))
	}
	if cfg.Lyrics.CacheAddr != "" {
		cache, err := lyrics.NewCache(ctx, cfg.Lyrics.CacheAddr, time.Duration(cfg.Lyrics.CacheTTLHours)*time.Hour)
		if err != nil {
			slog.Warn("lyrics cache unavailable, continuing without it", "err", err)
		} else {
			defer cache.Close()
			opts = append(opts, lyrics.WithCache(cache))
		}
	}
	return lyrics.NewProvider(opts...).Fetch(ctx, artist, title)
}

// translateLines builds the LLM translator from config and translates the
// lyric lines into target.
func translateLines(ctx context.Context, cfg *config.Config, lines []string, target string) ([]string, error) {
	var opts []anyllmlib.Option
	if cfg.Translate.APIKey != "" {
		opts = append(opts, anyllmlib.WithAPIKey(cfg.Translate.APIKey))
	}
	if cfg.Translate.BaseURL != "" {
		opts = append(opts, anyllmlib.WithBaseURL(cfg.Translate.BaseURL))
	}
	tr, err := translateanyllm.New(cfg.Translate.Provider, cfg.Translate.Model, opts...)
	if err != nil {
		return nil, err
	}
	slog.Info("translating lyrics", "provider", cfg.Translate.Provider, "model", cfg.Translate.Model, "target", target)
	return tr.TranslateLines(ctx, lines, target)
}

// buildSTT instantiates the configured STT backend. The returned close
// function releases the native model when one was loaded. When the native
// backend is selected and a server URL is configured too, the HTTP backend
// is registered as a failover target.
func buildSTT(cfg *config.Config) (stt.Provider, func(), error) {
	switch cfg.STT.Name {
	case config.STTWhisperNative:
		native, err := whisper.NewNative(cfg.STT.ModelPath, nativeOpts(cfg)...)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := native.Close(); err != nil {
				slog.Warn("whisper model close error", "err", err)
			}
		}
		if cfg.STT.ServerURL == "" {
			return native, closeFn, nil
		}
		httpBackend, err := whisper.New(cfg.STT.ServerURL, httpOpts(cfg)...)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		f := resilience.NewSTTFallback(native, "whisper-native", resilience.BreakerConfig{})
		f.AddFallback("whisper-server", httpBackend)
		return f, closeFn, nil

	default:
		p, err := whisper.New(cfg.STT.ServerURL, httpOpts(cfg)...)
		if err != nil {
			return nil, nil, err
		}
		return p, func() {}, nil
	}
}

func httpOpts(cfg *config.Config) []whisper.Option {
	var opts []whisper.Option
	if cfg.STT.Model != "" {
		opts = append(opts, whisper.WithModel(cfg.STT.Model))
	}
	if cfg.STT.Language != "" {
		opts = append(opts, whisper.WithLanguage(cfg.STT.Language))
	}
	return opts
}

func nativeOpts(cfg *config.Config) []whisper.NativeOption {
	var opts []whisper.NativeOption
	if cfg.STT.Language != "" {
		opts = append(opts, whisper.WithNativeLanguage(cfg.STT.Language))
	}
	return opts
}

// buildSource opens the file-replay source when audioFile is set and the
// live microphone otherwise.
func buildSource(cfg *config.Config, audioFile string) (audio.Source, error) {
	chunk := time.Duration(cfg.Audio.ChunkDuration * float64(time.Second))
	if audioFile != "" {
		return wavfile.New(audioFile, cfg.Audio.SampleRate, chunk)
	}
	return paudio.New(cfg.Audio.SampleRate)
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
