package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// consume is the transcription worker loop: it drains the audio source's
// chunk channel, concatenates samples into an accumulation buffer, and
// flushes the buffer to the STT engine once the sample threshold is reached.
// The STT call is the pipeline's blocking point — incoming chunks queue on
// the source channel while it executes, so ordering is preserved and nothing
// is lost.
//
// consume returns nil on normal end of input (file exhaustion), ctx.Err()
// on cancellation, and a non-nil error when consecutive transcription
// failures reach the configured limit. Either way, any partial buffer below
// the threshold is discarded — no short-segment transcription runs on
// shutdown. That is a deliberate simplification: a final fragment is almost
// always mid-line and would only produce a junk alignment attempt.
func (s *Session) consume(ctx context.Context) error {
	threshold := int(float64(s.cfg.SampleRate) * s.cfg.ChunkDuration.Seconds())
	if threshold < 1 {
		threshold = 1
	}

	var (
		buffer        []float32
		failureStreak int
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case chunk, ok := <-s.source.Chunks():
			if !ok {
				// End of input. The partial buffer is below threshold by
				// construction and is dropped.
				return nil
			}
			s.metrics.ChunksConsumed.Add(ctx, 1)
			buffer = append(buffer, chunk.Samples...)

			// The threshold is measured in total samples, not chunk count:
			// sources may deliver variable-sized chunks.
			for len(buffer) >= threshold {
				flushed := buffer
				buffer = nil

				if err := s.flush(ctx, flushed); err != nil {
					failureStreak++
					s.metrics.STTErrors.Add(ctx, 1)
					if ctx.Err() != nil {
						return ctx.Err()
					}
					slog.Warn("transcription flush failed",
						"err", err,
						"consecutive_failures", failureStreak,
					)
					if failureStreak >= s.cfg.MaxSTTFailures {
						return fmt.Errorf("session: %d consecutive transcription failures, giving up: %w",
							failureStreak, err)
					}
					continue
				}
				failureStreak = 0
			}
		}
	}
}

// flush submits samples to the STT engine as one blocking call and routes
// the resulting transcript — if non-empty — through the corrector and the
// aligner. The engine's error is returned for the worker's failure
// accounting; aligner rejections are not errors.
func (s *Session) flush(ctx context.Context, samples []float32) error {
	start := time.Now()
	text, err := s.sttp.Transcribe(ctx, samples, s.cfg.SampleRate)
	s.metrics.STTDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		return err
	}

	// A stop may have arrived while the engine was running. The in-flight
	// result is discarded rather than matched against a torn-down session.
	if ctx.Err() != nil {
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		// Silence or unintelligible audio: dropped, not an error.
		return nil
	}
	s.metrics.TranscriptEvents.Add(ctx, 1)

	if s.corrector != nil {
		text = s.corrector.Correct(text)
	}

	match, ok := s.aligner.Align(text)
	if !ok {
		s.metrics.NoMatchEvents.Add(ctx, 1)
		slog.Debug("transcript did not advance alignment", "transcript", text)
		return nil
	}
	s.metrics.MatchesAccepted.Add(ctx, 1)
	slog.Debug("alignment advanced",
		"index", match.Index,
		"ratio", match.Ratio,
		"line", match.Original,
	)

	select {
	case s.matches <- match:
	case <-ctx.Done():
	}
	return nil
}
