package transcriber

import (
	"context"
	"fmt"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/domain/repositories"
	"github.com/scribeflow/scribeflow/internal/usecase/ingest"
	"github.com/scribeflow/scribeflow/pkg/config"
)

// Service submits recordings for transcription and replays finished
// transcripts into the ingestion pipeline, one utterance per chunk.
type Service struct {
	client   *aai.Client
	meetings repositories.MeetingRepository
	windower *ingest.Windower
	cfg      config.TranscriptionConfig
	logger   *zap.Logger
}

// NewService creates a new transcription service
func NewService(meetings repositories.MeetingRepository, windower *ingest.Windower, cfg config.TranscriptionConfig, logger *zap.Logger) *Service {
	var client *aai.Client
	if cfg.APIKey != "" {
		client = aai.NewClient(cfg.APIKey)
	}
	return &Service{
		client:   client,
		meetings: meetings,
		windower: windower,
		cfg:      cfg,
		logger:   logger,
	}
}

// SubmitRecording sends an audio URL for transcription. The transcript id is
// stored on the meeting before returning so the completion webhook can
// resolve it even when it arrives within seconds.
func (s *Service) SubmitRecording(ctx context.Context, meetingID uuid.UUID, audioURL string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("transcription client not configured")
	}

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return "", err
	}
	if meeting == nil {
		return "", entities.ErrUnknownMeeting
	}

	var transcriptID string
	submitFn := func() error {
		params := &aai.TranscriptOptionalParams{
			SpeakerLabels: aai.Bool(true),
		}
		if s.cfg.WebhookURL != "" {
			params.WebhookURL = aai.String(s.cfg.WebhookURL)
		}

		transcript, err := s.client.Transcripts.SubmitFromURL(ctx, audioURL, params)
		if err != nil {
			return err
		}
		if transcript.ID != nil {
			transcriptID = *transcript.ID
		}
		if err := s.meetings.SetExternalTranscriptID(ctx, meetingID, transcriptID); err != nil {
			return fmt.Errorf("failed to store transcript id: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		s.logger.Error("❌ failed to submit recording for transcription",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err))
		return "", err
	}

	s.logger.Info("🎙️ transcription submitted",
		zap.String("meeting_id", meetingID.String()),
		zap.String("transcript_id", transcriptID))
	return transcriptID, nil
}

// HandleTranscriptWebhook processes a provider completion notification. On
// success the transcript's utterances are replayed through the windower with
// explicit window indexes derived from the utterance start offset.
func (s *Service) HandleTranscriptWebhook(ctx context.Context, transcriptID string, status string) error {
	meeting, err := s.meetings.GetByExternalTranscriptID(ctx, transcriptID)
	if err != nil {
		return err
	}
	if meeting == nil {
		return entities.ErrUnknownMeeting
	}

	if status != string(aai.TranscriptStatusCompleted) {
		s.logger.Warn("⚠️ transcription did not complete",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("transcript_id", transcriptID),
			zap.String("status", status))
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("transcription client not configured")
	}
	transcript, err := s.client.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return err
	}

	ingested := 0
	for _, utt := range transcript.Utterances {
		if utt.Text == nil || *utt.Text == "" {
			continue
		}
		chunk := ingest.TranscriptChunk{
			MeetingID: meeting.ID,
			Text:      *utt.Text,
			Timestamp: meeting.StartedAt,
		}
		if utt.Speaker != nil {
			chunk.Speaker = *utt.Speaker
		}
		if utt.Start != nil {
			startSec := float64(*utt.Start) / 1000.0
			index := int(startSec) / 60
			chunk.WindowIndex = &index
			chunk.Timestamp = meeting.StartedAt.Add(time.Duration(*utt.Start) * time.Millisecond)
		}
		if _, err := s.windower.Ingest(ctx, chunk); err != nil {
			s.logger.Error("❌ failed to ingest utterance",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err))
			continue
		}
		ingested++
	}

	s.logger.Info("✅ transcript replayed into windows",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("transcript_id", transcriptID),
		zap.Int("utterances", ingested))
	return nil
}

// VerifyWebhookSecret checks the provider's shared auth header value
func (s *Service) VerifyWebhookSecret(headerValue string) bool {
	return s.cfg.WebhookSecret == "" || headerValue == s.cfg.WebhookSecret
}
