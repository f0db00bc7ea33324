package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scribeflow/scribeflow/internal/domain/entities"
	"github.com/scribeflow/scribeflow/internal/domain/repositories"
	"github.com/scribeflow/scribeflow/pkg/resilience"
	"github.com/scribeflow/scribeflow/pkg/summarizer"
)

// Command selects which fixed instruction runs over the assembled transcript
type Command string

const (
	CommandSummary   Command = "summary"
	CommandActions   Command = "actions"
	CommandInsights  Command = "insights"
	CommandDecisions Command = "decisions"
)

// One fixed instruction per command. The model never sees free-form prompts
// from callers.
var instructions = map[Command]string{
	CommandSummary:   "Summarize the following meeting transcript in a short paragraph. Cover the main topics, outcomes and open threads. Respond with plain text only.",
	CommandActions:   "Extract the action items from the following meeting transcript. Respond with one action item per line, no numbering, no commentary. Respond with an empty string if there are none.",
	CommandInsights:  "List the notable insights, risks and metrics mentioned in the following meeting transcript. Respond with one insight per line.",
	CommandDecisions: "Extract the decisions made in the following meeting transcript. Respond with one decision per line, no numbering, no commentary. Respond with an empty string if there are none.",
}

// ArchiveStore persists generated summaries and transcript exports outside
// the database
type ArchiveStore interface {
	StoreSummary(ctx context.Context, meetingID uuid.UUID, command string, content string) (string, error)
	StoreTranscriptExport(ctx context.Context, meetingID uuid.UUID, content string) (string, error)
}

// Service assembles window transcripts and runs summary commands over them
type Service struct {
	meetings   repositories.MeetingRepository
	windows    repositories.WindowRepository
	insights   repositories.InsightRepository
	summarizer summarizer.Summarizer
	archive    ArchiveStore
	retryCfg   resilience.RetryConfig
	logger     *zap.Logger
}

// NewService creates a new summary service. archive may be nil when no
// archive store is configured.
func NewService(
	meetings repositories.MeetingRepository,
	windows repositories.WindowRepository,
	insights repositories.InsightRepository,
	s summarizer.Summarizer,
	archive ArchiveStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetings:   meetings,
		windows:    windows,
		insights:   insights,
		summarizer: s,
		archive:    archive,
		retryCfg:   resilience.DefaultRetryConfig(),
		logger:     logger,
	}
}

// Generate runs one summary command over the meeting's full transcript.
// The actions and decisions commands also persist their lines as derived
// records; the summary command archives its output.
func (s *Service) Generate(ctx context.Context, meetingID uuid.UUID, command Command) (string, error) {
	instruction, ok := instructions[command]
	if !ok {
		return "", entities.ErrInvalidRequest
	}

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return "", err
	}
	if meeting == nil {
		return "", entities.ErrUnknownMeeting
	}

	windows, err := s.windows.GetWindowsByMeeting(ctx, meetingID)
	if err != nil {
		return "", err
	}
	contextText := AssembleContext(meeting, windows)
	if contextText == "" {
		return "", entities.ErrInvalidRequest
	}

	var result string
	err = resilience.WithRetry(ctx, s.logger, "summarize:"+string(command), s.retryCfg, func(ctx context.Context) error {
		out, err := s.summarizer.Summarize(ctx, contextText, instruction)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		return "", err
	}

	switch command {
	case CommandActions:
		if err := s.persistActionItems(ctx, meetingID, result); err != nil {
			return "", err
		}
	case CommandDecisions:
		if err := s.persistDecisions(ctx, meetingID, result); err != nil {
			return "", err
		}
	case CommandSummary:
		s.archiveSummary(ctx, meetingID, command, result)
		s.archiveTranscript(ctx, meetingID, contextText)
	}

	s.logger.Info("📝 summary generated",
		zap.String("meeting_id", meetingID.String()),
		zap.String("command", string(command)),
		zap.Int("length", len(result)))
	return result, nil
}

// AssembleContext renders windows into the transcript form sent to the
// summarizer: one "[MM:SS Speaker]: text" line per segment, window order.
func AssembleContext(meeting *entities.Meeting, windows []entities.MinuteWindow) string {
	var sb strings.Builder
	for _, window := range windows {
		for _, seg := range window.Segments {
			offset := seg.Timestamp.Sub(meeting.StartedAt)
			if offset < 0 {
				offset = 0
			}
			minutes := int(offset.Minutes())
			seconds := int(offset.Seconds()) % 60
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			speaker := seg.Speaker
			if speaker == "" {
				speaker = "Speaker"
			}
			fmt.Fprintf(&sb, "[%02d:%02d %s]: %s", minutes, seconds, speaker, seg.Text)
		}
	}
	return sb.String()
}

func (s *Service) persistActionItems(ctx context.Context, meetingID uuid.UUID, result string) error {
	var items []*entities.ActionItem
	for _, line := range splitLines(result) {
		items = append(items, entities.NewActionItem(meetingID, line))
	}
	return s.insights.SaveActionItems(ctx, items)
}

func (s *Service) persistDecisions(ctx context.Context, meetingID uuid.UUID, result string) error {
	var decisions []*entities.Decision
	for _, line := range splitLines(result) {
		decisions = append(decisions, entities.NewDecision(meetingID, line))
	}
	return s.insights.SaveDecisions(ctx, decisions)
}

func (s *Service) archiveSummary(ctx context.Context, meetingID uuid.UUID, command Command, content string) {
	if s.archive == nil {
		return
	}
	key, err := s.archive.StoreSummary(ctx, meetingID, string(command), content)
	if err != nil {
		// archive failures never fail the request, the summary already exists
		s.logger.Warn("⚠️ failed to archive summary",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err))
		return
	}
	s.logger.Info("📦 summary archived",
		zap.String("meeting_id", meetingID.String()),
		zap.String("object_key", key))
}

func (s *Service) archiveTranscript(ctx context.Context, meetingID uuid.UUID, content string) {
	if s.archive == nil {
		return
	}
	key, err := s.archive.StoreTranscriptExport(ctx, meetingID, content)
	if err != nil {
		s.logger.Warn("⚠️ failed to archive transcript export",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err))
		return
	}
	s.logger.Info("📦 transcript export archived",
		zap.String("meeting_id", meetingID.String()),
		zap.String("object_key", key))
}

// splitLines breaks model output into trimmed, bullet-stripped lines
func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
