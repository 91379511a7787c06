package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/mouss/ligue1-agent/internal/domain/feature"
	"github.com/mouss/ligue1-agent/internal/domain/match"
	"github.com/mouss/ligue1-agent/internal/platform/logging"
)

// exportRow is one NDJSON line: fixture identity plus the feature vector.
type exportRow struct {
	Date       string         `json:"date"`
	HomeTeam   string         `json:"home_team"`
	AwayTeam   string         `json:"away_team"`
	Season     int            `json:"season"`
	Round      string         `json:"round,omitempty"`
	Features   feature.Record `json:"features"`
	Confidence float64        `json:"confidence"`
}

type ExportService struct {
	features *FeatureService
	logger   *logging.Logger
}

func NewExportService(features *FeatureService, logger *logging.Logger) *ExportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportService{features: features, logger: logger}
}

// Write assembles each match and streams it as one JSON object per line.
// It returns the number of lines written; the first failure stops the
// export with whatever was already flushed left in place.
func (s *ExportService) Write(ctx context.Context, w io.Writer, matches []match.Match) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.Write")
	defer span.End()

	if w == nil {
		return 0, fmt.Errorf("%w: writer is required", ErrInvalidInput)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	written := 0
	for _, m := range matches {
		record, err := s.features.Assemble(ctx, m)
		if err != nil {
			return written, fmt.Errorf("assemble %s vs %s: %w", m.HomeTeam, m.AwayTeam, err)
		}

		row := exportRow{
			Date:       m.Date.UTC().Format(time.RFC3339),
			HomeTeam:   m.HomeTeam,
			AwayTeam:   m.AwayTeam,
			Season:     m.Season,
			Round:      m.Round,
			Features:   record,
			Confidence: Confidence(record),
		}

		line, err := sonic.Marshal(row)
		if err != nil {
			return written, fmt.Errorf("marshal export row %s vs %s: %w", m.HomeTeam, m.AwayTeam, err)
		}

		buf.Reset()
		_, _ = buf.Write(line)
		_ = buf.WriteByte('\n')
		if _, err := w.Write(buf.Bytes()); err != nil {
			return written, fmt.Errorf("write export row: %w", err)
		}
		written++
	}

	s.logger.DebugContext(ctx, "feature export written", "rows", written)

	return written, nil
}
