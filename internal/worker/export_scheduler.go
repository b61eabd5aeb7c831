package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Archiver writes a workbook of every section timetable and returns its path.
type Archiver interface {
	Archive(ctx context.Context, now time.Time) (string, error)
}

// ExportScheduler archives the timetable on a cron schedule.
type ExportScheduler struct {
	cron     *cron.Cron
	archiver Archiver
	log      zerolog.Logger
}

// NewExportScheduler validates spec and registers the archive job.
func NewExportScheduler(spec string, archiver Archiver, log zerolog.Logger) (*ExportScheduler, error) {
	s := &ExportScheduler{
		cron:     cron.New(),
		archiver: archiver,
		log:      log.With().Str("component", "export_scheduler").Logger(),
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("export cron %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler until ctx is done, then waits for a running job.
func (s *ExportScheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.log.Info().Time("next", s.Next()).Msg("Scheduler started")

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// Next returns when the archive job runs next; zero before Start.
func (s *ExportScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *ExportScheduler) run(ctx context.Context) {
	path, err := s.archiver.Archive(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("Schedule archive failed")
		return
	}
	if path != "" {
		s.log.Info().Str("path", path).Msg("Schedule archived")
	}
}
