package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dembasy/ranchhand/internal/config"
	repo "github.com/dembasy/ranchhand/internal/repository/mongodb"
	"github.com/dembasy/ranchhand/internal/repository/sheets"
	"github.com/dembasy/ranchhand/internal/service/farm"
)

const exportRange = "FarmSnapshots!A:G"

// Scheduler manages the recurring maintenance jobs: the pen-count
// reconciliation pass and the optional daily snapshot export.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.Config
	repo     repo.Repository
	builder  *farm.Builder
	exporter sheets.Exporter
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. exporter may be nil; the
// export job is skipped then.
func NewScheduler(cfg config.Config, repository repo.Repository, builder *farm.Builder, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		repo:     repository,
		builder:  builder,
		exporter: exporter,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Jobs.ReconcileSchedule, s.reconcilePenCounts); err != nil {
		s.logger.Error("failed to schedule pen reconciliation", zap.Error(err))
	}

	if s.exporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.Jobs.ExportSchedule, s.exportSnapshots); err != nil {
			s.logger.Error("failed to schedule snapshot export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// reconcilePenCounts recomputes each pen's denormalized current_count from
// the actual count of Active cattle and overwrites it. Idempotent; the
// executor's unguarded read-then-write increments make drift expected.
func (s *Scheduler) reconcilePenCounts() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	owners, err := s.repo.ListPenOwners(ctx)
	if err != nil {
		s.logger.Error("reconciliation aborted", zap.Error(err))
		return
	}

	var fixed int
	for _, userID := range owners {
		pens, err := s.repo.ListPens(ctx, userID)
		if err != nil {
			s.logger.Error("skip user in reconciliation", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		for _, pen := range pens {
			actual, err := s.repo.CountActiveCattleInPen(ctx, userID, pen.ID)
			if err != nil {
				s.logger.Error("skip pen in reconciliation", zap.String("pen", pen.Name), zap.Error(err))
				continue
			}
			if int(actual) == pen.CurrentCount {
				continue
			}
			s.logger.Info("reconciling pen count",
				zap.String("pen", pen.Name),
				zap.Int("stored", pen.CurrentCount),
				zap.Int64("actual", actual))
			pen.CurrentCount = int(actual)
			pen.UpdatedAt = time.Now().UTC()
			if err := s.repo.UpdatePen(ctx, pen); err != nil {
				s.logger.Error("failed writing reconciled count", zap.String("pen", pen.Name), zap.Error(err))
				continue
			}
			fixed++
		}
	}

	if fixed > 0 {
		s.logger.Info("pen reconciliation complete", zap.Int("pens_corrected", fixed))
	}
}

// exportSnapshots appends one summary row per farm to the configured sheet.
func (s *Scheduler) exportSnapshots() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	owners, err := s.repo.ListPenOwners(ctx)
	if err != nil {
		s.logger.Error("snapshot export aborted", zap.Error(err))
		return
	}

	for _, userID := range owners {
		snap, err := s.builder.Snapshot(ctx, userID)
		if err != nil {
			s.logger.Error("skip user in snapshot export", zap.String("user_id", userID), zap.Error(err))
			continue
		}

		values := []interface{}{
			snap.GeneratedAt.Format("2006-01-02"),
			userID,
			snap.HerdSize,
			snap.AverageWeight,
			len(snap.HealthIssues),
			len(snap.LowStockItems),
			len(snap.Overcrowded),
		}
		if err := s.exporter.AppendRow(ctx, exportRange, values); err != nil {
			s.logger.Error("failed exporting snapshot row", zap.String("user_id", userID), zap.Error(err))
		}
	}
}
