package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Maintenance runs periodic jobs over all loaded sessions.
type Maintenance struct {
	registry     *Registry
	scores       *ScoreService
	loc          *time.Location
	rolloverSpec string
	syncSpec     string
	logger       *zap.Logger
}

// NewMaintenance creates the job runner. An empty spec disables its job.
func NewMaintenance(
	registry *Registry,
	scores *ScoreService,
	loc *time.Location,
	rolloverSpec string,
	syncSpec string,
	logger *zap.Logger,
) *Maintenance {
	return &Maintenance{
		registry:     registry,
		scores:       scores,
		loc:          loc,
		rolloverSpec: rolloverSpec,
		syncSpec:     syncSpec,
		logger:       logger,
	}
}

// Start schedules the jobs and blocks until ctx is done.
func (m *Maintenance) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(m.loc))

	if m.rolloverSpec != "" {
		if _, err := c.AddFunc(m.rolloverSpec, func() {
			n := m.RolloverAll(ctx)
			m.logger.Info("cron triggered: day rollover", zap.Int("rolled_over", n))
		}); err != nil {
			return fmt.Errorf("add rollover job: %w", err)
		}
	}

	if m.syncSpec != "" {
		if _, err := c.AddFunc(m.syncSpec, func() {
			n := m.SyncAll(ctx)
			m.logger.Info("cron triggered: score sync", zap.Int("synced", n))
		}); err != nil {
			return fmt.Errorf("add sync job: %w", err)
		}
	}

	c.Start()
	m.logger.Info("maintenance scheduler started")

	<-ctx.Done()

	<-c.Stop().Done()
	m.logger.Info("maintenance scheduler stopped")
	return nil
}

// RolloverAll runs the day check on every session and returns how many
// sessions rolled over.
func (m *Maintenance) RolloverAll(ctx context.Context) int {
	n := 0
	for _, s := range m.registry.Sessions() {
		if s.Rollover(ctx) {
			n++
		}
	}
	return n
}

// SyncAll pushes every session's score and returns the number of successes.
func (m *Maintenance) SyncAll(ctx context.Context) int {
	if m.scores == nil {
		return 0
	}

	n := 0
	for _, s := range m.registry.Sessions() {
		if err := m.scores.SyncScore(ctx, s); err == nil {
			n++
		}
	}
	return n
}
