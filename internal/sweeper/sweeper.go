// Package sweeper periodically deactivates memberships whose window has ended
// and moves stored plan statuses forward as plan weeks start and finish.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/metrics"
	"ptrainer/backend/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultInterval is the schedule of the sweep.
const DefaultInterval = time.Hour

// Invalidator drops the cached aggregate of a membership.
type Invalidator interface {
	MembershipChanged(ctx context.Context, membershipID primitive.ObjectID) error
}

// Failure records one record the sweep could not update.
type Failure struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Report summarizes one sweep run.
type Report struct {
	RunID        string    `json:"run_id"`
	Checked      int       `json:"checked"`
	Expired      int       `json:"expired"`
	PlansChecked int       `json:"plans_checked"`
	PlansUpdated int       `json:"plans_updated"`
	Failed       []Failure `json:"failed"`
	Started      time.Time `json:"started"`
	Duration     string    `json:"duration"`
}

type Sweeper struct {
	memberships repository.MembershipRepository
	plans       repository.PlanRepository
	invalidator Invalidator
	interval    time.Duration
	now         func() time.Time
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// New creates a sweeper. invalidator may be nil.
func New(
	memberships repository.MembershipRepository,
	plans repository.PlanRepository,
	invalidator Invalidator,
	interval time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		memberships: memberships,
		plans:       plans,
		invalidator: invalidator,
		interval:    interval,
		now:         time.Now,
		logger:      logger,
		metrics:     m,
	}
}

// RunOnce flips every active membership whose end has passed, then stores the
// current status of every open plan. Both are system writes and leave
// UpdatedAt/UpdatedBy alone, so affected memberships are invalidated
// explicitly. A record that fails is recorded in the report and the run moves on.
func (s *Sweeper) RunOnce(ctx context.Context) (Report, error) {
	started := time.Now()
	now := s.now()
	report := Report{RunID: uuid.NewString(), Started: now, Failed: []Failure{}}
	log := s.logger.With(zap.String("run", report.RunID))

	active, err := s.memberships.ListActive(ctx)
	if err != nil {
		return report, fmt.Errorf("list active memberships: %w", err)
	}
	for i := range active {
		membership := &active[i]
		report.Checked++
		if !membership.Expired(now) {
			continue
		}
		if err := s.memberships.SetActive(ctx, membership.ID, false); err != nil {
			log.Warn("failed to deactivate membership", zap.String("membership", membership.ID.Hex()), zap.Error(err))
			report.Failed = append(report.Failed, Failure{Kind: "membership", ID: membership.ID.Hex(), Error: err.Error()})
			continue
		}
		report.Expired++
		s.invalidate(ctx, log, membership.ID)
	}

	if err := s.refreshPlans(ctx, log, now, &report); err != nil {
		return report, err
	}

	report.Duration = time.Since(started).String()
	s.metrics.SweepResult(report.Checked, report.Expired, len(report.Failed))
	log.Info("membership sweep finished",
		zap.Int("checked", report.Checked),
		zap.Int("expired", report.Expired),
		zap.Int("plans_updated", report.PlansUpdated),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

func (s *Sweeper) refreshPlans(ctx context.Context, log *zap.Logger, now time.Time, report *Report) error {
	open, err := s.plans.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("list open plans: %w", err)
	}
	for i := range open {
		plan := &open[i]
		report.PlansChecked++
		status := domain.StatusAt(plan.Start, plan.End, now)
		if status == plan.Status {
			continue
		}
		if err := s.plans.SetStatus(ctx, plan.ID, status); err != nil {
			log.Warn("failed to update plan status", zap.String("plan", plan.ID.Hex()), zap.Error(err))
			report.Failed = append(report.Failed, Failure{Kind: "plan", ID: plan.ID.Hex(), Error: err.Error()})
			continue
		}
		report.PlansUpdated++
		s.invalidate(ctx, log, plan.MembershipID)
	}
	return nil
}

func (s *Sweeper) invalidate(ctx context.Context, log *zap.Logger, membershipID primitive.ObjectID) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.MembershipChanged(ctx, membershipID); err != nil {
		log.Warn("failed to invalidate membership", zap.String("membership", membershipID.Hex()), zap.Error(err))
	}
}

// Start runs the sweep on every tick until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.logger.Info("membership sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("membership sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("membership sweep failed", zap.Error(err))
			}
		}
	}
}
