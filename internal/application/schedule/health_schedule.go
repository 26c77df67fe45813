package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"umbrella-bot/internal/domain/usecase/health"
	"umbrella-bot/pkg/log"
	"umbrella-bot/pkg/requestid"
)

var cronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// HealthScheduler periodically probes the upstream services and refreshes the health snapshot
type HealthScheduler struct {
	cron           *cron.Cron
	useCase        health.UseCase
	cronExpression string
	ctx            context.Context
}

// NewHealthScheduler validates cronExpression and builds a scheduler for it
func NewHealthScheduler(useCase health.UseCase, cronExpression string) (*HealthScheduler, error) {
	if _, err := cronParser.Parse(cronExpression); err != nil {
		return nil, fmt.Errorf("invalid health probe cron expression %q: %w", cronExpression, err)
	}

	return &HealthScheduler{
		cron:           cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		useCase:        useCase,
		cronExpression: cronExpression,
		ctx:            context.Background(),
	}, nil
}

// InitHealthScheduleTasks runs one probe right away, then schedules the rest
func (s *HealthScheduler) InitHealthScheduleTasks(ctx context.Context) error {
	s.ctx = ctx

	if _, err := s.cron.AddFunc(s.cronExpression, s.ExecuteScheduledTask); err != nil {
		return fmt.Errorf("failed to schedule health probe: %w", err)
	}

	go s.ExecuteScheduledTask()
	s.cron.Start()
	log.Info("Health probe scheduler started", zap.String("cron", s.cronExpression))
	return nil
}

// ExecuteScheduledTask probes every component once
func (s *HealthScheduler) ExecuteScheduledTask() {
	requestID := requestid.New()
	start := time.Now()

	response := s.useCase.Probe(s.ctx)

	log.Info("Health probe completed",
		zap.String("request_id", requestID),
		zap.String("status", string(response.Status)),
		zap.Duration("duration", time.Since(start)),
	)
}

// Stop gracefully stops the scheduler
func (s *HealthScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}
