package scheduler

import (
	"context"
	"fmt"
	"log"

	"PortfolioPilot/internal/advisor"
	"PortfolioPilot/internal/market"
	"PortfolioPilot/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Scheduler refreshes the market context cache on a cron schedule and records
// each refresh as a snapshot.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *market.Collector
	Cache     *market.Cache
	Recorder  recorder.Recorder
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *market.Collector, cache *market.Cache, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Cache:     cache,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the snapshot refresh task.
func (s *Scheduler) RegisterAll(snapshotCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunSnapshotNow executes the snapshot task immediately (for RUN_ON_START).
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

func (s *Scheduler) snapshotTask() {
	log.Println("[INFO] refreshing market snapshot")
	mc := s.Collector.BuildContext(s.Ctx, advisor.Tickers())
	s.Cache.Set(mc)

	var vol *float64
	if mc.Conditions.VolatilityIndex != nil {
		v := *mc.Conditions.VolatilityIndex
		vol = &v
	}
	recs := make([]*recorder.SnapshotRecord, 0, len(mc.Quotes))
	for ticker, q := range mc.Quotes {
		recs = append(recs, &recorder.SnapshotRecord{
			Outlook:          string(mc.Conditions.Outlook),
			VolatilityIndex:  vol,
			Ticker:           ticker,
			Price:            q.Price,
			ChangePct:        q.ChangePct,
			Volume:           q.Volume,
			ThreeMonthReturn: q.ThreeMonthReturn,
		})
	}
	if err := s.Recorder.RecordSnapshot(recs); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	}
}
