package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"cashup/internal/domain/reconciliation"
)

// RematchScheduler periodically re-runs matching over Pending
// reconciliation items, picking up ledger transactions created after the
// statement was imported.
type RematchScheduler struct {
	ingestion *reconciliation.IngestionService
	schedule  string
	cron      *cron.Cron
}

func NewRematchScheduler(ingestion *reconciliation.IngestionService, schedule string) *RematchScheduler {
	return &RematchScheduler{
		ingestion: ingestion,
		schedule:  schedule,
		cron:      cron.New(),
	}
}

// Start registers the rematch job and starts the cron loop.
func (s *RematchScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.runRematch)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("Rematch scheduler started with schedule %q", s.schedule)
	return nil
}

// Shutdown stops the cron loop and waits up to timeout for a running job
// to finish.
func (s *RematchScheduler) Shutdown(timeout time.Duration) {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(timeout):
		log.Println("Rematch scheduler shutdown timed out")
	}
}

func (s *RematchScheduler) runRematch() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	matched, err := s.ingestion.Rematch(ctx)
	if err != nil {
		log.Printf("Rematch job failed: %v", err)
		return
	}
	if matched > 0 {
		log.Printf("Rematch job matched %d pending items", matched)
	}
}
