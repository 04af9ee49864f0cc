// Package scheduler drives the Scheduler's three periodic tasks (spec
// §4.4): expansion scan, dispatch scan, and expiration cleanup.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/metrics"
	"github.com/zivohealth/reminders/internal/repository"
	"github.com/zivohealth/reminders/internal/suppression"
	"github.com/zivohealth/reminders/internal/timezone"
	"github.com/zivohealth/reminders/internal/userprofile"
)

// Scheduler ties the batch size and scan cadence from configuration to the
// three scans, grounded in a single ticker loop (spec §5: "a dedicated beat
// process or a leader-elected ticker").
type Scheduler struct {
	reminders   *repository.ReminderRepository
	broker      *broker.Conn
	suppression suppression.Source
	profiles    userprofile.Source
	defaultTZ   string

	batchSize    int
	scanInterval time.Duration
	cleanupEvery time.Duration
	cleanupGrace time.Duration
}

func New(
	reminders *repository.ReminderRepository,
	brokerConn *broker.Conn,
	suppressionSource suppression.Source,
	profiles userprofile.Source,
	defaultTZ string,
	batchSize int,
	scanIntervalSeconds int,
	cleanupGraceSeconds int,
) *Scheduler {
	return &Scheduler{
		reminders:    reminders,
		broker:       brokerConn,
		suppression:  suppressionSource,
		profiles:     profiles,
		defaultTZ:    defaultTZ,
		batchSize:    batchSize,
		scanInterval: time.Duration(scanIntervalSeconds) * time.Second,
		cleanupEvery: time.Hour,
		cleanupGrace: time.Duration(cleanupGraceSeconds) * time.Second,
	}
}

// Run ticks the expansion and dispatch scans at scanInterval and the
// cleanup scan hourly, until ctx is cancelled (spec §6.5: "cleanup runs
// hourly").
func (s *Scheduler) Run(ctx context.Context) {
	scanTicker := time.NewTicker(s.scanInterval)
	cleanupTicker := time.NewTicker(s.cleanupEvery)
	defer scanTicker.Stop()
	defer cleanupTicker.Stop()

	log.Printf("[Scheduler] started: scan every %s, cleanup every %s", s.scanInterval, s.cleanupEvery)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Scheduler] stopping")
			return
		case <-scanTicker.C:
			s.tick(ctx)
		case <-cleanupTicker.C:
			if err := s.runCleanup(ctx); err != nil {
				log.Printf("[Scheduler] cleanup scan failed: %v", err)
			}
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.runExpansion(ctx); err != nil {
		log.Printf("[Scheduler] expansion scan failed: %v", err)
	}
	if err := s.runDispatch(ctx); err != nil {
		log.Printf("[Scheduler] dispatch scan failed: %v", err)
	}
}
