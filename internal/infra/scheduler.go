package infra

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"bankagent/internal/service"
)

// Scheduler runs the periodic ledger audit.
type Scheduler struct {
	cron  *cron.Cron
	audit *service.AuditService
}

// NewScheduler creates a scheduler around the audit service.
func NewScheduler(audit *service.AuditService) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		audit: audit,
	}
}

// Start schedules the hourly audit.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@hourly", func() {
		if err := s.RunNow(); err != nil {
			log.Printf("ERROR: ledger audit failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Ledger audit scheduled hourly")
	return nil
}

// RunNow triggers one audit immediately.
func (s *Scheduler) RunNow() error {
	return s.audit.RunAudit(context.Background())
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
