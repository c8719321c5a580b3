package scheduler

import (
	"archivist/internal/providers"
	"archivist/internal/scheduler/interfaces"
	"archivist/internal/services"
	"archivist/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

// Scheduler drives the periodic backups: one shortly after start-up, then
// one per configured interval.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.PersistenceServiceInterface
	cron    *gron.Cron
	warmUp  *time.Timer
	opsMu   sync.Mutex
	stopped atomic.Bool
}

func (s *Scheduler) Init() {
	s.stopped.Store(false)
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Backup.Interval), s.runBackup)
	s.warmUp = time.AfterFunc(s.config.Backup.WarmUp, s.runBackup)

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Backup scheduler started (first run in %s, then every %s)", s.config.Backup.WarmUp, s.config.Backup.Interval)
}

func (s *Scheduler) runBackup() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if s.stopped.Load() {
		return
	}
	id, err := s.service.ScheduledBackup()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Scheduled backup failed: %s", err)
		return
	}
	if id != "" {
		s.logger.Infof(providers.TypeApp, "Scheduled backup %s created", id)
	}
}

// Stop cancels pending runs and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	s.stopped.Store(true)
	if s.warmUp != nil {
		s.warmUp.Stop()
	}
	if s.cron != nil {
		s.cron.Stop()
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
}

// Restore opens the stores and runs start-up maintenance.
func (s *Scheduler) Restore() error {
	if err := s.service.Open(); err != nil {
		return err
	}
	report, err := s.service.PerformMaintenance()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Start-up maintenance failed: %s", err)
		return err
	}
	if !report.Valid {
		s.logger.Warnf(providers.TypeApp, "Data validation found %d issues in %d prompts", len(report.Issues), report.PromptCount)
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Flushing stores to disk...")
	err := s.service.Close()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while flushing stores: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.PersistenceServiceInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
	}
}
