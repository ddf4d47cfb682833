package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/vpay/vpay-backend/internal/config"
	"github.com/vpay/vpay-backend/internal/repository"
	"github.com/vpay/vpay-backend/internal/utils/email"
)

// Scheduler runs periodic background jobs. The only job today is the
// pending-payment reminder sweep; it never changes transaction status.
type Scheduler struct {
	cron   *cron.Cron
	repo   *repository.Repository
	sender *email.Sender
	log    *logrus.Logger
	config *config.Config
}

// New initializes a scheduler with the reminder job registered
func New(repo *repository.Repository, sender *email.Sender, log *logrus.Logger, cfg *config.Config) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		repo:   repo,
		sender: sender,
		log:    log,
		config: cfg,
	}
	if _, err := s.cron.AddFunc(cfg.ReminderSpec, s.RemindPending); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running scheduled jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Scheduler started, reminder schedule %q", s.config.ReminderSpec)
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RemindPending emails users whose payments have been pending longer than
// the configured age
func (s *Scheduler) RemindPending() {
	cutoff := time.Now().Add(-s.config.PendingMaxAge)
	stale, err := s.repo.ListStalePending(cutoff)
	if err != nil {
		s.log.Errorf("Failed to list stale pending transactions: %v", err)
		return
	}

	for i := range stale {
		p := &stale[i]
		if err := s.sender.SendPendingReminder(p.Email, p.Name, &p.Transaction); err != nil {
			s.log.Warnf("Failed to send pending reminder for transaction %d: %v", p.Transaction.ID, err)
		}
	}
	if len(stale) > 0 {
		s.log.Infof("Sent %d pending payment reminders", len(stale))
	}
}
