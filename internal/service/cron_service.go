// Package service contains the service layer for the Session Manager API
package service

import (
	"strconv"
	"time"

	"github.com/lmtuitions/sessionmanagerapi/internal/config"
	"github.com/lmtuitions/sessionmanagerapi/pkg/utils/zaplogger"
	"github.com/robfig/cron/v3"
)

// CronService is the service for the cron jobs
type CronService struct {
	cfg            *config.Config
	c              *cron.Cron
	sessionService *SessionService
}

// NewCronService creates a new CronService
func NewCronService(cfg *config.Config, sessionService *SessionService) *CronService {
	return &CronService{
		cfg:            cfg,
		c:              cron.New(),
		sessionService: sessionService,
	}
}

// Start starts the cron service
func (cs *CronService) Start() {
	zaplogger.Info("Initializing CronService", zaplogger.Fields{
		"session_ttl_hours": cs.cfg.SessionTTLHours,
	})

	// ------------------------------------------------------------
	// Add your SCHEDULED jobs here
	// ------------------------------------------------------------
	cs.addScheduledJob("Session SWEEP Job", cs.sessionSweepJob, "*/10 * * * *") // Every 10 minutes

	// ------------------------------------------------------------
	// Add your STARTUP jobs here
	// ------------------------------------------------------------
	cs.addStartupJob("Session SWEEP Job", cs.sessionSweepJob, 5*time.Second)
	// ------------------------------------------------------------

	cs.c.Start()
}

// Stop stops the scheduled jobs
func (cs *CronService) Stop() {
	cs.c.Stop()
}

// addStartupJob adds a startup job to the cron service
func (cs *CronService) addStartupJob(name string, job func(), delay time.Duration) {
	go func() {
		time.Sleep(delay)
		zaplogger.Info("STARTED STARTUP job", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED STARTUP job", zaplogger.Fields{
			"job": name,
		})
	}()
	zaplogger.Info("QUEUED STARTUP job", zaplogger.Fields{
		"job": name,
	})
}

func (cs *CronService) addScheduledJob(name string, job func(), schedule string) {
	_, err := cs.c.AddFunc(schedule, func() {
		zaplogger.Info("STARTED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
	})
	if err != nil {
		zaplogger.Error("FAILED TO QUEUE SCHEDULED JOB", zaplogger.Fields{
			"job":   name,
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info("QUEUED SCHEDULED job", zaplogger.Fields{
		"job": name,
	})
}

// sessionSweepJob removes session cookies past the retention threshold
func (cs *CronService) sessionSweepJob() {
	jobName := "Session SWEEP Job "

	removed, err := cs.sessionService.Sweep()
	if err != nil {
		zaplogger.Error(jobName, zaplogger.Fields{
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info(jobName, zaplogger.Fields{
		"rows_removed": strconv.FormatInt(removed, 10),
	})
}
