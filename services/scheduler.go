// services/scheduler.go
package services

import (
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// SchedulerService drives the day-boundary jobs: assign missions at
// midnight UTC, sweep for broken streaks an hour later, then prune
// stale rate limit windows. All jobs are idempotent, so a restart
// mid-window is harmless.
type SchedulerService struct {
	context.DefaultService

	missionSvc *MissionService
	streakSvc  *StreakService
	sqlSvc     *SqlService

	quit chan struct{}
}

const SCHEDULER_SVC = "scheduler_svc"

func (svc SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func (svc *SchedulerService) Configure(ctx *context.Context) error {
	svc.quit = make(chan struct{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *SchedulerService) Start() error {
	svc.missionSvc = svc.Service(MISSION_SVC).(*MissionService)
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)

	go svc.runDaily(0, svc.assignMissions)
	go svc.runDaily(1*time.Hour, svc.breakStreaks)
	go svc.runDaily(2*time.Hour, svc.cleanupRateLimits)

	return nil
}

func (svc *SchedulerService) Shutdown() {
	close(svc.quit)
}

// runDaily fires job every day at midnight UTC plus offset, starting
// with today's slot if it has not passed yet.
func (svc *SchedulerService) runDaily(offset time.Duration, job func()) {
	for {
		now := time.Now().UTC()
		timer := time.NewTimer(nextDailyRun(now, offset).Sub(now))

		select {
		case <-timer.C:
			job()
		case <-svc.quit:
			timer.Stop()
			return
		}
	}
}

// nextDailyRun resolves the next occurrence of midnight UTC plus
// offset at or after now.
func nextDailyRun(now time.Time, offset time.Duration) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(offset)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func (svc *SchedulerService) assignMissions() {
	log.Info("Running daily mission assignment")
	if err := svc.missionSvc.AssignMissionsToAllUsers(); err != nil {
		log.WithError(err).Error("Daily mission assignment failed")
	}
}

func (svc *SchedulerService) breakStreaks() {
	log.Info("Running streak break sweep")
	if err := svc.streakSvc.CheckAndBreakStreaks(); err != nil {
		log.WithError(err).Error("Streak break sweep failed")
	}
}

func (svc *SchedulerService) cleanupRateLimits() {
	if err := svc.sqlSvc.CleanupOldRateLimits(); err != nil {
		log.WithError(err).Error("Rate limit cleanup failed")
	}
}
