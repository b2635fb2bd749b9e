package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker long running job
type Worker interface {
	Run(ctx context.Context) error
}

type OnWork func(ctx context.Context) error

// BaseJob runs OnWork on a cron schedule, skipping a tick while the previous one is still running
type BaseJob struct {
	Name     string
	Spec     string
	Location *time.Location
	OnWork   OnWork

	running atomic.Bool
}

// Run schedule the job and block until ctx is done
func (job *BaseJob) Run(ctx context.Context) error {
	location := job.Location
	if location == nil {
		location = time.UTC
	}

	c := cron.New(cron.WithLocation(location))
	if _, err := c.AddFunc(job.Spec, func() {
		_ = job.RunOnce(ctx)
	}); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// RunOnce run OnWork unless it is already running
func (job *BaseJob) RunOnce(ctx context.Context) error {
	if !job.running.CompareAndSwap(false, true) {
		return nil
	}
	defer job.running.Store(false)

	if err := job.OnWork(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("worker", job.Name).Errorln("on work")
		return err
	}

	return nil
}

// LoadLocation time zone of the schedule, UTC if empty or unknown
func LoadLocation(name string) *time.Location {
	if l, err := time.LoadLocation(name); err == nil {
		return l
	}

	return time.UTC
}
