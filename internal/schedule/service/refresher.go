package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher refetches the schedule on a cron spec.
type Refresher struct {
	service *ScheduleService
	spec    string
	timeout time.Duration
	cron    *cron.Cron
}

// NewRefresher creates a refresher; spec accepts standard cron fields or
// descriptors such as "@every 5m".
func NewRefresher(service *ScheduleService, spec string, timeout time.Duration) *Refresher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Refresher{service: service, spec: spec, timeout: timeout, cron: cron.New()}
}

// Start registers the refetch job and starts the scheduler
func (r *Refresher) Start() error {
	if _, err := r.cron.AddFunc(r.spec, r.run); err != nil {
		return fmt.Errorf("invalid schedule refresh spec %q: %w", r.spec, err)
	}
	r.cron.Start()
	log.Printf("Schedule refresher started (%s)", r.spec)
	return nil
}

// Stop halts the scheduler and waits for a running refetch to finish
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	// failures are already logged and kept in the snapshot
	_ = r.service.Refetch(ctx)
}
