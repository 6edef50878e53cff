package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"bridgescan/internal/store"
)

// Schedule decides when a job next fires.
type Schedule interface {
	Next(from time.Time) time.Time
}

// Every fires at a fixed interval.
type Every time.Duration

func (e Every) Next(from time.Time) time.Time { return from.Add(time.Duration(e)) }

// DailyAt fires once a day at the given UTC wall-clock time.
type DailyAt struct {
	Hour, Minute int
}

func (d DailyAt) Next(from time.Time) time.Time {
	from = from.UTC()
	next := time.Date(from.Year(), from.Month(), from.Day(), d.Hour, d.Minute, 0, 0, time.UTC)
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Job is one scheduled unit of work. Name doubles as the lock key, so two
// workers never run the same job concurrently.
type Job struct {
	Name     string
	Schedule Schedule
	// LockTTL bounds how long a crashed worker can wedge the job.
	// Defaults to one hour.
	LockTTL time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler runs jobs on their schedules, coordinating across workers
// through named store locks.
type Scheduler struct {
	queue  store.KV
	holder string
	jobs   []Job

	now func() time.Time
}

func New(queue store.KV, jobs []Job) *Scheduler {
	host, _ := os.Hostname()
	return &Scheduler{
		queue:  queue,
		holder: fmt.Sprintf("%s-%d", host, os.Getpid()),
		jobs:   jobs,
		now:    time.Now,
	}
}

// Start launches one loop per job and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("[job] scheduler starting with %d jobs as %s", len(s.jobs), s.holder)
	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.loop(ctx, job)
		}(job)
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	for {
		wait := time.Until(job.Schedule.Next(s.now()))
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		s.runOnce(ctx, job)
	}
}

// runOnce takes the job's lock and runs it. A held lock means another
// worker is on it; this tick is skipped, not queued.
func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	ttl := job.LockTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	ok, err := s.queue.AcquireLock(ctx, job.Name, s.holder, ttl)
	if err != nil {
		log.Printf("[job] %s: lock: %v", job.Name, err)
		return
	}
	if !ok {
		log.Printf("[job] %s: held elsewhere, skipping", job.Name)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[job] %s: panic: %v", job.Name, r)
		}
		if err := s.queue.ReleaseLock(ctx, job.Name, s.holder); err != nil {
			log.Printf("[job] %s: release lock: %v", job.Name, err)
		}
	}()

	start := s.now()
	if err := job.Run(ctx); err != nil {
		log.Printf("[job] %s: %v", job.Name, err)
		return
	}
	log.Printf("[job] %s done in %s", job.Name, time.Since(start).Round(time.Millisecond))
}
