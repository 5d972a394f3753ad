package background

import (
	"context"
	"log"
	"time"

	"buildsite/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the service's background jobs.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	auditSvc   *jobs.AssetAuditService
	jobsByName map[string]gocron.Job
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(auditSvc *jobs.AssetAuditService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		auditSvc:   auditSvc,
		jobsByName: make(map[string]gocron.Job),
	}

	js.registerJobs()
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Dangling asset reference audit - every hour
	auditJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.runAssetAudit),
		gocron.WithName("asset-reference-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create asset audit job: %v", err)
	} else {
		js.jobsByName["asset-reference-audit"] = auditJob
	}

	log.Printf("Registered %d background jobs", len(js.jobsByName))
}

func (js *JobScheduler) runAssetAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := js.auditSvc.CheckAll(ctx); err != nil {
		log.Printf("Asset audit run failed: %v", err)
	}
}
