package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/docchat/internal/config"
	jobmodel "github.com/akolanti/docchat/internal/domain/jobModel"
	"github.com/akolanti/docchat/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.GenerationTimeout)
	defer cancel()
	log := logger.With("traceId", job.TraceId)
	log.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	switch job.JobType {
	case jobmodel.JobTypeIngest, jobmodel.JobTypeIngestURL:
		job = _qaService.IngestDocument(ctx, job)
	case jobmodel.JobTypeSummary:
		job = _qaService.SummarizeDocument(ctx, job)
	case jobmodel.JobTypeTopics:
		job = _qaService.ExtractKeyTopics(ctx, job)
	default:
		log.Error("Unknown job type", "jobType", job.JobType)
		job.Status = jobmodel.JobStatusError
	}

	job.EndTime = time.Now()
	finalizeJobState(ctx, job)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}

// finalizeJobState persists the finished job without clobbering an error
// status the service already set.
func finalizeJobState(ctx context.Context, job jobmodel.Job) {
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
	}
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
