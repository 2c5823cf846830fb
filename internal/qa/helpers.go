package qa

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/docchat/internal/domain/jobModel"
	"github.com/akolanti/docchat/internal/metrics"
	"github.com/akolanti/docchat/pkg/logger_i"
)

func completeJob(job jobModel.Job) jobModel.Job {
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessJob", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeSummaryStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) (string, error) {
	*job = logOutput(*job, jobModel.GenerateCall, log)

	if err := s.bindDocument(ctx, job.JobPayload.DocumentId); err != nil {
		return "", err
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("summary_generation", time.Since(start)) }()

	return s.generator.SummarizeDocument(ctx)
}

func (s *service) executeTopicsStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]string, error) {
	*job = logOutput(*job, jobModel.GenerateCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("topics_generation", time.Since(start)) }()

	return s.generator.ExtractKeyTopics(ctx)
}
