package batch

import (
	"context"
	"time"

	"github.com/entrhq/webscout/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// BrowseFunc answers question from the page at url.
type BrowseFunc func(ctx context.Context, url, question string) (string, error)

// Runner executes jobs with bounded concurrency.
type Runner struct {
	browse      BrowseFunc
	logger      *logging.Logger
	concurrency int
	timeout     time.Duration
}

// NewRunner creates a runner using the limits in config. A nil logger
// discards output.
func NewRunner(browse BrowseFunc, config *Config, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	concurrency := config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		browse:      browse,
		logger:      logger,
		concurrency: concurrency,
		timeout:     config.Timeout,
	}
}

// Run executes jobs and returns a report with one result per job, in job
// order. A failed job does not stop the others. Jobs not yet started when
// ctx is cancelled are reported with ctx's error.
func (r *Runner) Run(ctx context.Context, jobs []Job) *Report {
	report := &Report{
		StartTime: time.Now(),
		Results:   make([]JobResult, len(jobs)),
	}

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			report.Results[i] = r.runJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.tally()
	return report
}

func (r *Runner) runJob(ctx context.Context, job Job) JobResult {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return failedResult(job, start, err)
	}

	jobCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.logger.Infof("job %s: browsing %s", job.Name, job.URL)
	answer, err := r.browse(jobCtx, job.URL, job.Question)
	if err != nil {
		r.logger.Warnf("job %s failed: %v", job.Name, err)
		return failedResult(job, start, err)
	}

	end := time.Now()
	r.logger.Infof("job %s done in %s", job.Name, end.Sub(start))
	return JobResult{
		Job:       job,
		Status:    StatusSucceeded,
		Answer:    answer,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}
}

func failedResult(job Job, start time.Time, err error) JobResult {
	end := time.Now()
	return JobResult{
		Job:       job,
		Status:    StatusFailed,
		Error:     err.Error(),
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}
}
