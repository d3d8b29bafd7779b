package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/entrhq/webscout/pkg/executor/batch"
)

// runJobs answers every selected job in the -jobs file and prints the
// answers, writing reports when -output is set.
func runJobs(ctx context.Context, a *app, config *Config, stdout io.Writer) error {
	jobFile, err := batch.LoadConfig(config.JobsFile)
	if err != nil {
		return err
	}
	jobs, err := jobFile.Select(config.Only)
	if err != nil {
		return err
	}

	browse := func(ctx context.Context, url, question string) (string, error) {
		answer, _, err := a.service.BrowseWebsite(ctx, url, question)
		return answer, err
	}
	runner := batch.NewRunner(browse, jobFile, a.logger.With("batch"))
	report := runner.Run(ctx, jobs)

	printReport(stdout, report)

	if config.Output != "" {
		if err := batch.NewReportWriter(config.Output).WriteAll(report); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Reports written to %s\n", config.Output)
	}
	return report.Err()
}

func printReport(w io.Writer, report *batch.Report) {
	for _, result := range report.Results {
		fmt.Fprintf(w, "== %s (%s)\n", result.Name, result.URL)
		if result.Status == batch.StatusSucceeded {
			fmt.Fprintf(w, "%s\n\n", result.Answer)
		} else {
			fmt.Fprintf(w, "Error: %s\n\n", result.Error)
		}
	}
	fmt.Fprintf(w, "%d succeeded, %d failed in %s\n", report.Succeeded, report.Failed, report.Duration.Round(time.Millisecond))
}
