package service

import (
	"context"

	"trainings/internal/domain"
)

// Job is the handle of an asynchronous media ingestion or rewrite.
type Job struct {
	done chan struct{}
	res  domain.Result
	err  error
}

func newJob() *Job {
	return &Job{done: make(chan struct{})}
}

func (j *Job) finish(res domain.Result, err error) {
	j.res, j.err = res, err
	close(j.done)
}

// Done is closed once the job's outcome is known.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes or ctx ends. The Result is the outcome
// of applying the job to the document; err reports I/O or validation failures.
func (j *Job) Wait(ctx context.Context) (domain.Result, error) {
	select {
	case <-j.done:
		return j.res, j.err
	case <-ctx.Done():
		return domain.Result{}, ctx.Err()
	}
}
