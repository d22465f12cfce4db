package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/cogniapply/internal/formatter"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/desertthunder/cogniapply/internal/tasks"
	"github.com/urfave/cli/v3"
)

var errRunEnded = errors.New("automation ended before completing")

// SearchRun starts an automation run and follows its progress until it ends.
//
// Interrupting the command asks the backend to stop the run.
func (r *Runner) SearchRun(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	criteria := models.SearchCriteria{
		JobTitle:          cmd.String("job-title"),
		Location:          cmd.String("location"),
		ApplicationsLimit: cmd.Int("limit"),
	}
	if !cmd.IsSet("location") && criteria.Location == "" {
		criteria.Location = r.config.Automation.Location
	}
	if !cmd.IsSet("limit") && r.config.Automation.ApplicationsLimit > 0 {
		criteria.ApplicationsLimit = r.config.Automation.ApplicationsLimit
	}
	if err := criteria.Validate(); err != nil {
		return err
	}

	if err := r.connect(); err != nil {
		return err
	}
	if _, err := r.services.Profiles.FetchProfile(ctx); err != nil {
		return err
	}
	if err := r.navigator().Show(models.SectionJobSearch); err != nil {
		return err
	}

	ctrl := r.controller(r.presenter)
	defer ctrl.Close()

	snapshots := newSnapshotQueue()
	ctrl.Observe(snapshots.push)

	if _, err := ctrl.Start(ctx, criteria); err != nil {
		if errors.Is(err, shared.ErrValidation) || errors.Is(err, shared.ErrNotAuthenticated) {
			return err
		}
		return reportedError{err}
	}

	state, err := r.follow(ctx, ctrl, snapshots)
	if err != nil {
		return err
	}
	if !state.Finished && ctx.Err() != nil {
		return nil
	}
	if !state.Finished {
		return errRunEnded
	}

	report := formatter.NewReport("Automation Results", &criteria, state.Results)
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(report, format, path)
		if err != nil {
			return err
		}
		r.notify("Results written to "+written, models.LevelInfo)
		return nil
	}

	data, err := formatter.Render(report, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// follow prints each new progress message until the run is no longer running.
func (r *Runner) follow(ctx context.Context, ctrl *tasks.Controller, snapshots *snapshotQueue) (tasks.RunState, error) {
	last := ""
	for {
		select {
		case <-ctx.Done():
			stopCtx, cancel := context.WithTimeout(context.Background(), r.config.Backend.Timeout())
			defer cancel()

			if err := ctrl.Stop(stopCtx); err != nil {
				r.logger.Warn("failed to stop automation", "error", err)
			} else {
				r.notify("Automation stopped.", models.LevelInfo)
			}
			return ctrl.State(), nil
		case <-snapshots.wake:
		}

		for _, state := range snapshots.drain() {
			if msg := state.Progress.Message; msg != last {
				if err := r.writePlain("[%3d%%] %s\n", state.Progress.Percent, msg); err != nil {
					return state, err
				}
				last = msg
			}
			if !state.Running {
				return state, nil
			}
		}
	}
}

// snapshotQueue collects run snapshots without blocking the controller.
type snapshotQueue struct {
	mu      sync.Mutex
	pending []tasks.RunState
	seq     uint64
	wake    chan struct{}
}

func newSnapshotQueue() *snapshotQueue {
	return &snapshotQueue{wake: make(chan struct{}, 1)}
}

func (q *snapshotQueue) push(s tasks.RunState) {
	q.mu.Lock()
	if s.Seq > q.seq {
		q.seq = s.Seq
		q.pending = append(q.pending, s)
	}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *snapshotQueue) drain() []tasks.RunState {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// SearchStop asks the backend to cancel the running automation.
func (r *Runner) SearchStop(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	if err := r.services.Automation.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop automation: %w", err)
	}

	r.notify("Automation stopped.", models.LevelSuccess)
	return nil
}
