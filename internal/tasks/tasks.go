package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cogniapply/internal/channel"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
)

// Launcher starts and stops runs on the backend.
type Launcher interface {
	Apply(ctx context.Context, criteria models.SearchCriteria) error
	Stop(ctx context.Context) error
}

// ChannelOpener opens the push channel of a user.
type ChannelOpener interface {
	Open(ctx context.Context, username string) (channel.Stream, error)
}

// SessionSource supplies the user whose channel is opened.
type SessionSource interface {
	Current() (*models.Session, error)
}

// ResultSink receives the outcomes of completed runs.
type ResultSink interface {
	StoreResults(runID, username string, results []models.JobApplication) error
}

// Notifier shows a message to the user. Implementations must not block.
type Notifier interface {
	Notify(message string, level models.Level)
}

// Observer receives a snapshot after every state change.
type Observer func(RunState)

// Controller drives the lifecycle of automation runs.
//
// At most one run is attached at a time. Starting a run detaches the previous one and
// closes its channel; events that the detached run's reader still delivers are dropped,
// so a superseded run can neither change state nor notify.
type Controller struct {
	launcher Launcher
	opener   ChannelOpener
	sessions SessionSource
	sink     ResultSink
	notifier Notifier
	logger   *log.Logger

	mu       sync.Mutex
	state    RunState
	seq      uint64
	active   string
	cancel   context.CancelFunc
	stream   channel.Stream
	observer Observer

	readers sync.WaitGroup
}

// NewController creates a Controller. sink and notifier may be nil.
func NewController(launcher Launcher, opener ChannelOpener, sessions SessionSource, sink ResultSink, notifier Notifier, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		launcher: launcher,
		opener:   opener,
		sessions: sessions,
		sink:     sink,
		notifier: notifier,
		logger:   logger,
		state:    RunState{Progress: Progress{Stage: Idle}},
	}
}

// Observe registers fn to receive snapshots, replacing any previous observer.
func (c *Controller) Observe(fn Observer) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

// State returns the current snapshot.
func (c *Controller) State() RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Start begins a new run and returns its ID.
//
// Criteria are validated before any network call. The backend is asked to start the run
// first and the push channel is opened afterwards; either failure releases the run and
// notifies the user. Events are then reduced on a background reader until a terminal
// event, the end of the channel, or cancellation.
func (c *Controller) Start(ctx context.Context, criteria models.SearchCriteria) (string, error) {
	if err := criteria.Validate(); err != nil {
		return "", err
	}

	session, err := c.sessions.Current()
	if err != nil {
		return "", err
	}

	runID := shared.GenerateID()
	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	prevCancel, prevStream := c.cancel, c.stream
	c.active = runID
	c.cancel = cancel
	c.stream = nil
	c.state = RunState{
		RunID:    runID,
		Running:  true,
		Criteria: criteria,
		Progress: initialProgress(),
	}
	snap, obs := c.publishLocked()
	c.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
	}
	if prevStream != nil {
		prevStream.Close()
	}
	c.emit(obs, snap)

	logger := c.logger.With("run", runID)
	logger.Info("starting automation", "job_title", criteria.JobTitle, "location", criteria.Location, "limit", criteria.ApplicationsLimit)

	if err := c.launcher.Apply(runCtx, criteria); err != nil {
		c.release(runID, unlessCancelled(runCtx, "Automation failed to start: "+shared.UserMessage(err)))
		return runID, fmt.Errorf("failed to start automation: %w", err)
	}

	stream, err := c.opener.Open(runCtx, session.Username)
	if err != nil {
		c.release(runID, unlessCancelled(runCtx, "Could not connect to automation updates."))
		return runID, err
	}

	c.mu.Lock()
	if c.active != runID {
		c.mu.Unlock()
		stream.Close()
		return runID, nil
	}
	c.stream = stream
	c.readers.Add(1)
	c.mu.Unlock()

	go c.read(runCtx, runID, session.Username, stream, logger)
	return runID, nil
}

// Stop asks the backend to cancel the run and detaches from it.
//
// The run is detached even when the backend reports that nothing is running.
func (c *Controller) Stop(ctx context.Context) error {
	err := c.launcher.Stop(ctx)
	c.Detach()
	return err
}

// Detach stops following the current run without notifying.
func (c *Controller) Detach() {
	c.mu.Lock()
	if c.active == "" {
		c.mu.Unlock()
		return
	}
	cancel, stream := c.cancel, c.stream
	c.active, c.cancel, c.stream = "", nil, nil
	c.state.Running = false
	snap, obs := c.publishLocked()
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if stream != nil {
		stream.Close()
	}
	c.emit(obs, snap)
}

// Close detaches and waits for background readers to exit.
func (c *Controller) Close() {
	c.Detach()
	c.readers.Wait()
}

func (c *Controller) read(ctx context.Context, runID, username string, stream channel.Stream, logger *log.Logger) {
	defer c.readers.Done()
	defer stream.Close()

	for {
		e, err := stream.Next(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				logger.Debug("reader cancelled")
			case errors.Is(err, io.EOF):
				logger.Debug("channel closed before the run finished")
				c.release(runID, nil)
			default:
				logger.Warn("channel failed", "error", err)
				c.release(runID, nil)
			}
			return
		}

		switch e.Type {
		case channel.EventHeartbeat:
			continue
		case channel.EventStatus:
			c.update(runID, func(s *RunState) *notice {
				s.Progress = NextProgress(s.Progress, e.Message)
				return nil
			})
		case channel.EventComplete:
			if c.complete(runID, e.Results) && c.sink != nil {
				if err := c.sink.StoreResults(runID, username, e.Results); err != nil {
					logger.Warn("failed to cache results", "error", err)
				}
			}
			return
		case channel.EventError:
			msg := e.Message
			if msg == "" {
				msg = "Automation error"
			}
			c.release(runID, &notice{msg, models.LevelError})
			return
		default:
			logger.Debug("ignoring event", "type", e.Type)
		}
	}
}

func (c *Controller) complete(runID string, results []models.JobApplication) bool {
	return c.finish(runID, func(s *RunState) *notice {
		summary := models.Summarize(results)
		s.Results = append([]models.JobApplication(nil), results...)
		s.Summary = &summary
		s.Finished = true
		s.Progress = Progress{Stage: Completed, Percent: 100, Message: s.Progress.Message}

		if len(results) == 0 {
			return &notice{"No matching jobs found. Applications may require manual submission.", models.LevelInfo}
		}
		return &notice{fmt.Sprintf("Automation completed. Applied to %d jobs.", len(results)), models.LevelSuccess}
	})
}

// release ends the run without results.
func (c *Controller) release(runID string, n *notice) bool {
	return c.finish(runID, func(*RunState) *notice { return n })
}

// finish applies fn, marks the run as no longer running and detaches it.
func (c *Controller) finish(runID string, fn func(*RunState) *notice) bool {
	var stream channel.Stream
	var cancel context.CancelFunc

	ok := c.update(runID, func(s *RunState) *notice {
		n := fn(s)
		s.Running = false
		stream, cancel = c.stream, c.cancel
		c.active, c.stream, c.cancel = "", nil, nil
		return n
	})

	if stream != nil {
		stream.Close()
	}
	if cancel != nil {
		cancel()
	}
	return ok
}

type notice struct {
	message string
	level   models.Level
}

// unlessCancelled returns an error notice, or nil when ctx was cancelled.
func unlessCancelled(ctx context.Context, message string) *notice {
	if ctx.Err() != nil {
		return nil
	}
	return &notice{message, models.LevelError}
}

// update applies fn to the state of runID if it is still attached, then publishes.
//
// Notices are delivered under the lock so a superseded run can never notify.
func (c *Controller) update(runID string, fn func(*RunState) *notice) bool {
	c.mu.Lock()
	if c.active != runID {
		c.mu.Unlock()
		return false
	}

	if n := fn(&c.state); n != nil && c.notifier != nil {
		c.notifier.Notify(n.message, n.level)
	}
	snap, obs := c.publishLocked()
	c.mu.Unlock()

	c.emit(obs, snap)
	return true
}

func (c *Controller) publishLocked() (RunState, Observer) {
	c.seq++
	c.state.Seq = c.seq
	return c.state.clone(), c.observer
}

func (c *Controller) emit(obs Observer, snap RunState) {
	if obs != nil {
		obs(snap)
	}
}
