package tasks

import (
	"strings"

	"github.com/desertthunder/cogniapply/internal/models"
)

// Stage is the coarse position of a run in the search/apply workflow.
type Stage int

const (
	Idle Stage = iota
	Searching
	Applying
	Completed
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Applying:
		return "applying"
	case Completed:
		return "completed"
	default:
		return ""
	}
}

// Progress is the displayed progress of the current run.
type Progress struct {
	Stage   Stage
	Percent int // 0..100
	Message string
}

const initializingMessage = "Initializing automation..."

func initialProgress() Progress {
	return Progress{Stage: Idle, Percent: 0, Message: initializingMessage}
}

// progressRule maps a status message fragment to the progress it implies.
type progressRule struct {
	fragments []string
	apply     func(cur Progress) Progress
}

// advance moves to stage without lowering the percent already reached in the run.
func advance(stage Stage, percent int) func(Progress) Progress {
	return func(cur Progress) Progress {
		return Progress{Stage: stage, Percent: max(cur.Percent, percent)}
	}
}

// progressRules are checked in order; the first match wins.
var progressRules = []progressRule{
	{fragments: []string{"Searching for"}, apply: advance(Searching, 10)},
	{fragments: []string{"Attempting to apply"}, apply: advance(Applying, 30)},
	{fragments: []string{"Filling out application"}, apply: advance(Applying, 60)},
	{
		fragments: []string{"Successfully applied"},
		apply: func(cur Progress) Progress {
			return Progress{Stage: cur.Stage, Percent: max(cur.Percent, min(cur.Percent+10, 90))}
		},
	},
	{fragments: []string{"completed", "No more jobs"}, apply: advance(Completed, 100)},
}

// NextProgress derives the progress implied by a status message.
//
// Unrecognized messages change only the displayed text.
func NextProgress(cur Progress, message string) Progress {
	for _, rule := range progressRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(message, fragment) {
				next := rule.apply(cur)
				next.Message = message
				return next
			}
		}
	}

	cur.Message = message
	return cur
}

// RunState is a snapshot of the controller published after every state change.
//
// Seq increases with every snapshot so consumers can drop out-of-order deliveries.
type RunState struct {
	RunID    string
	Seq      uint64
	Running  bool
	Criteria models.SearchCriteria
	Progress Progress
	Results  []models.JobApplication
	Summary  *models.RunSummary
	Finished bool
}

// NoMatches reports whether a finished run produced no applications.
func (s RunState) NoMatches() bool {
	return s.Finished && len(s.Results) == 0
}

func (s RunState) clone() RunState {
	if s.Results != nil {
		s.Results = append([]models.JobApplication(nil), s.Results...)
	}
	if s.Summary != nil {
		summary := *s.Summary
		s.Summary = &summary
	}
	return s
}
