package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cogniapply/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgResumed MsgKind = iota
	MsgLoggedIn
	MsgRegistered
	MsgProfileSaved
	MsgAttachmentDeleted
	MsgApplicationsFetched
	MsgRunStarted
	MsgRunStopped
	MsgRunChanged
	MsgNotified
	MsgDismiss
)

type sessionResult struct {
	session *models.Session
	profile *models.Profile
	err     error
}

type profileResult struct {
	profile *models.Profile
	err     error
}

type attachmentResult struct {
	kind models.AttachmentKind
	err  error
}

type applicationsResult struct {
	apps []models.JobApplication
	err  error
}

type runResult struct {
	runID string
	err   error
}

// resumedMsg is the constructor for [MsgResumed]
func resumedMsg(session *models.Session, profile *models.Profile, err error) Msg {
	return Msg{kind: MsgResumed, data: sessionResult{session, profile, err}}
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(session *models.Session, profile *models.Profile, err error) Msg {
	return Msg{kind: MsgLoggedIn, data: sessionResult{session, profile, err}}
}

// registeredMsg is the constructor for [MsgRegistered]
func registeredMsg(err error) Msg {
	return Msg{kind: MsgRegistered, data: err}
}

// profileSavedMsg is the constructor for [MsgProfileSaved]
func profileSavedMsg(profile *models.Profile, err error) Msg {
	return Msg{kind: MsgProfileSaved, data: profileResult{profile, err}}
}

// attachmentDeletedMsg is the constructor for [MsgAttachmentDeleted]
func attachmentDeletedMsg(kind models.AttachmentKind, err error) Msg {
	return Msg{kind: MsgAttachmentDeleted, data: attachmentResult{kind, err}}
}

// applicationsFetchedMsg is the constructor for [MsgApplicationsFetched]
func applicationsFetchedMsg(apps []models.JobApplication, err error) Msg {
	return Msg{kind: MsgApplicationsFetched, data: applicationsResult{apps, err}}
}

// runStartedMsg is the constructor for [MsgRunStarted]
func runStartedMsg(runID string, err error) Msg {
	return Msg{kind: MsgRunStarted, data: runResult{runID, err}}
}

// runStoppedMsg is the constructor for [MsgRunStopped]
func runStoppedMsg(err error) Msg {
	return Msg{kind: MsgRunStopped, data: err}
}

// runChangedMsg is the constructor for [MsgRunChanged]
func runChangedMsg() Msg {
	return Msg{kind: MsgRunChanged}
}

// notifiedMsg is the constructor for [MsgNotified]
func notifiedMsg() Msg {
	return Msg{kind: MsgNotified}
}

// dismissMsg is the constructor for [MsgDismiss]
func dismissMsg(id uint64) Msg {
	return Msg{kind: MsgDismiss, data: id}
}

