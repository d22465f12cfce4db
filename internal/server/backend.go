package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cogniapply/internal/channel"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUploadSize = 10 << 20
	outboxSize    = 128
	minPassword   = 8
)

// Catalog returns the jobs a simulated run will apply to.
type Catalog func(criteria models.SearchCriteria) []models.JobApplication

// Option configures a [Backend].
type Option func(*Backend)

// WithLogger sets the backend logger.
func WithLogger(l *log.Logger) Option { return func(b *Backend) { b.logger = l } }

// WithStepDelay sets the pause between simulated automation steps.
func WithStepDelay(d time.Duration) Option { return func(b *Backend) { b.stepDelay = d } }

// WithHeartbeat sets how often idle channels receive a heartbeat.
func WithHeartbeat(d time.Duration) Option { return func(b *Backend) { b.heartbeat = d } }

// WithCatalog replaces the generated job catalog.
func WithCatalog(c Catalog) Option { return func(b *Backend) { b.catalog = c } }

// WithHashCost sets the bcrypt cost for stored passwords.
func WithHashCost(cost int) Option { return func(b *Backend) { b.cost = cost } }

// Backend is an in-memory implementation of the automation backend for local development.
//
// Users, profiles, documents and application history live only as long as the process.
// Automation runs are simulated: they push the same status wording as the real automator
// over the user's channel and complete with jobs from the [Catalog].
type Backend struct {
	logger    *log.Logger
	stepDelay time.Duration
	heartbeat time.Duration
	catalog   Catalog
	cost      int

	mu    sync.Mutex
	users map[string]*account
	quit  chan struct{}
	once  sync.Once
	runs  sync.WaitGroup
}

type account struct {
	email        string
	hash         []byte
	profile      models.Profile
	hasProfile   bool
	resume       *document
	cover        *document
	applications []models.JobApplication
	run          *runSlot
	outbox       chan channel.Event
	channelGen   int
}

// runSlot is the running simulation of an account.
type runSlot struct {
	cancel context.CancelFunc
}

type document struct {
	ext  string
	data []byte
}

// NewBackend creates a Backend with no users.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger:    log.New(io.Discard),
		stepDelay: 500 * time.Millisecond,
		heartbeat: 30 * time.Second,
		catalog:   GeneratedCatalog,
		cost:      bcrypt.DefaultCost,
		users:     map[string]*account{},
		quit:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBackendFromConfig creates a Backend using the dev_backend settings.
func NewBackendFromConfig(cfg shared.DevBackendConfig, logger *log.Logger) *Backend {
	return NewBackend(
		WithLogger(logger),
		WithStepDelay(cfg.StepDelay()),
		WithHeartbeat(cfg.HeartbeatInterval()),
	)
}

// Handler returns the routes of the backend wire contract.
func (b *Backend) Handler() http.Handler {
	r := NewBasicRouter()
	r.Use(Logging(b.logger))

	r.Handle(http.MethodPost, "/register", http.HandlerFunc(b.handleRegister))
	r.Handle(http.MethodPost, "/login", http.HandlerFunc(b.handleLogin))
	r.Handle(http.MethodGet, "/profile", b.authenticated(b.handleGetProfile))
	r.Handle(http.MethodPost, "/profile", b.authenticated(b.handleSaveProfile))
	r.Handle(http.MethodPost, "/delete-file", b.authenticated(b.handleDeleteFile))
	r.Handle(http.MethodPost, "/apply", b.authenticated(b.handleApply))
	r.Handle(http.MethodGet, "/applications", b.authenticated(b.handleApplications))
	r.Handle(http.MethodPost, "/stop-automation", b.authenticated(b.handleStop))
	r.Handle(http.MethodGet, "/users/{username}/{file}", http.HandlerFunc(b.handleDocument))
	r.Handle(http.MethodGet, "/ws/{username}", http.HandlerFunc(b.handleChannel))
	return r
}

// Close cancels running simulations, releases open channels and waits for runs to exit.
func (b *Backend) Close() {
	b.once.Do(func() { close(b.quit) })

	b.mu.Lock()
	for _, acct := range b.users {
		if acct.run != nil {
			acct.run.cancel()
		}
	}
	b.mu.Unlock()
	b.runs.Wait()
}

type userKey struct{}

// authenticated checks HTTP Basic credentials against the stored password hash.
func (b *Backend) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !b.verify(username, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="cogniapply"`)
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, username)))
	})
}

func (b *Backend) verify(username, password string) bool {
	b.mu.Lock()
	acct, ok := b.users[username]
	b.mu.Unlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) == nil
}

func currentUser(r *http.Request) string {
	username, _ := r.Context().Value(userKey{}).(string)
	return username
}

type userRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func decodeUser(r *http.Request) (userRequest, error) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, &shared.ValidationError{Field: "body", Reason: "must be valid JSON"}
	}
	return req, models.Validate(req)
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := decodeUser(r)
	if err == nil && len(req.Password) < minPassword {
		err = &shared.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPassword)}
	}
	if err != nil {
		writeValidation(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), b.cost)
	if err != nil {
		b.logger.Error("registration failed", "user", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	b.mu.Lock()
	if _, exists := b.users[req.Username]; exists {
		b.mu.Unlock()
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	b.users[req.Username] = &account{email: req.Email, hash: hash}
	b.mu.Unlock()

	b.logger.Info("user registered", "user", req.Username)
	writeMessage(w, "User registered successfully")
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeUser(r)
	if err != nil {
		writeValidation(w, err)
		return
	}

	b.mu.Lock()
	_, exists := b.users[req.Username]
	b.mu.Unlock()
	if !exists {
		writeError(w, http.StatusBadRequest, "User does not exist")
		return
	}
	if !b.verify(req.Username, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	b.logger.Info("user logged in", "user", req.Username)
	writeMessage(w, "Login successful")
}

func (b *Backend) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)

	b.mu.Lock()
	acct := b.users[username]
	profile := acct.profile
	if acct.resume != nil {
		profile.ResumeURL = fmt.Sprintf("/users/%s/resume.%s", username, acct.resume.ext)
	}
	if acct.cover != nil {
		profile.CoverLetterURL = fmt.Sprintf("/users/%s/cover_letter.%s", username, acct.cover.ext)
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, profile)
}

var profileFields = []string{"full_name", "phone", "dob", "job_title_preference", "experience_years", "salary_range", "skills"}

func (b *Backend) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	for _, name := range profileFields {
		if strings.TrimSpace(r.FormValue(name)) == "" {
			writeValidation(w, &shared.ValidationError{Field: name})
			return
		}
	}
	years, err := strconv.Atoi(r.FormValue("experience_years"))
	if err != nil {
		writeValidation(w, &shared.ValidationError{Field: "experience_years", Reason: "must be a valid integer"})
		return
	}

	profile := models.Profile{
		FullName:           r.FormValue("full_name"),
		Phone:              r.FormValue("phone"),
		DOB:                r.FormValue("dob"),
		JobTitlePreference: r.FormValue("job_title_preference"),
		ExperienceYears:    years,
		SalaryRange:        r.FormValue("salary_range"),
		Skills:             r.FormValue("skills"),
		LinkedInURL:        r.FormValue("linkedin_url"),
		GitHubURL:          r.FormValue("github_url"),
		PortfolioURL:       r.FormValue("portfolio_url"),
		LinkedInEmail:      r.FormValue("linkedin_email"),
		LinkedInPassword:   r.FormValue("linkedin_password"),
	}

	resume, err := readDocument(r, "file_resume", "pdf", "docx")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Resume must be PDF or DOCX format")
		return
	}
	cover, err := readDocument(r, "file_cover")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read cover letter")
		return
	}

	b.mu.Lock()
	acct := b.users[username]
	acct.profile = profile
	acct.hasProfile = true
	if resume != nil {
		acct.resume = resume
	}
	if cover != nil {
		acct.cover = cover
	}
	b.mu.Unlock()

	b.logger.Info("profile updated", "user", username)
	writeMessage(w, "Profile saved successfully")
}

var errDocumentType = errors.New("unsupported document type")

// readDocument returns nil when the field is absent. Allowed restricts the extension when set.
func readDocument(r *http.Request, field string, allowed ...string) (*document, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if len(allowed) > 0 {
		ok := false
		for _, a := range allowed {
			ok = ok || a == ext
		}
		if !ok {
			return nil, errDocumentType
		}
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &document{ext: ext, data: data}, nil
}

// handleDocument serves a stored resume or cover letter by the name reported in the profile.
func (b *Backend) handleDocument(w http.ResponseWriter, r *http.Request) {
	username, file := r.PathValue("username"), r.PathValue("file")
	name := strings.TrimSuffix(file, filepath.Ext(file))

	b.mu.Lock()
	var doc *document
	if acct, ok := b.users[username]; ok {
		switch name {
		case string(models.AttachmentResume):
			doc = acct.resume
		case string(models.AttachmentCoverLetter):
			doc = acct.cover
		}
	}
	b.mu.Unlock()

	if doc == nil || "."+doc.ext != filepath.Ext(file) {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	w.Header().Set("Content-Type", documentType(doc.ext))
	_, _ = w.Write(doc.data)
}

func documentType(ext string) string {
	switch ext {
	case "pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

func (b *Backend) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)

	var req struct {
		FileType string `json:"file_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file type")
		return
	}

	b.mu.Lock()
	acct := b.users[username]
	switch req.FileType {
	case string(models.AttachmentResume):
		acct.resume = nil
	case string(models.AttachmentCoverLetter):
		acct.cover = nil
	default:
		b.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Invalid file type")
		return
	}
	b.mu.Unlock()

	writeMessage(w, req.FileType+" deleted successfully")
}

func (b *Backend) handleApply(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)

	criteria := models.SearchCriteria{ApplicationsLimit: 5}
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		writeValidation(w, &shared.ValidationError{Field: "body", Reason: "must be valid JSON"})
		return
	}
	if err := criteria.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	b.mu.Lock()
	acct := b.users[username]
	if !acct.hasProfile {
		b.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Profile not found. Please complete your profile first")
		return
	}
	if acct.run != nil {
		b.mu.Unlock()
		writeError(w, http.StatusBadRequest, "An automation task is already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	slot := &runSlot{cancel: cancel}
	acct.run = slot
	hasResume := acct.resume != nil
	outbox := b.outboxLocked(acct)
	b.runs.Add(1)
	b.mu.Unlock()

	go b.simulate(ctx, slot, username, criteria, hasResume, outbox)

	b.logger.Info("automation started", "user", username, "job_title", criteria.JobTitle, "location", criteria.Location)
	writeMessage(w, "Job application process started")
}

func (b *Backend) handleApplications(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)

	b.mu.Lock()
	apps := b.users[username].applications
	out := make([]historyEntry, len(apps))
	for i, app := range apps {
		out[i] = historyEntry{JobID: app.JobID, JobTitle: app.JobTitle, Company: app.Company, Status: string(app.Status), AppliedDate: app.Timestamp}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

// historyEntry is the stored application shape returned by /applications.
type historyEntry struct {
	JobID       string `json:"job_id"`
	JobTitle    string `json:"job_title"`
	Company     string `json:"company"`
	Status      string `json:"status"`
	AppliedDate string `json:"applied_date"`
}

func (b *Backend) handleStop(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)

	b.mu.Lock()
	acct := b.users[username]
	slot := acct.run
	acct.run = nil
	b.mu.Unlock()

	if slot == nil {
		writeError(w, http.StatusBadRequest, "No active automation session found")
		return
	}
	slot.cancel()

	b.logger.Info("automation stopped", "user", username)
	writeMessage(w, "Automation stopped successfully")
}

// outboxLocked returns the queue of events waiting for the user's channel.
func (b *Backend) outboxLocked(acct *account) chan channel.Event {
	if acct.outbox == nil {
		acct.outbox = make(chan channel.Event, outboxSize)
	}
	return acct.outbox
}

func (b *Backend) handleChannel(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	b.mu.Lock()
	acct, ok := b.users[username]
	if !ok {
		b.mu.Unlock()
		writeError(w, http.StatusNotFound, "User does not exist")
		return
	}
	outbox := b.outboxLocked(acct)
	acct.channelGen++
	gen := acct.channelGen
	b.mu.Unlock()

	conn, err := channel.Accept(w, r)
	if err != nil {
		b.logger.Warn("channel upgrade failed", "user", username, "error", err)
		return
	}
	defer conn.Close()
	b.logger.Debug("channel opened", "user", username)

	gone := make(chan struct{})
	go func() {
		conn.Wait()
		close(gone)
	}()

	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	for {
		b.mu.Lock()
		current := acct.channelGen == gen
		b.mu.Unlock()
		if !current {
			return
		}

		select {
		case <-gone:
			b.logger.Debug("channel closed by client", "user", username)
			return
		case <-b.quit:
			return
		case <-ticker.C:
			if err := conn.Send(channel.Event{Type: channel.EventHeartbeat}); err != nil {
				return
			}
		case e := <-outbox:
			if err := conn.Send(e); err != nil {
				b.logger.Warn("failed to deliver event", "user", username, "type", e.Type, "error", err)
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidation answers 422 with a list detail.
func writeValidation(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]string{{"msg": err.Error()}},
	})
}
