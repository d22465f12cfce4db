package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/services"
	"github.com/desertthunder/cogniapply/internal/shared"
	"github.com/desertthunder/cogniapply/internal/tasks"
)

// View is a top-level screen of the TUI.
type View int

const (
	LoadingView View = iota
	LoginView
	RegisterView
	DashboardView
)

// HistorySource returns cached run outcomes.
type HistorySource interface {
	History(username string, limit int) ([]models.JobApplication, error)
}

// Deps are the components driven by the TUI.
type Deps struct {
	Services     *services.Services
	Controller   *tasks.Controller
	Navigator    *Navigator
	Presenter    *Presenter
	History      HistorySource
	HistoryLimit int
	DefaultLimit int
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	deps   Deps
	view   View
	width  int
	height int

	session *models.Session
	profile *models.Profile

	login       form
	register    form
	profileForm form
	search      form

	applications list.Model
	progress     progress.Model
	run          tasks.RunState
	notice       Notification
	hasNotice    bool
	busy         bool

	runWake chan struct{}
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The model observes deps.Controller; run snapshots are picked up on the next update.
func NewModel(ctx context.Context, deps Deps) *Model {
	m := &Model{
		ctx:          ctx,
		deps:         deps,
		view:         LoadingView,
		login:        newLoginForm(),
		register:     newRegisterForm(),
		profileForm:  newProfileForm(),
		search:       newSearchForm(),
		applications: newApplicationList(),
		progress:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		runWake:      make(chan struct{}, 1),
		help:         help.New(),
		keys:         newKeyMap(),
	}
	if deps.DefaultLimit > 0 {
		m.search.SetValue("applications_limit", strconv.Itoa(deps.DefaultLimit))
	}
	deps.Navigator.SelectedResume(m.hasNewResume)

	deps.Controller.Observe(func(tasks.RunState) {
		select {
		case m.runWake <- struct{}{}:
		default:
		}
	})
	return m
}

func newLoginForm() form {
	return newForm(
		fieldDef{key: "username", label: "Username"},
		fieldDef{key: "email", label: "Email"},
		fieldDef{key: "password", label: "Password", secret: true},
	)
}

func newRegisterForm() form {
	return newForm(
		fieldDef{key: "username", label: "Username"},
		fieldDef{key: "email", label: "Email"},
		fieldDef{key: "password", label: "Password", secret: true},
		fieldDef{key: "confirm_password", label: "Confirm password", secret: true},
	)
}

func newProfileForm() form {
	return newForm(
		fieldDef{key: "full_name", label: "Full name"},
		fieldDef{key: "phone", label: "Phone"},
		fieldDef{key: "dob", label: "Date of birth"},
		fieldDef{key: "job_title_preference", label: "Preferred job title"},
		fieldDef{key: "experience_years", label: "Experience (years)"},
		fieldDef{key: "salary_range", label: "Salary range"},
		fieldDef{key: "skills", label: "Skills"},
		fieldDef{key: "linkedin_url", label: "LinkedIn URL"},
		fieldDef{key: "github_url", label: "GitHub URL"},
		fieldDef{key: "portfolio_url", label: "Portfolio URL"},
		fieldDef{key: "linkedin_email", label: "LinkedIn email"},
		fieldDef{key: "linkedin_password", label: "LinkedIn password", secret: true},
		fieldDef{key: "resume_path", label: "Resume file"},
		fieldDef{key: "cover_path", label: "Cover letter file"},
	)
}

func newSearchForm() form {
	return newForm(
		fieldDef{key: "job_title", label: "Job title"},
		fieldDef{key: "location", label: "Location"},
		fieldDef{key: "applications_limit", label: "Applications limit"},
	)
}

// Init attempts a silent resume and starts listening for notifications and run updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.resume(), m.waitNotice(), m.waitRun(), textinput.Blink)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applications.SetSize(max(msg.Width-4, 20), max(msg.Height-10, 5))
		m.progress.Width = min(max(msg.Width-8, 10), 60)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.deps.Controller.Detach()
			return m, tea.Quit
		}

		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case RegisterView:
			return m.handleRegisterKeys(msg)
		case DashboardView:
			return m.handleDashboardKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgResumed:
		r := msg.data.(sessionResult)
		if r.err != nil {
			m.view = LoginView
			if !errors.Is(r.err, shared.ErrNotAuthenticated) {
				m.notify(r.err)
			}
			return m, nil
		}
		return m, m.enterDashboard(r.session, r.profile)

	case MsgLoggedIn:
		m.busy = false
		r := msg.data.(sessionResult)
		if r.err != nil {
			m.notify(r.err)
		}
		if r.session == nil {
			return m, nil
		}
		m.login.Reset()
		return m, m.enterDashboard(r.session, r.profile)

	case MsgRegistered:
		m.busy = false
		if err, _ := msg.data.(error); err != nil {
			m.notify(err)
			return m, nil
		}
		m.login.SetValue("username", m.register.Value("username"))
		m.login.SetValue("email", m.register.Value("email"))
		m.register.Reset()
		m.view = LoginView
		m.deps.Presenter.Notify("Registration successful. Please log in.", models.LevelSuccess)
		return m, nil

	case MsgProfileSaved:
		m.busy = false
		r := msg.data.(profileResult)
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.setProfile(r.profile)
		m.deps.Presenter.Notify("Profile saved successfully.", models.LevelSuccess)
		return m, nil

	case MsgAttachmentDeleted:
		r := msg.data.(attachmentResult)
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		m.profile = m.deps.Services.Profiles.Cached()
		m.deps.Presenter.Notify(fmt.Sprintf("%s deleted.", attachmentLabel(r.kind)), models.LevelSuccess)
		return m, nil

	case MsgApplicationsFetched:
		r := msg.data.(applicationsResult)
		if r.err != nil {
			m.fail(r.err)
			return m, nil
		}
		return m, m.applications.SetItems(applicationItems(r.apps))

	case MsgRunStarted:
		m.busy = false
		r := msg.data.(runResult)
		if r.err != nil && (errors.Is(r.err, shared.ErrValidation) || errors.Is(r.err, shared.ErrNotAuthenticated)) {
			m.fail(r.err)
		}
		return m, nil

	case MsgRunStopped:
		if err, _ := msg.data.(error); err != nil {
			m.fail(err)
			return m, nil
		}
		m.deps.Presenter.Notify("Automation stopped.", models.LevelInfo)
		return m, nil

	case MsgRunChanged:
		return m, tea.Batch(m.applyRunState(m.deps.Controller.State()), m.waitRun())

	case MsgNotified:
		n, ok := m.deps.Presenter.Visible(time.Now())
		if !ok {
			return m, m.waitNotice()
		}
		m.notice, m.hasNotice = n, true
		remaining := time.Until(n.Shown.Add(NotificationTTL))
		return m, tea.Batch(m.waitNotice(), tea.Tick(remaining, func(time.Time) tea.Msg { return dismissMsg(n.ID) }))

	case MsgDismiss:
		id := msg.data.(uint64)
		m.deps.Presenter.Dismiss(id)
		if m.hasNotice && m.notice.ID == id {
			m.hasNotice = false
		}
		return m, nil
	}
	return m, nil
}

// applyRunState keeps the newest snapshot; older deliveries are dropped.
func (m *Model) applyRunState(s tasks.RunState) tea.Cmd {
	if s.Seq <= m.run.Seq {
		return nil
	}
	m.run = s
	if s.Finished && len(s.Results) > 0 {
		return m.applications.SetItems(applicationItems(s.Results))
	}
	return nil
}

func (m *Model) enterDashboard(session *models.Session, profile *models.Profile) tea.Cmd {
	m.session = session
	m.setProfile(profile)
	m.view = DashboardView
	if m.deps.Navigator.Restore() == models.SectionApplications {
		return m.loadHistory()
	}
	return nil
}

func (m *Model) setProfile(p *models.Profile) {
	m.profile = p
	form := models.FormFromProfile(p)
	for k, v := range map[string]string{
		"full_name":            form.FullName,
		"phone":                form.Phone,
		"dob":                  form.DOB,
		"job_title_preference": form.JobTitlePreference,
		"experience_years":     form.ExperienceYears,
		"salary_range":         form.SalaryRange,
		"skills":               form.Skills,
		"linkedin_url":         form.LinkedInURL,
		"github_url":           form.GitHubURL,
		"portfolio_url":        form.PortfolioURL,
		"resume_path":          "",
		"cover_path":           "",
	} {
		m.profileForm.SetValue(k, v)
	}
	if p != nil {
		m.profileForm.SetValue("linkedin_email", p.LinkedInEmail)
	}
	m.profileForm.SetValue("linkedin_password", "")
}

// hasNewResume reports whether a resume file is entered in the profile form but not saved.
func (m *Model) hasNewResume() bool {
	return strings.TrimSpace(m.profileForm.Value("resume_path")) != ""
}

// notify shows err as the user-facing error notification.
func (m *Model) notify(err error) {
	m.deps.Presenter.Notify(shared.UserMessage(err), models.LevelError)
}

// fail reports err for a dashboard action. A rejected session is discarded and
// the user is sent back to the login view.
func (m *Model) fail(err error) {
	if m.session == nil || !errors.Is(err, shared.ErrNotAuthenticated) {
		m.notify(err)
		return
	}
	if clearErr := m.endSession(); clearErr != nil {
		m.notify(clearErr)
		return
	}
	m.deps.Presenter.Notify(sessionExpired, models.LevelError)
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.loginCmd(models.Credentials{
			Username: strings.TrimSpace(m.login.Value("username")),
			Email:    strings.TrimSpace(m.login.Value("email")),
			Password: m.login.Value("password"),
		})
	case key.Matches(msg, m.keys.register):
		m.view = RegisterView
		return m, nil
	}
	return m, m.login.Update(msg)
}

func (m *Model) handleRegisterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.registerCmd(models.Registration{
			Username: strings.TrimSpace(m.register.Value("username")),
			Email:    strings.TrimSpace(m.register.Value("email")),
			Password: m.register.Value("password"),
			Confirm:  m.register.Value("confirm_password"),
		})
	case key.Matches(msg, m.keys.back):
		m.view = LoginView
		return m, nil
	}
	return m, m.register.Update(msg)
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.profile):
		return m, m.show(models.SectionProfile)
	case key.Matches(msg, m.keys.jobSearch):
		return m, m.show(models.SectionJobSearch)
	case key.Matches(msg, m.keys.applications):
		return m, m.show(models.SectionApplications)
	case key.Matches(msg, m.keys.logout):
		m.logout()
		return m, nil
	}

	switch m.deps.Navigator.Current() {
	case models.SectionProfile:
		return m.handleProfileKeys(msg)
	case models.SectionJobSearch:
		return m.handleSearchKeys(msg)
	case models.SectionApplications:
		return m.handleApplicationKeys(msg)
	}
	return m, nil
}

func (m *Model) show(section models.Section) tea.Cmd {
	if err := m.deps.Navigator.Show(section); err != nil {
		m.notify(err)
		return nil
	}
	if section == models.SectionApplications {
		return m.loadHistory()
	}
	return nil
}

const sessionExpired = "Your session has expired. Please log in again."

func (m *Model) logout() {
	if err := m.endSession(); err != nil {
		m.notify(err)
		return
	}
	m.deps.Presenter.Notify("Logged out.", models.LevelInfo)
}

// endSession detaches from any run, clears the stored session and shows the login view.
func (m *Model) endSession() error {
	m.deps.Controller.Detach()
	err := m.deps.Services.Auth.Logout()
	m.session = nil
	m.profile = nil
	m.run = tasks.RunState{Seq: m.run.Seq}
	m.profileForm.Reset()
	m.applications.SetItems(nil)
	m.view = LoginView
	return err
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.saveProfileCmd(m.profileFormValue(), m.profileForm.Value("resume_path"), m.profileForm.Value("cover_path"))
	case key.Matches(msg, m.keys.remove):
		return m, m.deleteAttachmentCmd(m.focusedAttachment())
	case key.Matches(msg, m.keys.open):
		if m.profile == nil {
			return m, nil
		}
		if err := shared.OpenDocument(m.deps.Services.Profiles.DocumentURL(m.focusedAttachment())); err != nil {
			m.notify(err)
		}
		return m, nil
	}
	return m, m.profileForm.Update(msg)
}

// focusedAttachment is the cover letter when its field has focus and the resume otherwise.
func (m *Model) focusedAttachment() models.AttachmentKind {
	if m.profileForm.Focused() == "cover_path" {
		return models.AttachmentCoverLetter
	}
	return models.AttachmentResume
}

func (m *Model) profileFormValue() models.ProfileForm {
	f := models.ProfileForm{
		FullName:           m.profileForm.Value("full_name"),
		Phone:              m.profileForm.Value("phone"),
		DOB:                m.profileForm.Value("dob"),
		JobTitlePreference: m.profileForm.Value("job_title_preference"),
		ExperienceYears:    m.profileForm.Value("experience_years"),
		SalaryRange:        m.profileForm.Value("salary_range"),
		Skills:             m.profileForm.Value("skills"),
		LinkedInURL:        m.profileForm.Value("linkedin_url"),
		GitHubURL:          m.profileForm.Value("github_url"),
		PortfolioURL:       m.profileForm.Value("portfolio_url"),
	}

	creds := models.PlatformCredentials{
		Email:    m.profileForm.Value("linkedin_email"),
		Password: m.profileForm.Value("linkedin_password"),
	}
	if creds.Set() {
		f.Credentials = &creds
	}
	return f
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		if m.busy {
			return m, nil
		}
		if m.run.Running {
			m.deps.Presenter.Notify("An automation run is already in progress.", models.LevelInfo)
			return m, nil
		}
		criteria, err := m.criteria()
		if err != nil {
			m.notify(err)
			return m, nil
		}
		m.busy = true
		return m, m.startCmd(criteria)
	case key.Matches(msg, m.keys.stop):
		return m, m.stopCmd()
	}
	return m, m.search.Update(msg)
}

func (m *Model) criteria() (models.SearchCriteria, error) {
	raw := strings.TrimSpace(m.search.Value("applications_limit"))
	limit, err := strconv.Atoi(raw)
	if raw != "" && err != nil {
		return models.SearchCriteria{}, &shared.ValidationError{Field: "applications_limit", Reason: "must be a number"}
	}
	return models.SearchCriteria{
		JobTitle:          m.search.Value("job_title"),
		Location:          m.search.Value("location"),
		ApplicationsLimit: limit,
	}, nil
}

func (m *Model) handleApplicationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.refresh) && m.applications.FilterState() != list.Filtering {
		return m, m.fetchApplicationsCmd()
	}

	var cmd tea.Cmd
	m.applications, cmd = m.applications.Update(msg)
	return m, cmd
}

// updateFocused forwards non-key messages such as cursor blinks to the visible form.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	switch m.view {
	case LoginView:
		return m.login.Update(msg)
	case RegisterView:
		return m.register.Update(msg)
	case DashboardView:
		switch m.deps.Navigator.Current() {
		case models.SectionProfile:
			return m.profileForm.Update(msg)
		case models.SectionJobSearch:
			return m.search.Update(msg)
		case models.SectionApplications:
			var cmd tea.Cmd
			m.applications, cmd = m.applications.Update(msg)
			return cmd
		}
	}
	return nil
}

func (m *Model) resume() tea.Cmd {
	return func() tea.Msg {
		session, profile, err := m.deps.Services.Auth.Resume(m.ctx)
		return resumedMsg(session, profile, err)
	}
}

func (m *Model) loginCmd(creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		profile, err := m.deps.Services.Auth.Login(m.ctx, creds)
		session, serr := m.deps.Services.Auth.Current()
		if serr != nil {
			session = nil
		}
		return loggedInMsg(session, profile, err)
	}
}

func (m *Model) registerCmd(reg models.Registration) tea.Cmd {
	return func() tea.Msg {
		return registeredMsg(m.deps.Services.Auth.Register(m.ctx, reg))
	}
}

func (m *Model) saveProfileCmd(form models.ProfileForm, resumePath, coverPath string) tea.Cmd {
	return func() tea.Msg {
		attachments, closeAll, err := services.OpenAttachments(resumePath, coverPath)
		defer closeAll()
		if err != nil {
			return profileSavedMsg(nil, err)
		}
		profile, err := m.deps.Services.Profiles.SaveProfile(m.ctx, form, attachments)
		return profileSavedMsg(profile, err)
	}
}

func (m *Model) deleteAttachmentCmd(kind models.AttachmentKind) tea.Cmd {
	return func() tea.Msg {
		return attachmentDeletedMsg(kind, m.deps.Services.Profiles.DeleteAttachment(m.ctx, kind))
	}
}

func (m *Model) loadHistory() tea.Cmd {
	if m.deps.History == nil || m.session == nil {
		return m.fetchApplicationsCmd()
	}
	username, limit := m.session.Username, m.deps.HistoryLimit
	return func() tea.Msg {
		apps, err := m.deps.History.History(username, limit)
		if err == nil && len(apps) == 0 {
			apps, err = m.deps.Services.Automation.Applications(m.ctx)
		}
		return applicationsFetchedMsg(apps, err)
	}
}

func (m *Model) fetchApplicationsCmd() tea.Cmd {
	return func() tea.Msg {
		apps, err := m.deps.Services.Automation.Applications(m.ctx)
		return applicationsFetchedMsg(apps, err)
	}
}

func (m *Model) startCmd(criteria models.SearchCriteria) tea.Cmd {
	return func() tea.Msg {
		runID, err := m.deps.Controller.Start(m.ctx, criteria)
		return runStartedMsg(runID, err)
	}
}

func (m *Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		return runStoppedMsg(m.deps.Controller.Stop(m.ctx))
	}
}

func (m *Model) waitRun() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.runWake:
			return runChangedMsg()
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitNotice() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.deps.Presenter.Wake():
			return notifiedMsg()
		case <-m.ctx.Done():
			return nil
		}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case LoadingView:
		body = styles.help.Render("Restoring session...")
	case LoginView:
		body = m.renderLogin()
	case RegisterView:
		body = m.renderRegister()
	case DashboardView:
		body = m.renderDashboard()
	}

	if m.hasNotice {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", renderNotice(m.notice))
	}
	return body
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Log in to CogniApply")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.next, m.keys.register, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, m.login.View(), helpView)
}

func (m *Model) renderRegister() string {
	title := styles.title.Render("Create an account")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.next, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, m.register.View(), helpView)
}

func (m *Model) renderDashboard() string {
	current := m.deps.Navigator.Current()

	var tabs []string
	for _, s := range models.Sections {
		if s == current {
			tabs = append(tabs, styles.active.Render(s.Title()))
		} else {
			tabs = append(tabs, styles.tab.Render(s.Title()))
		}
	}

	user := ""
	if m.session != nil {
		user = styles.help.Render("Signed in as " + m.session.Username)
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render("CogniApply"),
		user,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)

	var body string
	var helpKeys []key.Binding
	switch current {
	case models.SectionProfile:
		body = m.renderProfile()
		helpKeys = []key.Binding{m.keys.submit, m.keys.next, m.keys.remove, m.keys.open}
	case models.SectionJobSearch:
		body = m.renderSearch()
		helpKeys = []key.Binding{m.keys.submit, m.keys.next, m.keys.stop}
	case models.SectionApplications:
		body = m.applications.View()
		helpKeys = []key.Binding{m.keys.refresh}
	}
	helpKeys = append(helpKeys, m.keys.profile, m.keys.jobSearch, m.keys.applications, m.keys.logout, m.keys.quit)

	return fmt.Sprintf("%s\n\n%s\n%s", header, body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderProfile() string {
	status := styles.warn.Render("Profile incomplete: job search is locked")
	if m.profile.Complete(m.hasNewResume()) {
		status = styles.ok.Render("Profile complete")
	}

	docs := []string{}
	for _, kind := range []models.AttachmentKind{models.AttachmentResume, models.AttachmentCoverLetter} {
		ref := "none"
		if m.profile != nil && m.profile.Attachment(kind) != "" {
			ref = m.profile.Attachment(kind)
		}
		docs = append(docs, styles.label.Render(attachmentLabel(kind))+ref)
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n", status, m.profileForm.View(), strings.Join(docs, "\n"))
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.search.View())

	if m.run.RunID == "" {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(float64(m.run.Progress.Percent) / 100))
	fmt.Fprintf(&b, " %d%%\n", m.run.Progress.Percent)
	fmt.Fprintf(&b, "%s %s\n", styles.info.Render(stageLabel(m.run.Progress.Stage)), m.run.Progress.Message)

	switch {
	case m.run.NoMatches():
		b.WriteString(styles.warn.Render("No matching jobs found. Applications may require manual submission."))
		b.WriteString("\n")
	case m.run.Finished && m.run.Summary != nil:
		fmt.Fprintf(&b, "%s found %d, applied %d, success rate %s\n",
			styles.ok.Render("Run complete:"), m.run.Summary.TotalFound, m.run.Summary.TotalApplied, m.run.Summary.Rate())
	case m.run.Running:
		b.WriteString(styles.help.Render("Automation running"))
		b.WriteString("\n")
	}
	return b.String()
}

func stageLabel(s tasks.Stage) string {
	label := s.String()
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func attachmentLabel(kind models.AttachmentKind) string {
	if kind == models.AttachmentCoverLetter {
		return "Cover letter"
	}
	return "Resume"
}
