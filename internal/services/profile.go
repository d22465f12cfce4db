package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
)

// ProfileService keeps the client's copy of the profile in step with the backend.
//
// The cached profile is replaced only by successful fetches and saves, so a failed
// request never leaves a partially applied change behind.
type ProfileService struct {
	api *APIService

	mu     sync.RWMutex
	cached *models.Profile
}

// NewProfileService creates a ProfileService backed by api.
func NewProfileService(api *APIService) *ProfileService {
	return &ProfileService{api: api}
}

// FetchProfile retrieves the stored profile and updates the cache.
func (s *ProfileService) FetchProfile(ctx context.Context) (*models.Profile, error) {
	resp, err := s.api.Get(ctx, "/profile")
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := resp.Decode(&profile); err != nil {
		return nil, err
	}

	s.setCached(&profile)
	return profile.Clone(), nil
}

// SaveProfile validates form, uploads it with any new documents and returns the stored profile.
//
// Nothing is sent when a required field is missing or when neither a new nor a stored resume exists.
// Platform credentials already on file are sent again when the form carries none.
func (s *ProfileService) SaveProfile(ctx context.Context, form models.ProfileForm, attachments models.Attachments) (*models.Profile, error) {
	form.Trim()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	cached := s.Cached()
	if !attachments.HasResume() && (cached == nil || cached.ResumeURL == "") {
		return nil, &shared.ValidationError{Field: "resume"}
	}

	if form.Credentials == nil || !form.Credentials.Set() {
		if cached != nil && cached.Credentials().Set() {
			creds := cached.Credentials()
			form.Credentials = &creds
		}
	}

	var files []FilePart
	if attachments.HasResume() {
		files = append(files, FilePart{Field: "file_resume", Filename: attachments.Resume.Filename, Content: attachments.Resume.Content})
	}
	if attachments.CoverLetter != nil && attachments.CoverLetter.Content != nil {
		files = append(files, FilePart{Field: "file_cover", Filename: attachments.CoverLetter.Filename, Content: attachments.CoverLetter.Content})
	}

	resp, err := s.api.PostMultipart(ctx, "/profile", form.Fields(), files)
	if err != nil {
		return nil, err
	}

	if !isProfileBody(resp) {
		return s.FetchProfile(ctx)
	}

	var profile models.Profile
	if err := resp.Decode(&profile); err != nil {
		return nil, err
	}

	s.setCached(&profile)
	return profile.Clone(), nil
}

// DeleteAttachment removes a stored document. The cache changes only when the backend confirms.
func (s *ProfileService) DeleteAttachment(ctx context.Context, kind models.AttachmentKind) error {
	if _, err := models.ParseAttachmentKind(string(kind)); err != nil {
		return err
	}

	if _, err := s.api.PostJSON(ctx, "/delete-file", map[string]string{"file_type": string(kind)}, true); err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}

	s.mu.Lock()
	if s.cached != nil {
		s.cached.RemoveAttachment(kind)
	}
	s.mu.Unlock()
	return nil
}

// Cached returns a copy of the last known profile, or nil before the first fetch.
func (s *ProfileService) Cached() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached.Clone()
}

// DocumentURL returns the absolute URL of a stored document, or "" when none is stored.
//
// The backend reports document locations relative to its root.
func (s *ProfileService) DocumentURL(kind models.AttachmentKind) string {
	ref := s.Cached().Attachment(kind)
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return s.api.BaseURL() + "/" + strings.TrimLeft(ref, "/")
}

// Complete reports whether the cached profile allows an automation run.
func (s *ProfileService) Complete(hasNewResume bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached.Complete(hasNewResume)
}

// Reset forgets the cached profile.
func (s *ProfileService) Reset() {
	s.setCached(nil)
}

func (s *ProfileService) setCached(p *models.Profile) {
	s.mu.Lock()
	s.cached = p
	s.mu.Unlock()
}

// isProfileBody distinguishes a returned profile from a bare acknowledgement such as {"message": "..."}.
func isProfileBody(resp *APIResponse) bool {
	obj, ok := resp.JSONData.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range []string{"full_name", "phone", "job_title_preference", "skills"} {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}
