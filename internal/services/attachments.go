package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
)

// OpenAttachments opens the documents at the given paths for upload. Empty paths are skipped.
//
// The returned close function releases every opened file and is safe to call on error.
func OpenAttachments(resumePath, coverPath string) (models.Attachments, func(), error) {
	var (
		attachments models.Attachments
		closers     []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	open := func(path string) (*models.Attachment, error) {
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot read %s: %v", shared.ErrInvalidInput, path, err)
		}
		closers = append(closers, f)
		return &models.Attachment{Filename: filepath.Base(path), Content: f}, nil
	}

	var err error
	if attachments.Resume, err = open(resumePath); err != nil {
		return models.Attachments{}, closeAll, err
	}
	if attachments.CoverLetter, err = open(coverPath); err != nil {
		return models.Attachments{}, closeAll, err
	}
	return attachments, closeAll, nil
}
