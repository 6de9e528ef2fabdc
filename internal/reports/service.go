// Package reports owns the outage report submission flow: draft validation,
// image-first upload, and creation against the backend.
package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"apagon-map/internal/models"
)

// Validation errors. These block submission locally; a draft failing them
// never reaches the network.
var (
	ErrDescriptionRequired = errors.New("reports: description is required")
	ErrCoordinatesRequired = errors.New("reports: latitude and longitude are required")
	ErrInvalidPowerStatus  = errors.New("reports: power status must be POWER or NO_POWER")
)

// ImageAttachment is an optional photo pending upload alongside a draft.
type ImageAttachment struct {
	Filename string
	Data     io.Reader
}

// Publisher announces created reports; implemented by mq.ReportNotifier.
type Publisher interface {
	PublishReportCreated(ctx context.Context, report *models.Report) error
}

// Service runs the submission flow.
type Service struct {
	client    *Client
	publisher Publisher
}

// NewService wires a Service. publisher may be nil when announcements are
// disabled.
func NewService(client *Client, publisher Publisher) *Service {
	return &Service{client: client, publisher: publisher}
}

// Validate checks a draft locally. Field-specific errors are returned in
// order: description first, then coordinates, then status.
func Validate(draft models.AddReport) error {
	if strings.TrimSpace(draft.Description) == "" {
		return ErrDescriptionRequired
	}
	if draft.Latitude == "" || draft.Longitude == "" {
		return ErrCoordinatesRequired
	}
	if !draft.PowerStatus.Valid() {
		return ErrInvalidPowerStatus
	}
	return nil
}

// Submit validates the draft, uploads the image if one is attached, then
// creates the report. An upload failure aborts the whole submission so no
// report is ever created pointing at an image that never made it upstream.
// On failure the caller keeps the draft for retry.
func (s *Service) Submit(ctx context.Context, token string, draft models.AddReport, image *ImageAttachment) (*models.Report, error) {
	if err := Validate(draft); err != nil {
		return nil, err
	}

	if image != nil {
		uri, err := s.client.UploadImage(ctx, token, image.Filename, image.Data)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		draft.ImageURI = uri
	}

	report, err := s.client.CreateReport(ctx, token, draft)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReportCreated(ctx, report); err != nil {
			// The report exists; a lost announcement is not a submission failure.
			log.Printf("[reports] publish report %d: %v", report.ID, err)
		}
	}
	return report, nil
}
