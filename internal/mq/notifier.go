package mq

import (
	"context"
	"time"

	"apagon-map/internal/models"
)

// ReportNotifier implements reports.Publisher by publishing to RabbitMQ.
type ReportNotifier struct {
	pub *Publisher
}

// NewReportNotifier creates a notifier that publishes created reports.
func NewReportNotifier(pub *Publisher) *ReportNotifier {
	return &ReportNotifier{pub: pub}
}

// PublishReportCreated publishes a report-created message to the exchange.
func (n *ReportNotifier) PublishReportCreated(ctx context.Context, report *models.Report) error {
	msg := ReportCreatedMsg{
		ReportID:    report.ID,
		Description: report.Description,
		PowerStatus: string(report.PowerStatus),
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		PhotoURL:    report.PhotoURL,
		CreatedAt:   time.Now().UTC(),
	}
	if report.Sector != nil {
		msg.SectorID = report.Sector.ID
		msg.SectorName = report.Sector.Name
	}
	return n.pub.Publish(ctx, RoutingReportCreated, msg)
}
