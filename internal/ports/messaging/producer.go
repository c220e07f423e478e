package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Message attribute names set on every report request.
const (
	AttrEventType  = "event_type"
	AttrReportDate = "report_date"
	AttrTrigger    = "trigger"

	EventReportRequested = "report.requested"
)

type Producer struct {
	sender         MessageSender
	reportQueueURL string
}

func NewProducer(sender MessageSender, reportQueueURL string) *Producer {
	return &Producer{
		sender:         sender,
		reportQueueURL: reportQueueURL,
	}
}

func NewSQSProducer(client SQSClient, reportQueueURL string) *Producer {
	return NewProducer(NewSQSSender(client), reportQueueURL)
}

func (p *Producer) PublishReport(ctx context.Context, event ReportRequestedEvent) error {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("app.report_request_id", event.RequestID),
		attribute.String("app.report_date", event.ReportDate),
	)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal report request: %w", err)
	}

	err = p.sender.Send(ctx, OutgoingMessage{
		QueueURL: p.reportQueueURL,
		Body:     body,
		Attributes: map[string]string{
			AttrEventType:  EventReportRequested,
			AttrReportDate: event.ReportDate,
			AttrTrigger:    string(event.Trigger),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
