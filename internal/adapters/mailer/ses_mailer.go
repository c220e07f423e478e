package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"timeclock.service/internal/core/model"
	"timeclock.service/pkg/telemetry"
)

// SESClient is the part of the SES API the mailer uses.
type SESClient interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type SESMailer struct {
	client     SESClient
	sender     string
	recipients []string
}

func NewSESMailer(client SESClient, sender string, recipients []string) *SESMailer {
	return &SESMailer{client: client, sender: sender, recipients: recipients}
}

// SendReport delivers the composed report email with its attachment.
func (s *SESMailer) SendReport(ctx context.Context, email *model.ReportEmail) error {
	tracer := otel.Tracer("ses-mailer")
	ctx, span := tracer.Start(ctx, "send_report_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if reqID := telemetry.GetRequestIDFromContext(ctx); reqID != "" {
		span.SetAttributes(attribute.String("app.report_request_id", reqID))
	}
	span.SetAttributes(attribute.Int("app.recipients", len(s.recipients)))

	if len(s.recipients) == 0 {
		return fmt.Errorf("no report recipients configured")
	}

	raw, err := BuildMessage(Message{
		From:       s.sender,
		To:         s.recipients,
		Subject:    email.Subject,
		HTMLBody:   email.HTMLBody,
		Attachment: email.Attachment,
	})
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	_, err = s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(s.sender),
		Destinations: s.recipients,
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}
