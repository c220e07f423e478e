package messaging

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// ReportPublisher queues report email requests for the report worker.
type ReportPublisher interface {
	PublishReport(ctx context.Context, event ReportRequestedEvent) error
}

// OutgoingMessage is one queue message. Attributes travel next to the body
// so consumers can route without decoding it.
type OutgoingMessage struct {
	QueueURL   string
	Body       []byte
	Attributes map[string]string
}

// MessageSender hands a message to the broker.
type MessageSender interface {
	Send(ctx context.Context, msg OutgoingMessage) error
}

// SQSClient is the subset of the SQS API the sender needs.
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}
