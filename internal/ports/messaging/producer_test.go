package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSQSClient struct {
	mock.Mock
}

func (m *MockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sqs.SendMessageOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestProducer_PublishReport(t *testing.T) {
	client := new(MockSQSClient)
	p := NewSQSProducer(client, "http://localstack:4566/000000000000/report-queue")

	event := ReportRequestedEvent{
		RequestID:   "req-1",
		ReportDate:  "2026-10-14",
		Trigger:     TriggerManual,
		RequestedAt: time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC),
	}

	var sent *sqs.SendMessageInput
	client.On("SendMessage", mock.Anything, mock.AnythingOfType("*sqs.SendMessageInput")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*sqs.SendMessageInput) }).
		Return(&sqs.SendMessageOutput{}, nil)

	require.NoError(t, p.PublishReport(context.Background(), event))
	require.NotNil(t, sent)
	assert.Equal(t, "http://localstack:4566/000000000000/report-queue", *sent.QueueUrl)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(*sent.MessageBody), &got))
	assert.Equal(t, "req-1", got["requestId"])
	assert.Equal(t, "2026-10-14", got["reportDate"])
	assert.Equal(t, "manual", got["trigger"])

	require.Contains(t, sent.MessageAttributes, AttrEventType)
	assert.Equal(t, EventReportRequested, *sent.MessageAttributes[AttrEventType].StringValue)
	assert.Equal(t, "2026-10-14", *sent.MessageAttributes[AttrReportDate].StringValue)
	assert.Equal(t, "manual", *sent.MessageAttributes[AttrTrigger].StringValue)
}

func TestProducer_SendFailure(t *testing.T) {
	client := new(MockSQSClient)
	p := NewSQSProducer(client, "q")
	client.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("queue down"))

	err := p.PublishReport(context.Background(), ReportRequestedEvent{RequestID: "r"})
	assert.ErrorContains(t, err, "failed to send message: queue down")
}
