package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/ports/repository/repositorytest"
)

type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) ComposeEmail(ctx context.Context, day time.Time) (*model.ReportEmail, error) {
	args := m.Called(ctx, day)
	if e := args.Get(0); e != nil {
		return e.(*model.ReportEmail), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendReport(ctx context.Context, email *model.ReportEmail) error {
	return m.Called(ctx, email).Error(0)
}

const body = `{"requestId":"req-1","reportDate":"2026-10-14","trigger":"schedule","requestedAt":"2026-10-15T04:36:00Z"}`

var reportDay = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

func message(b string) types.Message {
	return types.Message{MessageId: aws.String("m-1"), Body: aws.String(b)}
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, int32(20), calculateBackoff(1))
	assert.Equal(t, int32(40), calculateBackoff(2))
	assert.Equal(t, int32(2560), calculateBackoff(8))
	assert.Equal(t, int32(3600), calculateBackoff(9))
}

func TestProcess_SendsOnce(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	composer := new(MockComposer)
	mailer := new(MockMailer)
	email := &model.ReportEmail{Subject: "Oct14th2026 Timesheet"}

	repo.On("GetDispatch", mock.Anything, "req-1").Return(nil, nil)
	composer.On("ComposeEmail", mock.Anything, reportDay).Return(email, nil)
	mailer.On("SendReport", mock.Anything, email).Return(nil).Once()
	repo.On("SaveDispatch", mock.Anything, mock.MatchedBy(func(d model.ReportDispatch) bool {
		return d.RequestID == "req-1" && d.Status == model.DispatchCompleted
	})).Return(nil)

	p := NewProcessor(repo, composer, mailer, time.UTC)
	retry, delay, err := p.Process(context.Background(), message(body))

	require.NoError(t, err)
	assert.False(t, retry)
	assert.Zero(t, delay)
	mailer.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestProcess_SkipsCompleted(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	mailer := new(MockMailer)
	repo.On("GetDispatch", mock.Anything, "req-1").
		Return(&model.ReportDispatch{RequestID: "req-1", Status: model.DispatchCompleted}, nil)

	p := NewProcessor(repo, new(MockComposer), mailer, time.UTC)
	retry, _, err := p.Process(context.Background(), message(body))

	require.NoError(t, err)
	assert.False(t, retry)
	mailer.AssertNotCalled(t, "SendReport", mock.Anything, mock.Anything)
}

func TestProcess_RetriesWithBackoff(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	composer := new(MockComposer)
	mailer := new(MockMailer)
	email := &model.ReportEmail{}

	repo.On("GetDispatch", mock.Anything, "req-1").
		Return(&model.ReportDispatch{RequestID: "req-1", Status: model.DispatchPending, RetryCount: 2}, nil)
	composer.On("ComposeEmail", mock.Anything, reportDay).Return(email, nil)
	mailer.On("SendReport", mock.Anything, email).Return(errors.New("ses throttled"))
	repo.On("SaveDispatch", mock.Anything, mock.MatchedBy(func(d model.ReportDispatch) bool {
		return d.RetryCount == 3 && d.Status == model.DispatchPending
	})).Return(nil)

	p := NewProcessor(repo, composer, mailer, time.UTC)
	retry, delay, err := p.Process(context.Background(), message(body))

	assert.EqualError(t, err, "ses throttled")
	assert.True(t, retry)
	assert.Equal(t, int32(80), delay)
	repo.AssertExpectations(t)
}

func TestProcess_GivesUp(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	composer := new(MockComposer)

	repo.On("GetDispatch", mock.Anything, "req-1").
		Return(&model.ReportDispatch{RequestID: "req-1", Status: model.DispatchPending, RetryCount: MaxAttempts - 1}, nil)
	composer.On("ComposeEmail", mock.Anything, reportDay).Return(nil, errors.New("db gone"))
	repo.On("SaveDispatch", mock.Anything, mock.MatchedBy(func(d model.ReportDispatch) bool {
		return d.Status == model.DispatchFailed
	})).Return(nil)

	p := NewProcessor(repo, composer, new(MockMailer), time.UTC)
	retry, _, err := p.Process(context.Background(), message(body))

	assert.False(t, retry)
	assert.ErrorContains(t, err, "giving up")
	repo.AssertExpectations(t)
}

func TestProcess_MalformedMessages(t *testing.T) {
	p := NewProcessor(new(repositorytest.MockRepository), new(MockComposer), new(MockMailer), time.UTC)

	for _, b := range []string{`not json`, `{"reportDate":"2026-10-14"}`, `{"requestId":"r","reportDate":"10/14/2026"}`} {
		retry, _, err := p.Process(context.Background(), message(b))
		assert.Error(t, err, b)
		assert.False(t, retry, b)
	}
}

func TestProcess_CircuitOpensAfterFailures(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	composer := new(MockComposer)
	mailer := new(MockMailer)
	email := &model.ReportEmail{}

	repo.On("GetDispatch", mock.Anything, "req-1").Return(nil, nil)
	repo.On("SaveDispatch", mock.Anything, mock.Anything).Return(nil)
	composer.On("ComposeEmail", mock.Anything, reportDay).Return(email, nil)
	mailer.On("SendReport", mock.Anything, email).Return(errors.New("down"))

	p := NewProcessor(repo, composer, mailer, time.UTC)
	for i := 0; i < 3; i++ {
		_, _, _ = p.Process(context.Background(), message(body))
	}
	_, _, err := p.Process(context.Background(), message(body))

	assert.ErrorContains(t, err, "circuit breaker is open")
	mailer.AssertNumberOfCalls(t, "SendReport", 3)
}
