package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestQueue(sender EmailSender, size, retries int) *EmailQueue {
	q := NewEmailQueue(sender, size, retries)
	q.backoff = func(int) time.Duration { return 0 }
	return q
}

func TestEmailQueue_Delivers(t *testing.T) {
	sender := new(MockEmailSender)
	sender.On("Send", mock.Anything, "jane@example.com", "Jane Smith", mock.Anything, mock.Anything).Return(nil)

	q := newTestQueue(sender, 10, 3)
	q.Start(context.Background(), 2)
	require.NoError(t, q.Send(context.Background(), "jane@example.com", "Jane Smith", "a", "body"))
	require.NoError(t, q.Send(context.Background(), "jane@example.com", "Jane Smith", "b", "body"))
	q.Stop()

	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestEmailQueue_Retries(t *testing.T) {
	t.Run("succeeds on second attempt", func(t *testing.T) {
		sender := new(MockEmailSender)
		sender.On("Send", mock.Anything, "john@example.com", "John Doe", "s", "b").Return(errors.New("421 try later")).Once()
		sender.On("Send", mock.Anything, "john@example.com", "John Doe", "s", "b").Return(nil).Once()

		q := newTestQueue(sender, 1, 3)
		q.Start(context.Background(), 1)
		require.NoError(t, q.Send(context.Background(), "john@example.com", "John Doe", "s", "b"))
		q.Stop()

		sender.AssertExpectations(t)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		sender := new(MockEmailSender)
		sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("550 rejected"))

		q := newTestQueue(sender, 1, 2)
		q.Start(context.Background(), 1)
		require.NoError(t, q.Send(context.Background(), "john@example.com", "John Doe", "s", "b"))
		q.Stop()

		sender.AssertNumberOfCalls(t, "Send", 3)
	})
}

func TestEmailQueue_Full(t *testing.T) {
	q := newTestQueue(new(MockEmailSender), 1, 0)

	require.NoError(t, q.Send(context.Background(), "a@b.c", "A", "s", "b"))
	assert.ErrorIs(t, q.Send(context.Background(), "a@b.c", "A", "s", "b"), ErrQueueFull)
}

func TestEmailQueue_Stopped(t *testing.T) {
	q := newTestQueue(new(MockEmailSender), 1, 0)
	q.Stop()
	q.Stop()

	assert.ErrorIs(t, q.Send(context.Background(), "a@b.c", "A", "s", "b"), ErrQueueStopped)
}
