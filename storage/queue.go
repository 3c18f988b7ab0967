package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"

	"actividad-api/domain"
)

// EventQueue publishes change events to an Azure Storage queue.
type EventQueue struct {
	queue *azqueue.QueueClient
}

// NewEventQueue creates an EventQueue from the given connection string.
func NewEventQueue(connStr, queueName string) (*EventQueue, error) {
	queueClientOptions := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    5,
				TryTimeout:    time.Minute * 5,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 60,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	q, err := azqueue.NewQueueClientFromConnectionString(connStr, queueName, &queueClientOptions)
	if err != nil {
		return nil, err
	}
	return &EventQueue{queue: q}, nil
}

// Ensure creates the queue when it does not exist yet.
func (q *EventQueue) Ensure(ctx context.Context) error {
	_, err := q.queue.Create(ctx, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == "QueueAlreadyExists") {
			return err
		}
	}
	return nil
}

// EncodeEvent renders an event as a queue message body.
func EncodeEvent(ev domain.ChangeEvent) (string, error) {
	data, err := sonic.Marshal(ev)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PublishEvents sends the events in order. It stops at the first failure.
func (q *EventQueue) PublishEvents(ctx context.Context, events []domain.ChangeEvent) error {
	for _, ev := range events {
		msg, err := EncodeEvent(ev)
		if err != nil {
			return err
		}
		if _, err := q.queue.EnqueueMessage(ctx, msg, nil); err != nil {
			return err
		}
	}
	return nil
}
