package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/bookstore-next/internal/queue"

	"github.com/hibiken/asynq"
)

type recordingHandler struct {
	placed  []uint
	changed []queue.OrderStateChangedPayload
	err     error
}

func (h *recordingHandler) HandleOrderPlaced(_ context.Context, orderID uint) error {
	h.placed = append(h.placed, orderID)
	return h.err
}

func (h *recordingHandler) HandleOrderStateChanged(_ context.Context, payload queue.OrderStateChangedPayload) error {
	h.changed = append(h.changed, payload)
	return h.err
}

func TestConsumerDispatchesOrderPlaced(t *testing.T) {
	handler := &recordingHandler{}
	consumer := NewConsumer(handler)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	task, err := queue.NewOrderPlacedTask(queue.OrderPlacedPayload{OrderID: 11, UserID: 3})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task failed: %v", err)
	}
	if len(handler.placed) != 1 || handler.placed[0] != 11 {
		t.Fatalf("unexpected placed calls: %v", handler.placed)
	}
}

func TestConsumerDispatchesOrderStateChanged(t *testing.T) {
	handler := &recordingHandler{}
	consumer := NewConsumer(handler)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	task, err := queue.NewOrderStateChangedTask(queue.OrderStateChangedPayload{OrderID: 5, UserID: 2, FromState: 1, ToState: 6})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task failed: %v", err)
	}
	if len(handler.changed) != 1 || handler.changed[0].ToState != 6 {
		t.Fatalf("unexpected state calls: %+v", handler.changed)
	}
}

func TestConsumerSkipsInvalidPayloadAndPropagatesErrors(t *testing.T) {
	handler := &recordingHandler{}
	consumer := NewConsumer(handler)

	if err := consumer.handleOrderPlaced(context.Background(), asynq.NewTask(queue.TaskOrderPlaced, []byte(`{"order_id":0}`))); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}
	if len(handler.placed) != 0 {
		t.Fatalf("handler must not be called for invalid payload")
	}

	if err := consumer.handleOrderPlaced(context.Background(), asynq.NewTask(queue.TaskOrderPlaced, []byte(`not-json`))); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retry, got %v", err)
	}

	handler.err = errors.New("db down")
	task, _ := queue.NewOrderPlacedTask(queue.OrderPlacedPayload{OrderID: 9})
	if err := consumer.handleOrderPlaced(context.Background(), task); err == nil {
		t.Fatalf("handler error should be returned for retry")
	}

	if err := NewConsumer(nil).handleOrderPlaced(context.Background(), task); err != nil {
		t.Fatalf("consumer without handler should skip, got %v", err)
	}
}
