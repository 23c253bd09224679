package queue

import (
	"testing"

	"github.com/bookstore-next/internal/config"
)

func TestOrderPlacedTaskRoundTrip(t *testing.T) {
	task, err := NewOrderPlacedTask(OrderPlacedPayload{OrderID: 7, UserID: 3})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskOrderPlaced {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := DecodeOrderPlaced(task)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.OrderID != 7 || payload.UserID != 3 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestOrderStateChangedTaskCarriesStates(t *testing.T) {
	task, err := NewOrderStateChangedTask(OrderStateChangedPayload{OrderID: 1, UserID: 2, FromState: 1, ToState: 6})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskOrderStateChanged {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := DecodeOrderStateChanged(task)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.FromState != 1 || payload.ToState != 6 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("expected disabled client")
	}
	if err := client.EnqueueOrderPlaced(OrderPlacedPayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := client.EnqueueOrderStateChanged(OrderStateChangedPayload{OrderID: 1, ToState: 2}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues[CriticalQueue] <= cfg.Queues[DefaultQueue] {
		t.Fatalf("critical queue should outweigh default: %+v", cfg.Queues)
	}
	if cfg.ErrorHandler == nil {
		t.Fatalf("error handler should be set")
	}
}

func TestBuildRedisOptFromConfig(t *testing.T) {
	opt := buildRedisOpt(&config.QueueConfig{Host: " redis ", Port: 6380, Password: "pw", DB: 2})
	if opt.Addr != "redis:6380" || opt.Password != "pw" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
}

func TestOrderTaskIDs(t *testing.T) {
	if got := orderPlacedTaskID(42); got != "order:placed:42" {
		t.Fatalf("placed task id mismatch: %s", got)
	}
	if got := orderStateTaskID(42, 6); got != "order:state_changed:42:6" {
		t.Fatalf("state task id mismatch: %s", got)
	}
}
