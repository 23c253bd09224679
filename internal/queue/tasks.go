package queue

import (
	"encoding/json"

	"github.com/bookstore-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlaced 下单后续处理任务
	TaskOrderPlaced = constants.TaskOrderPlaced
	// TaskOrderStateChanged 订单状态变更通知任务
	TaskOrderStateChanged = constants.TaskOrderStateChanged
)

// OrderPlacedPayload 下单后续处理任务载荷
type OrderPlacedPayload struct {
	OrderID uint `json:"order_id"`
	UserID  uint `json:"user_id"`
}

// OrderStateChangedPayload 订单状态变更任务载荷
type OrderStateChangedPayload struct {
	OrderID   uint `json:"order_id"`
	UserID    uint `json:"user_id"`
	FromState int  `json:"from_state"`
	ToState   int  `json:"to_state"`
}

// NewOrderPlacedTask 创建下单后续处理任务
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, body), nil
}

// NewOrderStateChangedTask 创建订单状态变更任务
func NewOrderStateChangedTask(payload OrderStateChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStateChanged, body), nil
}

// DecodeOrderPlaced 解析下单任务载荷
func DecodeOrderPlaced(task *asynq.Task) (OrderPlacedPayload, error) {
	var payload OrderPlacedPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// DecodeOrderStateChanged 解析状态变更任务载荷
func DecodeOrderStateChanged(task *asynq.Task) (OrderStateChangedPayload, error) {
	var payload OrderStateChangedPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
