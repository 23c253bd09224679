package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OrderState 订单状态（封闭枚举）
type OrderState int

const (
	OrderStatePlaced     OrderState = 1 // 已下单
	OrderStateConfirmed  OrderState = 2 // 已确认
	OrderStateProcessing OrderState = 3 // 处理中
	OrderStateShipped    OrderState = 4 // 已发货
	OrderStateDelivered  OrderState = 5 // 已送达（计入营收）
	OrderStateCancelled  OrderState = 6 // 已取消
)

var orderStateLabels = map[OrderState]string{
	OrderStatePlaced:     "placed",
	OrderStateConfirmed:  "confirmed",
	OrderStateProcessing: "processing",
	OrderStateShipped:    "shipped",
	OrderStateDelivered:  "delivered",
	OrderStateCancelled:  "cancelled",
}

// AllOrderStates 按流程顺序返回全部状态
func AllOrderStates() []OrderState {
	return []OrderState{
		OrderStatePlaced,
		OrderStateConfirmed,
		OrderStateProcessing,
		OrderStateShipped,
		OrderStateDelivered,
		OrderStateCancelled,
	}
}

// Valid 是否为已定义状态
func (s OrderState) Valid() bool {
	_, ok := orderStateLabels[s]
	return ok
}

// IsTerminal 是否为终态
func (s OrderState) IsTerminal() bool {
	return s == OrderStateDelivered || s == OrderStateCancelled
}

// String 返回状态标签
func (s OrderState) String() string {
	if label, ok := orderStateLabels[s]; ok {
		return label
	}
	return "unknown(" + strconv.Itoa(int(s)) + ")"
}

// ParseOrderState 解析状态码或状态标签
func ParseOrderState(raw string) (OrderState, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return 0, fmt.Errorf("order state is empty")
	}
	if code, err := strconv.Atoi(value); err == nil {
		state := OrderState(code)
		if !state.Valid() {
			return 0, fmt.Errorf("unknown order state code: %d", code)
		}
		return state, nil
	}
	for state, label := range orderStateLabels {
		if label == value {
			return state, nil
		}
	}
	if value == "completed" {
		return OrderStateDelivered, nil
	}
	if value == "canceled" {
		return OrderStateCancelled, nil
	}
	return 0, fmt.Errorf("unknown order state: %s", raw)
}

// MarshalJSON 输出数字状态码
func (s OrderState) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// UnmarshalJSON 接受数字或字符串
func (s *OrderState) UnmarshalJSON(b []byte) error {
	var code int
	if err := json.Unmarshal(b, &code); err == nil {
		*s = OrderState(code)
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return err
	}
	parsed, err := ParseOrderState(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value 用于数据库写入
func (s OrderState) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan 用于数据库读取
func (s *OrderState) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*s = OrderState(v)
	case int32:
		*s = OrderState(v)
	case int:
		*s = OrderState(v)
	case []byte:
		code, err := strconv.Atoi(string(v))
		if err != nil {
			return err
		}
		*s = OrderState(code)
	case string:
		code, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*s = OrderState(code)
	case nil:
		*s = 0
	default:
		return fmt.Errorf("unsupported order state type %T", value)
	}
	return nil
}
