package service

import "github.com/bookstore-next/internal/models"

// allowedTransitions 订单状态流转表
// 正向流程逐级推进，非终态均可取消；送达与取消为终态。
var allowedTransitions = map[models.OrderState]map[models.OrderState]bool{
	models.OrderStatePlaced: {
		models.OrderStateConfirmed: true,
		models.OrderStateCancelled: true,
	},
	models.OrderStateConfirmed: {
		models.OrderStateProcessing: true,
		models.OrderStateCancelled:  true,
	},
	models.OrderStateProcessing: {
		models.OrderStateShipped:   true,
		models.OrderStateCancelled: true,
	},
	models.OrderStateShipped: {
		models.OrderStateDelivered: true,
		models.OrderStateCancelled: true,
	},
}

func isTransitionAllowed(from, to models.OrderState) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	return allowedTransitions[from][to]
}

// NextOrderStates 返回当前状态可流转的目标状态（按流程顺序）
func NextOrderStates(from models.OrderState) []models.OrderState {
	next := make([]models.OrderState, 0, 2)
	for _, candidate := range models.AllOrderStates() {
		if isTransitionAllowed(from, candidate) {
			next = append(next, candidate)
		}
	}
	return next
}
