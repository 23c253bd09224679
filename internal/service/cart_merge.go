package service

import (
	"sort"

	"github.com/bookstore-next/internal/models"
)

// CartLineUpdate 合并后需要覆盖数量的行项目
type CartLineUpdate struct {
	LineID uint
	Amount int
}

// MergeDuplicateLines 合并同一本书的重复行项目
// 数量汇总到 ID 最小的行，其余行返回为待删除。输入顺序不影响结果。
func MergeDuplicateLines(lines []models.CartLine) ([]CartLineUpdate, []uint) {
	if len(lines) < 2 {
		return nil, nil
	}
	sorted := make([]models.CartLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	keeper := make(map[uint]int, len(sorted))
	totals := make(map[uint]int, len(sorted))
	order := make([]uint, 0, len(sorted))
	deleteIDs := make([]uint, 0)
	for idx, line := range sorted {
		if _, ok := keeper[line.BookID]; !ok {
			keeper[line.BookID] = idx
			totals[line.BookID] = line.Amount
			order = append(order, line.BookID)
			continue
		}
		totals[line.BookID] += line.Amount
		deleteIDs = append(deleteIDs, line.ID)
	}
	if len(deleteIDs) == 0 {
		return nil, nil
	}

	updates := make([]CartLineUpdate, 0)
	for _, bookID := range order {
		kept := sorted[keeper[bookID]]
		if totals[bookID] == kept.Amount {
			continue
		}
		updates = append(updates, CartLineUpdate{LineID: kept.ID, Amount: totals[bookID]})
	}
	return updates, deleteIDs
}
