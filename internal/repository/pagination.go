package repository

import "gorm.io/gorm"

// maxPageSize 列表单页上限，防止后台导出式的大查询
const maxPageSize = 200

// paginate 分页 scope，pageSize<=0 表示不分页
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		limit, offset, ok := pageWindow(page, pageSize)
		if !ok {
			return db
		}
		return db.Limit(limit).Offset(offset)
	}
}

func pageWindow(page, pageSize int) (limit, offset int, ok bool) {
	if pageSize <= 0 {
		return 0, 0, false
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize, true
}
