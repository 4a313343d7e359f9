package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// getDB 从context获取事务DB，没有则使用默认DB
// 各Repository共享此事务传递机制
func getDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// isDuplicateError 判断是否为MySQL唯一索引冲突错误
// MySQL错误码1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查：错误信息包含"Duplicate entry"
	return strings.Contains(err.Error(), "Duplicate entry")
}
