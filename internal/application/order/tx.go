package order

import (
	"context"
)

// Transactor 事务边界
// 由mysql.TxManager实现；接口定义在使用方，测试时注入内存假实现
type Transactor interface {
	// Transaction fn返回error时回滚，返回nil时提交
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
