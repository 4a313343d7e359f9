package payment

import (
	"context"
)

// Transactor 事务边界（由mysql.TxManager实现）
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
