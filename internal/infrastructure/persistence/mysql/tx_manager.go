package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey 事务在context中的键（非导出类型，避免与其他包的键冲突）
type txKey struct{}

// TxManager 事务管理器
// 设计说明：
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB（避免全局变量），Repository的getDB
//    从context提取事务DB，没有则用默认连接
// 3. fn返回error时自动ROLLBACK，返回nil时自动COMMIT
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn内的所有Repository操作都在同一事务中执行：
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := orderRepo.Create(ctx, o); err != nil {
//	        return err // 自动回滚
//	    }
//	    return productRepo.DecreaseStock(ctx, id, qty) // nil则提交
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}
