package order

import (
	"fmt"
	"sync"
	"time"
)

// 订单号位分配（64位整数）：
//
//	| 1位符号 | 41位毫秒时间戳 | 10位节点ID | 12位序列号 |
//
// 设计说明：
// 1. 原方案"秒级时间戳+两位随机数"在高并发下碰撞概率高，这里改用
//    雪花算法变体：同一毫秒内单节点可生成4096个不重复订单号
// 2. 节点ID从配置注入（0-1023），多实例部署时各实例配置不同节点ID
// 3. 时间戳基于自定义纪元，可用到2090年左右
const (
	nodeBits     = 10
	sequenceBits = 12

	maxNodeID   = -1 ^ (-1 << nodeBits)     // 1023
	maxSequence = -1 ^ (-1 << sequenceBits) // 4095

	nodeShift      = sequenceBits
	timestampShift = nodeBits + sequenceBits
)

// epoch 自定义纪元：2021-01-01 00:00:00 UTC（毫秒）
const epoch int64 = 1609459200000

// NoGenerator 订单号生成器
// 并发安全：内部用互斥锁串行化，同一毫秒内序列号递增
type NoGenerator struct {
	mu       sync.Mutex
	nodeID   int64 // 节点ID（0-1023）
	lastMs   int64 // 上次生成订单号的毫秒时间戳
	sequence int64 // 当前毫秒内的序列号
}

// NewNoGenerator 创建订单号生成器
func NewNoGenerator(nodeID int64) (*NoGenerator, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("节点ID超出范围[0, %d]: %d", maxNodeID, nodeID)
	}
	return &NoGenerator{nodeID: nodeID}, nil
}

// Next 生成下一个订单号
// 同一毫秒内序列号耗尽时自旋等待下一毫秒
func (g *NoGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()

	// 时钟回拨保护：不倒退，沿用上次时间戳继续递增序列号
	if now < g.lastMs {
		now = g.lastMs
	}

	if now == g.lastMs {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			// 序列号用尽，等待下一毫秒
			for now <= g.lastMs {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastMs = now

	return (now-epoch)<<timestampShift | g.nodeID<<nodeShift | g.sequence
}
