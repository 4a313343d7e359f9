package order

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNoGeneratorNodeIDRange(t *testing.T) {
	t.Run("合法节点ID", func(t *testing.T) {
		for _, nodeID := range []int64{0, 1, 512, 1023} {
			g, err := NewNoGenerator(nodeID)
			require.NoError(t, err)
			require.NotNil(t, g)
		}
	})

	t.Run("越界节点ID", func(t *testing.T) {
		for _, nodeID := range []int64{-1, 1024, 99999} {
			_, err := NewNoGenerator(nodeID)
			assert.Error(t, err, "节点ID %d 应该被拒绝", nodeID)
		}
	})
}

func TestNoGeneratorEmbedsNodeID(t *testing.T) {
	g, err := NewNoGenerator(42)
	require.NoError(t, err)

	no := g.Next()
	assert.Positive(t, no)
	assert.Equal(t, int64(42), (no>>nodeShift)&maxNodeID, "订单号中应嵌入节点ID")
}

func TestNoGeneratorMonotonic(t *testing.T) {
	g, err := NewNoGenerator(0)
	require.NoError(t, err)

	prev := g.Next()
	for i := 0; i < 10000; i++ {
		no := g.Next()
		require.Greater(t, no, prev, "单线程生成的订单号应严格递增")
		prev = no
	}
}

// 多协程并发生成，验证全局不重复
func TestNoGeneratorConcurrentUniqueness(t *testing.T) {
	g, err := NewNoGenerator(1)
	require.NoError(t, err)

	const (
		goroutines = 8
		perRoutine = 2000
	)

	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, goroutines*perRoutine)
		wg   sync.WaitGroup
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perRoutine)
			for j := 0; j < perRoutine; j++ {
				local = append(local, g.Next())
			}
			mu.Lock()
			for _, no := range local {
				seen[no] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perRoutine, "并发生成的订单号不应重复")
}
