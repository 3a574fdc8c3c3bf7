package tick

import (
	"context"
	"time"
)

// Locker 是分布式互斥锁原语（set-if-not-exists with TTL）。
// 调度器不关心锁的实现，按端口注入，测试用假锁。
type Locker interface {
	// TryAcquire 非阻塞抢锁：锁空闲或已过期则抢到，被他人持有返回 false。
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release 只释放自己持有的锁。
	Release(ctx context.Context, key string) error
}
