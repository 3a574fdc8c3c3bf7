package tick

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Stormhold/internal/kit/logx"
	"Stormhold/internal/kit/tracex"
)

// SubTick 是一轮世界结算里的一个阶段。阶段内部自行处理单实体失败，
// Run 返回即视为该阶段完成。
type SubTick interface {
	Name() string
	Run(ctx context.Context, now time.Time)
}

type tickFunc struct {
	name string
	fn   func(ctx context.Context, now time.Time)
}

func (t tickFunc) Name() string                            { return t.name }
func (t tickFunc) Run(ctx context.Context, now time.Time) { t.fn(ctx, now) }

// NewSubTick 把一个结算函数适配成 SubTick。
func NewSubTick(name string, fn func(ctx context.Context, now time.Time)) SubTick {
	return tickFunc{name: name, fn: fn}
}

// Scheduler 世界 tick 调度器。每个固定间隔抢一次分布式锁，
// 抢到才结算；锁被别的 worker 持有时整轮跳过，不做任何变更。
// 阶段按固定顺序串行执行：资源点 → 经济 → 队列 → 行军 → 围城 → 治疗。
type Scheduler struct {
	locker   Locker
	lockKey  string
	lockTTL  time.Duration
	interval time.Duration
	subs     []SubTick
	log      logx.Logger
	now      func() time.Time
}

func NewScheduler(locker Locker, lockKey string, lockTTL, interval time.Duration,
	log logx.Logger, subs ...SubTick) *Scheduler {
	return &Scheduler{
		locker:   locker,
		lockKey:  lockKey,
		lockTTL:  lockTTL,
		interval: interval,
		subs:     subs,
		log:      log,
		now:      time.Now,
	}
}

func (s *Scheduler) WithNow(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// RunOnce 执行一轮 tick。返回 false 表示锁被他人持有、本轮被跳过。
func (s *Scheduler) RunOnce(ctx context.Context) (bool, error) {
	acquired, err := s.locker.TryAcquire(ctx, s.lockKey, s.lockTTL)
	if err != nil {
		return false, err
	}
	if !acquired {
		s.log.WithContext(ctx).Debug("tick skipped, lock held elsewhere",
			zap.String("lock_key", s.lockKey))
		return false, nil
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), s.lockKey); err != nil {
			s.log.Error("release tick lock failed", zap.Error(err))
		}
	}()

	// 每轮一个 trace id，所有阶段日志可关联到同一轮
	ctx = tracex.WithTraceID(ctx, tracex.NewTraceID())
	now := s.now()
	start := now

	for _, sub := range s.subs {
		s.runSub(ctx, sub, now)
	}

	s.log.WithContext(ctx).Info("tick finished",
		zap.Int("phases", len(s.subs)),
		zap.Duration("elapsed", time.Since(start)))
	return true, nil
}

// runSub 单阶段 panic 不拖垮整轮，记录后继续下一阶段。
func (s *Scheduler) runSub(ctx context.Context, sub SubTick, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithContext(ctx).Error("tick phase panicked",
				zap.String("phase", sub.Name()), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	sub.Run(ctx, now)
	s.log.WithContext(ctx).Debug("tick phase done",
		zap.String("phase", sub.Name()),
		zap.Duration("elapsed", time.Since(start)))
}

// RunLoop 固定间隔驱动 RunOnce，直到 ctx 取消。
func (s *Scheduler) RunLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.WithContext(ctx).Error("tick run failed", zap.Error(err))
			}
		}
	}
}
