package tick

import (
	"context"
	"testing"
	"time"

	"Stormhold/internal/kit/logx"
)

type fakeLocker struct {
	held     bool
	acquires int
	releases int
}

func (l *fakeLocker) TryAcquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	l.acquires++
	return !l.held, nil
}

func (l *fakeLocker) Release(_ context.Context, _ string) error {
	l.releases++
	return nil
}

func Test调度_锁被他人持有时整轮零变更(t *testing.T) {
	mutations := 0
	sub := NewSubTick("economy", func(_ context.Context, _ time.Time) {
		mutations++
	})

	locker := &fakeLocker{held: true}
	s := NewScheduler(locker, "world_tick", 25*time.Second, 30*time.Second,
		logx.NewZapLogger(nil), sub)

	ran, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce 失败: %v", err)
	}
	if ran {
		t.Fatalf("期望本轮被跳过")
	}
	if mutations != 0 {
		t.Fatalf("期望零变更，实际执行了 %d 次", mutations)
	}
	if locker.releases != 0 {
		t.Fatalf("没抢到锁不应释放")
	}
}

func Test调度_阶段按固定顺序执行(t *testing.T) {
	var order []string
	phase := func(name string) SubTick {
		return NewSubTick(name, func(_ context.Context, _ time.Time) {
			order = append(order, name)
		})
	}

	locker := &fakeLocker{}
	s := NewScheduler(locker, "world_tick", 25*time.Second, 30*time.Second,
		logx.NewZapLogger(nil),
		phase("node"), phase("economy"), phase("queue"),
		phase("movement"), phase("siege"), phase("heal"))

	ran, err := s.RunOnce(context.Background())
	if err != nil || !ran {
		t.Fatalf("期望本轮执行: ran=%v err=%v", ran, err)
	}

	want := []string{"node", "economy", "queue", "movement", "siege", "heal"}
	if len(order) != len(want) {
		t.Fatalf("期望 %d 个阶段，实际 %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("第 %d 个阶段期望 %s，实际 %s", i, want[i], order[i])
		}
	}
	if locker.releases != 1 {
		t.Fatalf("期望结束后释放锁")
	}
}

func Test调度_单阶段崩溃不拖垮整轮(t *testing.T) {
	ran := false
	s := NewScheduler(&fakeLocker{}, "world_tick", 25*time.Second, 30*time.Second,
		logx.NewZapLogger(nil),
		NewSubTick("broken", func(_ context.Context, _ time.Time) {
			panic("boom")
		}),
		NewSubTick("after", func(_ context.Context, _ time.Time) {
			ran = true
		}),
	)

	if _, err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce 失败: %v", err)
	}
	if !ran {
		t.Fatalf("期望后续阶段继续执行")
	}
}

func Test调度_同一轮所有阶段看到同一个时间戳(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var seen []time.Time
	capture := func(name string) SubTick {
		return NewSubTick(name, func(_ context.Context, now time.Time) {
			seen = append(seen, now)
		})
	}

	s := NewScheduler(&fakeLocker{}, "world_tick", 25*time.Second, 30*time.Second,
		logx.NewZapLogger(nil), capture("a"), capture("b"), capture("c")).
		WithNow(func() time.Time { return fixed })

	if _, err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce 失败: %v", err)
	}
	for i, ts := range seen {
		if !ts.Equal(fixed) {
			t.Fatalf("第 %d 个阶段时间戳 %v，期望统一为 %v", i, ts, fixed)
		}
	}
}
