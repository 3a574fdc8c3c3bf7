package service

import (
	"context"
	"time"

	"Stormhold/internal/army/domain"
	citydom "Stormhold/internal/city/domain"
	nodedom "Stormhold/internal/node/domain"
	reportdom "Stormhold/internal/report/domain"
)

// 军队上下文的仓储与协作端口。gorm/mongo 实现见 infra；测试用 fake。

type ArmyRepo interface {
	// GetByID 带兵力堆叠返回军队，未找到时返回 domain.ErrArmyNotFound。
	GetByID(ctx context.Context, id int64) (*domain.Army, error)
	// ListArrived 返回 status ∈ {MOVING, RETURNING} 且 arrive_at<=now 的军队。
	ListArrived(ctx context.Context, now time.Time) ([]*domain.Army, error)
	ListSieging(ctx context.Context) ([]*domain.Army, error)
	ListByHomeCity(ctx context.Context, cityID int64) ([]*domain.Army, error)
	// EnsureGarrison 返回城市的驻防军队，不存在则创建空驻军。
	EnsureGarrison(ctx context.Context, city *citydom.City) (*domain.Army, error)
	// Save 军队与兵力堆叠落在同一个事务，count<=0 的堆叠行被清理。
	Save(ctx context.Context, a *domain.Army) error
	Delete(ctx context.Context, id int64) error
}

type CityPort interface {
	GetByID(ctx context.Context, id int64) (*citydom.City, error)
	// GetByCoords 查坐标上的城市，空地返回 (nil, nil)。
	GetByCoords(ctx context.Context, x, y int) (*citydom.City, error)
	ListAll(ctx context.Context) ([]*citydom.City, error)
	Save(ctx context.Context, c *citydom.City) error
}

// WallPort 查守城方的城墙等级（没有城墙时为 0）。
type WallPort interface {
	WallLevel(ctx context.Context, cityID int64) (int, error)
}

type NodePort interface {
	GetByCoords(ctx context.Context, x, y int) (*nodedom.ResourceNode, error)
	Save(ctx context.Context, n *nodedom.ResourceNode) error
}

type Reporter interface {
	SaveBattle(ctx context.Context, rep *reportdom.BattleReport) error
	SaveSpy(ctx context.Context, rep *reportdom.SpyReport) error
}

// WoundedSink 把战斗产生的伤兵写进所属城市的医疗队列。
type WoundedSink interface {
	AddWounded(ctx context.Context, cityID int64, unitKey string, count int, readyAt time.Time) error
}
