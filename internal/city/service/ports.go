package service

import (
	"context"
	"time"

	"Stormhold/internal/city/domain"
)

// 仓储端口。gorm 实现见 infra/repo；测试用 fake。

type CityRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.City, error)
	ListAll(ctx context.Context) ([]*domain.City, error)
	Save(ctx context.Context, c *domain.City) error
}

type BuildingRepo interface {
	ListByCity(ctx context.Context, cityID int64) ([]*domain.CityBuilding, error)
	// Get 未找到时返回 domain.ErrBuildingNotFound。
	Get(ctx context.Context, cityID int64, key string, slot int) (*domain.CityBuilding, error)
	Save(ctx context.Context, b *domain.CityBuilding) error
}

type BuildQueueRepo interface {
	// ListActiveByCity 返回 RUNNING+QUEUED 项，按 requested_at 升序。
	ListActiveByCity(ctx context.Context, cityID int64) ([]*domain.BuildQueueItem, error)
	// ListDue 返回全服 status=RUNNING 且 ends_at<=now 的项。
	ListDue(ctx context.Context, now time.Time) ([]*domain.BuildQueueItem, error)
	// Admit 在一个事务里落地扣费后的城市与新队列项。
	Admit(ctx context.Context, c *domain.City, item *domain.BuildQueueItem) error
	Save(ctx context.Context, item *domain.BuildQueueItem) error
}

type RecruitQueueRepo interface {
	ListActiveByBuilding(ctx context.Context, cityID int64, buildingKey string) ([]*domain.RecruitQueueItem, error)
	ListDue(ctx context.Context, now time.Time) ([]*domain.RecruitQueueItem, error)
	Admit(ctx context.Context, c *domain.City, item *domain.RecruitQueueItem) error
	Save(ctx context.Context, item *domain.RecruitQueueItem) error
}

type WoundedRepo interface {
	// ListReady 返回 heal_ready_at<=now 的伤兵，按 heal_ready_at 升序（最久的先治）。
	ListReady(ctx context.Context, cityID int64, now time.Time) ([]*domain.WoundedUnit, error)
	Save(ctx context.Context, w *domain.WoundedUnit) error
	Delete(ctx context.Context, id int64) error
}

// Garrison 是军队上下文暴露给城市侧的最小端口：
// 征兵/治疗完成的兵并入驻军；经济 tick 查询口粮消耗。
type Garrison interface {
	AddUnits(ctx context.Context, cityID int64, unitKey string, count int) error
	FoodUpkeepPerHour(ctx context.Context, cityID int64) (float64, error)
}
