package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"Stormhold/internal/city/domain"
	"Stormhold/internal/shared/errs"
)

// BuildQueueRepo 建造队列仓储。Admit 把扣费后的城市与新队列项放进同一个事务，
// 扣费与入队要么同时落地要么都不落地。
type BuildQueueRepo struct {
	db *gorm.DB
}

func NewBuildQueueRepo(db *gorm.DB) *BuildQueueRepo {
	return &BuildQueueRepo{db: db}
}

const OpListActiveBuilds = "repo.buildqueue.ListActiveByCity"

func (r *BuildQueueRepo) ListActiveByCity(ctx context.Context, cityID int64) ([]*domain.BuildQueueItem, error) {
	var out []*domain.BuildQueueItem
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND status <> ?", cityID, domain.StatusDone).
		Order("requested_at asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, errs.Wrap(OpListActiveBuilds, errs.KindInfra, err, map[string]any{"city_id": cityID})
	}
	return out, nil
}

const OpListDueBuilds = "repo.buildqueue.ListDue"

func (r *BuildQueueRepo) ListDue(ctx context.Context, now time.Time) ([]*domain.BuildQueueItem, error) {
	var out []*domain.BuildQueueItem
	err := r.db.WithContext(ctx).
		Where("status = ? AND ends_at <= ?", domain.StatusRunning, now).
		Order("ends_at asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, errs.Wrap(OpListDueBuilds, errs.KindInfra, err, nil)
	}
	return out, nil
}

const OpAdmitBuild = "repo.buildqueue.Admit"

func (r *BuildQueueRepo) Admit(ctx context.Context, c *domain.City, item *domain.BuildQueueItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return errs.Wrap(OpAdmitBuild, errs.KindInfra, err, map[string]any{"city_id": c.ID, "building_key": item.BuildingKey})
	}
	return nil
}

const OpSaveBuildItem = "repo.buildqueue.Save"

func (r *BuildQueueRepo) Save(ctx context.Context, item *domain.BuildQueueItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return errs.Wrap(OpSaveBuildItem, errs.KindInfra, err, map[string]any{"item_id": item.ID})
	}
	return nil
}

// RecruitQueueRepo 征兵队列仓储，事务语义同建造队列。
type RecruitQueueRepo struct {
	db *gorm.DB
}

func NewRecruitQueueRepo(db *gorm.DB) *RecruitQueueRepo {
	return &RecruitQueueRepo{db: db}
}

const OpListActiveRecruits = "repo.recruitqueue.ListActiveByBuilding"

func (r *RecruitQueueRepo) ListActiveByBuilding(ctx context.Context, cityID int64, buildingKey string) ([]*domain.RecruitQueueItem, error) {
	var out []*domain.RecruitQueueItem
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND building_key = ? AND status <> ?", cityID, buildingKey, domain.StatusDone).
		Order("requested_at asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, errs.Wrap(OpListActiveRecruits, errs.KindInfra, err, map[string]any{"city_id": cityID, "building_key": buildingKey})
	}
	return out, nil
}

const OpListDueRecruits = "repo.recruitqueue.ListDue"

func (r *RecruitQueueRepo) ListDue(ctx context.Context, now time.Time) ([]*domain.RecruitQueueItem, error) {
	var out []*domain.RecruitQueueItem
	err := r.db.WithContext(ctx).
		Where("status = ? AND ends_at <= ?", domain.StatusRunning, now).
		Order("ends_at asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, errs.Wrap(OpListDueRecruits, errs.KindInfra, err, nil)
	}
	return out, nil
}

const OpAdmitRecruit = "repo.recruitqueue.Admit"

func (r *RecruitQueueRepo) Admit(ctx context.Context, c *domain.City, item *domain.RecruitQueueItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return errs.Wrap(OpAdmitRecruit, errs.KindInfra, err, map[string]any{"city_id": c.ID, "unit_key": item.UnitKey})
	}
	return nil
}

const OpSaveRecruitItem = "repo.recruitqueue.Save"

func (r *RecruitQueueRepo) Save(ctx context.Context, item *domain.RecruitQueueItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return errs.Wrap(OpSaveRecruitItem, errs.KindInfra, err, map[string]any{"item_id": item.ID})
	}
	return nil
}
