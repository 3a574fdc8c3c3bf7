package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"Stormhold/internal/city/domain"
	"Stormhold/internal/shared/errs"
)

type WoundedRepo struct {
	db *gorm.DB
}

func NewWoundedRepo(db *gorm.DB) *WoundedRepo {
	return &WoundedRepo{db: db}
}

const OpListReadyWounded = "repo.wounded.ListReady"

func (r *WoundedRepo) ListReady(ctx context.Context, cityID int64, now time.Time) ([]*domain.WoundedUnit, error) {
	var out []*domain.WoundedUnit
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND heal_ready_at <= ?", cityID, now).
		Order("heal_ready_at asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, errs.Wrap(OpListReadyWounded, errs.KindInfra, err, map[string]any{"city_id": cityID})
	}
	return out, nil
}

const OpAddWounded = "repo.wounded.Add"

// AddWounded 新增一批伤兵记录（战斗结算调用）。
func (r *WoundedRepo) AddWounded(ctx context.Context, cityID int64, unitKey string, count int, readyAt time.Time) error {
	if count <= 0 {
		return nil
	}
	w := &domain.WoundedUnit{
		CityID:      cityID,
		UnitKey:     unitKey,
		Count:       count,
		HealReadyAt: readyAt,
	}
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return errs.Wrap(OpAddWounded, errs.KindInfra, err, map[string]any{"city_id": cityID, "unit_key": unitKey})
	}
	return nil
}

const OpSaveWounded = "repo.wounded.Save"

func (r *WoundedRepo) Save(ctx context.Context, w *domain.WoundedUnit) error {
	if err := r.db.WithContext(ctx).Save(w).Error; err != nil {
		return errs.Wrap(OpSaveWounded, errs.KindInfra, err, map[string]any{"wounded_id": w.ID})
	}
	return nil
}

const OpDeleteWounded = "repo.wounded.Delete"

func (r *WoundedRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&domain.WoundedUnit{}, id).Error; err != nil {
		return errs.Wrap(OpDeleteWounded, errs.KindInfra, err, map[string]any{"wounded_id": id})
	}
	return nil
}
