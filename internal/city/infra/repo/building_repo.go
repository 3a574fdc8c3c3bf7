package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"Stormhold/internal/city/domain"
	"Stormhold/internal/shared/errs"
)

type BuildingRepo struct {
	db *gorm.DB
}

func NewBuildingRepo(db *gorm.DB) *BuildingRepo {
	return &BuildingRepo{db: db}
}

const OpListBuildingsByCity = "repo.building.ListByCity"

func (r *BuildingRepo) ListByCity(ctx context.Context, cityID int64) ([]*domain.CityBuilding, error) {
	var out []*domain.CityBuilding
	err := r.db.WithContext(ctx).Where("city_id = ?", cityID).Order("id asc").Find(&out).Error
	if err != nil {
		return nil, errs.Wrap(OpListBuildingsByCity, errs.KindInfra, err, map[string]any{"city_id": cityID})
	}
	return out, nil
}

const OpGetBuilding = "repo.building.Get"

func (r *BuildingRepo) Get(ctx context.Context, cityID int64, key string, slot int) (*domain.CityBuilding, error) {
	var m domain.CityBuilding
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND building_key = ? AND slot = ?", cityID, key, slot).
		First(&m).Error

	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrBuildingNotFound.WithData("building_key", key).WithData("slot", slot)
	default:
		return nil, errs.Wrap(OpGetBuilding, errs.KindInfra, err, map[string]any{"city_id": cityID, "building_key": key})
	}
}

const OpSaveBuilding = "repo.building.Save"

func (r *BuildingRepo) Save(ctx context.Context, b *domain.CityBuilding) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return errs.Wrap(OpSaveBuilding, errs.KindInfra, err, map[string]any{"city_id": b.CityID, "building_key": b.BuildingKey})
	}
	return nil
}
