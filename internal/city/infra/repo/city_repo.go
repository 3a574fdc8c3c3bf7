package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"Stormhold/internal/city/domain"
	"Stormhold/internal/shared/errs"
)

type CityRepo struct {
	db *gorm.DB
}

func NewCityRepo(db *gorm.DB) *CityRepo {
	return &CityRepo{db: db}
}

func (r *CityRepo) WithTx(tx *gorm.DB) *CityRepo {
	return &CityRepo{db: tx}
}

const OpGetCityByID = "repo.city.GetByID"

func (r *CityRepo) GetByID(ctx context.Context, id int64) (*domain.City, error) {
	var m domain.City
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error

	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrCityNotFound.WithData("city_id", id)
	default:
		return nil, errs.Wrap(OpGetCityByID, errs.KindInfra, err, map[string]any{"city_id": id})
	}
}

const OpGetCityByCoords = "repo.city.GetByCoords"

// GetByCoords 查坐标上的城市，空地返回 (nil, nil)。
func (r *CityRepo) GetByCoords(ctx context.Context, x, y int) (*domain.City, error) {
	var m domain.City
	err := r.db.WithContext(ctx).Where("x = ? AND y = ?", x, y).First(&m).Error

	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, errs.Wrap(OpGetCityByCoords, errs.KindInfra, err, map[string]any{"x": x, "y": y})
	}
}

const OpListAllCities = "repo.city.ListAll"

func (r *CityRepo) ListAll(ctx context.Context) ([]*domain.City, error) {
	var out []*domain.City
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, errs.Wrap(OpListAllCities, errs.KindInfra, err, nil)
	}
	return out, nil
}

const OpSaveCity = "repo.city.Save"

func (r *CityRepo) Save(ctx context.Context, c *domain.City) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return errs.Wrap(OpSaveCity, errs.KindInfra, err, map[string]any{"city_id": c.ID})
	}
	return nil
}
