package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"Stormhold/internal/army/domain"
	citydom "Stormhold/internal/city/domain"
	"Stormhold/internal/shared/errs"
)

type ArmyRepo struct {
	db *gorm.DB
}

func NewArmyRepo(db *gorm.DB) *ArmyRepo {
	return &ArmyRepo{db: db}
}

const OpGetArmyByID = "repo.army.GetByID"

func (r *ArmyRepo) GetByID(ctx context.Context, id int64) (*domain.Army, error) {
	var m domain.Army
	err := r.db.WithContext(ctx).Preload("Units").Where("id = ?", id).First(&m).Error

	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrArmyNotFound.WithData("army_id", id)
	default:
		return nil, errs.Wrap(OpGetArmyByID, errs.KindInfra, err, map[string]any{"army_id": id})
	}
}

const OpListArrivedArmies = "repo.army.ListArrived"

func (r *ArmyRepo) ListArrived(ctx context.Context, now time.Time) ([]*domain.Army, error) {
	var out []*domain.Army
	err := r.db.WithContext(ctx).Preload("Units").
		Where("status IN ? AND arrive_at <= ?", []int8{domain.StatusMoving, domain.StatusReturning}, now).
		Order("arrive_at asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, errs.Wrap(OpListArrivedArmies, errs.KindInfra, err, nil)
	}
	return out, nil
}

const OpListSiegingArmies = "repo.army.ListSieging"

func (r *ArmyRepo) ListSieging(ctx context.Context) ([]*domain.Army, error) {
	var out []*domain.Army
	err := r.db.WithContext(ctx).Preload("Units").
		Where("status = ?", domain.StatusSieging).
		Order("id asc").
		Find(&out).Error
	if err != nil {
		return nil, errs.Wrap(OpListSiegingArmies, errs.KindInfra, err, nil)
	}
	return out, nil
}

const OpListArmiesByHomeCity = "repo.army.ListByHomeCity"

func (r *ArmyRepo) ListByHomeCity(ctx context.Context, cityID int64) ([]*domain.Army, error) {
	var out []*domain.Army
	err := r.db.WithContext(ctx).Preload("Units").
		Where("home_city_id = ?", cityID).
		Order("id asc").
		Find(&out).Error
	if err != nil {
		return nil, errs.Wrap(OpListArmiesByHomeCity, errs.KindInfra, err, map[string]any{"city_id": cityID})
	}
	return out, nil
}

const OpEnsureGarrison = "repo.army.EnsureGarrison"

func (r *ArmyRepo) EnsureGarrison(ctx context.Context, city *citydom.City) (*domain.Army, error) {
	var m domain.Army
	err := r.db.WithContext(ctx).Preload("Units").
		Where("home_city_id = ? AND is_garrison = ?", city.ID, true).
		First(&m).Error

	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		g := &domain.Army{
			PlayerID:   city.PlayerID,
			HomeCityID: city.ID,
			Faction:    city.Faction,
			IsGarrison: true,
			X:          city.X,
			Y:          city.Y,
			Status:     domain.StatusGarrison,
		}
		if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
			return nil, errs.Wrap(OpEnsureGarrison, errs.KindInfra, err, map[string]any{"city_id": city.ID})
		}
		return g, nil
	default:
		return nil, errs.Wrap(OpEnsureGarrison, errs.KindInfra, err, map[string]any{"city_id": city.ID})
	}
}

const OpSaveArmy = "repo.army.Save"

// Save 军队与兵力堆叠落同一个事务；count<=0 的堆叠行直接删除。
func (r *ArmyRepo) Save(ctx context.Context, a *domain.Army) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		units := a.Units
		a.Units = nil
		defer func() { a.Units = units }()

		if err := tx.Save(a).Error; err != nil {
			return err
		}
		for _, u := range units {
			if u.ArmyID == 0 {
				u.ArmyID = a.ID
			}
			if u.Count <= 0 {
				if u.ID != 0 {
					if err := tx.Delete(&domain.ArmyUnit{}, u.ID).Error; err != nil {
						return err
					}
				}
				continue
			}
			if err := tx.Save(u).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.Wrap(OpSaveArmy, errs.KindInfra, err, map[string]any{"army_id": a.ID})
	}
	return nil
}

const OpDeleteArmy = "repo.army.Delete"

func (r *ArmyRepo) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("army_id = ?", id).Delete(&domain.ArmyUnit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Army{}, id).Error
	})
	if err != nil {
		return errs.Wrap(OpDeleteArmy, errs.KindInfra, err, map[string]any{"army_id": id})
	}
	return nil
}
