package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Stormhold/internal/gamedata"
	"Stormhold/internal/kit/logx"
)

// HealService 医疗结算：每个 tick 按城内医疗建筑容量恢复伤兵，
// 受伤最久的优先，恢复后并回驻军。
type HealService struct {
	cityRepo     CityRepo
	buildingRepo BuildingRepo
	woundedRepo  WoundedRepo
	garrison     Garrison
	log          logx.Logger
}

func NewHealService(cityRepo CityRepo, buildingRepo BuildingRepo, woundedRepo WoundedRepo,
	garrison Garrison, log logx.Logger) *HealService {
	return &HealService{
		cityRepo:     cityRepo,
		buildingRepo: buildingRepo,
		woundedRepo:  woundedRepo,
		garrison:     garrison,
		log:          log,
	}
}

// Tick 对全部城市结算一轮治疗。
func (s *HealService) Tick(ctx context.Context, now time.Time) {
	cities, err := s.cityRepo.ListAll(ctx)
	if err != nil {
		s.log.WithContext(ctx).Error("list cities failed", zap.Error(err))
		return
	}
	for _, city := range cities {
		if err := s.tickCity(ctx, city.ID, now); err != nil {
			s.log.WithContext(ctx).Error("heal tick failed",
				zap.Int64("city_id", city.ID), zap.Error(err))
		}
	}
}

func (s *HealService) tickCity(ctx context.Context, cityID int64, now time.Time) error {
	capacity, err := s.healCapacity(ctx, cityID)
	if err != nil || capacity <= 0 {
		return err
	}

	// ListReady 按 heal_ready_at 升序，顺序消费即最久优先。
	ready, err := s.woundedRepo.ListReady(ctx, cityID, now)
	if err != nil {
		return err
	}
	for _, w := range ready {
		if capacity <= 0 {
			break
		}
		heal := w.Count
		if heal > capacity {
			heal = capacity
		}
		if err := s.garrison.AddUnits(ctx, cityID, w.UnitKey, heal); err != nil {
			return err
		}
		capacity -= heal

		if heal == w.Count {
			if err := s.woundedRepo.Delete(ctx, w.ID); err != nil {
				return err
			}
			continue
		}
		w.Count -= heal
		if err := s.woundedRepo.Save(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

func (s *HealService) healCapacity(ctx context.Context, cityID int64) (int, error) {
	reg := gamedata.Get()
	buildings, err := s.buildingRepo.ListByCity(ctx, cityID)
	if err != nil {
		return 0, err
	}
	capacity := 0
	for _, b := range buildings {
		def, ok := reg.BuildingDef(b.BuildingKey)
		if !ok || def.Category != gamedata.CategoryMedical {
			continue
		}
		capacity += def.HealAt(b.Level)
	}
	return capacity, nil
}
