package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Stormhold/internal/city/domain"
	"Stormhold/internal/gamedata"
	"Stormhold/internal/kit/logx"
)

// EconomyService 经济结算：先产出后口粮，按真实流逝小时数计量。
// 结算以 LastTickedAt 为基准，同一 now 重复结算流逝为 0，天然幂等。
type EconomyService struct {
	cityRepo     CityRepo
	buildingRepo BuildingRepo
	garrison     Garrison
	log          logx.Logger
}

func NewEconomyService(cityRepo CityRepo, buildingRepo BuildingRepo, garrison Garrison, log logx.Logger) *EconomyService {
	return &EconomyService{
		cityRepo:     cityRepo,
		buildingRepo: buildingRepo,
		garrison:     garrison,
		log:          log,
	}
}

// Tick 对全部城市结算一轮。单城失败只记日志，下轮从原 LastTickedAt 补算。
func (s *EconomyService) Tick(ctx context.Context, now time.Time) {
	cities, err := s.cityRepo.ListAll(ctx)
	if err != nil {
		s.log.WithContext(ctx).Error("list cities failed", zap.Error(err))
		return
	}
	for _, city := range cities {
		if err := s.tickCity(ctx, city, now); err != nil {
			s.log.WithContext(ctx).Error("economy tick failed",
				zap.Int64("city_id", city.ID), zap.Error(err))
		}
	}
}

func (s *EconomyService) tickCity(ctx context.Context, city *domain.City, now time.Time) error {
	hours := now.Sub(city.LastTickedAt).Hours()
	if hours <= 0 {
		return nil
	}

	reg := gamedata.Get()
	prodBonus := 1 + reg.FactionBonus(city.Faction, gamedata.BonusProduction)

	buildings, err := s.buildingRepo.ListByCity(ctx, city.ID)
	if err != nil {
		return err
	}
	for _, b := range buildings {
		if b.ProdPerHour <= 0 {
			continue
		}
		def, ok := reg.BuildingDef(b.BuildingKey)
		if !ok || def.Production == nil {
			continue
		}
		city.AddResource(def.Production.Kind, b.ProdPerHour*prodBonus*hours)
	}

	// 口粮在产出之后扣，余额下限 0（AddResource 负数钳位）。
	upkeep, err := s.garrison.FoodUpkeepPerHour(ctx, city.ID)
	if err != nil {
		return err
	}
	if upkeep > 0 {
		city.AddResource(gamedata.Food, -upkeep*hours)
	}

	city.LastTickedAt = now
	return s.cityRepo.Save(ctx, city)
}
