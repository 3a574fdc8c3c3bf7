package service

import (
	"context"

	"Stormhold/internal/gamedata"
)

// GarrisonService 实现城市侧的驻军端口：
// 征兵/治疗完成的兵并入驻军，经济 tick 查询全城口粮消耗。
type GarrisonService struct {
	armyRepo ArmyRepo
	cityPort CityPort
}

func NewGarrisonService(armyRepo ArmyRepo, cityPort CityPort) *GarrisonService {
	return &GarrisonService{armyRepo: armyRepo, cityPort: cityPort}
}

func (s *GarrisonService) AddUnits(ctx context.Context, cityID int64, unitKey string, count int) error {
	if count <= 0 {
		return nil
	}
	city, err := s.cityPort.GetByID(ctx, cityID)
	if err != nil {
		return err
	}
	garrison, err := s.armyRepo.EnsureGarrison(ctx, city)
	if err != nil {
		return err
	}
	garrison.AddUnits(unitKey, int64(count))
	return s.armyRepo.Save(ctx, garrison)
}

// FoodUpkeepPerHour 以该城为母城的全部军队（含在外行军）都吃这座城的粮。
func (s *GarrisonService) FoodUpkeepPerHour(ctx context.Context, cityID int64) (float64, error) {
	armies, err := s.armyRepo.ListByHomeCity(ctx, cityID)
	if err != nil {
		return 0, err
	}
	reg := gamedata.Get()
	upkeep := 0.0
	for _, a := range armies {
		for _, u := range a.Units {
			if u.Count <= 0 {
				continue
			}
			if def, ok := reg.UnitDef(u.UnitKey); ok {
				upkeep += def.FoodUpkeep * float64(u.Count)
			}
		}
	}
	return upkeep, nil
}
