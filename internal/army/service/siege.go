package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Stormhold/internal/army/domain"
	"Stormhold/internal/gamedata"
	"Stormhold/internal/kit/logx"
)

// SiegeService 围城与城墙结算：
// 围城军按攻城值持续削墙，墙归零时围城结束；未被围的城墙缓慢自愈。
type SiegeService struct {
	armyRepo ArmyRepo
	cityPort CityPort
	interval time.Duration
	log      logx.Logger
}

func NewSiegeService(armyRepo ArmyRepo, cityPort CityPort, interval time.Duration, log logx.Logger) *SiegeService {
	return &SiegeService{
		armyRepo: armyRepo,
		cityPort: cityPort,
		interval: interval,
		log:      log,
	}
}

// Tick 先结算围城削墙，再结算未围城墙的自愈。
func (s *SiegeService) Tick(ctx context.Context, now time.Time) {
	hours := s.interval.Hours()
	if hours <= 0 {
		return
	}

	sieging, err := s.armyRepo.ListSieging(ctx)
	if err != nil {
		s.log.WithContext(ctx).Error("list sieging armies failed", zap.Error(err))
		return
	}

	// 同一城的多支围城军攻城值叠加
	type pos struct{ x, y int }
	besiegers := make(map[pos][]*domain.Army)
	for _, a := range sieging {
		p := pos{a.TargetX, a.TargetY}
		besiegers[p] = append(besiegers[p], a)
	}

	reg := gamedata.Get()
	coeff := reg.Rules().SiegeDamageCoeff
	besieged := make(map[int64]bool)

	for p, armies := range besiegers {
		city, err := s.cityPort.GetByCoords(ctx, p.x, p.y)
		if err != nil {
			s.log.WithContext(ctx).Error("load besieged city failed", zap.Error(err))
			continue
		}
		if city == nil {
			continue
		}
		besieged[city.ID] = true

		power := 0.0
		for _, a := range armies {
			power += siegePower(reg, a)
		}
		city.WallIntegrity -= coeff * power * hours
		if city.WallIntegrity <= 0 {
			city.WallIntegrity = 0
			city.IsSieged = false
			city.SiegeStartAt = nil
			if err := s.liftSiege(ctx, armies, now); err != nil {
				s.log.WithContext(ctx).Error("lift siege failed",
					zap.Int64("city_id", city.ID), zap.Error(err))
			}
		}
		if err := s.cityPort.Save(ctx, city); err != nil {
			s.log.WithContext(ctx).Error("save besieged city failed",
				zap.Int64("city_id", city.ID), zap.Error(err))
		}
	}

	s.regenWalls(ctx, besieged, hours)
}

// liftSiege 墙塌后围城军转入回程。
func (s *SiegeService) liftSiege(ctx context.Context, armies []*domain.Army, now time.Time) error {
	for _, a := range armies {
		returnAt, err := s.returnTime(ctx, a, now)
		if err != nil {
			return err
		}
		home, err := s.cityPort.GetByID(ctx, a.HomeCityID)
		if err != nil {
			return err
		}
		a.Status = domain.StatusReturning
		a.TargetX, a.TargetY = home.X, home.Y
		a.DepartAt, a.ArriveAt = &now, &returnAt
		if err := s.armyRepo.Save(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (s *SiegeService) returnTime(ctx context.Context, a *domain.Army, now time.Time) (time.Time, error) {
	home, err := s.cityPort.GetByID(ctx, a.HomeCityID)
	if err != nil {
		return time.Time{}, err
	}
	seconds, err := travelSeconds(gamedata.Get(), a, a.X, a.Y, home.X, home.Y)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(time.Duration(seconds) * time.Second), nil
}

// regenWalls 非围城状态的城墙按固定速率自愈。
func (s *SiegeService) regenWalls(ctx context.Context, besieged map[int64]bool, hours float64) {
	regen := gamedata.Get().Rules().WallRegenPerHour
	if regen <= 0 {
		return
	}
	cities, err := s.cityPort.ListAll(ctx)
	if err != nil {
		s.log.WithContext(ctx).Error("list cities failed", zap.Error(err))
		return
	}
	for _, city := range cities {
		if besieged[city.ID] || city.IsSieged || city.WallIntegrity >= 1 {
			continue
		}
		city.WallIntegrity += regen * hours
		if city.WallIntegrity > 1 {
			city.WallIntegrity = 1
		}
		if err := s.cityPort.Save(ctx, city); err != nil {
			s.log.WithContext(ctx).Error("save city wall failed",
				zap.Int64("city_id", city.ID), zap.Error(err))
		}
	}
}

func siegePower(reg *gamedata.Registry, a *domain.Army) float64 {
	power := 0.0
	for _, u := range a.Units {
		if u.Count <= 0 {
			continue
		}
		if def, ok := reg.UnitDef(u.UnitKey); ok {
			power += def.SiegePower * float64(u.Count)
		}
	}
	return power
}
