package service

import (
	"context"
	"time"

	"Stormhold/internal/army/domain"
	"Stormhold/internal/gamedata"
	"Stormhold/internal/kit/logx"
)

// OrderService 军队指令下达。所有校验都在状态变更之前完成，
// 被拒绝的指令不会改动军队的任何字段（包括 arrive_at）。
type OrderService struct {
	armyRepo ArmyRepo
	cityPort CityPort
	log      logx.Logger
	now      func() time.Time
}

func NewOrderService(armyRepo ArmyRepo, cityPort CityPort, log logx.Logger) *OrderService {
	return &OrderService{
		armyRepo: armyRepo,
		cityPort: cityPort,
		log:      log,
		now:      time.Now,
	}
}

func (s *OrderService) WithNow(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// IssueOrder 下达出征指令。OrderReturn 只对围城中的军队有效（解围撤军）。
func (s *OrderService) IssueOrder(ctx context.Context, playerID, armyID int64, order int8, targetX, targetY int) (*domain.Army, error) {
	a, err := s.armyRepo.GetByID(ctx, armyID)
	if err != nil {
		return nil, err
	}
	if a.PlayerID != playerID {
		return nil, domain.ErrForbidden.WithData("army_id", armyID)
	}
	if a.IsGarrison {
		return nil, domain.ErrBadOrder.WithData("army_id", armyID)
	}

	if order == OrderReturnType {
		return s.recall(ctx, a)
	}

	if a.Busy() {
		return nil, domain.ErrArmyBusy.WithData("army_id", armyID).WithData("status", a.Status)
	}
	if a.Status != domain.StatusInCity {
		return nil, domain.ErrBadOrder.WithData("army_id", armyID).WithData("status", a.Status)
	}
	if order < domain.OrderAttack || order > domain.OrderExpedition {
		return nil, domain.ErrBadOrder.WithData("order", order)
	}
	if a.TotalCount() <= 0 {
		return nil, domain.ErrArmyEmpty.WithData("army_id", armyID)
	}

	now := s.now()
	seconds, err := travelSeconds(gamedata.Get(), a, a.X, a.Y, targetX, targetY)
	if err != nil {
		return nil, err
	}
	arrive := now.Add(time.Duration(seconds) * time.Second)

	a.Status = domain.StatusMoving
	a.Order = order
	a.TargetX, a.TargetY = targetX, targetY
	a.DepartAt, a.ArriveAt = &now, &arrive

	if err := s.armyRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// OrderReturnType 暴露给 gate 层做指令解析。
const OrderReturnType = domain.OrderReturn

// recall 从围城撤军返回母城。
func (s *OrderService) recall(ctx context.Context, a *domain.Army) (*domain.Army, error) {
	if a.Status != domain.StatusSieging {
		return nil, domain.ErrBadOrder.WithData("army_id", a.ID).WithData("status", a.Status)
	}

	home, err := s.cityPort.GetByID(ctx, a.HomeCityID)
	if err != nil {
		return nil, err
	}

	// 最后一支围城军撤走时解除围城
	target, err := s.cityPort.GetByCoords(ctx, a.TargetX, a.TargetY)
	if err != nil {
		return nil, err
	}
	if target != nil && target.IsSieged {
		others, err := s.othersSieging(ctx, a)
		if err != nil {
			return nil, err
		}
		if !others {
			target.IsSieged = false
			target.SiegeStartAt = nil
			if err := s.cityPort.Save(ctx, target); err != nil {
				return nil, err
			}
		}
	}

	now := s.now()
	seconds, err := travelSeconds(gamedata.Get(), a, a.TargetX, a.TargetY, home.X, home.Y)
	if err != nil {
		return nil, err
	}
	arrive := now.Add(time.Duration(seconds) * time.Second)

	a.Status = domain.StatusReturning
	a.Order = domain.OrderReturn
	a.TargetX, a.TargetY = home.X, home.Y
	a.DepartAt, a.ArriveAt = &now, &arrive

	if err := s.armyRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *OrderService) othersSieging(ctx context.Context, a *domain.Army) (bool, error) {
	sieging, err := s.armyRepo.ListSieging(ctx)
	if err != nil {
		return false, err
	}
	for _, other := range sieging {
		if other.ID != a.ID && other.TargetX == a.TargetX && other.TargetY == a.TargetY {
			return true, nil
		}
	}
	return false, nil
}

// EnterGarrison 把城内军队转入驻防支线。
func (s *OrderService) EnterGarrison(ctx context.Context, playerID, armyID int64) (*domain.Army, error) {
	a, err := s.armyRepo.GetByID(ctx, armyID)
	if err != nil {
		return nil, err
	}
	if a.PlayerID != playerID {
		return nil, domain.ErrForbidden.WithData("army_id", armyID)
	}
	if a.Status != domain.StatusInCity {
		return nil, domain.ErrBadOrder.WithData("army_id", armyID).WithData("status", a.Status)
	}
	a.Status = domain.StatusGarrison
	if err := s.armyRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// LeaveGarrison 解除驻防，军队回到待命状态。
func (s *OrderService) LeaveGarrison(ctx context.Context, playerID, armyID int64) (*domain.Army, error) {
	a, err := s.armyRepo.GetByID(ctx, armyID)
	if err != nil {
		return nil, err
	}
	if a.PlayerID != playerID {
		return nil, domain.ErrForbidden.WithData("army_id", armyID)
	}
	if a.Status != domain.StatusGarrison || a.IsGarrison {
		return nil, domain.ErrBadOrder.WithData("army_id", armyID).WithData("status", a.Status)
	}
	a.Status = domain.StatusInCity
	if err := s.armyRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// travelSeconds 曼哈顿距离行军耗时：以全军最慢兵种为准，
// 英雄与阵营速度加成折算进速度系数，最低不少于 MinTravelSeconds。
func travelSeconds(reg *gamedata.Registry, a *domain.Army, fromX, fromY, toX, toY int) (int64, error) {
	slowest := 0.0
	for _, u := range a.Units {
		if u.Count <= 0 {
			continue
		}
		def, ok := reg.UnitDef(u.UnitKey)
		if !ok {
			return 0, domain.ErrArmyNotFound.WithData("unit_key", u.UnitKey)
		}
		if slowest == 0 || def.Speed < slowest {
			slowest = def.Speed
		}
	}
	if slowest <= 0 {
		return 0, domain.ErrArmyEmpty.WithData("army_id", a.ID)
	}

	rules := reg.Rules()
	mod := slowest * (1 + a.HeroSpeedBonus + reg.FactionBonus(a.Faction, gamedata.BonusSpeed))
	dist := abs(toX-fromX) + abs(toY-fromY)

	seconds := int64(float64(dist) * float64(rules.SecondsPerTile) / mod)
	if seconds < int64(rules.MinTravelSeconds) {
		seconds = int64(rules.MinTravelSeconds)
	}
	return seconds, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
