package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Stormhold/internal/army/domain"
	citydom "Stormhold/internal/city/domain"
	"Stormhold/internal/combat"
	"Stormhold/internal/gamedata"
	"Stormhold/internal/kit/logx"
	nodedom "Stormhold/internal/node/domain"
	reportdom "Stormhold/internal/report/domain"
)

// MovementService 行军到站结算。到站分派规则：
//  1. SPY：生成谍报后回程，永不触发战斗
//  2. 目标是己方城市：进城，卸下携带资源
//  3. 目标是有守军的敌城：攻城/掠夺战斗，结算后回程
//  4. 目标是无守军的敌城：进入围城
//  5. 目标是资源点：对部落守军开战，胜利后按运力与储量掠夺，回程
//  6. 空地：直接回程
type MovementService struct {
	armyRepo ArmyRepo
	cityPort CityPort
	wallPort WallPort
	nodePort NodePort
	reporter Reporter
	wounded  WoundedSink
	log      logx.Logger
}

func NewMovementService(armyRepo ArmyRepo, cityPort CityPort, wallPort WallPort,
	nodePort NodePort, reporter Reporter, wounded WoundedSink, log logx.Logger) *MovementService {
	return &MovementService{
		armyRepo: armyRepo,
		cityPort: cityPort,
		wallPort: wallPort,
		nodePort: nodePort,
		reporter: reporter,
		wounded:  wounded,
		log:      log,
	}
}

// Tick 结算全部到站军队。单支军队失败只记日志，不拖垮本轮其余结算。
func (s *MovementService) Tick(ctx context.Context, now time.Time) {
	arrived, err := s.armyRepo.ListArrived(ctx, now)
	if err != nil {
		s.log.WithContext(ctx).Error("list arrived armies failed", zap.Error(err))
		return
	}
	for _, a := range arrived {
		var rerr error
		if a.Status == domain.StatusReturning {
			rerr = s.arriveHome(ctx, a)
		} else {
			rerr = s.resolveArrival(ctx, a, now)
		}
		if rerr != nil {
			s.log.WithContext(ctx).Error("resolve army arrival failed",
				zap.Int64("army_id", a.ID), zap.Error(rerr))
		}
	}
}

// arriveHome 回程到站：战利品/货物入库（受仓储上限截断），军队转入待命。
func (s *MovementService) arriveHome(ctx context.Context, a *domain.Army) error {
	home, err := s.cityPort.GetByID(ctx, a.HomeCityID)
	if err != nil {
		return err
	}
	s.unload(a, home)
	if err := s.cityPort.Save(ctx, home); err != nil {
		return err
	}
	return s.settleInCity(ctx, a, home)
}

func (s *MovementService) unload(a *domain.Army, city *citydom.City) {
	for _, k := range gamedata.Kinds() {
		if v := a.Carry(k); v > 0 {
			city.AddResource(k, float64(v))
		}
	}
	a.ClearCarry()
}

func (s *MovementService) settleInCity(ctx context.Context, a *domain.Army, city *citydom.City) error {
	a.Status = domain.StatusInCity
	a.Order = domain.OrderNone
	a.X, a.Y = city.X, city.Y
	a.TargetX, a.TargetY = 0, 0
	a.DepartAt, a.ArriveAt = nil, nil
	return s.armyRepo.Save(ctx, a)
}

func (s *MovementService) resolveArrival(ctx context.Context, a *domain.Army, now time.Time) error {
	a.X, a.Y = a.TargetX, a.TargetY

	if a.Order == domain.OrderSpy {
		return s.resolveSpy(ctx, a, now)
	}

	city, err := s.cityPort.GetByCoords(ctx, a.TargetX, a.TargetY)
	if err != nil {
		return err
	}
	if city != nil {
		if city.PlayerID == a.PlayerID {
			s.unload(a, city)
			if err := s.cityPort.Save(ctx, city); err != nil {
				return err
			}
			return s.settleInCity(ctx, a, city)
		}
		if a.Order == domain.OrderTransport {
			// 运输目标易主，原路带回
			return s.beginReturn(ctx, a, now)
		}
		return s.resolveCityEncounter(ctx, a, city, now)
	}

	node, err := s.nodePort.GetByCoords(ctx, a.TargetX, a.TargetY)
	if err != nil {
		return err
	}
	if node != nil && a.Order != domain.OrderTransport {
		return s.resolveNodeEncounter(ctx, a, node, now)
	}

	return s.beginReturn(ctx, a, now)
}

// resolveSpy 谍报：目标完整快照，仅侦察方可见。
func (s *MovementService) resolveSpy(ctx context.Context, a *domain.Army, now time.Time) error {
	rep := &reportdom.SpyReport{
		PlayerID:  a.PlayerID,
		TargetX:   a.TargetX,
		TargetY:   a.TargetY,
		Garrison:  make(map[string]int64),
		VisibleTo: []int64{a.PlayerID},
		CreatedAt: now,
	}

	city, err := s.cityPort.GetByCoords(ctx, a.TargetX, a.TargetY)
	if err != nil {
		return err
	}
	switch {
	case city != nil:
		rep.CityID = city.ID
		rep.Wall = city.WallIntegrity
		rep.Resources = map[string]float64{
			"wood": city.Wood, "stone": city.Stone, "iron": city.Iron, "food": city.Food,
		}
		garrison, err := s.armyRepo.EnsureGarrison(ctx, city)
		if err != nil {
			return err
		}
		for _, u := range garrison.Units {
			if u.Count > 0 {
				rep.Garrison[u.UnitKey] = u.Count
			}
		}
	default:
		node, err := s.nodePort.GetByCoords(ctx, a.TargetX, a.TargetY)
		if err != nil {
			return err
		}
		if node != nil {
			rep.NodeID = node.ID
			tribal := combat.TribalSide(gamedata.Get(), combat.TribalSeed(node.ID, node.Level), node.CurrentPower)
			for _, st := range tribal.Stacks {
				rep.Garrison[st.UnitKey] = int64(st.Count)
			}
		}
	}

	if err := s.reporter.SaveSpy(ctx, rep); err != nil {
		return err
	}
	return s.beginReturn(ctx, a, now)
}

// resolveCityEncounter 攻城/掠夺：有守军则开战，无守军则围城。
func (s *MovementService) resolveCityEncounter(ctx context.Context, a *domain.Army, city *citydom.City, now time.Time) error {
	garrison, err := s.armyRepo.EnsureGarrison(ctx, city)
	if err != nil {
		return err
	}

	if garrison.TotalCount() <= 0 {
		city.IsSieged = true
		city.SiegeStartAt = &now
		if err := s.cityPort.Save(ctx, city); err != nil {
			return err
		}
		a.Status = domain.StatusSieging
		a.DepartAt, a.ArriveAt = nil, nil
		return s.armyRepo.Save(ctx, a)
	}

	reg := gamedata.Get()
	mode := combat.ModeCityAttack
	if a.Order == domain.OrderRaid {
		mode = combat.ModeRaid
	}

	wallLevel, err := s.wallPort.WallLevel(ctx, city.ID)
	if err != nil {
		return err
	}
	wallBonus := 0.0
	if def, ok := reg.BuildingDef("wall"); ok {
		wallBonus = def.WallBonusAt(wallLevel) * city.WallIntegrity
	}

	result, err := combat.Simulate(reg,
		sideFromArmy(a),
		sideFromGarrison(garrison),
		combat.Context{Mode: mode, Sieged: city.IsSieged, WallBonus: wallBonus},
	)
	if err != nil {
		return err
	}

	// 回程时间先定下来，攻方伤兵的可治疗时间与之对齐
	returnAt, err := s.scheduleReturn(ctx, a, result.Attacker.Remaining, now)
	if err != nil {
		return err
	}

	applyRemaining(a, result.Attacker.Remaining)
	applyRemaining(garrison, result.Defender.Remaining)

	if err := s.depositWounded(ctx, a.HomeCityID, result.Attacker.Wounded, returnAt); err != nil {
		return err
	}
	if err := s.depositWounded(ctx, city.ID, result.Defender.Wounded, now); err != nil {
		return err
	}

	loot := map[string]int64{}
	if result.Winner == combat.WinnerAttacker {
		loot = s.plunderCity(reg, a, city)
	}
	if err := s.cityPort.Save(ctx, city); err != nil {
		return err
	}
	if err := s.armyRepo.Save(ctx, garrison); err != nil {
		return err
	}

	rep := battleReport(result, a, garrison.PlayerID, city.Faction, loot, now)
	rep.CityID = city.ID
	rep.Mode = modeName(mode)
	if err := s.reporter.SaveBattle(ctx, rep); err != nil {
		return err
	}

	return s.finishOutbound(ctx, a, now, returnAt)
}

// resolveNodeEncounter 资源点：对部落守军开战，胜者按运力掠夺储量。
func (s *MovementService) resolveNodeEncounter(ctx context.Context, a *domain.Army, node *nodedom.ResourceNode, now time.Time) error {
	reg := gamedata.Get()
	tribal := combat.TribalSide(reg, combat.TribalSeed(node.ID, node.Level), node.CurrentPower)

	won := true
	var result *combat.BattleResult
	if len(tribal.Stacks) > 0 {
		var err error
		result, err = combat.Simulate(reg, sideFromArmy(a), tribal, combat.Context{Mode: combat.ModeField})
		if err != nil {
			return err
		}
		won = result.Winner == combat.WinnerAttacker
	}

	returnRemaining := remainingOf(a)
	if result != nil {
		returnRemaining = toInt64Map(result.Attacker.Remaining)
	}
	returnAt, err := s.scheduleReturnInt64(ctx, a, returnRemaining, now)
	if err != nil {
		return err
	}

	loot := map[string]int64{}
	if result != nil {
		applyRemaining(a, result.Attacker.Remaining)
		if err := s.depositWounded(ctx, a.HomeCityID, result.Attacker.Wounded, returnAt); err != nil {
			return err
		}
	}
	if won {
		loot = s.plunderNode(reg, a, node)
		if err := s.nodePort.Save(ctx, node); err != nil {
			return err
		}
	}

	if result != nil {
		rep := battleReport(result, a, 0, "", loot, now)
		rep.NodeID = node.ID
		rep.Mode = modeName(combat.ModeField)
		rep.VisibleTo = []int64{a.PlayerID}
		if err := s.reporter.SaveBattle(ctx, rep); err != nil {
			return err
		}
	}

	return s.finishOutbound(ctx, a, now, returnAt)
}

// scheduleReturn 依据战后存活兵力预计算回程到站时间。
func (s *MovementService) scheduleReturn(ctx context.Context, a *domain.Army, remaining map[string]int, now time.Time) (time.Time, error) {
	return s.scheduleReturnInt64(ctx, a, toInt64Map(remaining), now)
}

func (s *MovementService) scheduleReturnInt64(ctx context.Context, a *domain.Army, remaining map[string]int64, now time.Time) (time.Time, error) {
	home, err := s.cityPort.GetByID(ctx, a.HomeCityID)
	if err != nil {
		return time.Time{}, err
	}
	probe := &domain.Army{
		ID: a.ID, Faction: a.Faction, HeroSpeedBonus: a.HeroSpeedBonus,
	}
	for key, n := range remaining {
		probe.AddUnits(key, n)
	}
	if probe.TotalCount() <= 0 {
		// 全军覆没，没有回程
		return now, nil
	}
	seconds, err := travelSeconds(gamedata.Get(), probe, a.X, a.Y, home.X, home.Y)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(time.Duration(seconds) * time.Second), nil
}

// finishOutbound 战斗/侦察结束后转入回程；全灭的军队直接销毁。
func (s *MovementService) finishOutbound(ctx context.Context, a *domain.Army, now, returnAt time.Time) error {
	if a.TotalCount() <= 0 {
		return s.armyRepo.Delete(ctx, a.ID)
	}
	home, err := s.cityPort.GetByID(ctx, a.HomeCityID)
	if err != nil {
		return err
	}
	a.Status = domain.StatusReturning
	a.TargetX, a.TargetY = home.X, home.Y
	a.DepartAt, a.ArriveAt = &now, &returnAt
	return s.armyRepo.Save(ctx, a)
}

func (s *MovementService) beginReturn(ctx context.Context, a *domain.Army, now time.Time) error {
	returnAt, err := s.scheduleReturnInt64(ctx, a, remainingOf(a), now)
	if err != nil {
		return err
	}
	return s.finishOutbound(ctx, a, now, returnAt)
}

func (s *MovementService) depositWounded(ctx context.Context, cityID int64, wounded map[string]int, readyAt time.Time) error {
	for key, n := range wounded {
		if n <= 0 {
			continue
		}
		if err := s.wounded.AddWounded(ctx, cityID, key, n, readyAt); err != nil {
			return err
		}
	}
	return nil
}

// plunderCity 按幸存运力掠夺守城资源，四种资源按余额比例分摊。
func (s *MovementService) plunderCity(reg *gamedata.Registry, a *domain.Army, city *citydom.City) map[string]int64 {
	capacity := carryCapacity(reg, a)
	if capacity <= 0 {
		return map[string]int64{}
	}
	total := 0.0
	for _, k := range gamedata.Kinds() {
		total += city.Resource(k)
	}
	if total <= 0 {
		return map[string]int64{}
	}
	fraction := 1.0
	if total > float64(capacity) {
		fraction = float64(capacity) / total
	}

	loot := make(map[string]int64, 4)
	for _, k := range gamedata.Kinds() {
		take := int64(city.Resource(k) * fraction)
		if take <= 0 {
			continue
		}
		city.AddResource(k, -float64(take))
		a.AddCarry(k, take)
		loot[k.String()] = take
	}
	return loot
}

// plunderNode 从资源点取走 min(运力, 当前储量)；金矿按四种资源均分。
func (s *MovementService) plunderNode(reg *gamedata.Registry, a *domain.Army, node *nodedom.ResourceNode) map[string]int64 {
	capacity := carryCapacity(reg, a)
	if capacity <= 0 {
		return map[string]int64{}
	}
	taken := int64(node.Deplete(float64(capacity)))
	if taken <= 0 {
		return map[string]int64{}
	}

	loot := make(map[string]int64, 4)
	switch node.Kind {
	case nodedom.NodeWood:
		a.AddCarry(gamedata.Wood, taken)
		loot["wood"] = taken
	case nodedom.NodeStone:
		a.AddCarry(gamedata.Stone, taken)
		loot["stone"] = taken
	case nodedom.NodeIron:
		a.AddCarry(gamedata.Iron, taken)
		loot["iron"] = taken
	case nodedom.NodeFood:
		a.AddCarry(gamedata.Food, taken)
		loot["food"] = taken
	case nodedom.NodeGold:
		share := taken / 4
		for _, k := range gamedata.Kinds() {
			if share > 0 {
				a.AddCarry(k, share)
				loot[k.String()] = share
			}
		}
	}
	return loot
}

// carryCapacity 幸存兵力的剩余运力。
func carryCapacity(reg *gamedata.Registry, a *domain.Army) int64 {
	var capacity int64
	for _, u := range a.Units {
		if u.Count <= 0 {
			continue
		}
		if def, ok := reg.UnitDef(u.UnitKey); ok {
			capacity += def.Capacity * u.Count
		}
	}
	for _, k := range gamedata.Kinds() {
		capacity -= a.Carry(k)
	}
	if capacity < 0 {
		capacity = 0
	}
	return capacity
}

func sideFromArmy(a *domain.Army) combat.Side {
	side := combat.Side{Faction: a.Faction}
	if a.HeroAttackBonus != 0 || a.HeroDefenseBonus != 0 {
		side.Hero = &combat.Hero{AttackBonus: a.HeroAttackBonus, DefenseBonus: a.HeroDefenseBonus}
	}
	for _, u := range a.Units {
		if u.Count > 0 {
			side.Stacks = append(side.Stacks, combat.Stack{UnitKey: u.UnitKey, Count: int(u.Count)})
		}
	}
	return side
}

func sideFromGarrison(g *domain.Army) combat.Side {
	side := sideFromArmy(g)
	side.InCity = true
	return side
}

func applyRemaining(a *domain.Army, remaining map[string]int) {
	m := make(map[string]int64, len(remaining))
	for k, v := range remaining {
		m[k] = int64(v)
	}
	a.SetRemaining(m)
}

func remainingOf(a *domain.Army) map[string]int64 {
	m := make(map[string]int64, len(a.Units))
	for _, u := range a.Units {
		if u.Count > 0 {
			m[u.UnitKey] = u.Count
		}
	}
	return m
}

func toInt64Map(in map[string]int) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = int64(v)
	}
	return out
}

func battleReport(result *combat.BattleResult, attacker *domain.Army, defenderPlayerID int64,
	defenderFaction string, loot map[string]int64, now time.Time) *reportdom.BattleReport {
	visible := []int64{attacker.PlayerID}
	if defenderPlayerID != 0 {
		visible = append(visible, defenderPlayerID)
	}
	return &reportdom.BattleReport{
		Winner:  result.Winner.String(),
		Rounds:  result.Rounds,
		TargetX: attacker.TargetX,
		TargetY: attacker.TargetY,
		Attacker: reportdom.SideReport{
			PlayerID:  attacker.PlayerID,
			Faction:   attacker.Faction,
			Killed:    toInt64Map(result.Attacker.Killed),
			Wounded:   toInt64Map(result.Attacker.Wounded),
			Remaining: toInt64Map(result.Attacker.Remaining),
		},
		Defender: reportdom.SideReport{
			PlayerID:  defenderPlayerID,
			Faction:   defenderFaction,
			Killed:    toInt64Map(result.Defender.Killed),
			Wounded:   toInt64Map(result.Defender.Wounded),
			Remaining: toInt64Map(result.Defender.Remaining),
		},
		Loot:      loot,
		VisibleTo: visible,
		CreatedAt: now,
	}
}

func modeName(m combat.Mode) string {
	switch m {
	case combat.ModeCityAttack:
		return "city_attack"
	case combat.ModeRaid:
		return "raid"
	default:
		return "field"
	}
}
