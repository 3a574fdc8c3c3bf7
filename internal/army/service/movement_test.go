package service

import (
	"context"
	"testing"
	"time"

	"Stormhold/internal/army/domain"
	citydom "Stormhold/internal/city/domain"
	"Stormhold/internal/kit/logx"
	nodedom "Stormhold/internal/node/domain"
)

type moveFixture struct {
	svc      *MovementService
	armyRepo *fakeArmyRepo
	cityPort *fakeCityPort
	nodePort *fakeNodePort
	reporter *fakeReporter
	wounded  *fakeWoundedSink
}

func newMoveFixture(t *testing.T, armies []*domain.Army, cities []*citydom.City, nodes []*nodedom.ResourceNode) *moveFixture {
	t.Helper()
	installArmyTables()
	f := &moveFixture{
		armyRepo: newFakeArmyRepo(armies...),
		cityPort: newFakeCityPort(cities...),
		nodePort: newFakeNodePort(nodes...),
		reporter: &fakeReporter{},
		wounded:  &fakeWoundedSink{},
	}
	f.svc = NewMovementService(f.armyRepo, f.cityPort, &fakeWallPort{levels: map[int64]int{}},
		f.nodePort, f.reporter, f.wounded, logx.NewZapLogger(nil))
	return f
}

func marchingArmy(order int8, targetX, targetY int, arriveAt time.Time, count int64) *domain.Army {
	return &domain.Army{
		ID: 1, PlayerID: 10, HomeCityID: 1, Faction: "highland",
		X: targetX, Y: targetY, Status: domain.StatusMoving, Order: order,
		TargetX: targetX, TargetY: targetY, ArriveAt: &arriveAt,
		Units: []*domain.ArmyUnit{{ArmyID: 1, UnitKey: "militia", Count: count}},
	}
}

func enemyCity() *citydom.City {
	return &citydom.City{ID: 2, PlayerID: 20, Faction: "valeborn", X: 5, Y: 5,
		Wood: 400, Stone: 300, Iron: 200, Food: 100,
		StorageCap: 5000, FoodCap: 5000, WallIntegrity: 1}
}

func Test行军_百打五十攻方获胜守方全灭(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	attacker := marchingArmy(domain.OrderAttack, 5, 5, now.Add(-time.Minute), 100)
	garrison := &domain.Army{
		ID: 2, PlayerID: 20, HomeCityID: 2, Faction: "valeborn", IsGarrison: true,
		X: 5, Y: 5, Status: domain.StatusGarrison,
		Units: []*domain.ArmyUnit{{ArmyID: 2, UnitKey: "militia", Count: 50}},
	}
	f := newMoveFixture(t, []*domain.Army{attacker, garrison},
		[]*citydom.City{homeCity(), enemyCity()}, nil)

	f.svc.Tick(context.Background(), now)

	atk, err := f.armyRepo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("攻方军队应存活: %v", err)
	}
	if atk.Status != domain.StatusReturning {
		t.Fatalf("期望攻方回程，实际状态 %d", atk.Status)
	}
	if atk.TotalCount() <= 0 {
		t.Fatalf("期望攻方有幸存兵力")
	}

	def, _ := f.armyRepo.GetByID(context.Background(), 2)
	if def.TotalCount() != 0 {
		t.Fatalf("期望守方全灭，实际剩 %d", def.TotalCount())
	}

	if len(f.reporter.battles) != 1 {
		t.Fatalf("期望生成 1 份战报，实际 %d", len(f.reporter.battles))
	}
	rep := f.reporter.battles[0]
	if rep.Winner != "attacker" {
		t.Fatalf("期望攻方获胜，实际 %s", rep.Winner)
	}
	if len(rep.VisibleTo) != 2 {
		t.Fatalf("期望战报双方可见，实际 %v", rep.VisibleTo)
	}

	// 守方伤兵落在守方城，立即可治；攻方伤兵可治时间对齐回程到站
	for _, w := range f.wounded.entries {
		switch w.cityID {
		case 2:
			if !w.readyAt.Equal(now) {
				t.Fatalf("期望守方伤兵立即可治，实际 %v", w.readyAt)
			}
		case 1:
			if atk.ArriveAt == nil || !w.readyAt.Equal(*atk.ArriveAt) {
				t.Fatalf("期望攻方伤兵可治时间 %v，实际 %v", atk.ArriveAt, w.readyAt)
			}
		}
	}
}

func Test行军_战胜后按运力掠夺守城资源(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	attacker := marchingArmy(domain.OrderRaid, 5, 5, now.Add(-time.Minute), 100)
	garrison := &domain.Army{
		ID: 2, PlayerID: 20, HomeCityID: 2, Faction: "valeborn", IsGarrison: true,
		X: 5, Y: 5, Status: domain.StatusGarrison,
		Units: []*domain.ArmyUnit{{ArmyID: 2, UnitKey: "militia", Count: 10}},
	}
	f := newMoveFixture(t, []*domain.Army{attacker, garrison},
		[]*citydom.City{homeCity(), enemyCity()}, nil)

	f.svc.Tick(context.Background(), now)

	atk, _ := f.armyRepo.GetByID(context.Background(), 1)
	carried := atk.CarryWood + atk.CarryStone + atk.CarryIron + atk.CarryFood
	if carried <= 0 {
		t.Fatalf("期望掠到战利品")
	}
	city, _ := f.cityPort.GetByID(context.Background(), 2)
	total := city.Wood + city.Stone + city.Iron + city.Food
	if total+float64(carried) > 1000+1e-6 {
		t.Fatalf("掠夺凭空创造了资源：城内剩 %v，携带 %d", total, carried)
	}
}

func Test行军_无守军敌城转入围城(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	attacker := marchingArmy(domain.OrderAttack, 5, 5, now.Add(-time.Minute), 100)
	f := newMoveFixture(t, []*domain.Army{attacker},
		[]*citydom.City{homeCity(), enemyCity()}, nil)

	f.svc.Tick(context.Background(), now)

	city, _ := f.cityPort.GetByID(context.Background(), 2)
	if !city.IsSieged || city.SiegeStartAt == nil {
		t.Fatalf("期望城市进入围城状态")
	}
	atk, _ := f.armyRepo.GetByID(context.Background(), 1)
	if atk.Status != domain.StatusSieging {
		t.Fatalf("期望攻方 SIEGING，实际 %d", atk.Status)
	}
}

func Test行军_侦察只出谍报不触发战斗(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	spy := marchingArmy(domain.OrderSpy, 5, 5, now.Add(-time.Minute), 5)
	garrison := &domain.Army{
		ID: 2, PlayerID: 20, HomeCityID: 2, Faction: "valeborn", IsGarrison: true,
		X: 5, Y: 5, Status: domain.StatusGarrison,
		Units: []*domain.ArmyUnit{{ArmyID: 2, UnitKey: "militia", Count: 50}},
	}
	f := newMoveFixture(t, []*domain.Army{spy, garrison},
		[]*citydom.City{homeCity(), enemyCity()}, nil)

	f.svc.Tick(context.Background(), now)

	if len(f.reporter.battles) != 0 {
		t.Fatalf("侦察不应触发战斗")
	}
	if len(f.reporter.spies) != 1 {
		t.Fatalf("期望生成 1 份谍报，实际 %d", len(f.reporter.spies))
	}
	rep := f.reporter.spies[0]
	if rep.Garrison["militia"] != 50 {
		t.Fatalf("期望谍报看到守军 50，实际 %v", rep.Garrison)
	}
	if len(rep.VisibleTo) != 1 || rep.VisibleTo[0] != 10 {
		t.Fatalf("期望谍报仅侦察方可见，实际 %v", rep.VisibleTo)
	}
	def, _ := f.armyRepo.GetByID(context.Background(), 2)
	if def.TotalCount() != 50 {
		t.Fatalf("侦察改变了守军兵力")
	}
}

func Test行军_资源点掠夺受运力与储量限制(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	attacker := marchingArmy(domain.OrderRaid, 7, 7, now.Add(-time.Minute), 100)
	node := &nodedom.ResourceNode{
		ID: 1, X: 7, Y: 7, Kind: nodedom.NodeWood, Level: 2,
		Fill: 1, BasePower: 0, CurrentPower: 0, LastRegenAt: now,
	}
	f := newMoveFixture(t, []*domain.Army{attacker},
		[]*citydom.City{homeCity()}, []*nodedom.ResourceNode{node})

	f.svc.Tick(context.Background(), now)

	atk, _ := f.armyRepo.GetByID(context.Background(), 1)
	// 运力 100×20=2000，储量 2×500=1000，取 min
	if atk.CarryWood != 1000 {
		t.Fatalf("期望掠走 1000 木材，实际 %d", atk.CarryWood)
	}
	got, _ := f.nodePort.GetByCoords(context.Background(), 7, 7)
	if got.Fill != 0 {
		t.Fatalf("期望资源点被掏空，实际储量比例 %v", got.Fill)
	}
	if atk.Status != domain.StatusReturning {
		t.Fatalf("期望回程，实际状态 %d", atk.Status)
	}
}

func Test行军_回城卸货受仓储上限截断(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	home := homeCity()
	home.Wood = 900
	home.StorageCap = 1000

	returning := &domain.Army{
		ID: 1, PlayerID: 10, HomeCityID: 1, Faction: "highland",
		X: 3, Y: 3, Status: domain.StatusReturning, Order: domain.OrderRaid,
		TargetX: 0, TargetY: 0, ArriveAt: &now,
		CarryWood: 500,
		Units:     []*domain.ArmyUnit{{ArmyID: 1, UnitKey: "militia", Count: 40}},
	}
	f := newMoveFixture(t, []*domain.Army{returning}, []*citydom.City{home}, nil)

	f.svc.Tick(context.Background(), now)

	city, _ := f.cityPort.GetByID(context.Background(), 1)
	if city.Wood != 1000 {
		t.Fatalf("期望木材停在仓储上限 1000，实际 %v", city.Wood)
	}
	atk, _ := f.armyRepo.GetByID(context.Background(), 1)
	if atk.Status != domain.StatusInCity || atk.CarryWood != 0 {
		t.Fatalf("期望军队进城并清空携带，实际状态 %d 携带 %d", atk.Status, atk.CarryWood)
	}
}
