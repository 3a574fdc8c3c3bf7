package service

import (
	"context"
	"math"
	"testing"
	"time"

	"Stormhold/internal/army/domain"
	"Stormhold/internal/kit/logx"
)

func Test围城_攻城值持续削墙(t *testing.T) {
	installArmyTables()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	target := enemyCity()
	target.IsSieged = true
	target.SiegeStartAt = &now

	besieger := &domain.Army{
		ID: 1, PlayerID: 10, HomeCityID: 1, Faction: "highland",
		X: 5, Y: 5, Status: domain.StatusSieging, Order: domain.OrderAttack,
		TargetX: 5, TargetY: 5,
		Units:   []*domain.ArmyUnit{{ArmyID: 1, UnitKey: "ram", Count: 2}},
	}
	armyRepo := newFakeArmyRepo(besieger)
	cityPort := newFakeCityPort(homeCity(), target)
	svc := NewSiegeService(armyRepo, cityPort, time.Hour, logx.NewZapLogger(nil))

	svc.Tick(context.Background(), now)

	city, _ := cityPort.GetByID(context.Background(), 2)
	// 2 冲车 × 攻城值 10 × 0.0004/h × 1h = 0.008
	want := 1 - 0.008
	if math.Abs(city.WallIntegrity-want) > 1e-9 {
		t.Fatalf("期望城墙 %v，实际 %v", want, city.WallIntegrity)
	}
	if !city.IsSieged {
		t.Fatalf("墙未塌时围城应继续")
	}
}

func Test围城_墙塌后围城结束攻方回程(t *testing.T) {
	installArmyTables()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	target := enemyCity()
	target.WallIntegrity = 0.001
	target.IsSieged = true
	target.SiegeStartAt = &now

	besieger := &domain.Army{
		ID: 1, PlayerID: 10, HomeCityID: 1, Faction: "highland",
		X: 5, Y: 5, Status: domain.StatusSieging, Order: domain.OrderAttack,
		TargetX: 5, TargetY: 5,
		Units:   []*domain.ArmyUnit{{ArmyID: 1, UnitKey: "ram", Count: 10}},
	}
	armyRepo := newFakeArmyRepo(besieger)
	cityPort := newFakeCityPort(homeCity(), target)
	svc := NewSiegeService(armyRepo, cityPort, time.Hour, logx.NewZapLogger(nil))

	svc.Tick(context.Background(), now)

	city, _ := cityPort.GetByID(context.Background(), 2)
	if city.WallIntegrity != 0 || city.IsSieged || city.SiegeStartAt != nil {
		t.Fatalf("期望墙塌且围城结束，实际墙 %v 围城 %v", city.WallIntegrity, city.IsSieged)
	}
	a, _ := armyRepo.GetByID(context.Background(), 1)
	if a.Status != domain.StatusReturning {
		t.Fatalf("期望围城军回程，实际状态 %d", a.Status)
	}
}

func Test围城_未被围城墙缓慢自愈(t *testing.T) {
	installArmyTables()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	damaged := enemyCity()
	damaged.WallIntegrity = 0.5

	armyRepo := newFakeArmyRepo()
	cityPort := newFakeCityPort(damaged)
	svc := NewSiegeService(armyRepo, cityPort, time.Hour, logx.NewZapLogger(nil))

	svc.Tick(context.Background(), now)

	city, _ := cityPort.GetByID(context.Background(), 2)
	want := 0.5 + 0.05
	if math.Abs(city.WallIntegrity-want) > 1e-9 {
		t.Fatalf("期望城墙自愈到 %v，实际 %v", want, city.WallIntegrity)
	}
}
