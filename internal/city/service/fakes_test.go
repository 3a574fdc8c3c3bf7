package service

import (
	"context"
	"sort"
	"time"

	"Stormhold/internal/city/domain"
	"Stormhold/internal/gamedata"
)

// 内存版仓储，供本包服务测试使用。

type fakeCityRepo struct {
	cities map[int64]*domain.City
}

func newFakeCityRepo(cities ...*domain.City) *fakeCityRepo {
	r := &fakeCityRepo{cities: make(map[int64]*domain.City)}
	for _, c := range cities {
		cp := *c
		r.cities[c.ID] = &cp
	}
	return r
}

func (r *fakeCityRepo) GetByID(_ context.Context, id int64) (*domain.City, error) {
	c, ok := r.cities[id]
	if !ok {
		return nil, domain.ErrCityNotFound.WithData("city_id", id)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCityRepo) ListAll(_ context.Context) ([]*domain.City, error) {
	ids := make([]int64, 0, len(r.cities))
	for id := range r.cities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*domain.City, 0, len(ids))
	for _, id := range ids {
		cp := *r.cities[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCityRepo) Save(_ context.Context, c *domain.City) error {
	cp := *c
	r.cities[c.ID] = &cp
	return nil
}

type buildingKey struct {
	cityID int64
	key    string
	slot   int
}

type fakeBuildingRepo struct {
	buildings map[buildingKey]*domain.CityBuilding
	nextID    int64
}

func newFakeBuildingRepo(buildings ...*domain.CityBuilding) *fakeBuildingRepo {
	r := &fakeBuildingRepo{buildings: make(map[buildingKey]*domain.CityBuilding)}
	for _, b := range buildings {
		cp := *b
		r.nextID++
		cp.ID = r.nextID
		r.buildings[buildingKey{b.CityID, b.BuildingKey, b.Slot}] = &cp
	}
	return r
}

func (r *fakeBuildingRepo) ListByCity(_ context.Context, cityID int64) ([]*domain.CityBuilding, error) {
	var out []*domain.CityBuilding
	for _, b := range r.buildings {
		if b.CityID == cityID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBuildingRepo) Get(_ context.Context, cityID int64, key string, slot int) (*domain.CityBuilding, error) {
	b, ok := r.buildings[buildingKey{cityID, key, slot}]
	if !ok {
		return nil, domain.ErrBuildingNotFound.WithData("building_key", key)
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBuildingRepo) Save(_ context.Context, b *domain.CityBuilding) error {
	cp := *b
	if cp.ID == 0 {
		r.nextID++
		cp.ID = r.nextID
	}
	r.buildings[buildingKey{b.CityID, b.BuildingKey, b.Slot}] = &cp
	return nil
}

type fakeBuildQueueRepo struct {
	cityRepo *fakeCityRepo
	items    []*domain.BuildQueueItem
	nextID   int64
}

func (r *fakeBuildQueueRepo) ListActiveByCity(_ context.Context, cityID int64) ([]*domain.BuildQueueItem, error) {
	var out []*domain.BuildQueueItem
	for _, it := range r.items {
		if it.CityID == cityID && it.Status != domain.StatusDone {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (r *fakeBuildQueueRepo) ListDue(_ context.Context, now time.Time) ([]*domain.BuildQueueItem, error) {
	var out []*domain.BuildQueueItem
	for _, it := range r.items {
		if it.Status == domain.StatusRunning && !it.EndsAt.After(now) {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBuildQueueRepo) Admit(ctx context.Context, c *domain.City, item *domain.BuildQueueItem) error {
	if err := r.cityRepo.Save(ctx, c); err != nil {
		return err
	}
	r.nextID++
	item.ID = r.nextID
	cp := *item
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeBuildQueueRepo) Save(_ context.Context, item *domain.BuildQueueItem) error {
	for i, it := range r.items {
		if it.ID == item.ID {
			cp := *item
			r.items[i] = &cp
			return nil
		}
	}
	return domain.ErrBuildingNotFound.WithData("item_id", item.ID)
}

type fakeRecruitQueueRepo struct {
	cityRepo *fakeCityRepo
	items    []*domain.RecruitQueueItem
	nextID   int64
}

func (r *fakeRecruitQueueRepo) ListActiveByBuilding(_ context.Context, cityID int64, bkey string) ([]*domain.RecruitQueueItem, error) {
	var out []*domain.RecruitQueueItem
	for _, it := range r.items {
		if it.CityID == cityID && it.BuildingKey == bkey && it.Status != domain.StatusDone {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (r *fakeRecruitQueueRepo) ListDue(_ context.Context, now time.Time) ([]*domain.RecruitQueueItem, error) {
	var out []*domain.RecruitQueueItem
	for _, it := range r.items {
		if it.Status == domain.StatusRunning && !it.EndsAt.After(now) {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRecruitQueueRepo) Admit(ctx context.Context, c *domain.City, item *domain.RecruitQueueItem) error {
	if err := r.cityRepo.Save(ctx, c); err != nil {
		return err
	}
	r.nextID++
	item.ID = r.nextID
	cp := *item
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeRecruitQueueRepo) Save(_ context.Context, item *domain.RecruitQueueItem) error {
	for i, it := range r.items {
		if it.ID == item.ID {
			cp := *item
			r.items[i] = &cp
			return nil
		}
	}
	return domain.ErrBuildingNotFound.WithData("item_id", item.ID)
}

type fakeWoundedRepo struct {
	wounded []*domain.WoundedUnit
	nextID  int64
}

func (r *fakeWoundedRepo) add(w domain.WoundedUnit) *domain.WoundedUnit {
	r.nextID++
	w.ID = r.nextID
	cp := w
	r.wounded = append(r.wounded, &cp)
	return &cp
}

func (r *fakeWoundedRepo) ListReady(_ context.Context, cityID int64, now time.Time) ([]*domain.WoundedUnit, error) {
	var out []*domain.WoundedUnit
	for _, w := range r.wounded {
		if w.CityID == cityID && !w.HealReadyAt.After(now) {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HealReadyAt.Before(out[j].HealReadyAt) })
	return out, nil
}

func (r *fakeWoundedRepo) Save(_ context.Context, w *domain.WoundedUnit) error {
	for i, it := range r.wounded {
		if it.ID == w.ID {
			cp := *w
			r.wounded[i] = &cp
			return nil
		}
	}
	return domain.ErrBuildingNotFound.WithData("wounded_id", w.ID)
}

func (r *fakeWoundedRepo) Delete(_ context.Context, id int64) error {
	for i, it := range r.wounded {
		if it.ID == id {
			r.wounded = append(r.wounded[:i], r.wounded[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeGarrison struct {
	units  map[int64]map[string]int
	upkeep map[int64]float64
}

func newFakeGarrison() *fakeGarrison {
	return &fakeGarrison{
		units:  make(map[int64]map[string]int),
		upkeep: make(map[int64]float64),
	}
}

func (g *fakeGarrison) AddUnits(_ context.Context, cityID int64, unitKey string, count int) error {
	if g.units[cityID] == nil {
		g.units[cityID] = make(map[string]int)
	}
	g.units[cityID][unitKey] += count
	return nil
}

func (g *fakeGarrison) FoodUpkeepPerHour(_ context.Context, cityID int64) (float64, error) {
	return g.upkeep[cityID], nil
}

// installTestTables 安装本包测试共用的数值表。
func installTestTables(rules gamedata.Rules) {
	units := []gamedata.UnitDef{
		{
			Key: "militia", Name: "民兵", Class: gamedata.ClassInfantry, Tier: 1,
			Attack: 10, Defense: 8, Endurance: 40, Speed: 6,
			FoodUpkeep: 1, TrainSeconds: 30, TrainBuilding: "barracks",
			Cost: gamedata.Cost{Wood: 50, Food: 30},
		},
	}
	buildings := []gamedata.BuildingDef{
		{
			Key: "main_hall", Name: "主堡", Category: gamedata.CategoryMain, MaxLevel: 10,
			CostL1: gamedata.Cost{Wood: 60, Stone: 90, Iron: 30, Food: 20},
			CostMax: gamedata.Cost{Wood: 6000, Stone: 9000, Iron: 3000, Food: 2000},
			TimeL1S: 10, TimeMaxS: 3600, PopulationPerLevel: 2,
		},
		{
			Key: "lumber_camp", Name: "伐木场", Category: gamedata.CategoryEconomy, MaxLevel: 10,
			CostL1:  gamedata.Cost{Wood: 50, Stone: 30, Iron: 20, Food: 10},
			CostMax: gamedata.Cost{Wood: 5000, Stone: 3000, Iron: 2000, Food: 1000},
			TimeL1S: 20, TimeMaxS: 2000,
			Production:         &gamedata.ProductionDef{Kind: gamedata.Wood, PerHourL1: 30, PerHourMax: 300},
			PopulationPerLevel: 1,
		},
		{
			Key: "quarry", Name: "采石场", Category: gamedata.CategoryEconomy, MaxLevel: 10,
			CostL1:  gamedata.Cost{Wood: 150, Stone: 100, Iron: 80, Food: 40},
			CostMax: gamedata.Cost{Wood: 15000, Stone: 10000, Iron: 8000, Food: 4000},
			TimeL1S: 20, TimeMaxS: 2000,
			Production:         &gamedata.ProductionDef{Kind: gamedata.Stone, PerHourL1: 25, PerHourMax: 250},
			PopulationPerLevel: 1,
		},
		{
			Key: "warehouse", Name: "仓库", Category: gamedata.CategoryStorage, MaxLevel: 10,
			CostL1:  gamedata.Cost{Wood: 40, Stone: 60, Iron: 20, Food: 10},
			CostMax: gamedata.Cost{Wood: 4000, Stone: 6000, Iron: 2000, Food: 1000},
			TimeL1S: 30, TimeMaxS: 3000,
			StorageL1: 1000, StorageMax: 10000, PopulationPerLevel: 1,
		},
		{
			Key: "barracks", Name: "兵营", Category: gamedata.CategoryMilitary, MaxLevel: 10,
			CostL1:  gamedata.Cost{Wood: 80, Stone: 60, Iron: 40, Food: 20},
			CostMax: gamedata.Cost{Wood: 8000, Stone: 6000, Iron: 4000, Food: 2000},
			TimeL1S: 30, TimeMaxS: 3000, PopulationPerLevel: 1,
		},
		{
			Key: "hospital", Name: "医馆", Category: gamedata.CategoryMedical, MaxLevel: 10,
			CostL1:  gamedata.Cost{Wood: 70, Stone: 50, Iron: 30, Food: 20},
			CostMax: gamedata.Cost{Wood: 7000, Stone: 5000, Iron: 3000, Food: 2000},
			TimeL1S: 30, TimeMaxS: 3000,
			HealPerTickL1: 5, HealPerTickMax: 50, PopulationPerLevel: 1,
		},
	}
	factions := []gamedata.FactionDef{
		{Key: "highland", Name: "高地", Production: 0.1},
	}
	gamedata.Install(gamedata.NewRegistry(units, buildings, factions, rules))
}

func defaultTestRules() gamedata.Rules {
	return gamedata.Rules{
		MaxRunningBuilds:   2,
		MaxQueuedBuilds:    2,
		MaxRunningRecruits: 1,
		MaxQueuedRecruits:  2,
		BaseStorage:        800,
		BaseFoodStorage:    800,
	}
}
