package service

import (
	"context"
	"sort"
	"time"

	"Stormhold/internal/army/domain"
	citydom "Stormhold/internal/city/domain"
	"Stormhold/internal/gamedata"
	nodedom "Stormhold/internal/node/domain"
	reportdom "Stormhold/internal/report/domain"
)

type fakeArmyRepo struct {
	armies map[int64]*domain.Army
	nextID int64
}

func newFakeArmyRepo(armies ...*domain.Army) *fakeArmyRepo {
	r := &fakeArmyRepo{armies: make(map[int64]*domain.Army)}
	for _, a := range armies {
		if a.ID == 0 {
			r.nextID++
			a.ID = r.nextID
		} else if a.ID > r.nextID {
			r.nextID = a.ID
		}
		r.armies[a.ID] = cloneArmy(a)
	}
	return r
}

func cloneArmy(a *domain.Army) *domain.Army {
	cp := *a
	cp.Units = nil
	for _, u := range a.Units {
		uc := *u
		cp.Units = append(cp.Units, &uc)
	}
	return &cp
}

func (r *fakeArmyRepo) GetByID(_ context.Context, id int64) (*domain.Army, error) {
	a, ok := r.armies[id]
	if !ok {
		return nil, domain.ErrArmyNotFound.WithData("army_id", id)
	}
	return cloneArmy(a), nil
}

func (r *fakeArmyRepo) ListArrived(_ context.Context, now time.Time) ([]*domain.Army, error) {
	var out []*domain.Army
	for _, a := range r.armies {
		if (a.Status == domain.StatusMoving || a.Status == domain.StatusReturning) &&
			a.ArriveAt != nil && !a.ArriveAt.After(now) {
			out = append(out, cloneArmy(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeArmyRepo) ListSieging(_ context.Context) ([]*domain.Army, error) {
	var out []*domain.Army
	for _, a := range r.armies {
		if a.Status == domain.StatusSieging {
			out = append(out, cloneArmy(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeArmyRepo) ListByHomeCity(_ context.Context, cityID int64) ([]*domain.Army, error) {
	var out []*domain.Army
	for _, a := range r.armies {
		if a.HomeCityID == cityID {
			out = append(out, cloneArmy(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeArmyRepo) EnsureGarrison(_ context.Context, city *citydom.City) (*domain.Army, error) {
	for _, a := range r.armies {
		if a.IsGarrison && a.HomeCityID == city.ID {
			return cloneArmy(a), nil
		}
	}
	r.nextID++
	g := &domain.Army{
		ID: r.nextID, PlayerID: city.PlayerID, HomeCityID: city.ID,
		Faction: city.Faction, IsGarrison: true,
		X: city.X, Y: city.Y, Status: domain.StatusGarrison,
	}
	r.armies[g.ID] = cloneArmy(g)
	return cloneArmy(g), nil
}

func (r *fakeArmyRepo) Save(_ context.Context, a *domain.Army) error {
	if a.ID == 0 {
		r.nextID++
		a.ID = r.nextID
	}
	cp := cloneArmy(a)
	pruned := cp.Units[:0]
	for _, u := range cp.Units {
		if u.Count > 0 {
			pruned = append(pruned, u)
		}
	}
	cp.Units = pruned
	r.armies[a.ID] = cp
	return nil
}

func (r *fakeArmyRepo) Delete(_ context.Context, id int64) error {
	delete(r.armies, id)
	return nil
}

type fakeCityPort struct {
	cities map[int64]*citydom.City
}

func newFakeCityPort(cities ...*citydom.City) *fakeCityPort {
	p := &fakeCityPort{cities: make(map[int64]*citydom.City)}
	for _, c := range cities {
		cp := *c
		p.cities[c.ID] = &cp
	}
	return p
}

func (p *fakeCityPort) GetByID(_ context.Context, id int64) (*citydom.City, error) {
	c, ok := p.cities[id]
	if !ok {
		return nil, citydom.ErrCityNotFound.WithData("city_id", id)
	}
	cp := *c
	return &cp, nil
}

func (p *fakeCityPort) GetByCoords(_ context.Context, x, y int) (*citydom.City, error) {
	for _, c := range p.cities {
		if c.X == x && c.Y == y {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (p *fakeCityPort) ListAll(_ context.Context) ([]*citydom.City, error) {
	ids := make([]int64, 0, len(p.cities))
	for id := range p.cities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*citydom.City, 0, len(ids))
	for _, id := range ids {
		cp := *p.cities[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (p *fakeCityPort) Save(_ context.Context, c *citydom.City) error {
	cp := *c
	p.cities[c.ID] = &cp
	return nil
}

type fakeWallPort struct {
	levels map[int64]int
}

func (p *fakeWallPort) WallLevel(_ context.Context, cityID int64) (int, error) {
	return p.levels[cityID], nil
}

type fakeNodePort struct {
	nodes map[int64]*nodedom.ResourceNode
}

func newFakeNodePort(nodes ...*nodedom.ResourceNode) *fakeNodePort {
	p := &fakeNodePort{nodes: make(map[int64]*nodedom.ResourceNode)}
	for _, n := range nodes {
		cp := *n
		p.nodes[n.ID] = &cp
	}
	return p
}

func (p *fakeNodePort) GetByCoords(_ context.Context, x, y int) (*nodedom.ResourceNode, error) {
	for _, n := range p.nodes {
		if n.X == x && n.Y == y {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (p *fakeNodePort) Save(_ context.Context, n *nodedom.ResourceNode) error {
	cp := *n
	p.nodes[n.ID] = &cp
	return nil
}

type fakeReporter struct {
	battles []*reportdom.BattleReport
	spies   []*reportdom.SpyReport
}

func (r *fakeReporter) SaveBattle(_ context.Context, rep *reportdom.BattleReport) error {
	r.battles = append(r.battles, rep)
	return nil
}

func (r *fakeReporter) SaveSpy(_ context.Context, rep *reportdom.SpyReport) error {
	r.spies = append(r.spies, rep)
	return nil
}

type woundedEntry struct {
	cityID  int64
	unitKey string
	count   int
	readyAt time.Time
}

type fakeWoundedSink struct {
	entries []woundedEntry
}

func (s *fakeWoundedSink) AddWounded(_ context.Context, cityID int64, unitKey string, count int, readyAt time.Time) error {
	s.entries = append(s.entries, woundedEntry{cityID, unitKey, count, readyAt})
	return nil
}

// installArmyTables 安装军队上下文测试共用的数值表。
func installArmyTables() {
	units := []gamedata.UnitDef{
		{
			Key: "militia", Name: "民兵", Class: gamedata.ClassInfantry, Tier: gamedata.TierBase,
			Attack: 10, Defense: 8, Endurance: 40, Speed: 6, Capacity: 20,
			FoodUpkeep: 1, TrainSeconds: 30, TrainBuilding: "barracks",
		},
		{
			Key: "lancer", Name: "枪骑", Class: gamedata.ClassCavalry, Tier: gamedata.TierBase,
			Attack: 14, Defense: 6, Endurance: 35, Speed: 12, Capacity: 60,
			FoodUpkeep: 2, TrainSeconds: 60, TrainBuilding: "stable",
		},
		{
			Key: "ram", Name: "冲车", Class: gamedata.ClassSiege, Tier: gamedata.TierBase,
			Attack: 4, Defense: 2, Endurance: 80, Speed: 3, SiegePower: 10,
			FoodUpkeep: 3, TrainSeconds: 300, TrainBuilding: "workshop",
		},
	}
	buildings := []gamedata.BuildingDef{
		{Key: "barracks", Name: "兵营", Category: gamedata.CategoryMilitary, MaxLevel: 10, TimeL1S: 30, TimeMaxS: 3000},
		{Key: "stable", Name: "马厩", Category: gamedata.CategoryMilitary, MaxLevel: 10, TimeL1S: 30, TimeMaxS: 3000},
		{Key: "workshop", Name: "工坊", Category: gamedata.CategoryMilitary, MaxLevel: 10, TimeL1S: 30, TimeMaxS: 3000},
		{
			Key: "wall", Name: "城墙", Category: gamedata.CategoryDefense, MaxLevel: 10,
			TimeL1S: 30, TimeMaxS: 3000, WallBonusL1: 0.05, WallBonusMax: 0.5,
		},
	}
	rules := gamedata.Rules{
		MaxRounds:        50,
		WoundedRate:      0.35,
		TypeBonus:        1.2,
		CityDefenseBonus: 0.15,
		SecondsPerTile:   90,
		MinTravelSeconds: 30,
		NodeRefillHours:  4,
		WallRegenPerHour: 0.05,
		SiegeDamageCoeff: 0.0004,
		BaseStorage:      800,
		BaseFoodStorage:  800,
	}
	gamedata.Install(gamedata.NewRegistry(units, buildings, nil, rules))
}
