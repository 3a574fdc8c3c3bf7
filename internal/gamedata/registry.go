package gamedata

import "sync/atomic"

// Registry 是只读的游戏数值表。进程生命周期内不可变；
// 重载通过整表替换完成（见 Load），调用方拿到的快照永远是完整一致的。
type Registry struct {
	units     map[string]*UnitDef
	buildings map[string]*BuildingDef
	factions  map[string]*FactionDef
	rules     Rules
}

// NewRegistry 由已解析的数值表构造 Registry（测试与加载共用入口）。
func NewRegistry(units []UnitDef, buildings []BuildingDef, factions []FactionDef, rules Rules) *Registry {
	r := &Registry{
		units:     make(map[string]*UnitDef, len(units)),
		buildings: make(map[string]*BuildingDef, len(buildings)),
		factions:  make(map[string]*FactionDef, len(factions)),
		rules:     rules,
	}
	for i := range units {
		u := units[i]
		r.units[u.Key] = &u
	}
	for i := range buildings {
		b := buildings[i]
		r.buildings[b.Key] = &b
	}
	for i := range factions {
		f := factions[i]
		r.factions[f.Key] = &f
	}
	return r
}

// UnitDef 按 key 查兵种定义。
func (r *Registry) UnitDef(key string) (*UnitDef, bool) {
	d, ok := r.units[key]
	return d, ok
}

// BuildingDef 按 key 查建筑定义。
func (r *Registry) BuildingDef(key string) (*BuildingDef, bool) {
	d, ok := r.buildings[key]
	return d, ok
}

// FactionBonus 查询阵营加成；未知阵营返回 0。
func (r *Registry) FactionBonus(faction string, kind BonusKind) float64 {
	return r.factions[faction].bonus(kind)
}

// Rules 返回全局平衡参数。
func (r *Registry) Rules() Rules {
	return r.rules
}

// Units 遍历全部兵种定义（生成部落守军等场景用）。
func (r *Registry) Units(fn func(*UnitDef)) {
	for _, u := range r.units {
		fn(u)
	}
}

var current atomic.Pointer[Registry]

// Install 整表替换当前生效的数值表（Load 与测试共用入口）。
func Install(r *Registry) {
	current.Store(r)
}

// Get 返回当前生效的数值表。Load 之前返回空表而不是 nil，避免空指针。
func Get() *Registry {
	if r := current.Load(); r != nil {
		return r
	}
	return NewRegistry(nil, nil, nil, Rules{})
}
