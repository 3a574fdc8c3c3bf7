package gamedata

import "time"

// BuildingCategory 建筑类别。
type BuildingCategory int8

const (
	CategoryMain BuildingCategory = iota
	CategoryEconomy
	CategoryMilitary
	CategoryDefense
	CategoryMedical
	CategoryStorage
)

// ProductionDef 产量曲线：该建筑每小时产出 Kind 资源。
type ProductionDef struct {
	Kind      Kind    `json:"kind"`
	PerHourL1 float64 `json:"per_hour_l1"`
	PerHourMax float64 `json:"per_hour_max"`
}

// BuildingDef 建筑定义。各曲线只存 1 级与满级两个端点，中间等级按指数插值。
type BuildingDef struct {
	Key      string           `json:"key"`
	Name     string           `json:"name"`
	Category BuildingCategory `json:"category"`
	MaxLevel int              `json:"max_level"`

	CostL1  Cost `json:"cost_l1"`
	CostMax Cost `json:"cost_max"`

	TimeL1S  int `json:"time_l1_s"`
	TimeMaxS int `json:"time_max_s"`

	Production *ProductionDef `json:"production,omitempty"`

	// 仓储类建筑的容量端点；Kind==Food 走粮仓上限，其余走通用仓库上限。
	StorageL1  float64 `json:"storage_l1,omitempty"`
	StorageMax float64 `json:"storage_max,omitempty"`
	StoresFood bool    `json:"stores_food,omitempty"`

	// 医疗类建筑每个 tick 可治疗的伤兵数端点。
	HealPerTickL1  float64 `json:"heal_per_tick_l1,omitempty"`
	HealPerTickMax float64 `json:"heal_per_tick_max,omitempty"`

	// 城墙类建筑的防御加成端点（叠加到守军有效血量乘区）。
	WallBonusL1  float64 `json:"wall_bonus_l1,omitempty"`
	WallBonusMax float64 `json:"wall_bonus_max,omitempty"`

	PopulationPerLevel int  `json:"population_per_level"`
	MultiSlot          bool `json:"multi_slot,omitempty"` // 田地类建筑允许多槽位
}

// CostAt 返回升到 level 级的资源开销。
func (d *BuildingDef) CostAt(level int) Cost {
	return interpCost(d.CostL1, d.CostMax, level, d.MaxLevel)
}

// TimeAt 返回升到 level 级的建造耗时。
func (d *BuildingDef) TimeAt(level int) time.Duration {
	s := interpInt(int64(d.TimeL1S), int64(d.TimeMaxS), level, d.MaxLevel)
	return time.Duration(s) * time.Second
}

// ProductionAt 返回 level 级的每小时产量；非生产建筑恒为 0。
func (d *BuildingDef) ProductionAt(level int) float64 {
	if d.Production == nil || level <= 0 {
		return 0
	}
	return expInterp(d.Production.PerHourL1, d.Production.PerHourMax, level, d.MaxLevel)
}

// StorageAt 返回 level 级的仓储容量；非仓储建筑恒为 0。
func (d *BuildingDef) StorageAt(level int) float64 {
	if d.StorageMax <= 0 || level <= 0 {
		return 0
	}
	return expInterp(d.StorageL1, d.StorageMax, level, d.MaxLevel)
}

// HealAt 返回 level 级每个 tick 的治疗容量；非医疗建筑恒为 0。
func (d *BuildingDef) HealAt(level int) int {
	if d.HealPerTickMax <= 0 || level <= 0 {
		return 0
	}
	return int(expInterp(d.HealPerTickL1, d.HealPerTickMax, level, d.MaxLevel))
}

// WallBonusAt 返回 level 级城墙的防御加成。
func (d *BuildingDef) WallBonusAt(level int) float64 {
	if d.WallBonusMax <= 0 || level <= 0 {
		return 0
	}
	return expInterp(d.WallBonusL1, d.WallBonusMax, level, d.MaxLevel)
}
