package gamedata

// Rules 是全局平衡参数（不属于某个具体建筑/兵种的数值）。
type Rules struct {
	MaxRunningBuilds   int `json:"max_running_builds"`   // 同时在建上限
	MaxQueuedBuilds    int `json:"max_queued_builds"`    // 额外排队上限
	MaxRunningRecruits int `json:"max_running_recruits"` // 同时在训上限（按训练建筑）
	MaxQueuedRecruits  int `json:"max_queued_recruits"`

	MaxRounds   int     `json:"max_rounds"`   // 战斗最大回合数
	WoundedRate float64 `json:"wounded_rate"` // 每回合阵亡转伤兵比例
	TypeBonus   float64 `json:"type_bonus"`   // 克制三角加成（1.2 表示 +20%）

	CityDefenseBonus float64 `json:"city_defense_bonus"` // 城内守军的固定防御加成

	SecondsPerTile   int `json:"seconds_per_tile"`  // 每格行军秒数（速度 1.0 时）
	MinTravelSeconds int `json:"min_travel_seconds"`

	NodeRefillHours  float64 `json:"node_refill_hours"`  // 资源点从空到满的真实小时数
	WallRegenPerHour float64 `json:"wall_regen_per_hour"` // 非围城时城墙每小时恢复比例
	SiegeDamageCoeff float64 `json:"siege_damage_coeff"` // 每点攻城值每小时削减的城墙比例

	BaseStorage     float64 `json:"base_storage"`      // 无仓库时的基础容量
	BaseFoodStorage float64 `json:"base_food_storage"` // 无粮仓时的基础粮食容量
}
