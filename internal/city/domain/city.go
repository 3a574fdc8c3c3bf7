package domain

import (
	"time"

	"Stormhold/internal/gamedata"
)

// City 城市。资源余额是浮点累加器，按真实流逝时间结算产量。
type City struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PlayerID int64  `gorm:"column:player_id;index;not null" json:"player_id"`
	Name     string `gorm:"column:name;type:varchar(50)" json:"name"`
	Faction  string `gorm:"column:faction;type:varchar(20)" json:"faction"`
	X        int    `gorm:"column:x;uniqueIndex:idx_city_pos" json:"x"`
	Y        int    `gorm:"column:y;uniqueIndex:idx_city_pos" json:"y"`

	Wood  float64 `gorm:"column:wood" json:"wood"`
	Stone float64 `gorm:"column:stone" json:"stone"`
	Iron  float64 `gorm:"column:iron" json:"iron"`
	Food  float64 `gorm:"column:food" json:"food"`

	StorageCap float64 `gorm:"column:storage_cap" json:"storage_cap"` // 木/石/铁共用上限
	FoodCap    float64 `gorm:"column:food_cap" json:"food_cap"`

	Population int `gorm:"column:population" json:"population"`

	WallIntegrity float64    `gorm:"column:wall_integrity;default:1" json:"wall_integrity"` // 0.0-1.0
	IsSieged      bool       `gorm:"column:is_sieged" json:"is_sieged"`
	SiegeStartAt  *time.Time `gorm:"column:siege_start_at" json:"siege_start_at"`

	LastTickedAt time.Time `gorm:"column:last_ticked_at" json:"last_ticked_at"` // 上次经济结算时间
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (City) TableName() string {
	return "city"
}

// Resource 按资源种类读余额。
func (c *City) Resource(k gamedata.Kind) float64 {
	switch k {
	case gamedata.Wood:
		return c.Wood
	case gamedata.Stone:
		return c.Stone
	case gamedata.Iron:
		return c.Iron
	case gamedata.Food:
		return c.Food
	default:
		return 0
	}
}

func (c *City) setResource(k gamedata.Kind, v float64) {
	switch k {
	case gamedata.Wood:
		c.Wood = v
	case gamedata.Stone:
		c.Stone = v
	case gamedata.Iron:
		c.Iron = v
	case gamedata.Food:
		c.Food = v
	}
}

// Cap 返回该资源种类的仓储上限。
func (c *City) Cap(k gamedata.Kind) float64 {
	if k == gamedata.Food {
		return c.FoodCap
	}
	return c.StorageCap
}

// AddResource 入库，超过仓储上限的部分溢出丢弃；负数下限为 0。
func (c *City) AddResource(k gamedata.Kind, delta float64) {
	v := c.Resource(k) + delta
	if cap := c.Cap(k); cap > 0 && v > cap {
		v = cap
	}
	if v < 0 {
		v = 0
	}
	c.setResource(k, v)
}

// CanAfford 判断四种资源是否都够支付。
func (c *City) CanAfford(cost gamedata.Cost) bool {
	for _, k := range gamedata.Kinds() {
		if c.Resource(k) < float64(cost.Get(k)) {
			return false
		}
	}
	return true
}

// Debit 原子扣费：任一资源不足则整体不扣，返回 false。
func (c *City) Debit(cost gamedata.Cost) bool {
	if !c.CanAfford(cost) {
		return false
	}
	for _, k := range gamedata.Kinds() {
		c.setResource(k, c.Resource(k)-float64(cost.Get(k)))
	}
	return true
}
