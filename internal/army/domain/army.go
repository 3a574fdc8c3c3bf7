package domain

import (
	"time"

	"Stormhold/internal/gamedata"
)

// 军队状态机：IN_CITY → MOVING → {IN_CITY, 战斗, SIEGING} → RETURNING → IN_CITY。
// GARRISONED 是驻防支线，只能由显式驻防/解除动作进出。
const (
	StatusInCity    int8 = 0
	StatusMoving    int8 = 1
	StatusReturning int8 = 2
	StatusSieging   int8 = 3
	StatusGarrison  int8 = 4
)

// 指令类型。
const (
	OrderNone       int8 = 0
	OrderAttack     int8 = 1
	OrderRaid       int8 = 2
	OrderSpy        int8 = 3
	OrderTransport  int8 = 4
	OrderExpedition int8 = 5
	OrderReturn     int8 = 6
)

// Army 军队聚合。IsGarrison 的军队永不离城，代表被动防御。
type Army struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PlayerID   int64  `gorm:"column:player_id;index" json:"player_id"`
	HomeCityID int64  `gorm:"column:home_city_id;index" json:"home_city_id"`
	Faction    string `gorm:"column:faction;type:varchar(20)" json:"faction"`
	IsGarrison bool   `gorm:"column:is_garrison" json:"is_garrison"`

	X int `gorm:"column:x" json:"x"`
	Y int `gorm:"column:y" json:"y"`

	Status  int8 `gorm:"column:status;index" json:"status"`
	Order   int8 `gorm:"column:order_type" json:"order_type"`
	TargetX int  `gorm:"column:target_x" json:"target_x"`
	TargetY int  `gorm:"column:target_y" json:"target_y"`

	// 英雄加成快照，下达指令时从英雄身上取值冻结
	HeroAttackBonus  float64 `gorm:"column:hero_attack_bonus" json:"hero_attack_bonus"`
	HeroDefenseBonus float64 `gorm:"column:hero_defense_bonus" json:"hero_defense_bonus"`
	HeroSpeedBonus   float64 `gorm:"column:hero_speed_bonus" json:"hero_speed_bonus"`

	DepartAt *time.Time `gorm:"column:depart_at" json:"depart_at"`
	ArriveAt *time.Time `gorm:"column:arrive_at;index" json:"arrive_at"`

	// 携带资源（掠夺战利品 / 运输任务载货）
	CarryWood  int64 `gorm:"column:carry_wood" json:"carry_wood"`
	CarryStone int64 `gorm:"column:carry_stone" json:"carry_stone"`
	CarryIron  int64 `gorm:"column:carry_iron" json:"carry_iron"`
	CarryFood  int64 `gorm:"column:carry_food" json:"carry_food"`

	Units []*ArmyUnit `gorm:"foreignKey:ArmyID" json:"units"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Army) TableName() string {
	return "army"
}

// Busy 在途或围城中的军队拒绝新指令。
func (a *Army) Busy() bool {
	return a.Status == StatusMoving || a.Status == StatusReturning || a.Status == StatusSieging
}

// TotalCount 现存总兵力。
func (a *Army) TotalCount() int64 {
	var n int64
	for _, u := range a.Units {
		n += u.Count
	}
	return n
}

// Carry 按资源种类读携带量。
func (a *Army) Carry(k gamedata.Kind) int64 {
	switch k {
	case gamedata.Wood:
		return a.CarryWood
	case gamedata.Stone:
		return a.CarryStone
	case gamedata.Iron:
		return a.CarryIron
	case gamedata.Food:
		return a.CarryFood
	default:
		return 0
	}
}

// AddCarry 增加携带量，负数会钳位到 0。
func (a *Army) AddCarry(k gamedata.Kind, delta int64) {
	set := func(v *int64) {
		*v += delta
		if *v < 0 {
			*v = 0
		}
	}
	switch k {
	case gamedata.Wood:
		set(&a.CarryWood)
	case gamedata.Stone:
		set(&a.CarryStone)
	case gamedata.Iron:
		set(&a.CarryIron)
	case gamedata.Food:
		set(&a.CarryFood)
	}
}

// ClearCarry 卸货后清空携带量。
func (a *Army) ClearCarry() {
	a.CarryWood, a.CarryStone, a.CarryIron, a.CarryFood = 0, 0, 0, 0
}

// AddUnits 兵并入现有堆叠，没有则新建。
func (a *Army) AddUnits(unitKey string, count int64) {
	if count <= 0 {
		return
	}
	for _, u := range a.Units {
		if u.UnitKey == unitKey {
			u.Count += count
			return
		}
	}
	a.Units = append(a.Units, &ArmyUnit{ArmyID: a.ID, UnitKey: unitKey, Count: count})
}

// SetRemaining 战后按存活表覆写堆叠数量；归零的堆叠等仓储层清理。
func (a *Army) SetRemaining(remaining map[string]int64) {
	for _, u := range a.Units {
		u.Count = remaining[u.UnitKey]
	}
}

// ArmyUnit (army, unit key) 堆叠。count <= 0 的行在战后清理。
type ArmyUnit struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ArmyID  int64  `gorm:"column:army_id;uniqueIndex:idx_army_unit" json:"army_id"`
	UnitKey string `gorm:"column:unit_key;type:varchar(40);uniqueIndex:idx_army_unit" json:"unit_key"`
	Count   int64  `gorm:"column:count" json:"count"`
}

func (ArmyUnit) TableName() string {
	return "army_unit"
}
