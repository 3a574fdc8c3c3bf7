package gamedata

// UnitClass 是兵种大类，参与克制三角与伤害分配优先级。
type UnitClass int8

const (
	ClassInfantry UnitClass = iota // 步兵
	ClassArcher                    // 弓兵
	ClassCavalry                   // 骑兵
	ClassSiege                     // 攻城器械
)

func (c UnitClass) String() string {
	switch c {
	case ClassInfantry:
		return "infantry"
	case ClassArcher:
		return "archer"
	case ClassCavalry:
		return "cavalry"
	case ClassSiege:
		return "siege"
	default:
		return "unknown"
	}
}

// Tier 是兵种品阶：基础/进阶/精锐。
type Tier int8

const (
	TierBase         Tier = 1
	TierIntermediate Tier = 2
	TierElite        Tier = 3
)

// TierCoefficient 品阶系数，攻击与有效血量都乘它。
func TierCoefficient(t Tier) float64 {
	switch t {
	case TierIntermediate:
		return 1.25
	case TierElite:
		return 1.5
	default:
		return 1.0
	}
}

type UnitDef struct {
	Key           string    `json:"key"`
	Name          string    `json:"name"`
	Class         UnitClass `json:"class"`
	Tier          Tier      `json:"tier"`
	Attack        float64   `json:"attack"`
	Defense       float64   `json:"defense"`
	Endurance     float64   `json:"endurance"`
	Speed         float64   `json:"speed"`       // 每格地图移动速度系数，越大越快
	Capacity      int64     `json:"capacity"`    // 运载量（掠夺/运输）
	SiegePower    float64   `json:"siege_power"` // 攻城值，仅攻城器械 > 0
	FoodUpkeep    float64   `json:"food_upkeep"` // 每小时粮食消耗
	Population    int       `json:"population"`  // 占用人口
	TrainSeconds  int       `json:"train_seconds"`
	TrainBuilding string    `json:"train_building"` // 训练建筑 key
	Cost          Cost      `json:"cost"`
}
