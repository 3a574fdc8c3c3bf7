package gamedata

// BonusKind 阵营加成种类。
type BonusKind int8

const (
	BonusAttack BonusKind = iota
	BonusDefense
	BonusSpeed
	BonusProduction
)

type FactionDef struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Attack     float64 `json:"attack"`
	Defense    float64 `json:"defense"`
	Speed      float64 `json:"speed"`
	Production float64 `json:"production"`
}

func (f *FactionDef) bonus(kind BonusKind) float64 {
	if f == nil {
		return 0
	}
	switch kind {
	case BonusAttack:
		return f.Attack
	case BonusDefense:
		return f.Defense
	case BonusSpeed:
		return f.Speed
	case BonusProduction:
		return f.Production
	default:
		return 0
	}
}
