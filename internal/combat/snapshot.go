package combat

// Mode 战斗场景。
type Mode int8

const (
	ModeField      Mode = iota // 野战
	ModeCityAttack             // 攻城
	ModeRaid                   // 掠夺
)

// Stack 是一组同种兵力。
type Stack struct {
	UnitKey string
	Count   int
}

// Hero 是参战英雄的属性快照（战斗只读加成，不回写）。
type Hero struct {
	AttackBonus  float64
	DefenseBonus float64
}

// Side 是一方参战兵力的不可变快照。
type Side struct {
	Stacks  []Stack
	Hero    *Hero
	Faction string
	InCity  bool // 城内守军获得固定防御加成
}

// TotalCount 返回该方总兵力。
func (s Side) TotalCount() int {
	total := 0
	for _, st := range s.Stacks {
		total += st.Count
	}
	return total
}

// Context 携带与双方兵力无关的战场信息。
type Context struct {
	Mode      Mode
	Sieged    bool    // 目标城处于围城状态
	WallBonus float64 // 守方城墙带来的防御加成（墙等级加成 × 当前完整度，调用方折算）
}
