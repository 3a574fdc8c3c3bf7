package combat

import (
	"fmt"
	"math"
	"sort"

	"Stormhold/internal/gamedata"
)

// ErrUnknownUnit 表示快照里引用了数值表不存在的兵种 key。
// 模拟开始前一次性校验，模拟过程本身对合法输入不会失败。
var ErrUnknownUnit = fmt.Errorf("combat: unknown unit key")

const defaultMaxRounds = 50

// stackState 是模拟期间的工作状态，按结算优先级排序后只追加伤亡，不重排。
type stackState struct {
	def     *gamedata.UnitDef
	initial int
	count   int
	killed  int
	wounded int
}

// Simulate 对两方兵力快照做确定性战斗推演。
//
// 规则要点：
//   - 回合制，双方伤害同时计算、同时落地，杜绝先手偏差
//   - 克制三角：步克弓、弓克骑、骑克步
//   - 伤害按对方各存活兵组的兵力占比分配（见 DESIGN.md 对定向结算的取舍），
//     溢出部分顺延给下一优先级兵组
//   - 每回合阵亡中固定比例转为伤兵（可由医馆恢复）
//   - 到达回合上限后按剩余战力判胜负，战力相同为平局
func Simulate(reg *gamedata.Registry, attacker, defender Side, ctx Context) (*BattleResult, error) {
	rules := reg.Rules()
	maxRounds := rules.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}
	typeBonus := rules.TypeBonus
	if typeBonus <= 0 {
		typeBonus = 1.2
	}

	atk, err := buildStates(reg, attacker)
	if err != nil {
		return nil, err
	}
	def, err := buildStates(reg, defender)
	if err != nil {
		return nil, err
	}

	atkCtx := sideContext(reg, attacker, ctx, false)
	defCtx := sideContext(reg, defender, ctx, true)

	rounds := 0
	for rounds < maxRounds && liveCount(atk) > 0 && liveCount(def) > 0 {
		rounds++

		// 先把两边的输出都算完，再同时结算伤亡。
		atkDamage := sideDamage(atk, def, atkCtx, typeBonus)
		defDamage := sideDamage(def, atk, defCtx, typeBonus)

		applyDamage(def, atkDamage, defCtx, rules.WoundedRate)
		applyDamage(atk, defDamage, atkCtx, rules.WoundedRate)
	}

	return &BattleResult{
		Winner:   decideWinner(atk, def),
		Rounds:   rounds,
		Attacker: collect(atk),
		Defender: collect(def),
	}, nil
}

// sideCtx 是一方在整场战斗中不变的乘区。
type sideCtx struct {
	attackMult  float64 // (1+英雄攻) * (1+阵营攻)
	defenseMult float64 // 1 + 城防 + 城墙 + 英雄防 + 阵营防
}

func sideContext(reg *gamedata.Registry, s Side, ctx Context, isDefender bool) sideCtx {
	rules := reg.Rules()

	heroAtk, heroDef := 0.0, 0.0
	if s.Hero != nil {
		heroAtk = s.Hero.AttackBonus
		heroDef = s.Hero.DefenseBonus
	}
	facAtk := reg.FactionBonus(s.Faction, gamedata.BonusAttack)
	facDef := reg.FactionBonus(s.Faction, gamedata.BonusDefense)

	defMult := 1.0 + heroDef + facDef
	if s.InCity {
		defMult += rules.CityDefenseBonus
	}
	if isDefender && s.InCity {
		defMult += ctx.WallBonus
	}

	return sideCtx{
		attackMult:  (1 + heroAtk) * (1 + facAtk),
		defenseMult: defMult,
	}
}

// buildStates 校验兵种 key 并构造按结算优先级排序的工作状态。
// 优先级：精锐/进阶先于基础，攻城器械最后；同级按 key 排序保证全序。
func buildStates(reg *gamedata.Registry, s Side) ([]*stackState, error) {
	out := make([]*stackState, 0, len(s.Stacks))
	for _, st := range s.Stacks {
		if st.Count <= 0 {
			continue
		}
		def, ok := reg.UnitDef(st.UnitKey)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, st.UnitKey)
		}
		out = append(out, &stackState{def: def, initial: st.Count, count: st.Count})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].def, out[j].def
		aSiege := a.Class == gamedata.ClassSiege
		bSiege := b.Class == gamedata.ClassSiege
		if aSiege != bSiege {
			return !aSiege
		}
		if a.Tier != b.Tier {
			return a.Tier > b.Tier
		}
		return a.Key < b.Key
	})
	return out, nil
}

func liveCount(states []*stackState) int {
	total := 0
	for _, st := range states {
		total += st.count
	}
	return total
}

func firstLive(states []*stackState) *stackState {
	for _, st := range states {
		if st.count > 0 {
			return st
		}
	}
	return nil
}

// classAdvantage 克制三角：步克弓、弓克骑、骑克步。
func classAdvantage(atk, def gamedata.UnitClass) bool {
	switch atk {
	case gamedata.ClassInfantry:
		return def == gamedata.ClassArcher
	case gamedata.ClassArcher:
		return def == gamedata.ClassCavalry
	case gamedata.ClassCavalry:
		return def == gamedata.ClassInfantry
	default:
		return false
	}
}

// sideDamage 计算一方本回合的总输出。
// 克制判定取对方当前第一个存活兵组（简化，不做逐组锁定目标）。
func sideDamage(side, opposing []*stackState, ctx sideCtx, typeBonus float64) float64 {
	target := firstLive(opposing)
	if target == nil {
		return 0
	}

	total := 0.0
	for _, st := range side {
		if st.count <= 0 {
			continue
		}
		dmg := st.def.Attack * float64(st.count) * gamedata.TierCoefficient(st.def.Tier) * ctx.attackMult
		if classAdvantage(st.def.Class, target.def.Class) {
			dmg *= typeBonus
		}
		total += dmg
	}
	return total
}

// perUnitHP 有效单兵血量：耐力 × 品阶系数 × 防御乘区 + 防御值的一半。
func perUnitHP(def *gamedata.UnitDef, ctx sideCtx) float64 {
	return def.Endurance*gamedata.TierCoefficient(def.Tier)*ctx.defenseMult + def.Defense*0.5
}

// applyDamage 把总伤害按兵力占比分配到各存活兵组，顺延溢出，再做伤兵转化。
// 分配顺序即 buildStates 的优先级顺序，保证确定性。
func applyDamage(states []*stackState, damage float64, ctx sideCtx, woundedRate float64) {
	if damage <= 0 {
		return
	}
	total := liveCount(states)
	if total == 0 {
		return
	}

	carry := 0.0
	for _, st := range states {
		if st.count <= 0 {
			continue
		}
		share := damage*float64(st.count)/float64(total) + carry
		hp := perUnitHP(st.def, ctx)
		losses := int(math.Floor(share / hp))
		if losses > st.count {
			losses = st.count
		}
		carry = share - float64(losses)*hp

		if losses <= 0 {
			continue
		}
		wounded := int(math.Floor(float64(losses) * woundedRate))
		st.wounded += wounded
		st.killed += losses - wounded
		st.count -= losses
	}
}

// remainingPower 剩余战力：Σ 攻击 × 品阶系数 × 数量。
func remainingPower(states []*stackState) float64 {
	power := 0.0
	for _, st := range states {
		if st.count > 0 {
			power += st.def.Attack * gamedata.TierCoefficient(st.def.Tier) * float64(st.count)
		}
	}
	return power
}

func decideWinner(atk, def []*stackState) Winner {
	aLive, dLive := liveCount(atk), liveCount(def)
	switch {
	case aLive == 0 && dLive == 0:
		return WinnerDraw
	case dLive == 0:
		return WinnerAttacker
	case aLive == 0:
		return WinnerDefender
	}

	// 双方都有存活：按剩余战力而不是剩余人数判定。
	aPower, dPower := remainingPower(atk), remainingPower(def)
	switch {
	case aPower > dPower:
		return WinnerAttacker
	case dPower > aPower:
		return WinnerDefender
	default:
		return WinnerDraw
	}
}

func collect(states []*stackState) SideResult {
	res := SideResult{
		Killed:    make(map[string]int, len(states)),
		Wounded:   make(map[string]int, len(states)),
		Remaining: make(map[string]int, len(states)),
	}
	for _, st := range states {
		key := st.def.Key
		res.Killed[key] += st.killed
		res.Wounded[key] += st.wounded
		res.Remaining[key] += st.count
	}
	return res
}
