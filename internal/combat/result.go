package combat

// Winner 胜负判定。
type Winner int8

const (
	WinnerDraw Winner = iota
	WinnerAttacker
	WinnerDefender
)

func (w Winner) String() string {
	switch w {
	case WinnerAttacker:
		return "attacker"
	case WinnerDefender:
		return "defender"
	default:
		return "draw"
	}
}

// SideResult 是一方的结算：阵亡（永久损失）、伤兵（可恢复）、存活。
// 对每个兵种恒有 Killed + Wounded + Remaining == 初始数量。
type SideResult struct {
	Killed    map[string]int
	Wounded   map[string]int
	Remaining map[string]int
}

// BattleResult 是一次战斗的完整结算。输入相同则结果逐位相同。
type BattleResult struct {
	Winner   Winner
	Rounds   int
	Attacker SideResult
	Defender SideResult
}
