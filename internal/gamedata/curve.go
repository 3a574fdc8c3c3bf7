package gamedata

import "math"

// expInterp 在 (1, f1) 与 (maxLevel, fM) 之间做指数插值：
//
//	f(L) = f(1) * (f(M)/f(1)) ^ ((L-1)/(M-1))
//
// 任一端点 <= 0 时指数比值无意义，回退为线性插值（兼容零消耗资源）。
// 结果四舍五入；level 越界时按端点截断。
func expInterp(f1, fM float64, level, maxLevel int) float64 {
	if maxLevel <= 1 {
		return f1
	}
	if level <= 1 {
		return f1
	}
	if level >= maxLevel {
		return fM
	}

	t := float64(level-1) / float64(maxLevel-1)
	if f1 <= 0 || fM <= 0 {
		return f1 + (fM-f1)*t
	}
	return f1 * math.Pow(fM/f1, t)
}

// interpInt 整数曲线取值（四舍五入）。
func interpInt(f1, fM int64, level, maxLevel int) int64 {
	return int64(math.Round(expInterp(float64(f1), float64(fM), level, maxLevel)))
}

// interpCost 对四种资源分别插值。
func interpCost(l1, lm Cost, level, maxLevel int) Cost {
	var out Cost
	for _, k := range Kinds() {
		out.Set(k, interpInt(l1.Get(k), lm.Get(k), level, maxLevel))
	}
	return out
}
