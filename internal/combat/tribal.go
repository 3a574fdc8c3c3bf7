package combat

import (
	"hash/fnv"
	"math"
	"sort"

	"Stormhold/internal/gamedata"
)

// TribalSeed 由资源点的身份信息折算出稳定种子。
// 同一个资源点在同一状态下反复结算，守军组成必须一致。
func TribalSeed(nodeID int64, level int) uint64 {
	h := fnv.New64a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(nodeID >> (8 * i))
		buf[8+i] = byte(int64(level) >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// TribalSide 按部落战力生成守军快照。
// 组成完全由 seed 决定：从非攻城兵种中取两个主力 + 一个辅助，
// 数量按战力预算折算，战力越高守军越多。
func TribalSide(reg *gamedata.Registry, seed uint64, power float64) Side {
	if power <= 0 {
		return Side{}
	}

	// 候选池按 key 排序，保证与 map 遍历顺序无关。
	pool := make([]*gamedata.UnitDef, 0, 8)
	reg.Units(func(u *gamedata.UnitDef) {
		if u.Class != gamedata.ClassSiege {
			pool = append(pool, u)
		}
	})
	sort.Slice(pool, func(i, j int) bool { return pool[i].Key < pool[j].Key })
	if len(pool) == 0 {
		return Side{}
	}

	primary := pool[seed%uint64(len(pool))]
	secondary := pool[(seed/7)%uint64(len(pool))]

	stacks := make([]Stack, 0, 2)
	stacks = appendTribalStack(stacks, primary, power*0.7)
	if secondary.Key != primary.Key {
		stacks = appendTribalStack(stacks, secondary, power*0.3)
	} else {
		stacks = appendTribalStack(stacks, primary, power*0.3)
	}

	// 合并同 key（primary == secondary 的情况）。
	merged := map[string]int{}
	for _, st := range stacks {
		merged[st.UnitKey] += st.Count
	}
	out := make([]Stack, 0, len(merged))
	for _, u := range pool {
		if c, ok := merged[u.Key]; ok && c > 0 {
			out = append(out, Stack{UnitKey: u.Key, Count: c})
		}
	}
	return Side{Stacks: out}
}

func appendTribalStack(stacks []Stack, u *gamedata.UnitDef, budget float64) []Stack {
	unitPower := u.Attack * gamedata.TierCoefficient(u.Tier)
	if unitPower <= 0 {
		return stacks
	}
	count := int(math.Ceil(budget / unitPower))
	if count <= 0 {
		count = 1
	}
	return append(stacks, Stack{UnitKey: u.Key, Count: count})
}
