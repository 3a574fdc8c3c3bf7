package gamedata

import "testing"

func Test数值表_从包目录加载并可查询(t *testing.T) {
	Load()
	reg := Get()

	u, ok := reg.UnitDef("militia")
	if !ok {
		t.Fatalf("期望能查到 militia")
	}
	if u.Class != ClassInfantry || u.Tier != TierBase {
		t.Fatalf("期望 militia 为基础步兵, class=%v tier=%v", u.Class, u.Tier)
	}

	b, ok := reg.BuildingDef("main_hall")
	if !ok {
		t.Fatalf("期望能查到 main_hall")
	}
	if b.Category != CategoryMain {
		t.Fatalf("期望 main_hall 为主堡类别, got=%v", b.Category)
	}

	if _, ok := reg.UnitDef("no_such_unit"); ok {
		t.Fatalf("期望未知兵种查询返回 ok=false")
	}
}

func Test数值表_未知阵营加成默认为零(t *testing.T) {
	reg := NewRegistry(nil, nil, []FactionDef{{Key: "highland", Attack: 0.1}}, Rules{})

	if got := reg.FactionBonus("highland", BonusAttack); got != 0.1 {
		t.Fatalf("期望 highland 攻击加成 0.1, got=%v", got)
	}
	if got := reg.FactionBonus("nobody", BonusAttack); got != 0 {
		t.Fatalf("期望未知阵营加成为 0, got=%v", got)
	}
	if got := reg.FactionBonus("highland", BonusDefense); got != 0 {
		t.Fatalf("期望未配置的加成种类为 0, got=%v", got)
	}
}

func Test数值表_品阶系数(t *testing.T) {
	if TierCoefficient(TierBase) != 1.0 || TierCoefficient(TierIntermediate) != 1.25 || TierCoefficient(TierElite) != 1.5 {
		t.Fatalf("品阶系数不符合预期")
	}
}
