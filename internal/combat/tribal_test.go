package combat

import (
	"reflect"
	"testing"
)

func Test部落守军_同一资源点组成可复现(t *testing.T) {
	reg := testRegistry()
	seed := TribalSeed(42, 3)

	first := TribalSide(reg, seed, 500)
	for i := 0; i < 5; i++ {
		again := TribalSide(reg, seed, 500)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("期望守军组成可复现\nfirst=%+v\nagain=%+v", first, again)
		}
	}
	if first.TotalCount() <= 0 {
		t.Fatalf("期望正战力生成非空守军")
	}
}

func Test部落守军_战力越高守军越多(t *testing.T) {
	reg := testRegistry()
	seed := TribalSeed(7, 1)

	small := TribalSide(reg, seed, 100)
	big := TribalSide(reg, seed, 1000)
	if big.TotalCount() <= small.TotalCount() {
		t.Fatalf("期望战力越高守军越多, small=%d big=%d", small.TotalCount(), big.TotalCount())
	}
}

func Test部落守军_零战力为空(t *testing.T) {
	reg := testRegistry()
	if got := TribalSide(reg, TribalSeed(1, 1), 0); got.TotalCount() != 0 {
		t.Fatalf("期望零战力无守军, got=%+v", got)
	}
}
