package gamedata

// Kind 是资源种类的显式枚举。
// 资源字段一律通过 Kind 访问，避免字符串 key 散落各处。
type Kind int8

const (
	Wood Kind = iota
	Stone
	Iron
	Food
)

var kinds = [...]Kind{Wood, Stone, Iron, Food}

// Kinds 返回全部资源种类（固定顺序，用于遍历）。
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds[:])
	return out
}

func (k Kind) String() string {
	switch k {
	case Wood:
		return "wood"
	case Stone:
		return "stone"
	case Iron:
		return "iron"
	case Food:
		return "food"
	default:
		return "unknown"
	}
}

// Cost 是一组整数资源量（建造/招募开销）。
type Cost struct {
	Wood  int64 `json:"wood"`
	Stone int64 `json:"stone"`
	Iron  int64 `json:"iron"`
	Food  int64 `json:"food"`
}

func (c Cost) Get(k Kind) int64 {
	switch k {
	case Wood:
		return c.Wood
	case Stone:
		return c.Stone
	case Iron:
		return c.Iron
	case Food:
		return c.Food
	default:
		return 0
	}
}

func (c *Cost) Set(k Kind, v int64) {
	switch k {
	case Wood:
		c.Wood = v
	case Stone:
		c.Stone = v
	case Iron:
		c.Iron = v
	case Food:
		c.Food = v
	}
}

// IsZero 判断是否全为 0（线性插值回退判断用）。
func (c Cost) IsZero() bool {
	return c.Wood == 0 && c.Stone == 0 && c.Iron == 0 && c.Food == 0
}
