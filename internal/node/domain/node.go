package domain

import "time"

// NodeKind 野外资源点种类。前四种对应城市资源，金矿是部落藏宝点。
type NodeKind int8

const (
	NodeWood NodeKind = iota
	NodeStone
	NodeIron
	NodeFood
	NodeGold
)

// 单级资源点的储量基数，容量 = 基数 × 等级。
const capacityPerLevel = 500

// ResourceNode 野外资源点。储量按固定时长单调回满，部落守军战力随储量线性缩放。
type ResourceNode struct {
	ID    int64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	X     int      `gorm:"column:x;uniqueIndex:idx_node_pos" json:"x"`
	Y     int      `gorm:"column:y;uniqueIndex:idx_node_pos" json:"y"`
	Kind  NodeKind `gorm:"column:kind" json:"kind"`
	Level int      `gorm:"column:level" json:"level"`

	Fill         float64 `gorm:"column:fill" json:"fill"` // 储量比例 0.0-1.0
	BasePower    float64 `gorm:"column:base_power" json:"base_power"`
	CurrentPower float64 `gorm:"column:current_power" json:"current_power"`

	LastRegenAt time.Time `gorm:"column:last_regen_at" json:"last_regen_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ResourceNode) TableName() string {
	return "resource_node"
}

// Capacity 满储量的资源总量。
func (n *ResourceNode) Capacity() float64 {
	return float64(capacityPerLevel * n.Level)
}

// Available 当前可掠夺的资源量。
func (n *ResourceNode) Available() float64 {
	return n.Fill * n.Capacity()
}

// Regen 按流逝时间回储。refillHours 是从空到满的时长；储量只增不减，
// 守军战力随储量同步缩放。同一 now 重复结算流逝为 0。
func (n *ResourceNode) Regen(now time.Time, refillHours float64) {
	hours := now.Sub(n.LastRegenAt).Hours()
	if hours <= 0 || refillHours <= 0 {
		return
	}
	n.Fill += hours / refillHours
	if n.Fill > 1 {
		n.Fill = 1
	}
	n.CurrentPower = n.BasePower * n.Fill
	n.LastRegenAt = now
}

// Deplete 掠夺后扣减储量并同步守军战力，返回实际取走量。
func (n *ResourceNode) Deplete(amount float64) float64 {
	avail := n.Available()
	if amount > avail {
		amount = avail
	}
	if amount <= 0 {
		return 0
	}
	n.Fill -= amount / n.Capacity()
	if n.Fill < 0 {
		n.Fill = 0
	}
	n.CurrentPower = n.BasePower * n.Fill
	return amount
}
