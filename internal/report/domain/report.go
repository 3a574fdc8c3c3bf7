package domain

import "time"

// 战报与谍报是一次性写入的审计记录，落在 mongodb，创建后不再修改。
// VisibleTo 控制哪些玩家可读。

type SideReport struct {
	PlayerID  int64            `bson:"player_id" json:"player_id"`
	Faction   string           `bson:"faction" json:"faction"`
	Killed    map[string]int64 `bson:"killed" json:"killed"`
	Wounded   map[string]int64 `bson:"wounded" json:"wounded"`
	Remaining map[string]int64 `bson:"remaining" json:"remaining"`
}

type BattleReport struct {
	ID       int64  `bson:"_id" json:"id"`
	Mode     string `bson:"mode" json:"mode"`
	Winner   string `bson:"winner" json:"winner"`
	Rounds   int    `bson:"rounds" json:"rounds"`
	TargetX  int    `bson:"target_x" json:"target_x"`
	TargetY  int    `bson:"target_y" json:"target_y"`
	CityID   int64  `bson:"city_id,omitempty" json:"city_id,omitempty"`
	NodeID   int64  `bson:"node_id,omitempty" json:"node_id,omitempty"`

	Attacker SideReport `bson:"attacker" json:"attacker"`
	Defender SideReport `bson:"defender" json:"defender"`

	Loot map[string]int64 `bson:"loot,omitempty" json:"loot,omitempty"`

	VisibleTo []int64   `bson:"visible_to" json:"visible_to"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SpyReport 谍报：目标的完整快照，仅侦察方可见。
type SpyReport struct {
	ID       int64 `bson:"_id" json:"id"`
	PlayerID int64 `bson:"player_id" json:"player_id"`
	TargetX  int   `bson:"target_x" json:"target_x"`
	TargetY  int   `bson:"target_y" json:"target_y"`
	CityID   int64 `bson:"city_id,omitempty" json:"city_id,omitempty"`
	NodeID   int64 `bson:"node_id,omitempty" json:"node_id,omitempty"`

	Garrison  map[string]int64   `bson:"garrison" json:"garrison"`
	Resources map[string]float64 `bson:"resources,omitempty" json:"resources,omitempty"`
	Wall      float64            `bson:"wall,omitempty" json:"wall,omitempty"`

	VisibleTo []int64   `bson:"visible_to" json:"visible_to"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
