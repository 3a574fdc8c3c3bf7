package domain

import "time"

// 队列状态机：RUNNING → DONE 单向；QUEUED 由晋升变为 RUNNING。
const (
	StatusRunning int8 = 0
	StatusQueued  int8 = 1
	StatusDone    int8 = 2
)

// BuildQueueItem 建造队列项。扣费发生在入队时刻，不在完工时刻。
type BuildQueueItem struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CityID      int64     `gorm:"column:city_id;index" json:"city_id"`
	Slot        int       `gorm:"column:slot" json:"slot"`
	BuildingKey string    `gorm:"column:building_key;type:varchar(40)" json:"building_key"`
	TargetLevel int       `gorm:"column:target_level" json:"target_level"`
	Status      int8      `gorm:"column:status;index" json:"status"`
	RequestedAt time.Time `gorm:"column:requested_at" json:"requested_at"` // FIFO 晋升依据
	StartAt     time.Time `gorm:"column:start_at" json:"start_at"`
	EndsAt      time.Time `gorm:"column:ends_at;index" json:"ends_at"`
}

func (BuildQueueItem) TableName() string {
	return "build_queue"
}

// RecruitQueueItem 征兵队列项，按训练建筑排队。
type RecruitQueueItem struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CityID      int64     `gorm:"column:city_id;index" json:"city_id"`
	BuildingKey string    `gorm:"column:building_key;type:varchar(40)" json:"building_key"`
	UnitKey     string    `gorm:"column:unit_key;type:varchar(40)" json:"unit_key"`
	Count       int       `gorm:"column:count" json:"count"`
	Status      int8      `gorm:"column:status;index" json:"status"`
	RequestedAt time.Time `gorm:"column:requested_at" json:"requested_at"`
	StartAt     time.Time `gorm:"column:start_at" json:"start_at"`
	EndsAt      time.Time `gorm:"column:ends_at;index" json:"ends_at"`
}

func (RecruitQueueItem) TableName() string {
	return "recruit_queue"
}
