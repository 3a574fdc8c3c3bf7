package domain

import "time"

// WoundedUnit 城内伤兵。战斗把部分阵亡转为伤兵；医馆按容量逐 tick 恢复回驻军。
type WoundedUnit struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CityID      int64     `gorm:"column:city_id;index" json:"city_id"`
	UnitKey     string    `gorm:"column:unit_key;type:varchar(40)" json:"unit_key"`
	Count       int       `gorm:"column:count" json:"count"`
	HealReadyAt time.Time `gorm:"column:heal_ready_at;index" json:"heal_ready_at"` // 最早可恢复时间
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WoundedUnit) TableName() string {
	return "wounded_unit"
}
