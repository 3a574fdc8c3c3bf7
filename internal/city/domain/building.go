package domain

import "time"

// 主堡 key：非主堡建筑的等级不得超过主堡等级。
const MainHallKey = "main_hall"

// CityBuilding 城内建筑实例。(city, key, slot) 唯一；田地类建筑用 slot 区分多块。
type CityBuilding struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CityID      int64     `gorm:"column:city_id;uniqueIndex:idx_building_slot" json:"city_id"`
	BuildingKey string    `gorm:"column:building_key;type:varchar(40);uniqueIndex:idx_building_slot" json:"building_key"`
	Slot        int       `gorm:"column:slot;uniqueIndex:idx_building_slot" json:"slot"`
	Level       int       `gorm:"column:level" json:"level"`
	Category    int8      `gorm:"column:category" json:"category"`
	ProdPerHour float64   `gorm:"column:prod_per_hour" json:"prod_per_hour"` // 完工时缓存，经济 tick 直接累加
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CityBuilding) TableName() string {
	return "city_building"
}
