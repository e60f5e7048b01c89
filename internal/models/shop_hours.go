package models

import "time"

// ShopHours is one weekday's opening window. Times are wall-clock
// "HH:MM" strings; a closed day keeps them empty.
type ShopHours struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AtelierID uint `gorm:"index:idx_shop_hours_day,unique" json:"atelier_id"`

	Weekday int `gorm:"index:idx_shop_hours_day,unique" json:"weekday"`

	OpenTime  string `gorm:"size:5" json:"open_time"`
	CloseTime string `gorm:"size:5" json:"close_time"`
	Closed    bool   `json:"closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
