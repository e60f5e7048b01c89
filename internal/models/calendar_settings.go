package models

import "time"

// CalendarSettings tunes slot generation per atelier.
type CalendarSettings struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AtelierID uint `gorm:"uniqueIndex" json:"atelier_id"`

	BufferTimeMinutes  int `gorm:"default:0" json:"buffer_time_minutes"`
	DefaultDurationMin int `gorm:"default:30" json:"default_appointment_duration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
