package models

import "time"

// Appointment stores wall-clock date and times exactly as the shop
// sees them ("2006-01-02" / "HH:MM"); no timezone conversion is
// applied on this side of the storage boundary.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AtelierID uint    `gorm:"index" json:"atelier_id"`
	Atelier   Atelier `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"atelier"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceOfferingID uint            `json:"service_offering_id"`
	ServiceOffering   ServiceOffering `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service_offering"`

	Date      string `gorm:"size:10;index" json:"date"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`
	Type   string `gorm:"size:30" json:"type"`

	Notes      string `gorm:"size:255" json:"notes"`
	BookingRef string `gorm:"size:36;index" json:"booking_ref"`

	CanceledAt *time.Time `json:"canceled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
