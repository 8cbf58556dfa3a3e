package models

import "time"

// Appointment is a booking request for a home visit. Service holds the
// catalog name as it was when booked.
type Appointment struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	BarberID   string `gorm:"size:36;index;not null" json:"barberId"`
	CustomerID string `gorm:"size:36;index;not null" json:"customerId"`

	Date    string `gorm:"size:10;index;not null" json:"date"`
	Time    string `gorm:"size:5;not null" json:"time"`
	Service string `gorm:"size:100;not null" json:"service"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Involves reports whether userID takes part in the appointment either as
// customer or as barber.
func (a Appointment) Involves(userID string) bool {
	return a.CustomerID == userID || a.BarberID == userID
}
