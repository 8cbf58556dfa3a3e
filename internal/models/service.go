package models

type Service struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Tag         string `gorm:"size:50;not null" json:"tag"`
	Icon        string `gorm:"size:20;not null" json:"icon"`
	Description string `gorm:"size:255" json:"description,omitempty"`
	Position    int    `json:"-"`
}
