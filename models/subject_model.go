package models

import "github.com/google/uuid"

type Subject struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"size:100;not null" json:"name"`
	Slug  string    `gorm:"size:100;not null;unique" json:"slug"`
	Icon  string    `gorm:"size:50;default:'fas fa-book'" json:"icon"`
	Color string    `gorm:"size:20;default:'blue'" json:"color"`
}
