package models

import "time"

// LedgerConfig: настройки подключения к внешней таблице склада.
// Перезаписывается при каждом подключении/отключении.
type LedgerConfig struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        uint    `gorm:"uniqueIndex;not null"`
	SpreadsheetID *string `gorm:"size:128"`
	SheetName     string  `gorm:"size:100;not null;default:'Склад'"`
	Enabled       bool    `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
