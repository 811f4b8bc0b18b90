package models

import "time"

// GtinEntry: строка сопоставления GTIN → артикул, сохраняется между сессиями.
// Position хранит порядок строк файла импорта: обратный поиск (артикул → штрихкод)
// при нескольких штрихкодах на один артикул берёт первый загруженный.
type GtinEntry struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null;uniqueIndex:idx_user_barcode"`
	Barcode   string `gorm:"size:64;not null;uniqueIndex:idx_user_barcode"`
	Article   string `gorm:"size:100;not null;index"`
	Position  int    `gorm:"not null"` // порядковый номер строки в файле импорта
	CreatedAt time.Time
}
