package ledger

import (
	"errors"
	"log"
	"sync"

	"packer-backend/internal/apperr"
	"packer-backend/internal/database"
	"packer-backend/internal/models"

	"gorm.io/gorm"
)

// Manager: адаптеры склада по пользователям. Настройки подключения
// читаются из базы при первом обращении; если подключение было включено,
// оно восстанавливается автоматически.
type Manager struct {
	mu       sync.Mutex
	adapters map[uint]*Adapter
	client   ValuesClient
}

func NewManager(client ValuesClient) *Manager {
	return &Manager{
		adapters: make(map[uint]*Adapter),
		client:   client,
	}
}

// With выполняет fn над адаптером пользователя под общим мьютексом.
func (m *Manager) With(userID uint, fn func(*Adapter) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.adapters[userID]
	if !ok {
		a = NewAdapter(m.client)
		m.restore(userID, a)
		m.adapters[userID] = a
	}
	return fn(a)
}

// restore: восстановление сохранённого подключения. Сбой не фатален —
// адаптер просто остаётся отключённым, оператор подключится заново.
func (m *Manager) restore(userID uint, a *Adapter) {
	var cfg models.LedgerConfig
	if err := database.DB.Where("user_id = ?", userID).First(&cfg).Error; err != nil {
		return
	}

	a.sheetName = cfg.SheetName
	if cfg.SpreadsheetID != nil {
		a.spreadsheetID = *cfg.SpreadsheetID
	}

	if cfg.Enabled && cfg.SpreadsheetID != nil && m.client != nil {
		if err := a.Connect(*cfg.SpreadsheetID, cfg.SheetName); err != nil {
			log.Printf("Не удалось восстановить подключение к складу (user_id=%d): %v", userID, err)
		}
	}
}

// SaveConfig перезаписывает настройки подключения пользователя.
func SaveConfig(userID uint, a *Adapter) error {
	var cfg models.LedgerConfig
	err := database.DB.Where("user_id = ?", userID).First(&cfg).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.IO("Не удалось прочитать настройки подключения: %v", err)
	}

	cfg.UserID = userID
	cfg.SheetName = a.SheetName()
	cfg.Enabled = a.Enabled()
	if id := a.SpreadsheetID(); id != "" {
		cfg.SpreadsheetID = &id
	}

	if err := database.DB.Save(&cfg).Error; err != nil {
		return apperr.IO("Не удалось сохранить настройки подключения: %v", err)
	}
	return nil
}
