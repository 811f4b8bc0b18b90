package gtin

import (
	"log"
	"sync"

	"packer-backend/internal/apperr"
	"packer-backend/internal/database"
	"packer-backend/internal/models"

	"gorm.io/gorm"
)

// Store: кэш сопоставлений поверх базы. Сопоставление переживает перезапуск
// процесса; при каждом импорте набор строк пользователя заменяется целиком.
type Store struct {
	mu    sync.Mutex
	cache map[uint]*Mapping
}

func NewStore() *Store {
	return &Store{cache: make(map[uint]*Mapping)}
}

// Get возвращает сопоставление пользователя или nil, если оно не загружено.
// Ошибка чтения из базы не фатальна: считается, что сопоставления нет.
func (s *Store) Get(userID uint) *Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.cache[userID]; ok {
		return m
	}

	var rows []models.GtinEntry
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		log.Printf("Не удалось прочитать GTIN-сопоставления (user_id=%d): %v", userID, err)
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, Entry{Barcode: r.Barcode, Article: r.Article})
	}
	m := NewMapping(entries)
	s.cache[userID] = m
	return m
}

// Replace заменяет сопоставление пользователя целиком: старые строки
// удаляются, новые записываются одной транзакцией.
func (s *Store) Replace(userID uint, m *Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.GtinEntry{}).Error; err != nil {
			return err
		}
		rows := make([]models.GtinEntry, 0, m.Len())
		for i, e := range m.Entries() {
			rows = append(rows, models.GtinEntry{
				UserID:   userID,
				Barcode:  e.Barcode,
				Article:  e.Article,
				Position: i,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return apperr.IO("Не удалось сохранить GTIN-сопоставления: %v", err)
	}

	s.cache[userID] = m
	return nil
}
