package database

import (
	"log"

	"packer-backend/internal/config"
	"packer-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.GtinEntry{},
		&models.LedgerConfig{},
		&models.OperationLog{},
	)
	if err != nil {
		log.Fatalf("Ошибка AutoMigrate: %v", err)
	}

	log.Println("Подключение к базе данных установлено. Миграция завершена.")
}
