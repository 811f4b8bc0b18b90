package oplog

import (
	"fmt"
	"log"

	"packer-backend/internal/database"
	"packer-backend/internal/models"
)

// Write пишет запись в журнал действий. Ошибка журнала не прерывает операцию.
func Write(userID uint, action models.OperationAction, format string, args ...any) {
	entry := models.OperationLog{
		UserID:      userID,
		Action:      action,
		Description: fmt.Sprintf(format, args...),
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err == nil {
		entry.UserName = user.Name
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("Не удалось записать журнал действий: %v", err)
	}
}
