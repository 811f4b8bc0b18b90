package oplog

import (
	"packer-backend/internal/auth"
	"packer-backend/internal/database"
	"packer-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/operation-logs
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		limit := c.QueryInt("limit", 100)
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		var logs []models.OperationLog
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(limit).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось прочитать журнал действий")
		}

		return c.JSON(logs)
	}
}
