package gtin

import (
	"strings"

	"packer-backend/internal/auth"
	"packer-backend/internal/models"
	"packer-backend/internal/oplog"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// POST /api/gtin/import
// Загружает таблицу сопоставления GTIN → артикул и заменяет прежнюю целиком.
func ImportHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Не удалось загрузить файл: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Можно загружать только файлы .xlsx")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось открыть файл: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Не удалось прочитать Excel-файл: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "В файле нет листов")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Не удалось прочитать лист: "+err.Error())
		}

		mapping, err := ParseRows(rows)
		if err != nil {
			return err
		}

		if err := store.Replace(userID, mapping); err != nil {
			return err
		}

		oplog.Write(userID, models.ActionGtinImport, "Загружено %d GTIN-сопоставлений", mapping.Len())

		return c.JSON(fiber.Map{
			"message": "GTIN-таблица загружена",
			"entries": mapping.Len(),
		})
	}
}

// GET /api/gtin/status
func StatusHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		mapping := store.Get(userID)
		if mapping == nil {
			return c.JSON(fiber.Map{"loaded": false, "entries": 0})
		}
		return c.JSON(fiber.Map{"loaded": true, "entries": mapping.Len()})
	}
}
