package packing

import (
	"strings"

	"packer-backend/internal/auth"
	"packer-backend/internal/gtin"
	"packer-backend/internal/models"
	"packer-backend/internal/oplog"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type AddBoxRequest struct {
	Name string `json:"name"`
}

type RenameBoxRequest struct {
	NewName string `json:"new_name"`
}

type ScanRequest struct {
	Gtin string `json:"gtin"`
}

type SetQuantityRequest struct {
	Article  string `json:"article"`
	Quantity int    `json:"quantity"`
}

// CatalogRow: строка таблицы упаковки — артикул, в выбранной коробке, осталось.
type CatalogRow struct {
	Article   string `json:"article"`
	Required  int    `json:"required"`
	InBox     int    `json:"in_box"`
	Remaining int    `json:"remaining"`
}

// readUploadRows: читает строки первого листа загруженного XLSX-файла.
func readUploadRows(c *fiber.Ctx) ([][]string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Не удалось загрузить файл: "+err.Error())
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Можно загружать только файлы .xlsx")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Не удалось открыть файл: "+err.Error())
	}
	defer file.Close()

	excelFile, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Не удалось прочитать Excel-файл: "+err.Error())
	}
	defer excelFile.Close()

	sheetList := excelFile.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "В файле нет листов")
	}

	rows, err := excelFile.GetRows(sheetList[0])
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Не удалось прочитать лист: "+err.Error())
	}
	return rows, nil
}

// POST /api/catalog/import
// Загружает лист упаковки. Прежний лист, коробки и выбор сбрасываются.
func ImportCatalogHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		rows, err := readUploadRows(c)
		if err != nil {
			return err
		}

		articles, err := ParseCatalogRows(rows)
		if err != nil {
			return err
		}

		if err := m.WithSession(userID, func(s *Session) error {
			s.ReplaceCatalog(articles)
			return nil
		}); err != nil {
			return err
		}

		oplog.Write(userID, models.ActionCatalogImport, "Загружен лист: %d позиций", len(articles))

		return c.JSON(fiber.Map{
			"message":  "Лист загружен",
			"articles": len(articles),
		})
	}
}

// GET /api/catalog
func ListCatalogHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var rows []CatalogRow
		var totalRemaining, boxTotal int
		var selected string
		if err := m.WithSession(userID, func(s *Session) error {
			if s.Catalog() == nil {
				rows = []CatalogRow{}
				return nil
			}
			box := s.SelectedBox()
			if box != nil {
				selected = box.Name
			}
			rows = make([]CatalogRow, 0, s.Catalog().Len())
			for _, a := range s.Catalog().Articles() {
				inBox := 0
				if box != nil {
					inBox = box.Quantities[a.ID]
				}
				rows = append(rows, CatalogRow{
					Article:   a.ID,
					Required:  a.Required,
					InBox:     inBox,
					Remaining: s.RemainingFor(a.ID),
				})
			}
			totalRemaining = s.TotalRemaining()
			boxTotal = s.SelectedBoxTotal()
			return nil
		}); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"rows":            rows,
			"selected_box":    selected,
			"box_total":       boxTotal,
			"total_remaining": totalRemaining,
		})
	}
}

// GET /api/summary
func SummaryHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		resp := fiber.Map{}
		if err := m.WithSession(userID, func(s *Session) error {
			articles := 0
			if s.Catalog() != nil {
				articles = s.Catalog().Len()
			}
			selected := ""
			if b := s.SelectedBox(); b != nil {
				selected = b.Name
			}
			resp = fiber.Map{
				"articles":        articles,
				"boxes":           len(s.Boxes()),
				"selected_box":    selected,
				"box_total":       s.SelectedBoxTotal(),
				"total_remaining": s.TotalRemaining(),
			}
			return nil
		}); err != nil {
			return err
		}

		return c.JSON(resp)
	}
}

// GET /api/boxes
func ListBoxesHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		type boxInfo struct {
			Name     string `json:"name"`
			Total    int    `json:"total"`
			Selected bool   `json:"selected"`
		}

		boxes := []boxInfo{}
		if err := m.WithSession(userID, func(s *Session) error {
			selected := s.SelectedBox()
			for _, b := range s.Boxes() {
				total := 0
				for _, q := range b.Quantities {
					total += q
				}
				boxes = append(boxes, boxInfo{
					Name:     b.Name,
					Total:    total,
					Selected: selected != nil && selected.Name == b.Name,
				})
			}
			return nil
		}); err != nil {
			return err
		}

		return c.JSON(boxes)
	}
}

// POST /api/boxes
func AddBoxHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body AddBoxRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверное тело запроса")
		}

		if err := m.WithSession(userID, func(s *Session) error {
			return s.AddBox(body.Name)
		}); err != nil {
			return err
		}

		oplog.Write(userID, models.ActionBoxAdd, "Добавлена коробка '%s'", body.Name)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"name": body.Name})
	}
}

// PUT /api/boxes/:name
func RenameBoxHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		oldName := c.Params("name")
		var body RenameBoxRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверное тело запроса")
		}

		if err := m.WithSession(userID, func(s *Session) error {
			return s.RenameBox(oldName, body.NewName)
		}); err != nil {
			return err
		}

		oplog.Write(userID, models.ActionBoxRename, "Коробка '%s' переименована в '%s'", oldName, body.NewName)

		return c.JSON(fiber.Map{"name": body.NewName})
	}
}

// DELETE /api/boxes/:name
// Подтверждение удаления — забота клиента.
func DeleteBoxHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		name := c.Params("name")
		if err := m.WithSession(userID, func(s *Session) error {
			return s.DeleteBox(name)
		}); err != nil {
			return err
		}

		oplog.Write(userID, models.ActionBoxDelete, "Удалена коробка '%s'", name)

		return c.JSON(fiber.Map{"message": "Коробка удалена"})
	}
}

// POST /api/boxes/:name/select
func SelectBoxHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		name := c.Params("name")
		if err := m.WithSession(userID, func(s *Session) error {
			return s.SelectBox(name)
		}); err != nil {
			return err
		}

		return c.JSON(fiber.Map{"selected_box": name})
	}
}

// POST /api/scan
// Один скан — ровно +1 к выбранной коробке.
func ScanHandler(m *Manager, store *gtin.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body ScanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверное тело запроса")
		}
		barcode := strings.TrimSpace(body.Gtin)

		mapping := store.Get(userID)

		var article string
		var inBox, remaining int
		if err := m.WithSession(userID, func(s *Session) error {
			var scanErr error
			article, scanErr = s.Scan(mapping, barcode)
			if scanErr != nil {
				return scanErr
			}
			inBox = s.SelectedBox().Quantities[article]
			remaining = s.RemainingFor(article)
			return nil
		}); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"article":   article,
			"in_box":    inBox,
			"remaining": remaining,
		})
	}
}

// PUT /api/quantity
// Ручная правка количества в выбранной коробке.
func SetQuantityHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body SetQuantityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверное тело запроса")
		}

		var remaining int
		if err := m.WithSession(userID, func(s *Session) error {
			if err := s.SetQuantity(body.Article, body.Quantity); err != nil {
				return err
			}
			remaining = s.RemainingFor(body.Article)
			return nil
		}); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"article":   body.Article,
			"quantity":  body.Quantity,
			"remaining": remaining,
		})
	}
}
