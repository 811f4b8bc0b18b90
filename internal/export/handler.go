package export

import (
	"fmt"
	"strings"

	"packer-backend/internal/auth"
	"packer-backend/internal/gtin"
	"packer-backend/internal/models"
	"packer-backend/internal/oplog"
	"packer-backend/internal/packing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func sendXLSX(c *fiber.Ctx, prefix string, headers []string, rows [][]any) error {
	buf, err := writeXLSX(headers, rows)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("%s-%s.xlsx", prefix, uuid.NewString()[:8])
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// readTemplateRows: читает строки первого листа загруженного шаблона.
func readTemplateRows(c *fiber.Ctx) ([][]string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Не удалось загрузить шаблон: "+err.Error())
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

// GET /api/catalog/template
// Пустой шаблон листа упаковки.
func CatalogTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return sendXLSX(c, "template", []string{"Артикул", "Количество"}, nil)
	}
}

// POST /api/export/flatten
// Простой экспорт: одна строка на пару (коробка, артикул) с количеством > 0.
func FlattenHandler(m *packing.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var flat []FlatRow
		if err := m.WithSession(userID, func(s *packing.Session) error {
			var flErr error
			flat, flErr = FlattenAll(s)
			return flErr
		}); err != nil {
			return err
		}

		rows := make([][]any, 0, len(flat))
		for _, r := range flat {
			rows = append(rows, []any{r.Article, r.Quantity, r.Box})
		}

		oplog.Write(userID, models.ActionExport, "Экспорт: %d строк", len(rows))

		return sendXLSX(c, "export", []string{"Артикул товара", "Кол-во товаров", "Коробка"}, rows)
	}
}

// POST /api/export/wb
// Отгрузка WB: шаблон загружается вместе с запросом.
func WBHandler(m *packing.Manager, store *gtin.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		tplRows, err := readTemplateRows(c)
		if err != nil {
			return err
		}
		tpl, err := ParseWBTemplate(tplRows)
		if err != nil {
			return err
		}

		mapping := store.Get(userID)

		var out []WBRow
		if err := m.WithSession(userID, func(s *packing.Session) error {
			var enrichErr error
			out, enrichErr = EnrichWB(s, mapping, tpl)
			return enrichErr
		}); err != nil {
			return err
		}

		rows := make([][]any, 0, len(out))
		for _, r := range out {
			rows = append(rows, []any{r.ItemBarcode, r.Quantity, r.BoxBarcode, r.ShelfLife})
		}

		oplog.Write(userID, models.ActionExport, "Отгрузка WB: %d строк", len(rows))

		return sendXLSX(c, "wb-shipment",
			[]string{"Баркод товара", "Кол-во товаров", wbColBoxBarcode, wbColShelfLife}, rows)
	}
}

// POST /api/export/ozon
func OzonHandler(m *packing.Manager, store *gtin.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		tplRows, err := readTemplateRows(c)
		if err != nil {
			return err
		}
		tpl, err := ParseOzonTemplate(tplRows)
		if err != nil {
			return err
		}

		mapping := store.Get(userID)

		var out []OzonRow
		if err := m.WithSession(userID, func(s *packing.Session) error {
			var enrichErr error
			out, enrichErr = EnrichOzon(s, mapping, tpl)
			return enrichErr
		}); err != nil {
			return err
		}

		rows := make([][]any, 0, len(out))
		for _, r := range out {
			rows = append(rows, []any{r.ItemBarcode, r.Article, r.Quantity, r.Zone, r.BoxBarcode, r.BoxType, r.ShelfLife})
		}

		oplog.Write(userID, models.ActionExport, "Отгрузка Ozon: %d строк", len(rows))

		return sendXLSX(c, "ozon-shipment",
			[]string{ozonColItemBarcode, ozonColArticle, ozonColQuantity, ozonColZone, ozonColBoxBarcode, ozonColBoxType, ozonColShelfLife}, rows)
	}
}
