package export

import (
	"strings"

	"packer-backend/internal/apperr"
)

// Названия колонок шаблонов отгрузки — в точности как в файлах площадок.
const (
	wbColBoxBarcode = "ШК короба"
	wbColShelfLife  = "Срок годности"

	ozonColItemBarcode = "ШК товара"
	ozonColArticle     = "Артикул товара"
	ozonColQuantity    = "Кол-во товаров"
	ozonColZone        = "Зона размещения"
	ozonColBoxBarcode  = "ШК ГМ"
	ozonColBoxType     = "Тип ГМ (не обязательно)"
	ozonColShelfLife   = "Срок годности ДО в формате YYYY-MM-DD (не более 1 СГ на 1 SKU в 1 ГМ)"
)

// WBTemplateRow: данные одной коробки из шаблона WB.
type WBTemplateRow struct {
	BoxBarcode string
	ShelfLife  string
}

// OzonTemplateRow: данные одной коробки из шаблона Ozon.
type OzonTemplateRow struct {
	Zone       string
	BoxBarcode string
	BoxType    string
	ShelfLife  string
}

// headerIndex: позиции колонок по заголовку (первая строка файла).
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseWBTemplate проверяет обязательные колонки шаблона WB и
// возвращает строки шаблона в порядке файла.
func ParseWBTemplate(rows [][]string) ([]WBTemplateRow, error) {
	if len(rows) == 0 {
		return nil, apperr.Validation("Шаблон пуст")
	}
	idx := headerIndex(rows[0])
	boxCol, okBox := idx[wbColBoxBarcode]
	shelfCol, okShelf := idx[wbColShelfLife]
	if !okBox || !okShelf {
		return nil, apperr.Validation("Шаблон должен содержать колонки \"%s\" и \"%s\"", wbColBoxBarcode, wbColShelfLife)
	}

	out := make([]WBTemplateRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, WBTemplateRow{
			BoxBarcode: cell(row, boxCol),
			ShelfLife:  cell(row, shelfCol),
		})
	}
	return out, nil
}

// ParseOzonTemplate проверяет полный набор колонок шаблона Ozon.
// При нехватке колонок отгрузка не начинается.
func ParseOzonTemplate(rows [][]string) ([]OzonTemplateRow, error) {
	if len(rows) == 0 {
		return nil, apperr.Validation("Шаблон пуст")
	}
	idx := headerIndex(rows[0])

	required := []string{
		ozonColItemBarcode, ozonColArticle, ozonColQuantity, ozonColZone,
		ozonColBoxBarcode, ozonColBoxType, ozonColShelfLife,
	}
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("Шаблон должен содержать колонки: %s", strings.Join(missing, ", "))
	}

	out := make([]OzonTemplateRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, OzonTemplateRow{
			Zone:       cell(row, idx[ozonColZone]),
			BoxBarcode: cell(row, idx[ozonColBoxBarcode]),
			BoxType:    cell(row, idx[ozonColBoxType]),
			ShelfLife:  cell(row, idx[ozonColShelfLife]),
		})
	}
	return out, nil
}
