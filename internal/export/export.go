package export

import (
	"log"

	"packer-backend/internal/apperr"
	"packer-backend/internal/gtin"
	"packer-backend/internal/packing"
)

// FlatRow: строка простого экспорта — (коробка, артикул) с количеством > 0.
type FlatRow struct {
	Article  string
	Quantity int
	Box      string
}

// FlattenAll разворачивает содержимое всех коробок в плоские строки.
func FlattenAll(s *packing.Session) ([]FlatRow, error) {
	var rows []FlatRow
	for _, box := range s.Boxes() {
		for _, a := range articlesOf(s, box) {
			cnt := box.Quantities[a]
			if cnt > 0 {
				rows = append(rows, FlatRow{Article: a, Quantity: cnt, Box: box.Name})
			}
		}
	}
	if len(rows) == 0 {
		return nil, apperr.EmptyResult("Нет данных для экспорта")
	}
	return rows, nil
}

// articlesOf: артикулы коробки в порядке листа упаковки, чтобы строки
// экспорта шли в стабильном порядке.
func articlesOf(s *packing.Session, box *packing.Box) []string {
	if s.Catalog() == nil {
		return nil
	}
	out := make([]string, 0, len(box.Quantities))
	for _, a := range s.Catalog().Articles() {
		if _, ok := box.Quantities[a.ID]; ok {
			out = append(out, a.ID)
		}
	}
	return out
}

// barcodeFor: штрихкод артикула из обратного поиска; если сопоставления
// нет — сам артикул.
func barcodeFor(mapping *gtin.Mapping, article string) string {
	if mapping != nil {
		if barcode, ok := mapping.Reverse(article); ok {
			return barcode
		}
	}
	return article
}

// WBRow: строка отгрузки WB.
type WBRow struct {
	ItemBarcode string
	Quantity    int
	BoxBarcode  string
	ShelfLife   string
}

// EnrichWB сопоставляет коробки со строками шаблона позиционно:
// N-я строка шаблона относится к N-й коробке в порядке создания.
// Более короткая из двух последовательностей ограничивает обход.
func EnrichWB(s *packing.Session, mapping *gtin.Mapping, tpl []WBTemplateRow) ([]WBRow, error) {
	boxes := s.Boxes()
	if len(boxes) == 0 {
		return nil, apperr.EmptyResult("Нет данных для отгрузки WB")
	}
	if len(tpl) != len(boxes) {
		log.Printf("Отгрузка WB: строк шаблона %d, коробок %d — лишние не будут сопоставлены", len(tpl), len(boxes))
	}

	var out []WBRow
	for i, box := range boxes {
		if i >= len(tpl) {
			break
		}
		for _, a := range articlesOf(s, box) {
			cnt := box.Quantities[a]
			if cnt == 0 {
				continue
			}
			out = append(out, WBRow{
				ItemBarcode: barcodeFor(mapping, a),
				Quantity:    cnt,
				BoxBarcode:  tpl[i].BoxBarcode,
				ShelfLife:   tpl[i].ShelfLife,
			})
		}
	}
	return out, nil
}

// OzonRow: строка отгрузки Ozon.
type OzonRow struct {
	ItemBarcode string
	Article     string
	Quantity    int
	Zone        string
	BoxBarcode  string
	BoxType     string
	ShelfLife   string
}

// EnrichOzon: то же позиционное сопоставление, что и для WB,
// но со схемой Ozon.
func EnrichOzon(s *packing.Session, mapping *gtin.Mapping, tpl []OzonTemplateRow) ([]OzonRow, error) {
	boxes := s.Boxes()
	if len(boxes) == 0 {
		return nil, apperr.EmptyResult("Нет данных для отгрузки Ozon")
	}
	if len(tpl) != len(boxes) {
		log.Printf("Отгрузка Ozon: строк шаблона %d, коробок %d — лишние не будут сопоставлены", len(tpl), len(boxes))
	}

	var out []OzonRow
	for i, box := range boxes {
		if i >= len(tpl) {
			break
		}
		for _, a := range articlesOf(s, box) {
			cnt := box.Quantities[a]
			if cnt == 0 {
				continue
			}
			out = append(out, OzonRow{
				ItemBarcode: barcodeFor(mapping, a),
				Article:     a,
				Quantity:    cnt,
				Zone:        tpl[i].Zone,
				BoxBarcode:  tpl[i].BoxBarcode,
				BoxType:     tpl[i].BoxType,
				ShelfLife:   tpl[i].ShelfLife,
			})
		}
	}
	return out, nil
}
