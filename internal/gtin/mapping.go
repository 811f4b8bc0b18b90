package gtin

import (
	"strings"

	"packer-backend/internal/apperr"
)

// Entry: одна строка сопоставления штрихкод → артикул.
type Entry struct {
	Barcode string
	Article string
}

// Mapping: таблица сопоставления GTIN. Порядок записей соответствует порядку
// строк файла импорта: обратный поиск при нескольких штрихкодах на один
// артикул детерминированно берёт первый загруженный.
type Mapping struct {
	byBarcode map[string]string
	entries   []Entry
}

func NewMapping(entries []Entry) *Mapping {
	m := &Mapping{byBarcode: make(map[string]string, len(entries))}
	for _, e := range entries {
		if _, ok := m.byBarcode[e.Barcode]; ok {
			continue
		}
		m.byBarcode[e.Barcode] = e.Article
		m.entries = append(m.entries, e)
	}
	return m
}

// ParseRows разбирает файл сопоставления: ровно две колонки,
// позиционно штрихкод и артикул, первая строка — заголовок.
func ParseRows(rows [][]string) (*Mapping, error) {
	if len(rows) == 0 {
		return nil, apperr.Validation("Файл пуст")
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < 2 {
			return nil, apperr.Validation("Строка %d: ожидаются две колонки (GTIN и артикул)", i+2)
		}
		barcode := strings.TrimSpace(row[0])
		article := strings.TrimSpace(row[1])
		if barcode == "" || article == "" {
			return nil, apperr.Validation("Строка %d: пустой GTIN или артикул", i+2)
		}
		entries = append(entries, Entry{Barcode: barcode, Article: article})
	}

	return NewMapping(entries), nil
}

func (m *Mapping) Len() int {
	return len(m.entries)
}

func (m *Mapping) Entries() []Entry {
	return m.entries
}

// Resolve: поиск артикула по штрихкоду.
func (m *Mapping) Resolve(barcode string) (string, error) {
	article, ok := m.byBarcode[barcode]
	if !ok {
		return "", apperr.NotFound("GTIN %s отсутствует", barcode)
	}
	return article, nil
}

// Reverse: обратный поиск штрихкода по артикулу, первый загруженный.
// Если штрихкода нет, вызывающий код подставляет сам артикул.
func (m *Mapping) Reverse(article string) (string, bool) {
	for _, e := range m.entries {
		if e.Article == article {
			return e.Barcode, true
		}
	}
	return "", false
}
