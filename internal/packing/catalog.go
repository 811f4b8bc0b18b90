package packing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"packer-backend/internal/apperr"
)

// ParseCatalogRows разбирает строки листа упаковки (как их отдаёт excelize).
// Ищет колонки «Артикул» и «Количество» без учёта регистра; если их нет,
// берёт первые две колонки с принудительным приведением типов.
// Первая строка всегда считается заголовком.
func ParseCatalogRows(rows [][]string) ([]Article, error) {
	if len(rows) == 0 {
		return nil, apperr.Validation("Файл пуст")
	}

	header := rows[0]
	artCol, qtyCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "артикул":
			artCol = i
		case "количество":
			qtyCol = i
		}
	}

	if artCol < 0 || qtyCol < 0 {
		// Позиционный вариант: первые две колонки
		if len(header) < 2 {
			return nil, apperr.Validation("Не найдены колонки артикула и количества")
		}
		artCol, qtyCol = 0, 1
	}

	required := make(map[string]int)
	for i, row := range rows[1:] {
		if artCol >= len(row) {
			continue
		}
		article := strings.TrimSpace(row[artCol])
		if article == "" {
			continue
		}

		qtyStr := ""
		if qtyCol < len(row) {
			qtyStr = strings.TrimSpace(row[qtyCol])
		}
		qty, err := parseQuantity(qtyStr)
		if err != nil {
			return nil, apperr.Validation("Строка %d: неверное количество '%s'", i+2, qtyStr)
		}

		// Дубликат артикула: последняя строка побеждает
		required[article] = qty
	}

	articles := make([]Article, 0, len(required))
	for id, qty := range required {
		articles = append(articles, Article{ID: id, Required: qty})
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].ID < articles[j].ID })

	return articles, nil
}

// parseQuantity: неотрицательное целое; excelize может отдавать числа как "5"
// или "5.0" в зависимости от формата ячейки.
func parseQuantity(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, apperr.Validation("отрицательное количество")
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) {
		return 0, apperr.Validation("не целое число")
	}
	return int(f), nil
}
