package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"packer-backend/internal/apperr"
)

// Колонки внешней таблицы склада.
const (
	colArticle  = "Артикул"
	colQuantity = "Количество"
	colCell     = "Ячейка"

	DefaultSheetName = "Склад"
)

type State string

const (
	StateDisabled   State = "disabled"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
)

// Entry: остаток и ячейка хранения артикула на складе.
type Entry struct {
	Quantity int    `json:"quantity"`
	Cell     string `json:"cell"`
}

// Adapter зеркалирует складские остатки во внешнюю таблицу.
// Локальное зеркало полностью заменяется при pull и полностью
// перезаписывает удалённый диапазон при push — последняя запись побеждает,
// построчного сравнения нет.
type Adapter struct {
	client        ValuesClient
	spreadsheetID string
	sheetName     string
	state         State

	mirror map[string]Entry
	order  []string // порядок строк для push: как пришли из pull, новые в конец
}

func NewAdapter(client ValuesClient) *Adapter {
	return &Adapter{
		client:    client,
		sheetName: DefaultSheetName,
		state:     StateDisabled,
		mirror:    make(map[string]Entry),
	}
}

func (a *Adapter) State() State {
	return a.state
}

func (a *Adapter) Enabled() bool {
	return a.state == StateConnected
}

func (a *Adapter) SpreadsheetID() string {
	return a.spreadsheetID
}

func (a *Adapter) SheetName() string {
	return a.sheetName
}

func dataRange(sheetName string) string {
	return fmt.Sprintf("%s!A:C", sheetName)
}

// Connect: создать структуру листа при необходимости, затем загрузить зеркало.
// ID таблицы, лист и зеркало фиксируются только после успешной загрузки —
// при любой ошибке адаптер остаётся на прежней таблице в прежнем состоянии.
func (a *Adapter) Connect(spreadsheetID, sheetName string) error {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return apperr.Validation("Укажите ID таблицы")
	}
	if a.client == nil {
		return apperr.Precondition("Сервис таблиц не настроен (SHEETS_API_URL)")
	}

	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	prevState := a.state
	a.state = StateConnecting

	if err := a.client.EnsureSheet(spreadsheetID, sheetName); err != nil {
		a.state = prevState
		return err
	}

	mirror, order, err := a.fetch(spreadsheetID, sheetName)
	if err != nil {
		a.state = prevState
		return err
	}

	a.spreadsheetID = spreadsheetID
	a.sheetName = sheetName
	a.mirror = mirror
	a.order = order
	a.state = StateConnected
	return nil
}

func (a *Adapter) Disconnect() {
	a.state = StateDisabled
}

// Pull полностью заменяет локальное зеркало содержимым удалённой таблицы.
// Несохранённые локальные изменения при этом теряются, слияния нет.
// При ошибке транспорта зеркало остаётся прежним.
func (a *Adapter) Pull() error {
	if a.state != StateConnected {
		return apperr.Precondition("Подключение к складу не установлено")
	}
	mirror, order, err := a.fetch(a.spreadsheetID, a.sheetName)
	if err != nil {
		return err
	}
	a.mirror = mirror
	a.order = order
	return nil
}

func (a *Adapter) fetch(spreadsheetID, sheetName string) (map[string]Entry, []string, error) {
	values, err := a.client.GetValues(spreadsheetID, dataRange(sheetName))
	if err != nil {
		return nil, nil, err
	}

	mirror := make(map[string]Entry)
	var order []string

	// Первая строка — заголовок; строки с пустым артикулом пропускаются
	for i, row := range values {
		if i == 0 || len(row) == 0 {
			continue
		}
		article := strings.TrimSpace(row[0])
		if article == "" {
			continue
		}

		quantity := 0
		if len(row) > 1 {
			if q, err := strconv.Atoi(strings.TrimSpace(row[1])); err == nil {
				quantity = q
			}
		}
		cell := ""
		if len(row) > 2 {
			cell = strings.TrimSpace(row[2])
		}

		if _, ok := mirror[article]; !ok {
			order = append(order, article)
		}
		mirror[article] = Entry{Quantity: quantity, Cell: cell}
	}

	return mirror, order, nil
}

// Get возвращает запись зеркала. Без подключения запись считается
// отсутствующей — вызывающему коду не нужно проверять состояние.
func (a *Adapter) Get(article string) (Entry, bool) {
	if a.state != StateConnected {
		return Entry{}, false
	}
	e, ok := a.mirror[article]
	return e, ok
}

// Entries: содержимое зеркала в порядке строк.
func (a *Adapter) Entries() []struct {
	Article string `json:"article"`
	Entry
} {
	out := make([]struct {
		Article string `json:"article"`
		Entry
	}, 0, len(a.order))
	if a.state != StateConnected {
		return out
	}
	for _, article := range a.order {
		out = append(out, struct {
			Article string `json:"article"`
			Entry
		}{Article: article, Entry: a.mirror[article]})
	}
	return out
}

// ApplyDelta изменяет остаток артикула на delta. Отсутствующий артикул
// сначала создаётся с нулём; остаток никогда не уходит в минус.
// Ячейка обновляется только если передана непустая.
// Без подключения — успешный no-op.
func (a *Adapter) ApplyDelta(article string, delta int, cell string) error {
	if a.state != StateConnected {
		return nil
	}
	article = strings.TrimSpace(article)
	if article == "" {
		return apperr.Validation("Укажите артикул")
	}

	entry, ok := a.mirror[article]
	if !ok {
		entry = Entry{}
		a.order = append(a.order, article)
	}

	entry.Quantity += delta
	if entry.Quantity < 0 {
		entry.Quantity = 0
	}
	if cell != "" {
		entry.Cell = cell
	}

	a.mirror[article] = entry
	return nil
}

// Remove убирает артикул из зеркала.
func (a *Adapter) Remove(article string) error {
	if a.state != StateConnected {
		return nil
	}
	if _, ok := a.mirror[article]; !ok {
		return apperr.NotFound("Артикул %s отсутствует на складе", article)
	}
	delete(a.mirror, article)
	for i, art := range a.order {
		if art == article {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return nil
}

// Push перезаписывает удалённый диапазон содержимым зеркала целиком:
// очистка, затем запись заголовка и всех строк.
func (a *Adapter) Push() error {
	if a.state != StateConnected {
		return apperr.Precondition("Подключение к складу не установлено")
	}

	values := [][]string{{colArticle, colQuantity, colCell}}
	for _, article := range a.order {
		e := a.mirror[article]
		values = append(values, []string{article, strconv.Itoa(e.Quantity), e.Cell})
	}

	if err := a.client.ClearValues(a.spreadsheetID, dataRange(a.sheetName)); err != nil {
		return err
	}
	return a.client.UpdateValues(a.spreadsheetID, dataRange(a.sheetName), values)
}
