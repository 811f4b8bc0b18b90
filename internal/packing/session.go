package packing

import (
	"strings"

	"packer-backend/internal/apperr"
	"packer-backend/internal/gtin"
)

// Article: позиция листа упаковки с требуемым количеством.
type Article struct {
	ID       string
	Required int
}

// Catalog: загруженный лист упаковки. Заменяется целиком при каждом импорте.
type Catalog struct {
	articles []Article // отсортированы по артикулу
	required map[string]int
}

func (c *Catalog) Articles() []Article {
	return c.articles
}

func (c *Catalog) Required(article string) (int, bool) {
	q, ok := c.required[article]
	return q, ok
}

func (c *Catalog) Len() int {
	return len(c.articles)
}

// Box: коробка с количеством по каждому артикулу.
// Отсутствующий артикул означает ноль.
type Box struct {
	Name       string
	Quantities map[string]int
}

// Session: состояние упаковки одного оператора. Живёт только в памяти:
// при перезапуске процесса упаковка начинается заново.
// Коробки хранятся в порядке создания — этот порядок используется
// при позиционном сопоставлении с шаблоном отгрузки.
type Session struct {
	catalog  *Catalog
	boxes    []*Box
	selected string // имя выбранной коробки, "" если не выбрана
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Catalog() *Catalog {
	return s.catalog
}

func (s *Session) Boxes() []*Box {
	return s.boxes
}

func (s *Session) SelectedBox() *Box {
	if s.selected == "" {
		return nil
	}
	return s.findBox(s.selected)
}

func (s *Session) findBox(name string) *Box {
	for _, b := range s.boxes {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// ReplaceCatalog заменяет лист целиком: все коробки и выбор сбрасываются,
// упаковка начинается заново.
func (s *Session) ReplaceCatalog(articles []Article) {
	required := make(map[string]int, len(articles))
	for _, a := range articles {
		required[a.ID] = a.Required
	}
	s.catalog = &Catalog{articles: articles, required: required}
	s.boxes = nil
	s.selected = ""
}

func (s *Session) AddBox(name string) error {
	name = strings.TrimSpace(name)
	if s.catalog == nil {
		return apperr.Validation("Сначала загрузите лист")
	}
	if name == "" {
		return apperr.Validation("Имя коробки не может быть пустым")
	}
	if s.findBox(name) != nil {
		return apperr.Validation("Коробка '%s' уже существует", name)
	}

	quantities := make(map[string]int, s.catalog.Len())
	for _, a := range s.catalog.articles {
		quantities[a.ID] = 0
	}
	s.boxes = append(s.boxes, &Box{Name: name, Quantities: quantities})
	s.selected = name
	return nil
}

func (s *Session) RenameBox(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperr.Validation("Имя коробки не может быть пустым")
	}
	box := s.findBox(oldName)
	if box == nil {
		return apperr.NotFound("Коробка '%s' не найдена", oldName)
	}
	if s.findBox(newName) != nil {
		return apperr.Validation("Коробка '%s' уже существует", newName)
	}

	box.Name = newName
	if s.selected == oldName {
		s.selected = newName
	}
	return nil
}

func (s *Session) DeleteBox(name string) error {
	for i, b := range s.boxes {
		if b.Name == name {
			s.boxes = append(s.boxes[:i], s.boxes[i+1:]...)
			if s.selected == name {
				s.selected = ""
			}
			return nil
		}
	}
	return apperr.NotFound("Коробка '%s' не найдена", name)
}

func (s *Session) SelectBox(name string) error {
	if s.findBox(name) == nil {
		return apperr.NotFound("Коробка '%s' не найдена", name)
	}
	s.selected = name
	return nil
}

// TotalPacked: сколько всего упаковано артикула по всем коробкам.
func (s *Session) TotalPacked(article string) int {
	total := 0
	for _, b := range s.boxes {
		total += b.Quantities[article]
	}
	return total
}

// Scan обрабатывает один скан штрихкода: ровно +1 к выбранной коробке.
// Проверки выполняются до изменения состояния, частичного применения нет.
func (s *Session) Scan(mapping *gtin.Mapping, barcode string) (string, error) {
	if s.catalog == nil || s.selected == "" || mapping == nil {
		return "", apperr.Precondition("Загрузите данные и выберите коробку")
	}

	article, err := mapping.Resolve(barcode)
	if err != nil {
		return "", err
	}

	allowed, ok := s.catalog.Required(article)
	if !ok {
		return "", apperr.Validation("Артикул %s не найден в листе", article)
	}

	used := s.TotalPacked(article)
	if allowed-used <= 0 {
		return "", apperr.CapacityExceeded("Превышено: доступно %d, использовано %d", allowed, used)
	}

	s.findBox(s.selected).Quantities[article]++
	return article, nil
}

// SetQuantity: ручная правка количества артикула в выбранной коробке.
// Устанавливает значение точно (не дельта), с проверкой общего лимита.
func (s *Session) SetQuantity(article string, newValue int) error {
	if s.catalog == nil || s.selected == "" {
		return apperr.Precondition("Загрузите данные и выберите коробку")
	}
	if newValue < 0 {
		return apperr.Validation("Количество не может быть отрицательным")
	}

	allowed, ok := s.catalog.Required(article)
	if !ok {
		return apperr.NotFound("Артикул %s не найден в листе", article)
	}

	box := s.findBox(s.selected)
	other := s.TotalPacked(article) - box.Quantities[article]
	if newValue+other > allowed {
		return apperr.CapacityExceeded("Всего доступно %d, в других коробках %d", allowed, other)
	}

	box.Quantities[article] = newValue
	return nil
}

// RemainingFor: сколько осталось упаковать по артикулу.
func (s *Session) RemainingFor(article string) int {
	if s.catalog == nil {
		return 0
	}
	allowed, ok := s.catalog.Required(article)
	if !ok {
		return 0
	}
	return allowed - s.TotalPacked(article)
}

// TotalRemaining: сколько всего осталось распределить по всем артикулам.
func (s *Session) TotalRemaining() int {
	if s.catalog == nil {
		return 0
	}
	total := 0
	for _, a := range s.catalog.articles {
		total += a.Required - s.TotalPacked(a.ID)
	}
	return total
}

// SelectedBoxTotal: суммарное количество в выбранной коробке.
func (s *Session) SelectedBoxTotal() int {
	box := s.SelectedBox()
	if box == nil {
		return 0
	}
	total := 0
	for _, q := range box.Quantities {
		total += q
	}
	return total
}
