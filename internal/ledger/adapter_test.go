package ledger

import (
	"testing"

	"packer-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient: транспорт-заглушка с управляемыми сбоями.
type fakeClient struct {
	values    [][]string
	sheets    []string
	failGet   bool
	failClear bool
	failPut   bool

	cleared        bool
	lastWrite      [][]string
	lastWriteSheet string
}

func (f *fakeClient) GetValues(spreadsheetID, rng string) ([][]string, error) {
	if f.failGet {
		return nil, apperr.IO("Сетевая ошибка: обрыв соединения")
	}
	return f.values, nil
}

func (f *fakeClient) ClearValues(spreadsheetID, rng string) error {
	if f.failClear {
		return apperr.IO("Сетевая ошибка: обрыв соединения")
	}
	f.cleared = true
	return nil
}

func (f *fakeClient) UpdateValues(spreadsheetID, rng string, values [][]string) error {
	if f.failPut {
		return apperr.IO("Сетевая ошибка: обрыв соединения")
	}
	f.lastWrite = values
	f.lastWriteSheet = spreadsheetID
	return nil
}

func (f *fakeClient) EnsureSheet(spreadsheetID, sheetName string) error {
	for _, s := range f.sheets {
		if s == sheetName {
			return nil
		}
	}
	f.sheets = append(f.sheets, sheetName)
	return nil
}

func connectedAdapter(t *testing.T, client *fakeClient) *Adapter {
	t.Helper()
	a := NewAdapter(client)
	require.NoError(t, a.Connect("sheet-1", "Склад"))
	require.Equal(t, StateConnected, a.State())
	return a
}

func TestAdapter_Connect(t *testing.T) {
	t.Run("empty spreadsheet id rejected", func(t *testing.T) {
		a := NewAdapter(&fakeClient{})
		err := a.Connect("", "Склад")
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		assert.Equal(t, StateDisabled, a.State())
	})

	t.Run("no client configured", func(t *testing.T) {
		a := NewAdapter(nil)
		err := a.Connect("sheet-1", "")
		assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(err))
	})

	t.Run("pull failure leaves adapter disabled", func(t *testing.T) {
		a := NewAdapter(&fakeClient{failGet: true})
		err := a.Connect("sheet-1", "Склад")
		assert.Equal(t, apperr.CodeIO, apperr.CodeOf(err))
		assert.Equal(t, StateDisabled, a.State())
	})

	t.Run("failed reconnect keeps previous spreadsheet", func(t *testing.T) {
		client := &fakeClient{values: [][]string{
			{"Артикул", "Количество", "Ячейка"},
			{"OLD-1", "7", "B-12"},
		}}
		a := NewAdapter(client)
		require.NoError(t, a.Connect("sheet-old", "Склад"))

		client.failGet = true
		err := a.Connect("sheet-new", "Склад")
		assert.Equal(t, apperr.CodeIO, apperr.CodeOf(err))

		// Прежнее подключение и зеркало остаются нетронутыми
		assert.Equal(t, StateConnected, a.State())
		assert.Equal(t, "sheet-old", a.SpreadsheetID())
		e, ok := a.Get("OLD-1")
		require.True(t, ok)
		assert.Equal(t, 7, e.Quantity)

		// Последующий push уходит в прежнюю таблицу, не в новую
		client.failGet = false
		require.NoError(t, a.Push())
		assert.Equal(t, "sheet-old", client.lastWriteSheet)
	})

	t.Run("empty sheet name defaults", func(t *testing.T) {
		a := NewAdapter(&fakeClient{})
		require.NoError(t, a.Connect("sheet-1", ""))
		assert.Equal(t, "Склад", a.SheetName())
	})
}

func TestAdapter_Pull(t *testing.T) {
	t.Run("replaces mirror wholesale", func(t *testing.T) {
		client := &fakeClient{values: [][]string{
			{"Артикул", "Количество", "Ячейка"},
			{"A1", "7", "B-12"},
			{"", "9", "пропуск"},
			{"A2", "мусор"},
		}}
		a := connectedAdapter(t, client)

		e, ok := a.Get("A1")
		require.True(t, ok)
		assert.Equal(t, Entry{Quantity: 7, Cell: "B-12"}, e)

		// Нечисловое количество читается как ноль, пустой артикул пропускается
		e, ok = a.Get("A2")
		require.True(t, ok)
		assert.Equal(t, 0, e.Quantity)
		assert.Len(t, a.Entries(), 2)

		// Несохранённые локальные правки теряются при повторном pull
		require.NoError(t, a.ApplyDelta("A9", 3, ""))
		require.NoError(t, a.Pull())
		_, ok = a.Get("A9")
		assert.False(t, ok)
	})

	t.Run("transport failure keeps mirror", func(t *testing.T) {
		client := &fakeClient{values: [][]string{
			{"Артикул", "Количество", "Ячейка"},
			{"A1", "7", ""},
		}}
		a := connectedAdapter(t, client)

		client.failGet = true
		err := a.Pull()
		assert.Equal(t, apperr.CodeIO, apperr.CodeOf(err))

		e, ok := a.Get("A1")
		require.True(t, ok)
		assert.Equal(t, 7, e.Quantity)
		assert.Equal(t, StateConnected, a.State())
	})
}

func TestAdapter_ApplyDelta(t *testing.T) {
	t.Run("never negative", func(t *testing.T) {
		a := connectedAdapter(t, &fakeClient{})
		require.NoError(t, a.ApplyDelta("A1", 2, ""))
		require.NoError(t, a.ApplyDelta("A1", -5, ""))

		e, ok := a.Get("A1")
		require.True(t, ok)
		assert.Equal(t, 0, e.Quantity)
	})

	t.Run("creates absent article at zero", func(t *testing.T) {
		a := connectedAdapter(t, &fakeClient{})
		require.NoError(t, a.ApplyDelta("A1", 4, "C-3"))

		e, ok := a.Get("A1")
		require.True(t, ok)
		assert.Equal(t, Entry{Quantity: 4, Cell: "C-3"}, e)
	})

	t.Run("cell updated only when non-empty", func(t *testing.T) {
		a := connectedAdapter(t, &fakeClient{})
		require.NoError(t, a.ApplyDelta("A1", 1, "C-3"))
		require.NoError(t, a.ApplyDelta("A1", 1, ""))

		e, _ := a.Get("A1")
		assert.Equal(t, "C-3", e.Cell)

		require.NoError(t, a.ApplyDelta("A1", 0, "D-1"))
		e, _ = a.Get("A1")
		assert.Equal(t, "D-1", e.Cell)
	})

	t.Run("disconnected no-op reports success", func(t *testing.T) {
		a := NewAdapter(&fakeClient{})
		require.NoError(t, a.ApplyDelta("A1", 5, ""))

		_, ok := a.Get("A1")
		assert.False(t, ok)
	})
}

func TestAdapter_Push(t *testing.T) {
	t.Run("full overwrite with header", func(t *testing.T) {
		client := &fakeClient{values: [][]string{
			{"Артикул", "Количество", "Ячейка"},
			{"A1", "7", "B-12"},
		}}
		a := connectedAdapter(t, client)
		require.NoError(t, a.ApplyDelta("A2", 3, "C-1"))

		require.NoError(t, a.Push())
		assert.True(t, client.cleared)
		assert.Equal(t, [][]string{
			{"Артикул", "Количество", "Ячейка"},
			{"A1", "7", "B-12"},
			{"A2", "3", "C-1"},
		}, client.lastWrite)
	})

	t.Run("requires connection", func(t *testing.T) {
		a := NewAdapter(&fakeClient{})
		err := a.Push()
		assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(err))
	})

	t.Run("clear failure surfaces as IO", func(t *testing.T) {
		client := &fakeClient{}
		a := connectedAdapter(t, client)
		client.failClear = true

		err := a.Push()
		assert.Equal(t, apperr.CodeIO, apperr.CodeOf(err))
	})
}

func TestAdapter_Remove(t *testing.T) {
	a := connectedAdapter(t, &fakeClient{})
	require.NoError(t, a.ApplyDelta("A1", 2, ""))

	require.NoError(t, a.Remove("A1"))
	_, ok := a.Get("A1")
	assert.False(t, ok)

	err := a.Remove("A1")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestAdapter_Disconnect(t *testing.T) {
	a := connectedAdapter(t, &fakeClient{})
	require.NoError(t, a.ApplyDelta("A1", 2, ""))

	a.Disconnect()
	assert.Equal(t, StateDisabled, a.State())

	// После отключения get сообщает об отсутствии, delta — успешный no-op
	_, ok := a.Get("A1")
	assert.False(t, ok)
	require.NoError(t, a.ApplyDelta("A1", 5, ""))
}
