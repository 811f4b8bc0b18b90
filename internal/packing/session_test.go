package packing

import (
	"testing"

	"packer-backend/internal/apperr"
	"packer-backend/internal/gtin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.ReplaceCatalog([]Article{
		{ID: "A1", Required: 10},
		{ID: "A2", Required: 5},
	})
	return s
}

func newTestMapping() *gtin.Mapping {
	return gtin.NewMapping([]gtin.Entry{
		{Barcode: "GT1", Article: "A1"},
		{Barcode: "GT2", Article: "A2"},
	})
}

func TestSession_Boxes(t *testing.T) {
	t.Run("add requires catalog", func(t *testing.T) {
		s := NewSession()
		err := s.AddBox("Box1")
		require.Error(t, err)
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	})

	t.Run("add creates zero entries and selects", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.AddBox("Box1"))

		box := s.SelectedBox()
		require.NotNil(t, box)
		assert.Equal(t, "Box1", box.Name)
		assert.Equal(t, map[string]int{"A1": 0, "A2": 0}, box.Quantities)
	})

	t.Run("duplicate and empty names rejected", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.AddBox("Box1"))

		err := s.AddBox("Box1")
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

		err = s.AddBox("  ")
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	})

	t.Run("rename preserves contents and selection", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.AddBox("Box1"))
		require.NoError(t, s.SetQuantity("A1", 3))

		require.NoError(t, s.RenameBox("Box1", "Box2"))
		box := s.SelectedBox()
		require.NotNil(t, box)
		assert.Equal(t, "Box2", box.Name)
		assert.Equal(t, 3, box.Quantities["A1"])
	})

	t.Run("rename to existing name rejected", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.AddBox("Box1"))
		require.NoError(t, s.AddBox("Box2"))

		err := s.RenameBox("Box1", "Box2")
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	})

	t.Run("delete clears selection and releases quantities", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.AddBox("Box1"))
		require.NoError(t, s.SetQuantity("A1", 4))
		assert.Equal(t, 6, s.RemainingFor("A1"))

		require.NoError(t, s.DeleteBox("Box1"))
		assert.Nil(t, s.SelectedBox())
		assert.Equal(t, 0, s.TotalPacked("A1"))
		assert.Equal(t, 10, s.RemainingFor("A1"))
	})

	t.Run("select unknown box", func(t *testing.T) {
		s := newTestSession(t)
		err := s.SelectBox("Box9")
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	})
}

func TestSession_Scan(t *testing.T) {
	t.Run("preconditions", func(t *testing.T) {
		mapping := newTestMapping()

		s := NewSession()
		_, err := s.Scan(mapping, "GT1")
		assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(err))

		s = newTestSession(t)
		_, err = s.Scan(mapping, "GT1") // коробка не выбрана
		assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(err))

		require.NoError(t, s.AddBox("Box1"))
		_, err = s.Scan(nil, "GT1") // нет сопоставления
		assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(err))
	})

	t.Run("five scans then unknown barcode", func(t *testing.T) {
		s := newTestSession(t)
		mapping := newTestMapping()
		require.NoError(t, s.AddBox("Box1"))

		for i := 0; i < 5; i++ {
			article, err := s.Scan(mapping, "GT1")
			require.NoError(t, err)
			assert.Equal(t, "A1", article)
		}
		assert.Equal(t, 5, s.SelectedBox().Quantities["A1"])
		assert.Equal(t, 5, s.RemainingFor("A1"))

		_, err := s.Scan(mapping, "GTX")
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
		assert.Equal(t, 5, s.SelectedBox().Quantities["A1"], "неудачный скан не меняет состояние")
	})

	t.Run("article missing from catalog", func(t *testing.T) {
		s := newTestSession(t)
		mapping := gtin.NewMapping([]gtin.Entry{{Barcode: "GT9", Article: "A9"}})
		require.NoError(t, s.AddBox("Box1"))

		_, err := s.Scan(mapping, "GT9")
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	})

	t.Run("rejects at capacity without clamping", func(t *testing.T) {
		s := newTestSession(t)
		mapping := newTestMapping()
		require.NoError(t, s.AddBox("Box1"))

		for i := 0; i < 5; i++ {
			_, err := s.Scan(mapping, "GT2")
			require.NoError(t, err)
		}

		_, err := s.Scan(mapping, "GT2")
		assert.Equal(t, apperr.CodeCapacityExceeded, apperr.CodeOf(err))
		assert.Equal(t, 5, s.SelectedBox().Quantities["A2"])
		assert.Equal(t, 0, s.RemainingFor("A2"))
	})

	t.Run("capacity counts all boxes", func(t *testing.T) {
		s := newTestSession(t)
		mapping := newTestMapping()
		require.NoError(t, s.AddBox("Box1"))
		require.NoError(t, s.SetQuantity("A2", 5))

		require.NoError(t, s.AddBox("Box2"))
		_, err := s.Scan(mapping, "GT2")
		assert.Equal(t, apperr.CodeCapacityExceeded, apperr.CodeOf(err))
	})
}

func TestSession_SetQuantity(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.AddBox("Box1"))

		require.NoError(t, s.SetQuantity("A1", 7))
		assert.Equal(t, 7, s.SelectedBox().Quantities["A1"])

		require.NoError(t, s.SetQuantity("A1", 0))
		assert.Equal(t, 0, s.SelectedBox().Quantities["A1"])
	})

	t.Run("negative rejected", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.AddBox("Box1"))

		err := s.SetQuantity("A1", -1)
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	})

	t.Run("unknown article", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.AddBox("Box1"))

		err := s.SetQuantity("A9", 1)
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	})

	t.Run("respects other boxes", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.AddBox("Box1"))
		require.NoError(t, s.SetQuantity("A1", 10))

		require.NoError(t, s.AddBox("Box2"))
		err := s.SetQuantity("A1", 1)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeCapacityExceeded, apperr.CodeOf(err))
		assert.Equal(t, 0, s.SelectedBox().Quantities["A1"])

		// Освободили место в первой коробке — вторая может принять
		require.NoError(t, s.SelectBox("Box1"))
		require.NoError(t, s.SetQuantity("A1", 0))
		require.NoError(t, s.SelectBox("Box2"))
		require.NoError(t, s.SetQuantity("A1", 5))
		assert.Equal(t, 5, s.RemainingFor("A1"))
	})
}

func TestSession_Totals(t *testing.T) {
	t.Run("no catalog loaded", func(t *testing.T) {
		s := NewSession()
		assert.Equal(t, 0, s.RemainingFor("A1"))
		assert.Equal(t, 0, s.TotalRemaining())
	})

	s := newTestSession(t)
	assert.Equal(t, 15, s.TotalRemaining())
	assert.Equal(t, 0, s.SelectedBoxTotal())

	require.NoError(t, s.AddBox("Box1"))
	require.NoError(t, s.SetQuantity("A1", 4))
	require.NoError(t, s.SetQuantity("A2", 2))
	assert.Equal(t, 9, s.TotalRemaining())
	assert.Equal(t, 6, s.SelectedBoxTotal())

	require.NoError(t, s.AddBox("Box2"))
	require.NoError(t, s.SetQuantity("A1", 6))
	assert.Equal(t, 3, s.TotalRemaining())
	assert.Equal(t, 6, s.SelectedBoxTotal())

	// Инвариант: упаковано никогда не больше требуемого
	for _, a := range s.Catalog().Articles() {
		assert.GreaterOrEqual(t, s.RemainingFor(a.ID), 0)
	}
}

func TestSession_ReplaceCatalog(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddBox("Box1"))
	require.NoError(t, s.SetQuantity("A1", 3))

	s.ReplaceCatalog([]Article{{ID: "B1", Required: 2}})
	assert.Empty(t, s.Boxes(), "импорт листа сбрасывает коробки")
	assert.Nil(t, s.SelectedBox())
	assert.Equal(t, 2, s.TotalRemaining())
}
