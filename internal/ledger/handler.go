package ledger

import (
	"packer-backend/internal/auth"
	"packer-backend/internal/models"
	"packer-backend/internal/oplog"

	"github.com/gofiber/fiber/v2"
)

type ConnectRequest struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	SheetName     string `json:"sheet_name"`
}

type DeltaRequest struct {
	Article string `json:"article"`
	Delta   int    `json:"delta"`
	Cell    string `json:"cell"`
}

// POST /api/ledger/connect
func ConnectHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body ConnectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверное тело запроса")
		}

		if err := m.With(userID, func(a *Adapter) error {
			if err := a.Connect(body.SpreadsheetID, body.SheetName); err != nil {
				return err
			}
			return SaveConfig(userID, a)
		}); err != nil {
			return err
		}

		oplog.Write(userID, models.ActionLedgerConnect, "Подключение к складу установлено (таблица %s)", body.SpreadsheetID)

		return c.JSON(fiber.Map{"message": "Подключение к складу установлено"})
	}
}

// POST /api/ledger/disconnect
func DisconnectHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		if err := m.With(userID, func(a *Adapter) error {
			a.Disconnect()
			return SaveConfig(userID, a)
		}); err != nil {
			return err
		}

		oplog.Write(userID, models.ActionLedgerDisconnect, "Подключение к складу отключено")

		return c.JSON(fiber.Map{"message": "Подключение к складу отключено"})
	}
}

// GET /api/ledger/status
func StatusHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		resp := fiber.Map{}
		if err := m.With(userID, func(a *Adapter) error {
			resp = fiber.Map{
				"state":          a.State(),
				"enabled":        a.Enabled(),
				"spreadsheet_id": a.SpreadsheetID(),
				"sheet_name":     a.SheetName(),
				"entries":        len(a.Entries()),
			}
			return nil
		}); err != nil {
			return err
		}

		return c.JSON(resp)
	}
}

// GET /api/ledger/entries
func ListEntriesHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var entries any
		if err := m.With(userID, func(a *Adapter) error {
			entries = a.Entries()
			return nil
		}); err != nil {
			return err
		}

		return c.JSON(entries)
	}
}

// GET /api/ledger/entries/:article
func GetEntryHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		article := c.Params("article")
		var entry Entry
		var found bool
		if err := m.With(userID, func(a *Adapter) error {
			entry, found = a.Get(article)
			return nil
		}); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"article":  article,
			"found":    found,
			"quantity": entry.Quantity,
			"cell":     entry.Cell,
		})
	}
}

// POST /api/ledger/entries/delta
// Изменение остатка с немедленной записью во внешнюю таблицу.
func ApplyDeltaHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body DeltaRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверное тело запроса")
		}

		var entry Entry
		var connected bool
		if err := m.With(userID, func(a *Adapter) error {
			if err := a.ApplyDelta(body.Article, body.Delta, body.Cell); err != nil {
				return err
			}
			connected = a.Enabled()
			if !connected {
				return nil
			}
			entry, _ = a.Get(body.Article)
			return a.Push()
		}); err != nil {
			return err
		}

		if connected {
			oplog.Write(userID, models.ActionLedgerUpdate, "Склад: %s %+d → %d", body.Article, body.Delta, entry.Quantity)
		}

		return c.JSON(fiber.Map{
			"article":  body.Article,
			"quantity": entry.Quantity,
			"cell":     entry.Cell,
			"applied":  connected,
		})
	}
}

// DELETE /api/ledger/entries/:article
func RemoveEntryHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		article := c.Params("article")
		if err := m.With(userID, func(a *Adapter) error {
			if err := a.Remove(article); err != nil {
				return err
			}
			if !a.Enabled() {
				return nil
			}
			return a.Push()
		}); err != nil {
			return err
		}

		oplog.Write(userID, models.ActionLedgerUpdate, "Склад: артикул %s удалён", article)

		return c.JSON(fiber.Map{"message": "Артикул удалён со склада"})
	}
}

// POST /api/ledger/pull
func PullHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var entries int
		if err := m.With(userID, func(a *Adapter) error {
			if err := a.Pull(); err != nil {
				return err
			}
			entries = len(a.Entries())
			return nil
		}); err != nil {
			return err
		}

		return c.JSON(fiber.Map{"message": "Данные склада загружены", "entries": entries})
	}
}

// POST /api/ledger/push
func PushHandler(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		if err := m.With(userID, func(a *Adapter) error {
			return a.Push()
		}); err != nil {
			return err
		}

		return c.JSON(fiber.Map{"message": "Данные склада сохранены"})
	}
}
