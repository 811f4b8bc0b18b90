package main

import (
	"errors"
	"log"
	"strings"

	"packer-backend/internal/apperr"
	"packer-backend/internal/auth"
	"packer-backend/internal/config"
	"packer-backend/internal/database"
	"packer-backend/internal/export"
	"packer-backend/internal/gtin"
	"packer-backend/internal/ledger"
	"packer-backend/internal/oplog"
	"packer-backend/internal/packing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	sessions := packing.NewManager()
	gtinStore := gtin.NewStore()

	var sheetsClient ledger.ValuesClient
	if cfg.SheetsAPIURL != "" {
		sheetsClient = ledger.NewHTTPValuesClient(cfg.SheetsAPIURL, cfg.SheetsAPIToken)
	}
	ledgerManager := ledger.NewManager(sheetsClient)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				return c.Status(apperr.HTTPStatus(appErr.Code)).JSON(fiber.Map{
					"error": appErr.Message,
					"code":  appErr.Code,
				})
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Непредвиденная ошибка:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Непредвиденная ошибка сервера",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Лист упаковки
	protected.Post("/catalog/import", packing.ImportCatalogHandler(sessions))
	protected.Get("/catalog", packing.ListCatalogHandler(sessions))
	protected.Get("/catalog/template", export.CatalogTemplateHandler())

	// GTIN-сопоставления
	protected.Post("/gtin/import", gtin.ImportHandler(gtinStore))
	protected.Get("/gtin/status", gtin.StatusHandler(gtinStore))

	// Коробки
	protected.Get("/boxes", packing.ListBoxesHandler(sessions))
	protected.Post("/boxes", packing.AddBoxHandler(sessions))
	protected.Put("/boxes/:name", packing.RenameBoxHandler(sessions))
	protected.Delete("/boxes/:name", packing.DeleteBoxHandler(sessions))
	protected.Post("/boxes/:name/select", packing.SelectBoxHandler(sessions))

	// Сканирование и ручная правка
	protected.Post("/scan", packing.ScanHandler(sessions, gtinStore))
	protected.Put("/quantity", packing.SetQuantityHandler(sessions))
	protected.Get("/summary", packing.SummaryHandler(sessions))

	// Экспорт и отгрузки
	protected.Post("/export/flatten", export.FlattenHandler(sessions))
	protected.Post("/export/wb", export.WBHandler(sessions, gtinStore))
	protected.Post("/export/ozon", export.OzonHandler(sessions, gtinStore))

	// Синхронизация склада
	protected.Post("/ledger/connect", ledger.ConnectHandler(ledgerManager))
	protected.Post("/ledger/disconnect", ledger.DisconnectHandler(ledgerManager))
	protected.Get("/ledger/status", ledger.StatusHandler(ledgerManager))
	protected.Get("/ledger/entries", ledger.ListEntriesHandler(ledgerManager))
	protected.Get("/ledger/entries/:article", ledger.GetEntryHandler(ledgerManager))
	protected.Post("/ledger/entries/delta", ledger.ApplyDeltaHandler(ledgerManager))
	protected.Delete("/ledger/entries/:article", ledger.RemoveEntryHandler(ledgerManager))
	protected.Post("/ledger/pull", ledger.PullHandler(ledgerManager))
	protected.Post("/ledger/push", ledger.PushHandler(ledgerManager))

	// Журнал действий
	protected.Get("/operation-logs", oplog.ListHandler())

	log.Println("Сервер запущен, порт:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
