package models

import "time"

type OperationAction string

const (
	ActionCatalogImport    OperationAction = "catalog_import"
	ActionGtinImport       OperationAction = "gtin_import"
	ActionBoxAdd           OperationAction = "box_add"
	ActionBoxRename        OperationAction = "box_rename"
	ActionBoxDelete        OperationAction = "box_delete"
	ActionExport           OperationAction = "export"
	ActionLedgerConnect    OperationAction = "ledger_connect"
	ActionLedgerDisconnect OperationAction = "ledger_disconnect"
	ActionLedgerUpdate     OperationAction = "ledger_update"
)

// OperationLog: журнал действий оператора (без возможности отмены).
type OperationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint   `gorm:"index" json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // имя пользователя (денормализовано)

	Action      OperationAction `gorm:"size:30;index" json:"action"`
	Description string          `gorm:"size:255" json:"description"`
}
