package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Procedure is a catalog entry. Deletion is a soft-delete to status inativo so
// revenue history keeps resolving; the price is snapshotted into each revenue
// transaction, never referenced live.
type Procedure struct {
	Id     string          `json:"id" gorm:"primaryKey"`
	Name   string          `json:"nome" gorm:"column:nome;not null"`
	Price  decimal.Decimal `json:"valor" gorm:"column:valor;type:numeric(12,2)"`
	Status string          `json:"status" gorm:"default:'ativo'"`
}

func (procedure *Procedure) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if procedure.Id == "" {
		procedure.Id = uuid.NewString()
	}
	return
}
