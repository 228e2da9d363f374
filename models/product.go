package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product carries a denormalized running balance (Quantity) and a running
// weighted-average unit cost (AvgCost). Both fields change only inside a
// transaction that also appends a Movement, so the balance is always
// reconstructable by replaying the movement log.
type Product struct {
	Id       string          `json:"id" gorm:"primaryKey"`
	Name     string          `json:"nome" gorm:"column:nome;not null"`
	Category string          `json:"categoria" gorm:"column:categoria"`
	Unit     string          `json:"unidade" gorm:"column:unidade"`
	MinStock int             `json:"min" gorm:"column:min"`
	Quantity int             `json:"qtd" gorm:"column:qtd;not null;default:0"`
	AvgCost  decimal.Decimal `json:"precoMedio" gorm:"column:preco_medio;type:numeric(12,2)"`
	Active   bool            `json:"-" gorm:"default:true"`
}

func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if product.Id == "" {
		product.Id = uuid.NewString()
	}
	return
}

// Movement types.
const (
	MovementEntry = "ENTRADA"
	MovementExit  = "SAIDA"
)

// Movement is one append-only stock ledger entry. Exits consumed during a
// visit carry the originating appointment id.
type Movement struct {
	Id            string          `json:"id" gorm:"primaryKey"`
	Type          string          `json:"tipo" gorm:"column:tipo;not null"`
	Quantity      int             `json:"qtd" gorm:"column:qtd;not null"`
	UnitValue     decimal.Decimal `json:"valorUnitario" gorm:"column:valor_unitario;type:numeric(12,2)"`
	Supplier      string          `json:"fornecedor" gorm:"column:fornecedor"`
	Batch         string          `json:"lote" gorm:"column:lote"`
	Expiry        *time.Time      `json:"validade" gorm:"column:validade"`
	ProductId     string          `json:"produtoId" gorm:"column:produto_id;not null;index"`
	Product       Product         `json:"produto" gorm:"foreignKey:ProductId;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	AppointmentId *string         `json:"agendamentoId" gorm:"column:agendamento_id;index"`
	Date          time.Time       `json:"data" gorm:"column:data;index"`
}

func (movement *Movement) BeforeCreate(tx *gorm.DB) (err error) {
	if movement.Id == "" {
		movement.Id = uuid.NewString()
	}
	if movement.Date.IsZero() {
		movement.Date = time.Now()
	}
	return
}
