package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types and categories.
const (
	TransactionRevenue = "RECEITA"
	TransactionExpense = "DESPESA"

	CategoryProcedure = "PROCEDIMENTO"
	CategoryStock     = "ESTOQUE"
)

// Transaction is one append-only financial ledger entry. Revenue posted at
// visit completion links back to the appointment; expenses posted for stock
// purchases link back to the movement.
type Transaction struct {
	Id            string          `json:"id" gorm:"primaryKey"`
	Type          string          `json:"tipo" gorm:"column:tipo;not null"`
	Category      string          `json:"categoria" gorm:"column:categoria"`
	Description   string          `json:"descricao" gorm:"column:descricao"`
	Amount        decimal.Decimal `json:"valor" gorm:"column:valor;type:numeric(12,2)"`
	Date          time.Time       `json:"data" gorm:"column:data;index"`
	AppointmentId *string         `json:"agendamentoId" gorm:"column:agendamento_id;index"`
	MovementId    *string         `json:"movimentacaoId" gorm:"column:movimentacao_id"`
}

func (transaction *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if transaction.Id == "" {
		transaction.Id = uuid.NewString()
	}
	if transaction.Date.IsZero() {
		transaction.Date = time.Now()
	}
	return
}
