package services

import (
	"errors"
	"fmt"
	"time"

	"clinica-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovementInput describes one stock movement to record. When ValueFromAverage
// is set the unit value is taken from the product's current average cost
// (visit consumption uses this so cost reports price exits at the running
// average).
type MovementInput struct {
	ProductID        string
	Type             string
	Quantity         int
	UnitValue        decimal.Decimal
	ValueFromAverage bool
	Supplier         string
	Batch            string
	Expiry           *time.Time
	AppointmentID    *string
}

// RecordMovement appends one ledger entry and updates the product balance.
// It must run inside an active transaction: the product row is locked for the
// duration so concurrent exits cannot drive the balance negative.
//
// On ENTRADA the weighted-average unit cost is recomputed; SAIDA never touches
// it. A SAIDA larger than the current balance fails with
// *InsufficientStockError and leaves no trace.
func RecordMovement(tx *gorm.DB, in MovementInput) (*models.Movement, error) {
	if in.Quantity <= 0 || (in.Type != models.MovementEntry && in.Type != models.MovementExit) {
		return nil, ErrInvalidMovement
	}

	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", in.ProductID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if in.Type == models.MovementExit && product.Quantity < in.Quantity {
		return nil, &InsufficientStockError{Product: product.Name, Available: product.Quantity}
	}

	unitValue := in.UnitValue
	if in.ValueFromAverage {
		unitValue = product.AvgCost
	}

	movement := models.Movement{
		Type:          in.Type,
		Quantity:      in.Quantity,
		UnitValue:     unitValue,
		Supplier:      in.Supplier,
		Batch:         in.Batch,
		Expiry:        in.Expiry,
		ProductId:     product.Id,
		AppointmentId: in.AppointmentID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	updates := map[string]any{}
	switch in.Type {
	case models.MovementEntry:
		updates["qtd"] = gorm.Expr("qtd + ?", in.Quantity)
		updates["preco_medio"] = WeightedAverage(product.Quantity, product.AvgCost, in.Quantity, unitValue)
	case models.MovementExit:
		updates["qtd"] = gorm.Expr("qtd - ?", in.Quantity)
	}
	if err := tx.Model(&models.Product{}).Where("id = ?", product.Id).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &movement, nil
}

// WeightedAverage blends the existing stock value with an incoming entry:
//
//	(oldQty*oldAvg + qty*unitValue) / (oldQty + qty)
//
// If the resulting total quantity is zero the previous average is kept.
func WeightedAverage(oldQty int, oldAvg decimal.Decimal, qty int, unitValue decimal.Decimal) decimal.Decimal {
	total := oldQty + qty
	if total <= 0 {
		return oldAvg
	}
	currentValue := oldAvg.Mul(decimal.NewFromInt(int64(oldQty)))
	incomingValue := unitValue.Mul(decimal.NewFromInt(int64(qty)))
	return currentValue.Add(incomingValue).DivRound(decimal.NewFromInt(int64(total)), 2)
}

// PostPurchaseExpense creates the DESPESA entry matching a priced ENTRADA.
// Zero-value entries (donations, adjustments) post nothing.
func PostPurchaseExpense(tx *gorm.DB, movement *models.Movement) error {
	if movement.Type != models.MovementEntry {
		return nil
	}
	qty := decimal.NewFromInt(int64(movement.Quantity))
	total := movement.UnitValue.Mul(qty)
	if !total.IsPositive() {
		return nil
	}

	var product models.Product
	if err := tx.First(&product, "id = ?", movement.ProductId).Error; err != nil {
		return err
	}

	expense := models.Transaction{
		Type:        models.TransactionExpense,
		Category:    models.CategoryStock,
		Description: fmt.Sprintf("Compra: %s (%d %ss)", product.Name, movement.Quantity, product.Unit),
		Amount:      total,
		MovementId:  &movement.Id,
	}
	return tx.Create(&expense).Error
}

// ReplayBalance reconstructs a product's balance from its movement log.
// Used by tests and audits to check the denormalized Product.qtd.
func ReplayBalance(db *gorm.DB, productID string) (int, error) {
	var movements []models.Movement
	if err := db.Where("produto_id = ?", productID).Find(&movements).Error; err != nil {
		return 0, err
	}
	balance := 0
	for _, m := range movements {
		switch m.Type {
		case models.MovementEntry:
			balance += m.Quantity
		case models.MovementExit:
			balance -= m.Quantity
		}
	}
	return balance, nil
}
