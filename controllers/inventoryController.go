package controllers

import (
	"time"

	"clinica-backend/middlewares"
	"clinica-backend/models"
	"clinica-backend/services"
	"clinica-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{DB: db}
}

func (ctl *InventoryController) ListProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := ctl.DB.Order("nome asc").Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(products)
}

type createProductInput struct {
	Name     string          `json:"nome" validate:"required"`
	Category string          `json:"categoria"`
	Unit     string          `json:"unidade"`
	MinStock int             `json:"min"`
	AvgCost  decimal.Decimal `json:"precoMedio"`
}

func (ctl *InventoryController) CreateProduct(c *fiber.Ctx) error {
	var input createProductInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	product := models.Product{
		Name:     input.Name,
		Category: input.Category,
		Unit:     input.Unit,
		MinStock: input.MinStock,
		AvgCost:  input.AvgCost,
		Active:   true,
	}
	if err := ctl.DB.Create(&product).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

type movementInput struct {
	ProductID string          `json:"produtoId" validate:"required"`
	Type      string          `json:"tipo" validate:"required,oneof=ENTRADA SAIDA"`
	Quantity  int             `json:"qtd" validate:"required,gt=0"`
	UnitValue decimal.Decimal `json:"valorUnitario"`
	Supplier  string          `json:"fornecedor"`
	Batch     string          `json:"lote"`
	Expiry    *time.Time      `json:"validade"`
}

// RecordMovement is the manual ledger endpoint (purchases, adjustments,
// manual write-offs). A priced ENTRADA also posts the matching DESPESA,
// inside the same transaction.
func (ctl *InventoryController) RecordMovement(c *fiber.Ctx) error {
	var input movementInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	supplier := input.Supplier
	if supplier == "" && input.Type == models.MovementExit {
		supplier = "Baixa Manual"
	}

	var movement *models.Movement
	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		movement, err = services.RecordMovement(tx, services.MovementInput{
			ProductID: input.ProductID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			UnitValue: input.UnitValue,
			Supplier:  supplier,
			Batch:     input.Batch,
			Expiry:    input.Expiry,
		})
		if err != nil {
			return err
		}
		return services.PostPurchaseExpense(tx, movement)
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(movement)
}

// History returns the most recent movements, product preloaded.
func (ctl *InventoryController) History(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limite"), 100)

	var movements []models.Movement
	err := ctl.DB.Preload("Product").
		Order("data desc").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return err
	}
	return c.JSON(movements)
}
