package controllers

import (
	"time"

	"clinica-backend/middlewares"
	"clinica-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FinanceController struct {
	DB *gorm.DB
}

func NewFinanceController(db *gorm.DB) *FinanceController {
	return &FinanceController{DB: db}
}

// List returns transactions in a date window, defaulting to the current month.
// The upper bound is pushed to end-of-day so "today" is always included.
func (ctl *FinanceController) List(c *fiber.Ctx) error {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now

	if parsed, err := time.Parse(time.RFC3339, c.Query("inicio")); err == nil {
		start = parsed
	}
	if parsed, err := time.Parse(time.RFC3339, c.Query("fim")); err == nil {
		end = parsed
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())

	var transactions []models.Transaction
	err := ctl.DB.Where("data BETWEEN ? AND ?", start, end).
		Order("data desc").
		Find(&transactions).Error
	if err != nil {
		return err
	}
	return c.JSON(transactions)
}

type transactionInput struct {
	Description string          `json:"descricao" validate:"required"`
	Amount      decimal.Decimal `json:"valor" validate:"required"`
	Type        string          `json:"tipo" validate:"required,oneof=RECEITA DESPESA"`
	Category    string          `json:"categoria"`
	Date        *time.Time      `json:"data"`
}

// Create posts a manual ledger entry (rent, utilities, ad-hoc income).
func (ctl *FinanceController) Create(c *fiber.Ctx) error {
	var input transactionInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	transaction := models.Transaction{
		Type:        input.Type,
		Category:    input.Category,
		Description: input.Description,
		Amount:      input.Amount,
	}
	if input.Date != nil {
		transaction.Date = *input.Date
	}

	if err := ctl.DB.Create(&transaction).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(transaction)
}
