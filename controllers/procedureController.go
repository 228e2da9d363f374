package controllers

import (
	"errors"

	"clinica-backend/middlewares"
	"clinica-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProcedureController struct {
	DB *gorm.DB
}

func NewProcedureController(db *gorm.DB) *ProcedureController {
	return &ProcedureController{DB: db}
}

// List returns active procedures; ?todos=true includes inactivated ones.
func (ctl *ProcedureController) List(c *fiber.Ctx) error {
	query := ctl.DB.Order("nome asc")
	if c.Query("todos") != "true" {
		query = query.Where("status = ?", "ativo")
	}

	var procedures []models.Procedure
	if err := query.Find(&procedures).Error; err != nil {
		return err
	}
	return c.JSON(procedures)
}

type procedureInput struct {
	Name  string          `json:"nome" validate:"required"`
	Price decimal.Decimal `json:"valor"`
}

func (ctl *ProcedureController) Create(c *fiber.Ctx) error {
	var input procedureInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "Valor não pode ser negativo.")
	}

	procedure := models.Procedure{
		Name:   input.Name,
		Price:  input.Price,
		Status: "ativo",
	}
	if err := ctl.DB.Create(&procedure).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(procedure)
}

type updateProcedureInput struct {
	Name   *string          `json:"nome"`
	Price  *decimal.Decimal `json:"valor"`
	Status *string          `json:"status"`
}

func (ctl *ProcedureController) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var input updateProcedureInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var procedure models.Procedure
	if err := ctl.DB.First(&procedure, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"erro": "Procedimento não encontrado"})
		}
		return err
	}

	if input.Name != nil {
		procedure.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Valor não pode ser negativo.")
		}
		procedure.Price = *input.Price
	}
	if input.Status != nil {
		procedure.Status = *input.Status
	}

	if err := ctl.DB.Save(&procedure).Error; err != nil {
		return err
	}
	return c.JSON(procedure)
}

// Delete soft-deletes: the row stays so historical revenue keeps resolving.
func (ctl *ProcedureController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	result := ctl.DB.Model(&models.Procedure{}).Where("id = ?", id).Update("status", "inativo")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"erro": "Procedimento não encontrado"})
	}
	return c.JSON(fiber.Map{"mensagem": "Procedimento inativado com sucesso"})
}
