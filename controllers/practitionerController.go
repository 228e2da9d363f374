package controllers

import (
	"errors"

	"clinica-backend/middlewares"
	"clinica-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PractitionerController struct {
	DB *gorm.DB
}

func NewPractitionerController(db *gorm.DB) *PractitionerController {
	return &PractitionerController{DB: db}
}

type practitionerInput struct {
	Name       string `json:"nome" validate:"required"`
	Specialty  string `json:"especialidade"`
	Council    string `json:"conselho"`
	Phone      string `json:"telefone"`
	Commission int    `json:"comissao"`
	Status     string `json:"status"`
}

func (ctl *PractitionerController) Create(c *fiber.Ctx) error {
	var input practitionerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	status := input.Status
	if status == "" {
		status = "ativo"
	}
	practitioner := models.Practitioner{
		Name:       input.Name,
		Specialty:  input.Specialty,
		Council:    input.Council,
		Phone:      input.Phone,
		Commission: input.Commission,
		Status:     status,
	}
	if err := ctl.DB.Create(&practitioner).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(practitioner)
}

func (ctl *PractitionerController) List(c *fiber.Ctx) error {
	var practitioners []models.Practitioner
	if err := ctl.DB.Order("nome asc").Find(&practitioners).Error; err != nil {
		return err
	}
	return c.JSON(practitioners)
}

func (ctl *PractitionerController) Get(c *fiber.Ctx) error {
	var practitioner models.Practitioner
	err := ctl.DB.First(&practitioner, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"erro": "Profissional não encontrado"})
		}
		return err
	}
	return c.JSON(practitioner)
}

type updatePractitionerInput struct {
	Name       *string `json:"nome"`
	Specialty  *string `json:"especialidade"`
	Council    *string `json:"conselho"`
	Phone      *string `json:"telefone"`
	Commission *int    `json:"comissao"`
	Status     *string `json:"status"`
}

func (ctl *PractitionerController) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var input updatePractitionerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var practitioner models.Practitioner
	if err := ctl.DB.First(&practitioner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"erro": "Profissional não encontrado"})
		}
		return err
	}

	if input.Name != nil {
		practitioner.Name = *input.Name
	}
	if input.Specialty != nil {
		practitioner.Specialty = *input.Specialty
	}
	if input.Council != nil {
		practitioner.Council = *input.Council
	}
	if input.Phone != nil {
		practitioner.Phone = *input.Phone
	}
	if input.Commission != nil {
		practitioner.Commission = *input.Commission
	}
	if input.Status != nil {
		practitioner.Status = *input.Status
	}

	if err := ctl.DB.Save(&practitioner).Error; err != nil {
		return err
	}
	return c.JSON(practitioner)
}

func (ctl *PractitionerController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctl.DB.Delete(&models.Practitioner{}, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"erro": "Erro ao deletar profissional. Verifique agendamentos vinculados.",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
