package controllers

import (
	"errors"
	"time"

	"clinica-backend/middlewares"
	"clinica-backend/models"
	"clinica-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AppointmentController struct {
	DB *gorm.DB
}

func NewAppointmentController(db *gorm.DB) *AppointmentController {
	return &AppointmentController{DB: db}
}

// List returns appointments, optionally windowed by ?inicio=&fim= (RFC 3339),
// with patient, practitioner and attached procedures preloaded.
func (ctl *AppointmentController) List(c *fiber.Ctx) error {
	query := ctl.DB.
		Preload("Patient").
		Preload("Practitioner").
		Preload("Procedures").
		Order("data_horario asc")

	if start, err := time.Parse(time.RFC3339, c.Query("inicio")); err == nil {
		if end, err := time.Parse(time.RFC3339, c.Query("fim")); err == nil {
			query = query.Where("data_horario BETWEEN ? AND ?", start, end)
		}
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return err
	}
	return c.JSON(appointments)
}

type createAppointmentInput struct {
	ScheduledAt    time.Time `json:"dataHorario" validate:"required"`
	PatientId      string    `json:"pacienteId" validate:"required"`
	PractitionerId *string   `json:"profissionalId"`
	Status         string    `json:"status"`
}

func (ctl *AppointmentController) Create(c *fiber.Ctx) error {
	var input createAppointmentInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	status := input.Status
	if status == "" {
		status = models.AppointmentScheduled
	}
	appointment := models.Appointment{
		ScheduledAt:    input.ScheduledAt,
		Status:         status,
		PatientId:      input.PatientId,
		PractitionerId: input.PractitionerId,
	}
	if err := ctl.DB.Create(&appointment).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

type updateAppointmentInput struct {
	ScheduledAt    *time.Time `json:"dataHorario"`
	Status         *string    `json:"status"`
	PractitionerId *string    `json:"profissionalId"`
}

// Update handles simple reschedules and status flips (e.g. Cancelado).
// Concluding an appointment goes through Finalize, never through here.
func (ctl *AppointmentController) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var input updateAppointmentInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if input.Status != nil && *input.Status == models.AppointmentConcluded {
		return fiber.NewError(fiber.StatusBadRequest, "Use a rota de finalização para concluir um atendimento.")
	}

	var appointment models.Appointment
	if err := ctl.DB.First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"erro": "Agendamento não encontrado"})
		}
		return err
	}

	if input.ScheduledAt != nil {
		appointment.ScheduledAt = *input.ScheduledAt
	}
	if input.Status != nil {
		appointment.Status = *input.Status
	}
	if input.PractitionerId != nil {
		appointment.PractitionerId = input.PractitionerId
	}

	if err := ctl.DB.Save(&appointment).Error; err != nil {
		return err
	}
	return c.JSON(appointment)
}

func (ctl *AppointmentController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctl.DB.Select("Procedures").Delete(&models.Appointment{Id: id}).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"mensagem": "Agendamento removido com sucesso."})
}

// Finalize closes out the visit: status, procedures, clinical note, stock
// write-offs and revenue, all in one transaction inside the services layer.
func (ctl *AppointmentController) Finalize(c *fiber.Ctx) error {
	id := c.Params("id")

	var input services.CompleteVisitInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	if err := services.CompleteVisit(ctl.DB, id, input); err != nil {
		// Domain errors (not found, insufficient stock) are translated by the
		// central error handler; anything else becomes a 500 there too.
		return err
	}

	return c.JSON(fiber.Map{"mensagem": "Atendimento finalizado com sucesso!"})
}
