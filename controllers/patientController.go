package controllers

import (
	"errors"
	"time"

	"clinica-backend/middlewares"
	"clinica-backend/models"
	"clinica-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PatientController struct {
	DB *gorm.DB
}

func NewPatientController(db *gorm.DB) *PatientController {
	return &PatientController{DB: db}
}

type createPatientInput struct {
	Name     string `json:"nome" validate:"required"`
	Whatsapp string `json:"whatsapp" validate:"required"`
	Status   string `json:"status"`
}

func (ctl *PatientController) Create(c *fiber.Ctx) error {
	var input createPatientInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	status := input.Status
	if status == "" {
		status = "ativo"
	}
	patient := models.Patient{
		Name:     input.Name,
		Whatsapp: input.Whatsapp,
		Status:   status,
	}
	if err := ctl.DB.Create(&patient).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(patient)
}

func (ctl *PatientController) List(c *fiber.Ctx) error {
	var patients []models.Patient
	if err := ctl.DB.Order("nome asc").Find(&patients).Error; err != nil {
		return err
	}
	return c.JSON(patients)
}

func (ctl *PatientController) Get(c *fiber.Ctx) error {
	var patient models.Patient
	err := ctl.DB.First(&patient, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"erro": "Paciente não encontrado"})
		}
		return err
	}
	return c.JSON(patient)
}

type updatePatientInput struct {
	Name      *string    `json:"nome"`
	Whatsapp  *string    `json:"whatsapp"`
	Status    *string    `json:"status"`
	LastVisit *time.Time `json:"ultimaVisita"`
}

func (ctl *PatientController) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var input updatePatientInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var patient models.Patient
	if err := ctl.DB.First(&patient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"erro": "Paciente não encontrado"})
		}
		return err
	}

	if input.Name != nil {
		patient.Name = *input.Name
	}
	if input.Whatsapp != nil {
		patient.Whatsapp = *input.Whatsapp
	}
	if input.Status != nil {
		patient.Status = *input.Status
	}
	if input.LastVisit != nil {
		patient.LastVisit = input.LastVisit
	}

	if err := ctl.DB.Save(&patient).Error; err != nil {
		return err
	}
	return c.JSON(patient)
}

func (ctl *PatientController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctl.DB.Delete(&models.Patient{}, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"erro": "Erro ao deletar paciente. Verifique agendamentos vinculados.",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Prontuário: anamnese e evoluções ----

func (ctl *PatientController) GetAnamnesis(c *fiber.Ctx) error {
	var anamnesis models.Anamnesis
	err := ctl.DB.First(&anamnesis, "paciente_id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not filled in yet: an empty object, not a 404.
			return c.JSON(fiber.Map{})
		}
		return err
	}
	return c.JSON(anamnesis)
}

type anamnesisInput struct {
	Allergies       string `json:"alergias"`
	Roacutan        bool   `json:"roacutan"`
	PregnantNursing bool   `json:"gestanteLactante"`
}

func (ctl *PatientController) UpsertAnamnesis(c *fiber.Ctx) error {
	patientID := c.Params("id")

	var input anamnesisInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	anamnesis := models.Anamnesis{
		PatientId:       patientID,
		Allergies:       input.Allergies,
		Roacutan:        input.Roacutan,
		PregnantNursing: input.PregnantNursing,
	}
	err := ctl.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "paciente_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"alergias", "roacutan", "gestante_lactante"}),
	}).Create(&anamnesis).Error
	if err != nil {
		return err
	}

	// Re-read so the response carries the row's real id on updates.
	if err := ctl.DB.First(&anamnesis, "paciente_id = ?", patientID).Error; err != nil {
		return err
	}
	return c.JSON(anamnesis)
}

func (ctl *PatientController) ListNotes(c *fiber.Ctx) error {
	var notes []models.ClinicalNote
	err := ctl.DB.Preload("Practitioner").
		Where("paciente_id = ?", c.Params("id")).
		Order("data desc").
		Find(&notes).Error
	if err != nil {
		return err
	}
	return c.JSON(notes)
}

type createNoteInput struct {
	Text           string  `json:"texto" validate:"required"`
	PractitionerId *string `json:"profissionalId"`
}

func (ctl *PatientController) CreateNote(c *fiber.Ctx) error {
	patientID := c.Params("id")

	var input createNoteInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var note *models.ClinicalNote
	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		note, err = services.AppendNote(tx, patientID, input.PractitionerId, input.Text)
		return err
	})
	if err != nil {
		return err
	}

	if err := ctl.DB.Preload("Practitioner").First(note, "id = ?", note.Id).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// ListVisits returns the patient's appointment history, newest first.
func (ctl *PatientController) ListVisits(c *fiber.Ctx) error {
	var appointments []models.Appointment
	err := ctl.DB.Preload("Practitioner").
		Where("paciente_id = ?", c.Params("id")).
		Order("data_horario desc").
		Find(&appointments).Error
	if err != nil {
		return err
	}
	return c.JSON(appointments)
}
