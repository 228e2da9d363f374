package services

import (
	"errors"
	"strings"

	"clinica-backend/models"

	"gorm.io/gorm"
)

// ConsumedSupply is one stock line consumed during a visit.
type ConsumedSupply struct {
	ProductID string `json:"produtoId" validate:"required"`
	Quantity  int    `json:"qtd" validate:"required,gt=0"`
}

// CompleteVisitInput carries everything the practitioner records when closing
// out an appointment.
type CompleteVisitInput struct {
	NoteText     string           `json:"textoEvolucao"`
	Supplies     []ConsumedSupply `json:"insumos" validate:"dive"`
	ProcedureIDs []string         `json:"procedimentosIds"`
}

// CompleteVisit closes out a scheduled appointment: status goes to Concluído,
// performed procedures are attached, the clinical note (if any) is appended,
// consumed supplies are written off at average cost, and one revenue entry is
// posted per procedure. All of it happens in a single transaction; any
// failure rolls back every effect.
func CompleteVisit(db *gorm.DB, appointmentID string, in CompleteVisitInput) error {
	var appointment models.Appointment
	err := db.Preload("Patient").First(&appointment, "id = ?", appointmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	if appointment.Status == models.AppointmentConcluded {
		return ErrVisitAlreadyDone
	}

	return db.Transaction(func(tx *gorm.DB) error {
		procedures, err := ResolveProcedures(tx, in.ProcedureIDs)
		if err != nil {
			return err
		}

		updates := map[string]any{"status": models.AppointmentConcluded}
		if err := tx.Model(&models.Appointment{Id: appointment.Id}).Updates(updates).Error; err != nil {
			return err
		}
		// Additive: procedures attached in an earlier partial save stay attached.
		if len(procedures) > 0 {
			if err := tx.Model(&appointment).Association("Procedures").Append(&procedures); err != nil {
				return err
			}
		}

		if text := strings.TrimSpace(in.NoteText); text != "" {
			if _, err := AppendNote(tx, appointment.PatientId, appointment.PractitionerId, text); err != nil {
				return err
			}
		}

		for _, supply := range in.Supplies {
			_, err := RecordMovement(tx, MovementInput{
				ProductID:        supply.ProductID,
				Type:             models.MovementExit,
				Quantity:         supply.Quantity,
				ValueFromAverage: true,
				Supplier:         "Consumo em Consulta",
				AppointmentID:    &appointment.Id,
			})
			if err != nil {
				return err
			}
		}

		return PostProcedureRevenue(tx, &appointment, procedures)
	})
}
