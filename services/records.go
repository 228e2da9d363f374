package services

import (
	"clinica-backend/models"

	"gorm.io/gorm"
)

// AppendNote adds one entry to the patient's record. Callers skip the call for
// blank text, so empty notes never exist.
func AppendNote(tx *gorm.DB, patientID string, practitionerID *string, text string) (*models.ClinicalNote, error) {
	note := models.ClinicalNote{
		Text:           text,
		PatientId:      patientID,
		PractitionerId: practitionerID,
	}
	if err := tx.Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// ResolveProcedures loads the catalog entries for the given ids. Any id that
// does not resolve fails the lookup: a completed visit must never silently
// drop a billable procedure.
func ResolveProcedures(tx *gorm.DB, procedureIDs []string) ([]models.Procedure, error) {
	unique := make([]string, 0, len(procedureIDs))
	seen := make(map[string]bool, len(procedureIDs))
	for _, id := range procedureIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	var procedures []models.Procedure
	if err := tx.Where("id IN ?", unique).Find(&procedures).Error; err != nil {
		return nil, err
	}
	if len(procedures) != len(unique) {
		return nil, ErrProcedureNotFound
	}
	return procedures, nil
}

// PostProcedureRevenue creates one RECEITA entry per performed procedure,
// snapshotting the catalog price at completion time so later price changes do
// not rewrite history.
func PostProcedureRevenue(tx *gorm.DB, appointment *models.Appointment, procedures []models.Procedure) error {
	for _, procedure := range procedures {
		revenue := models.Transaction{
			Type:          models.TransactionRevenue,
			Category:      models.CategoryProcedure,
			Description:   procedure.Name + " - " + appointment.Patient.Name,
			Amount:        procedure.Price,
			AppointmentId: &appointment.Id,
		}
		if err := tx.Create(&revenue).Error; err != nil {
			return err
		}
	}
	return nil
}
