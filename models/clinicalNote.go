package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClinicalNote (evolução) is an append-only free-text entry in a patient's
// record. Created, never mutated.
type ClinicalNote struct {
	Id             string        `json:"id" gorm:"primaryKey"`
	Text           string        `json:"texto" gorm:"column:texto;not null"`
	Date           time.Time     `json:"data" gorm:"column:data;index"`
	PatientId      string        `json:"pacienteId" gorm:"column:paciente_id;not null;index"`
	PractitionerId *string       `json:"profissionalId" gorm:"column:profissional_id"`
	Practitioner   *Practitioner `json:"profissional" gorm:"foreignKey:PractitionerId;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (note *ClinicalNote) BeforeCreate(tx *gorm.DB) (err error) {
	if note.Id == "" {
		note.Id = uuid.NewString()
	}
	if note.Date.IsZero() {
		note.Date = time.Now()
	}
	return
}

// Anamnesis is the one-per-patient intake questionnaire, upserted as a whole.
type Anamnesis struct {
	Id              string `json:"id" gorm:"primaryKey"`
	PatientId       string `json:"pacienteId" gorm:"column:paciente_id;uniqueIndex;not null"`
	Allergies       string `json:"alergias" gorm:"column:alergias"`
	Roacutan        bool   `json:"roacutan" gorm:"column:roacutan"`
	PregnantNursing bool   `json:"gestanteLactante" gorm:"column:gestante_lactante"`
}

// TableName pins the plural; the default inflector mangles "anamnesis".
func (Anamnesis) TableName() string { return "anamneses" }

func (anamnesis *Anamnesis) BeforeCreate(tx *gorm.DB) (err error) {
	if anamnesis.Id == "" {
		anamnesis.Id = uuid.NewString()
	}
	return
}
