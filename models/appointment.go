package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment status values. Concluído is reached exactly once, through the
// visit-completion workflow; Cancelado is a plain status update.
const (
	AppointmentScheduled = "Agendado"
	AppointmentConcluded = "Concluído"
	AppointmentCancelled = "Cancelado"
)

type Appointment struct {
	Id             string        `json:"id" gorm:"primaryKey"`
	ScheduledAt    time.Time     `json:"dataHorario" gorm:"column:data_horario;not null;index"`
	Status         string        `json:"status" gorm:"default:'Agendado'"`
	PatientId      string        `json:"pacienteId" gorm:"column:paciente_id;not null;index"`
	Patient        Patient       `json:"paciente" gorm:"foreignKey:PatientId;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	PractitionerId *string       `json:"profissionalId" gorm:"column:profissional_id;index"`
	Practitioner   *Practitioner `json:"profissional" gorm:"foreignKey:PractitionerId;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Procedures     []Procedure   `json:"procedimentos" gorm:"many2many:appointment_procedures"`
	CreatedAt      time.Time     `json:"createdAt"`
}

func (appointment *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if appointment.Id == "" {
		appointment.Id = uuid.NewString()
	}
	return
}
