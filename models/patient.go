package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Patient struct {
	Id        string     `json:"id" gorm:"primaryKey"`
	Name      string     `json:"nome" gorm:"column:nome;not null"`
	Whatsapp  string     `json:"whatsapp" gorm:"not null"`
	Status    string     `json:"status" gorm:"default:'ativo'"`
	LastVisit *time.Time `json:"ultimaVisita" gorm:"column:ultima_visita"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (patient *Patient) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if patient.Id == "" {
		patient.Id = uuid.NewString()
	}
	return
}
