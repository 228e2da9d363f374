package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Practitioner struct {
	Id         string `json:"id" gorm:"primaryKey"`
	Name       string `json:"nome" gorm:"column:nome;not null"`
	Specialty  string `json:"especialidade" gorm:"column:especialidade"`
	Council    string `json:"conselho" gorm:"column:conselho"`
	Phone      string `json:"telefone" gorm:"column:telefone"`
	Commission int    `json:"comissao" gorm:"column:comissao"`
	Status     string `json:"status" gorm:"default:'ativo'"`
}

func (practitioner *Practitioner) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if practitioner.Id == "" {
		practitioner.Id = uuid.NewString()
	}
	return
}
