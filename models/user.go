package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a staff member with a login. Practitioner-like fields (especialidade,
// conselho) are filled only when AttendsPatients is true.
type User struct {
	Id              string         `json:"id" gorm:"primaryKey"`
	Name            string         `json:"nome" gorm:"column:nome;not null"`
	Username        string         `json:"username" gorm:"unique;not null"`
	Password        []byte         `json:"-" gorm:"column:senha;not null"`
	Status          string         `json:"status" gorm:"default:'ativo'"`
	Role            string         `json:"cargo" gorm:"column:cargo"`
	AttendsPatients bool           `json:"atendePacientes" gorm:"column:atende_pacientes"`
	Specialty       string         `json:"especialidade" gorm:"column:especialidade"`
	Council         string         `json:"conselho" gorm:"column:conselho"`
	Phone           string         `json:"telefone" gorm:"column:telefone"`
	Commission      int            `json:"comissao" gorm:"column:comissao"`
	Permissions     datatypes.JSON `json:"permissoes" gorm:"column:permissoes;type:jsonb"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if user.Id == "" {
		user.Id = uuid.NewString()
	}
	return
}

func (user *User) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 10)
	user.Password = hashedPassword
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}

// SetPermissions stores the permission list as jsonb.
func (user *User) SetPermissions(perms []string) error {
	if perms == nil {
		perms = []string{}
	}
	b, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	user.Permissions = datatypes.JSON(b)
	return nil
}

// PermissionList decodes the jsonb permission column. A malformed or empty
// column reads as no permissions.
func (user *User) PermissionList() []string {
	var perms []string
	if len(user.Permissions) == 0 {
		return perms
	}
	_ = json.Unmarshal(user.Permissions, &perms)
	return perms
}
