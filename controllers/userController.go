package controllers

import (
	"errors"
	"strings"

	"clinica-backend/middlewares"
	"clinica-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

func (ctl *UserController) List(c *fiber.Ctx) error {
	var users []models.User
	if err := ctl.DB.Order("nome asc").Find(&users).Error; err != nil {
		return err
	}
	// Password never serializes (json:"-"), so the model is safe to return.
	return c.JSON(users)
}

type createUserInput struct {
	Name            string   `json:"nome" validate:"required"`
	Username        string   `json:"username" validate:"required"`
	Password        string   `json:"senha" validate:"required,min=4"`
	Role            string   `json:"cargo"`
	AttendsPatients bool     `json:"atendePacientes"`
	Specialty       string   `json:"especialidade"`
	Council         string   `json:"conselho"`
	Phone           string   `json:"telefone"`
	Commission      int      `json:"comissao"`
	Permissions     []string `json:"permissoes"`
}

func (ctl *UserController) Create(c *fiber.Ctx) error {
	var input createUserInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var existing models.User
	err := ctl.DB.Where("username = ?", input.Username).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"erro": "Nome de usuário (login) já em uso.",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	role := input.Role
	if role == "" {
		role = "Indefinido"
	}
	user := models.User{
		Name:            input.Name,
		Username:        input.Username,
		Status:          "ativo",
		Role:            role,
		AttendsPatients: input.AttendsPatients,
		Specialty:       input.Specialty,
		Council:         input.Council,
		Phone:           input.Phone,
		Commission:      input.Commission,
	}
	user.SetPassword(input.Password)
	if err := user.SetPermissions(input.Permissions); err != nil {
		return err
	}

	if err := ctl.DB.Create(&user).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.Id,
		"nome":     user.Name,
		"username": user.Username,
		"cargo":    user.Role,
	})
}

type updateUserInput struct {
	Name            *string   `json:"nome"`
	Username        *string   `json:"username"`
	Password        *string   `json:"senha"`
	Status          *string   `json:"status"`
	Role            *string   `json:"cargo"`
	AttendsPatients *bool     `json:"atendePacientes"`
	Specialty       *string   `json:"especialidade"`
	Council         *string   `json:"conselho"`
	Phone           *string   `json:"telefone"`
	Commission      *int      `json:"comissao"`
	Permissions     *[]string `json:"permissoes"`
}

func (ctl *UserController) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var input updateUserInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var user models.User
	if err := ctl.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"erro": "Usuário não encontrado."})
		}
		return err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.AttendsPatients != nil {
		user.AttendsPatients = *input.AttendsPatients
	}
	if input.Specialty != nil {
		user.Specialty = *input.Specialty
	}
	if input.Council != nil {
		user.Council = *input.Council
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Commission != nil {
		user.Commission = *input.Commission
	}
	if input.Permissions != nil {
		if err := user.SetPermissions(*input.Permissions); err != nil {
			return err
		}
	}
	// Only reset the password when one was actually sent.
	if input.Password != nil && strings.TrimSpace(*input.Password) != "" {
		user.SetPassword(*input.Password)
	}

	if err := ctl.DB.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"id":              user.Id,
		"nome":            user.Name,
		"username":        user.Username,
		"permissoes":      user.PermissionList(),
		"status":          user.Status,
		"cargo":           user.Role,
		"atendePacientes": user.AttendsPatients,
	})
}

func (ctl *UserController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctl.DB.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"erro": "Erro ao deletar. Verifique se o usuário possui vínculos ativos.",
		})
	}
	return c.JSON(fiber.Map{"mensagem": "Membro da equipe removido"})
}

type changePasswordInput struct {
	Password string `json:"senha" validate:"required,min=4"`
}

// ChangeOwnPassword lets the authenticated user rotate their own password.
func (ctl *UserController) ChangeOwnPassword(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var input changePasswordInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var user models.User
	if err := ctl.DB.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	user.SetPassword(input.Password)
	if err := ctl.DB.Model(&user).Update("senha", user.Password).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"mensagem": "Senha atualizada com sucesso!"})
}
