package controllers

import (
	"errors"

	"clinica-backend/middlewares"
	"clinica-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var user models.User
	err := ctl.DB.Where("username = ?", input.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"erro": "Credenciais inválidas ou usuário inativo.",
			})
		}
		return err
	}
	if user.Status != "ativo" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"erro": "Credenciais inválidas ou usuário inativo.",
		})
	}

	if err := user.ComparePassword(input.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"erro": "Credenciais inválidas.",
		})
	}

	token, err := middlewares.GenerateJWT(user.Id, user.PermissionList())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"usuario": fiber.Map{
			"id":         user.Id,
			"nome":       user.Name,
			"username":   user.Username,
			"permissoes": user.PermissionList(),
		},
	})
}
