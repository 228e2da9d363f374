package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"clinica-backend/controllers"
	"clinica-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, db *gorm.DB) {
	auth := controllers.NewAuthController(db)
	users := controllers.NewUserController(db)
	patients := controllers.NewPatientController(db)
	practitioners := controllers.NewPractitionerController(db)
	procedures := controllers.NewProcedureController(db)
	appointments := controllers.NewAppointmentController(db)
	inventory := controllers.NewInventoryController(db)
	finance := controllers.NewFinanceController(db)

	api := app.Group("/api")

	// Public endpoints
	api.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	api.Post("/auth/login", auth.Login)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticated())

	// Idempotency guard for mutating verbs (honors Idempotency-Key)
	protected.Use(middlewares.Idempotency(db))

	// Pacientes (CRUD + prontuário)
	protected.Post("/pacientes", patients.Create)
	protected.Get("/pacientes", patients.List)
	protected.Get("/pacientes/:id", patients.Get)
	protected.Put("/pacientes/:id", patients.Update)
	protected.Delete("/pacientes/:id", patients.Delete)
	protected.Get("/pacientes/:id/anamnese", patients.GetAnamnesis)
	protected.Put("/pacientes/:id/anamnese", patients.UpsertAnamnesis)
	protected.Get("/pacientes/:id/evolucoes", patients.ListNotes)
	protected.Post("/pacientes/:id/evolucoes", patients.CreateNote)
	protected.Get("/pacientes/:id/consultas", patients.ListVisits)

	// Profissionais
	protected.Post("/profissionais", practitioners.Create)
	protected.Get("/profissionais", practitioners.List)
	protected.Get("/profissionais/:id", practitioners.Get)
	protected.Put("/profissionais/:id", practitioners.Update)
	protected.Delete("/profissionais/:id", practitioners.Delete)

	// Agendamentos (incl. the visit-completion endpoint)
	protected.Get("/agendamentos", appointments.List)
	protected.Post("/agendamentos", appointments.Create)
	protected.Put("/agendamentos/:id", appointments.Update)
	protected.Delete("/agendamentos/:id", appointments.Delete)
	protected.Post("/agendamentos/:id/finalizar", appointments.Finalize)

	// Procedimentos (soft-delete catalog)
	protected.Get("/procedimentos", procedures.List)
	protected.Post("/procedimentos", procedures.Create)
	protected.Put("/procedimentos/:id", procedures.Update)
	protected.Delete("/procedimentos/:id", procedures.Delete)

	// Estoque
	protected.Get("/estoque/produtos", inventory.ListProducts)
	protected.Post("/estoque/produtos", inventory.CreateProduct)
	protected.Post("/estoque/movimentacao", inventory.RecordMovement)
	protected.Get("/estoque/historico", inventory.History)

	// Financeiro
	protected.Get("/financeiro", finance.List)
	protected.Post("/financeiro", finance.Create)

	// Usuários / equipe (writes gated on the "usuarios" permission)
	protected.Get("/usuarios", users.List)
	protected.Put("/usuarios/perfil/senha", users.ChangeOwnPassword)
	team := protected.Group("/usuarios", middlewares.RequirePermission("usuarios"))
	team.Post("", users.Create)
	team.Put("/:id", users.Update)
	team.Delete("/:id", users.Delete)
}
