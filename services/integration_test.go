package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"clinica-backend/models"
	"clinica-backend/services"
	"clinica-backend/testsupport"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testsupport.SetupDB(t)
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func createProduct(t *testing.T, db *gorm.DB, name string, qty int, avg string) *models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Category: "Descartáveis",
		Unit:     "unidade",
		Quantity: qty,
		AvgCost:  mustDec(t, avg),
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return &product
}

func reloadProduct(t *testing.T, db *gorm.DB, id string) *models.Product {
	t.Helper()
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return &product
}

func TestRecordMovement_EntriesBlendAverageCost(t *testing.T) {
	db := setupTestDB(t)

	product := createProduct(t, db, "Ácido Hialurônico", 0, "0")

	entry := func(qty int, unitValue string) {
		t.Helper()
		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := services.RecordMovement(tx, services.MovementInput{
				ProductID: product.Id,
				Type:      models.MovementEntry,
				Quantity:  qty,
				UnitValue: mustDec(t, unitValue),
				Supplier:  "Distribuidora Belle",
			})
			return err
		})
		if err != nil {
			t.Fatalf("entry %d @ %s: %v", qty, unitValue, err)
		}
	}

	entry(10, "100.00")
	got := reloadProduct(t, db, product.Id)
	if got.Quantity != 10 || !got.AvgCost.Equal(mustDec(t, "100.00")) {
		t.Fatalf("after first entry: qtd=%d avg=%s", got.Quantity, got.AvgCost)
	}

	entry(10, "200.00")
	got = reloadProduct(t, db, product.Id)
	if got.Quantity != 20 || !got.AvgCost.Equal(mustDec(t, "150.00")) {
		t.Fatalf("after second entry: qtd=%d avg=%s, want qtd=20 avg=150.00", got.Quantity, got.AvgCost)
	}

	// Exits price at the running average and never change it.
	err := db.Transaction(func(tx *gorm.DB) error {
		movement, err := services.RecordMovement(tx, services.MovementInput{
			ProductID:        product.Id,
			Type:             models.MovementExit,
			Quantity:         5,
			ValueFromAverage: true,
			Supplier:         "Baixa Manual",
		})
		if err != nil {
			return err
		}
		if !movement.UnitValue.Equal(mustDec(t, "150.00")) {
			t.Fatalf("exit priced at %s, want 150.00", movement.UnitValue)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	got = reloadProduct(t, db, product.Id)
	if got.Quantity != 15 || !got.AvgCost.Equal(mustDec(t, "150.00")) {
		t.Fatalf("after exit: qtd=%d avg=%s, want qtd=15 avg=150.00", got.Quantity, got.AvgCost)
	}

	balance, err := services.ReplayBalance(db, product.Id)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if balance != got.Quantity {
		t.Fatalf("replayed balance %d != cached qtd %d", balance, got.Quantity)
	}
}

func TestRecordMovement_ExitOverdraftLeavesNoTrace(t *testing.T) {
	db := setupTestDB(t)

	product := createProduct(t, db, "Luva Nitrílica", 3, "1.20")

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := services.RecordMovement(tx, services.MovementInput{
			ProductID:        product.Id,
			Type:             models.MovementExit,
			Quantity:         5,
			ValueFromAverage: true,
			Supplier:         "Baixa Manual",
		})
		return err
	})
	var stockErr *services.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 3 {
		t.Fatalf("reported available %d, want 3", stockErr.Available)
	}

	got := reloadProduct(t, db, product.Id)
	if got.Quantity != 3 {
		t.Fatalf("qtd changed to %d after failed exit", got.Quantity)
	}
	var count int64
	if err := db.Model(&models.Movement{}).Where("produto_id = ?", product.Id).Count(&count).Error; err != nil {
		t.Fatalf("count movements: %v", err)
	}
	if count != 0 {
		t.Fatalf("found %d movement rows after failed exit, want 0", count)
	}
}

func TestPostPurchaseExpense_PricedEntryPostsExpense(t *testing.T) {
	db := setupTestDB(t)

	product := createProduct(t, db, "Agulha 30G", 0, "0")

	var recorded *models.Movement
	err := db.Transaction(func(tx *gorm.DB) error {
		movement, err := services.RecordMovement(tx, services.MovementInput{
			ProductID: product.Id,
			Type:      models.MovementEntry,
			Quantity:  100,
			UnitValue: mustDec(t, "0.85"),
			Supplier:  "Distribuidora Belle",
			Batch:     "L2026-03",
		})
		if err != nil {
			return err
		}
		recorded = movement
		return services.PostPurchaseExpense(tx, movement)
	})
	if err != nil {
		t.Fatalf("entry with expense: %v", err)
	}

	var expense models.Transaction
	if err := db.First(&expense, "movimentacao_id = ?", recorded.Id).Error; err != nil {
		t.Fatalf("expected expense for movement: %v", err)
	}
	if expense.Type != models.TransactionExpense || expense.Category != models.CategoryStock {
		t.Fatalf("expense tipo=%s categoria=%s", expense.Type, expense.Category)
	}
	if !expense.Amount.Equal(mustDec(t, "85.00")) {
		t.Fatalf("expense valor=%s, want 85.00", expense.Amount)
	}

	// A zero-value entry (donation, adjustment) posts nothing.
	err = db.Transaction(func(tx *gorm.DB) error {
		movement, err := services.RecordMovement(tx, services.MovementInput{
			ProductID: product.Id,
			Type:      models.MovementEntry,
			Quantity:  10,
			UnitValue: decimal.Zero,
			Supplier:  "Doação",
		})
		if err != nil {
			return err
		}
		return services.PostPurchaseExpense(tx, movement)
	})
	if err != nil {
		t.Fatalf("zero-value entry: %v", err)
	}
	var count int64
	if err := db.Model(&models.Transaction{}).Where("tipo = ?", models.TransactionExpense).Count(&count).Error; err != nil {
		t.Fatalf("count expenses: %v", err)
	}
	if count != 1 {
		t.Fatalf("found %d expense rows, want 1", count)
	}
}

// visitFixture seeds everything a completion needs: patient, practitioner,
// scheduled appointment, two active procedures and one stocked product.
type visitFixture struct {
	appointment models.Appointment
	botox       models.Procedure
	peeling     models.Procedure
	serum       *models.Product
}

func seedVisit(t *testing.T, db *gorm.DB) *visitFixture {
	t.Helper()

	patient := models.Patient{Name: "Maria Souza", Whatsapp: "+5511999990001"}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	practitioner := models.Practitioner{Name: "Dra. Paula Lima", Specialty: "Dermatologia", Council: "CRM 12345"}
	if err := db.Create(&practitioner).Error; err != nil {
		t.Fatalf("create practitioner: %v", err)
	}

	fixture := &visitFixture{
		botox:   models.Procedure{Name: "Aplicação de Botox", Price: mustDec(t, "800.00")},
		peeling: models.Procedure{Name: "Peeling Químico", Price: mustDec(t, "350.50")},
	}
	if err := db.Create(&fixture.botox).Error; err != nil {
		t.Fatalf("create procedure: %v", err)
	}
	if err := db.Create(&fixture.peeling).Error; err != nil {
		t.Fatalf("create procedure: %v", err)
	}
	fixture.serum = createProduct(t, db, "Toxina Botulínica", 10, "250.00")

	fixture.appointment = models.Appointment{
		ScheduledAt:    time.Now().Add(-1 * time.Hour),
		PatientId:      patient.Id,
		PractitionerId: &practitioner.Id,
	}
	if err := db.Create(&fixture.appointment).Error; err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return fixture
}

func TestCompleteVisit_PostsEveryEffectAtomically(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedVisit(t, db)

	err := services.CompleteVisit(db, fixture.appointment.Id, services.CompleteVisitInput{
		NoteText: "Paciente respondeu bem ao procedimento.",
		Supplies: []services.ConsumedSupply{
			{ProductID: fixture.serum.Id, Quantity: 2},
		},
		ProcedureIDs: []string{fixture.botox.Id, fixture.peeling.Id},
	})
	if err != nil {
		t.Fatalf("CompleteVisit: %v", err)
	}

	var appointment models.Appointment
	if err := db.Preload("Procedures").First(&appointment, "id = ?", fixture.appointment.Id).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if appointment.Status != models.AppointmentConcluded {
		t.Fatalf("status = %s, want %s", appointment.Status, models.AppointmentConcluded)
	}
	if len(appointment.Procedures) != 2 {
		t.Fatalf("attached %d procedures, want 2", len(appointment.Procedures))
	}

	var note models.ClinicalNote
	if err := db.First(&note, "paciente_id = ?", appointment.PatientId).Error; err != nil {
		t.Fatalf("expected clinical note: %v", err)
	}
	if note.Text != "Paciente respondeu bem ao procedimento." {
		t.Fatalf("note text = %q", note.Text)
	}
	if note.PractitionerId == nil || *note.PractitionerId != *appointment.PractitionerId {
		t.Fatalf("note not attributed to the appointment practitioner")
	}

	serum := reloadProduct(t, db, fixture.serum.Id)
	if serum.Quantity != 8 {
		t.Fatalf("serum qtd = %d, want 8", serum.Quantity)
	}
	var movement models.Movement
	if err := db.First(&movement, "agendamento_id = ?", appointment.Id).Error; err != nil {
		t.Fatalf("expected exit movement linked to appointment: %v", err)
	}
	if movement.Type != models.MovementExit || movement.Quantity != 2 {
		t.Fatalf("movement tipo=%s qtd=%d", movement.Type, movement.Quantity)
	}
	if !movement.UnitValue.Equal(mustDec(t, "250.00")) {
		t.Fatalf("consumption priced at %s, want the running average 250.00", movement.UnitValue)
	}

	var revenues []models.Transaction
	if err := db.Where("agendamento_id = ? AND tipo = ?", appointment.Id, models.TransactionRevenue).
		Order("valor DESC").Find(&revenues).Error; err != nil {
		t.Fatalf("load revenues: %v", err)
	}
	if len(revenues) != 2 {
		t.Fatalf("posted %d revenue entries, want 2", len(revenues))
	}
	if !revenues[0].Amount.Equal(mustDec(t, "800.00")) || !revenues[1].Amount.Equal(mustDec(t, "350.50")) {
		t.Fatalf("revenue amounts %s / %s", revenues[0].Amount, revenues[1].Amount)
	}
	for _, revenue := range revenues {
		if revenue.Category != models.CategoryProcedure {
			t.Fatalf("revenue categoria = %s", revenue.Category)
		}
		if !strings.Contains(revenue.Description, "Maria Souza") {
			t.Fatalf("revenue descricao %q does not name the patient", revenue.Description)
		}
	}
}

func TestCompleteVisit_InsufficientStockRollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedVisit(t, db)
	gauze := createProduct(t, db, "Gaze Estéril", 1, "0.50")

	err := services.CompleteVisit(db, fixture.appointment.Id, services.CompleteVisitInput{
		NoteText: "Nunca deve ser gravado.",
		Supplies: []services.ConsumedSupply{
			{ProductID: fixture.serum.Id, Quantity: 2},
			{ProductID: gauze.Id, Quantity: 5},
		},
		ProcedureIDs: []string{fixture.botox.Id},
	})
	var stockErr *services.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	// The first supply line had stock; the rollback must undo it too.
	if got := reloadProduct(t, db, fixture.serum.Id); got.Quantity != 10 {
		t.Fatalf("serum qtd = %d after rollback, want 10", got.Quantity)
	}
	var appointment models.Appointment
	if err := db.First(&appointment, "id = ?", fixture.appointment.Id).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if appointment.Status != models.AppointmentScheduled {
		t.Fatalf("status = %s after rollback, want %s", appointment.Status, models.AppointmentScheduled)
	}
	var notes, movements, transactions int64
	db.Model(&models.ClinicalNote{}).Count(&notes)
	db.Model(&models.Movement{}).Count(&movements)
	db.Model(&models.Transaction{}).Count(&transactions)
	if notes != 0 || movements != 0 || transactions != 0 {
		t.Fatalf("leftover rows after rollback: notes=%d movements=%d transactions=%d", notes, movements, transactions)
	}
}

func TestCompleteVisit_UnknownProcedureFailsWhole(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedVisit(t, db)

	err := services.CompleteVisit(db, fixture.appointment.Id, services.CompleteVisitInput{
		ProcedureIDs: []string{fixture.botox.Id, "b97c0a1e-0000-0000-0000-000000000000"},
	})
	if !errors.Is(err, services.ErrProcedureNotFound) {
		t.Fatalf("expected ErrProcedureNotFound, got %v", err)
	}

	var appointment models.Appointment
	if err := db.First(&appointment, "id = ?", fixture.appointment.Id).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if appointment.Status != models.AppointmentScheduled {
		t.Fatalf("status = %s, want %s", appointment.Status, models.AppointmentScheduled)
	}
	var transactions int64
	db.Model(&models.Transaction{}).Count(&transactions)
	if transactions != 0 {
		t.Fatalf("posted %d transactions for a failed completion", transactions)
	}
}

func TestCompleteVisit_BareCompletionStillConcludes(t *testing.T) {
	db := setupTestDB(t)
	fixture := seedVisit(t, db)

	if err := services.CompleteVisit(db, fixture.appointment.Id, services.CompleteVisitInput{}); err != nil {
		t.Fatalf("CompleteVisit with empty input: %v", err)
	}

	var appointment models.Appointment
	if err := db.First(&appointment, "id = ?", fixture.appointment.Id).Error; err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if appointment.Status != models.AppointmentConcluded {
		t.Fatalf("status = %s, want %s", appointment.Status, models.AppointmentConcluded)
	}
	var notes, transactions int64
	db.Model(&models.ClinicalNote{}).Count(&notes)
	db.Model(&models.Transaction{}).Count(&transactions)
	if notes != 0 || transactions != 0 {
		t.Fatalf("bare completion created notes=%d transactions=%d", notes, transactions)
	}

	// Finalizing twice is rejected.
	err := services.CompleteVisit(db, fixture.appointment.Id, services.CompleteVisitInput{})
	if !errors.Is(err, services.ErrVisitAlreadyDone) {
		t.Fatalf("expected ErrVisitAlreadyDone, got %v", err)
	}
}

func TestCompleteVisit_UnknownAppointment(t *testing.T) {
	db := setupTestDB(t)

	err := services.CompleteVisit(db, "5f4d1c2b-0000-0000-0000-000000000000", services.CompleteVisitInput{})
	if !errors.Is(err, services.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}
