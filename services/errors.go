package services

import (
	"errors"
	"fmt"
)

// Client-facing domain errors. Messages surface verbatim in the {erro}
// envelope, so they stay in the API's wire language.
var (
	ErrAppointmentNotFound = errors.New("Agendamento não encontrado")
	ErrProductNotFound     = errors.New("Produto não encontrado")
	ErrProcedureNotFound   = errors.New("Procedimento não encontrado")
	ErrVisitAlreadyDone    = errors.New("Atendimento já finalizado")
	ErrInvalidMovement     = errors.New("Movimentação inválida: tipo deve ser ENTRADA ou SAIDA e qtd maior que zero")
)

// InsufficientStockError names the product and the quantity still available.
type InsufficientStockError struct {
	Product   string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente para: %s. Disponível: %d", e.Product, e.Available)
}

// IsDomainError reports whether err belongs to the recoverable taxonomy that
// maps to a 4xx response rather than a generic 500.
func IsDomainError(err error) bool {
	var stockErr *InsufficientStockError
	return errors.Is(err, ErrAppointmentNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrProcedureNotFound) ||
		errors.Is(err, ErrVisitAlreadyDone) ||
		errors.Is(err, ErrInvalidMovement) ||
		errors.As(err, &stockErr)
}
