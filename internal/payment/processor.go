package payment

import "context"

type ChargeInput struct {
	Amount      float64
	Description string
	PayerEmail  string
}

// Processor cobra uma comanda fechada com método online.
type Processor interface {
	Charge(ctx context.Context, in ChargeInput) (string, error)
}

// Disabled é usado quando não há credencial configurada.
type Disabled struct{}

func (Disabled) Charge(ctx context.Context, in ChargeInput) (string, error) {
	return "", ErrProcessorDisabled
}
