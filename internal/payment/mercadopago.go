package payment

import (
	"context"
	"errors"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
)

var ErrProcessorDisabled = errors.New("payment processor disabled")

// MercadoPago cobra via a API de payments do Mercado Pago.
type MercadoPago struct {
	client mppayment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		client: mppayment.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) Charge(ctx context.Context, in ChargeInput) (string, error) {
	req := mppayment.Request{
		TransactionAmount: in.Amount,
		Description:       in.Description,
		PaymentMethodID:   "pix",
		Payer: &mppayment.PayerRequest{
			Email: in.PayerEmail,
		},
	}

	res, err := m.client.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("mercadopago create payment: %w", err)
	}

	return fmt.Sprintf("%d", res.ID), nil
}
