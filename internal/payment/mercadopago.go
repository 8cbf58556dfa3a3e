// Package payment creates hosted checkout links for appointments.
package payment

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type Checkout struct {
	AppointmentID string
	Title         string
	Description   string
	Amount        float64
}

type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"initPoint"`
}

type Provider interface {
	CreatePreference(ctx context.Context, c Checkout) (Preference, error)
}

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type MercadoPago struct {
	client   preferenceCreator
	currency string
}

func NewMercadoPago(accessToken, currency string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		client:   preference.NewClient(cfg),
		currency: currency,
	}, nil
}

func (m *MercadoPago) CreatePreference(ctx context.Context, c Checkout) (Preference, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{{
			ID:          c.AppointmentID,
			Title:       c.Title,
			Description: c.Description,
			CurrencyID:  m.currency,
			Quantity:    1,
			UnitPrice:   c.Amount,
		}},
		ExternalReference: c.AppointmentID,
	}

	res, err := m.client.Create(ctx, req)
	if err != nil {
		return Preference{}, fmt.Errorf("create preference: %w", err)
	}
	return Preference{ID: res.ID, InitPoint: res.InitPoint}, nil
}

var _ Provider = (*MercadoPago)(nil)
