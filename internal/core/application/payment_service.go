package application

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/pkg/mathutil"
)

// PaymentService bridges the custodian with the PIX instant payment system
type PaymentService interface {
	// CreateCharge creates a PIX charge of the given amount in BRL.
	CreateCharge(
		ctx context.Context, amount decimal.Decimal, customer ports.PixCustomer,
	) (*ports.PixCharge, error)
	// GetCharge returns the current status of the given charge.
	GetCharge(ctx context.Context, chargeID string) (*ports.PixCharge, error)
	// PayoutToBank sends to the given PIX key the BRL equivalent of the given
	// amount of koinu.
	PayoutToBank(
		ctx context.Context, amount uint64, pixKey string,
		recipient ports.PixRecipient,
	) (*ports.PixPayout, error)
}

type paymentService struct {
	rail       ports.PaymentRail
	conversion ConversionService
}

// NewPaymentService returns a payment service sending payouts via the given
// rail at the rates returned by the conversion service
func NewPaymentService(
	rail ports.PaymentRail, conversion ConversionService,
) (PaymentService, error) {
	if rail == nil {
		return nil, ErrNullPaymentRail
	}
	if conversion == nil {
		return nil, ErrNullConversionService
	}
	return &paymentService{rail, conversion}, nil
}

func (s *paymentService) CreateCharge(
	ctx context.Context, amount decimal.Decimal, customer ports.PixCustomer,
) (*ports.PixCharge, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if len(customer.Name) <= 0 || len(customer.DocumentNumber) <= 0 {
		return nil, ErrInvalidCustomer
	}

	charge, err := s.rail.CreateCharge(ctx, amount, customer)
	if err != nil {
		return nil, domain.NewExternalServiceError("payment rail", err)
	}
	return charge, nil
}

func (s *paymentService) GetCharge(
	ctx context.Context, chargeID string,
) (*ports.PixCharge, error) {
	charge, err := s.rail.GetCharge(ctx, chargeID)
	if err != nil {
		return nil, domain.NewExternalServiceError("payment rail", err)
	}
	return charge, nil
}

func (s *paymentService) PayoutToBank(
	ctx context.Context, amount uint64, pixKey string,
	recipient ports.PixRecipient,
) (*ports.PixPayout, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if len(pixKey) <= 0 {
		return nil, ErrNullPixKey
	}
	if len(recipient.Name) <= 0 || len(recipient.DocumentNumber) <= 0 {
		return nil, ErrInvalidRecipient
	}

	brlAmount, err := s.conversion.Convert(
		ctx, mathutil.FromUnits(amount), domain.AssetDOGE, domain.AssetBRL,
	)
	if err != nil {
		return nil, err
	}
	brlAmount = brlAmount.RoundDown(2)
	if !brlAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	payout, err := s.rail.SendPayout(ctx, brlAmount, pixKey, recipient)
	if err != nil {
		return nil, domain.NewExternalServiceError("payment rail", err)
	}

	log.WithFields(log.Fields{
		"payout_id": payout.ID,
		"amount":    brlAmount.String(),
	}).Info("pix payout sent")
	return payout, nil
}
