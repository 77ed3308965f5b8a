package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PixCustomer identifies the payer of a PIX charge
type PixCustomer struct {
	Name           string
	Email          string
	DocumentNumber string
}

// PixRecipient identifies the beneficiary of a PIX payout
type PixRecipient struct {
	Name           string
	DocumentNumber string
}

// PixCharge is a PIX payment request, payable by scanning the QR code or by
// pasting the copy-paste code in a banking app
type PixCharge struct {
	ID     string
	Amount decimal.Decimal
	Status string
	// QRCode is the PIX copy-paste code
	QRCode string
	// QRCodeImage is a PNG rendering of QRCode as a data URL
	QRCodeImage string
	ExpiresAt   int64
}

// PixPayout is a PIX transfer from the operator's account to a bank account
type PixPayout struct {
	ID     string
	Amount decimal.Decimal
	Status string
}

// PaymentRail is the PIX payment provider
type PaymentRail interface {
	CreateCharge(
		ctx context.Context, amount decimal.Decimal, customer PixCustomer,
	) (*PixCharge, error)
	GetCharge(ctx context.Context, chargeID string) (*PixCharge, error)
	SendPayout(
		ctx context.Context, amount decimal.Decimal, pixKey string,
		recipient PixRecipient,
	) (*PixPayout, error)
}
