package pagarme

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/pkg/httputil"
)

const (
	// BaseURL is the base url of the Pagar.me core API
	BaseURL = "https://api.pagar.me/core/v5"
	// ChargeExpiration is the validity of a PIX charge
	ChargeExpiration = time.Hour

	paymentMethodPix = "pix"
	qrCodeSize       = 256
)

var (
	// ErrMissingAPIKey ...
	ErrMissingAPIKey = errors.New("missing pagar.me api key")
	// ErrMissingQRCode ...
	ErrMissingQRCode = errors.New("charge has no pix qr code")

	centsExp = decimal.New(100, 0)
)

type customer struct {
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
}

type pix struct {
	ExpirationDate          string `json:"expiration_date,omitempty"`
	QRCode                  string `json:"qr_code,omitempty"`
	PixKey                  string `json:"pix_key,omitempty"`
	RecipientName           string `json:"recipient_name,omitempty"`
	RecipientDocumentNumber string `json:"recipient_document_number,omitempty"`
}

type transactionRequest struct {
	Amount        int64     `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Customer      *customer `json:"customer,omitempty"`
	Pix           pix       `json:"pix"`
}

type transactionResponse struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
	Pix    pix    `json:"pix"`
}

type apiError struct {
	Message string `json:"message"`
}

type service struct {
	baseURL string
	apiKey  string
	client  *httputil.Client
}

// NewPaymentRail returns a PaymentRail backed by the Pagar.me transactions
// API
func NewPaymentRail(
	baseURL, apiKey string, timeout time.Duration,
) (ports.PaymentRail, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &service{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: httputil.NewClient(httputil.ClientOpts{
			Name:    "pagarme",
			Timeout: timeout,
		}),
	}, nil
}

func (s *service) CreateCharge(
	ctx context.Context, amount decimal.Decimal, payer ports.PixCustomer,
) (*ports.PixCharge, error) {
	expiresAt := time.Now().Add(ChargeExpiration).UTC()
	req := transactionRequest{
		Amount:        toCents(amount),
		PaymentMethod: paymentMethodPix,
		Customer: &customer{
			Name:           payer.Name,
			Email:          payer.Email,
			DocumentNumber: payer.DocumentNumber,
		},
		Pix: pix{ExpirationDate: expiresAt.Format(time.RFC3339)},
	}

	tx, err := s.postTransaction(ctx, req)
	if err != nil {
		return nil, err
	}
	if tx.Pix.QRCode == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingQRCode, tx.ID)
	}

	image, err := qrCodeDataURL(tx.Pix.QRCode)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"charge": tx.ID,
		"amount": amount.String(),
	}).Debug("pix charge created")

	return &ports.PixCharge{
		ID:          tx.ID,
		Amount:      fromCents(tx.Amount),
		Status:      tx.Status,
		QRCode:      tx.Pix.QRCode,
		QRCodeImage: image,
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

func (s *service) GetCharge(
	ctx context.Context, chargeID string,
) (*ports.PixCharge, error) {
	status, resp, err := s.client.NewHTTPRequest(
		ctx, http.MethodGet,
		fmt.Sprintf("%s/transactions/%s", s.baseURL, url.PathEscape(chargeID)),
		"", s.header(),
	)
	if err != nil {
		return nil, err
	}
	tx, err := parseTransaction(status, resp)
	if err != nil {
		return nil, err
	}

	return &ports.PixCharge{
		ID:     tx.ID,
		Amount: fromCents(tx.Amount),
		Status: tx.Status,
		QRCode: tx.Pix.QRCode,
	}, nil
}

func (s *service) SendPayout(
	ctx context.Context, amount decimal.Decimal, pixKey string,
	recipient ports.PixRecipient,
) (*ports.PixPayout, error) {
	tx, err := s.postTransaction(ctx, transactionRequest{
		Amount:        toCents(amount),
		PaymentMethod: paymentMethodPix,
		Pix: pix{
			PixKey:                  pixKey,
			RecipientName:           recipient.Name,
			RecipientDocumentNumber: recipient.DocumentNumber,
		},
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"payout": tx.ID,
		"amount": amount.String(),
	}).Debug("pix payout sent")

	return &ports.PixPayout{
		ID:     tx.ID,
		Amount: fromCents(tx.Amount),
		Status: tx.Status,
	}, nil
}

func (s *service) postTransaction(
	ctx context.Context, req transactionRequest,
) (*transactionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	status, resp, err := s.client.NewHTTPRequest(
		ctx, http.MethodPost, s.baseURL+"/transactions", string(body), s.header(),
	)
	if err != nil {
		return nil, err
	}
	return parseTransaction(status, resp)
}

func (s *service) header() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"X-Api-Key":    s.apiKey,
	}
}

func parseTransaction(status int, resp string) (*transactionResponse, error) {
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		var apiErr apiError
		if err := json.Unmarshal([]byte(resp), &apiErr); err == nil &&
			apiErr.Message != "" {
			return nil, fmt.Errorf("pagarme: %d: %s", status, apiErr.Message)
		}
		return nil, fmt.Errorf("pagarme: %d: %s", status, resp)
	}

	tx := &transactionResponse{}
	if err := json.Unmarshal([]byte(resp), tx); err != nil {
		return nil, fmt.Errorf("pagarme: failed to parse response: %w", err)
	}
	return tx, nil
}

func qrCodeDataURL(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, qrCodeSize)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// toCents floors the given BRL amount to cents
func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(centsExp).Floor().IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
