package httpinterface

import (
	"github.com/shopspring/decimal"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
)

type transferRequest struct {
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
}

type tokenTransferRequest struct {
	TokenAddress string `json:"token_address"`
	Amount       uint64 `json:"amount"`
}

type quotedTransferRequest struct {
	Destination string          `json:"destination"`
	Amount      decimal.Decimal `json:"amount"`
	Asset       string          `json:"asset"`
}

type customer struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	DocumentNumber string `json:"document_number"`
}

type chargeRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Customer customer        `json:"customer"`
}

type recipient struct {
	Name           string `json:"name"`
	DocumentNumber string `json:"document_number"`
}

type payoutRequest struct {
	Amount    uint64    `json:"amount"`
	PixKey    string    `json:"pix_key"`
	Recipient recipient `json:"recipient"`
}

type webhookRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type secondaryLegInfo struct {
	Asset       string `json:"asset"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
	TxID        string `json:"txid,omitempty"`
	Error       string `json:"error,omitempty"`
}

type transferInfo struct {
	ID                 string            `json:"id"`
	Kind               string            `json:"kind"`
	UserID             string            `json:"user_id,omitempty"`
	SourceAddress      string            `json:"source_address"`
	DestinationAddress string            `json:"destination_address"`
	FeeAddress         string            `json:"fee_address"`
	Amount             uint64            `json:"amount"`
	FeeAmount          uint64            `json:"fee_amount"`
	UserAmount         uint64            `json:"user_amount"`
	ChangeAmount       uint64            `json:"change_amount"`
	QuotedAmount       string            `json:"quoted_amount,omitempty"`
	QuotedAsset        string            `json:"quoted_asset,omitempty"`
	TxID               string            `json:"txid,omitempty"`
	Secondary          *secondaryLegInfo `json:"secondary,omitempty"`
	Status             string            `json:"status"`
	Error              string            `json:"error,omitempty"`
	CreatedAt          int64             `json:"created_at"`
	UpdatedAt          int64             `json:"updated_at"`
}

type chargeInfo struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	QRCode      string `json:"qr_code,omitempty"`
	QRCodeImage string `json:"qr_code_image,omitempty"`
	ExpiresAt   int64  `json:"expires_at,omitempty"`
}

type payoutInfo struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Status string `json:"status"`
}

type webhookInfo struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secured  bool   `json:"is_secured"`
}

func toTransferInfo(t *domain.Transfer) transferInfo {
	info := transferInfo{
		ID:                 t.ID,
		Kind:               t.Kind.String(),
		UserID:             t.UserID,
		SourceAddress:      t.SourceAddress,
		DestinationAddress: t.DestinationAddress,
		FeeAddress:         t.FeeAddress,
		Amount:             t.Amount,
		FeeAmount:          t.FeeAmount,
		UserAmount:         t.UserAmount,
		ChangeAmount:       t.ChangeAmount,
		QuotedAsset:        t.QuotedAsset,
		TxID:               t.TxID,
		Status:             t.Status.String(),
		Error:              t.Error,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
	if t.QuotedAsset != "" {
		info.QuotedAmount = t.QuotedAmount.String()
	}
	if leg := t.Secondary; leg != nil {
		info.Secondary = &secondaryLegInfo{
			Asset:       leg.Asset,
			Destination: leg.Destination,
			Amount:      leg.Amount.String(),
			TxID:        leg.TxID,
			Error:       leg.Error,
		}
	}
	return info
}

func toTransferInfoList(transfers []*domain.Transfer) []transferInfo {
	list := make([]transferInfo, 0, len(transfers))
	for _, t := range transfers {
		list = append(list, toTransferInfo(t))
	}
	return list
}

func toChargeInfo(c *ports.PixCharge) chargeInfo {
	return chargeInfo{
		ID:          c.ID,
		Amount:      c.Amount.StringFixed(2),
		Status:      c.Status,
		QRCode:      c.QRCode,
		QRCodeImage: c.QRCodeImage,
		ExpiresAt:   c.ExpiresAt,
	}
}

func toPayoutInfo(p *ports.PixPayout) payoutInfo {
	return payoutInfo{
		ID:     p.ID,
		Amount: p.Amount.StringFixed(2),
		Status: p.Status,
	}
}

func toWebhookInfoList(subs []ports.Subscription) []webhookInfo {
	list := make([]webhookInfo, 0, len(subs))
	for _, sub := range subs {
		list = append(list, webhookInfo{
			ID:       sub.ID,
			Topic:    sub.Topic,
			Endpoint: sub.Endpoint,
			Secured:  sub.IsSecured(),
		})
	}
	return list
}
