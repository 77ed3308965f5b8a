package httpinterface

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/dogecustody/internal/core/application"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
)

type handler struct {
	depositSvc    application.DepositService
	transferSvc   application.TransferService
	conversionSvc application.ConversionService
	paymentSvc    application.PaymentService
	pubsub        ports.PubSub
	metrics       *metrics
}

func (h *handler) getUserAddress(c *gin.Context) {
	userID := c.Param("id")
	addr, err := h.depositSvc.AddressForUser(userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	index, _ := h.depositSvc.UserIndex(userID)

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"index":   index,
		"address": addr,
	})
}

func (h *handler) getBalance(c *gin.Context) {
	addr := c.Param("addr")
	balance, err := h.transferSvc.GetBalance(c.Request.Context(), addr)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": addr,
		"balance": balance,
	})
}

func (h *handler) transferFromPrimary(c *gin.Context) {
	var req transferRequest
	if !h.bind(c, &req) {
		return
	}

	transfer, err := h.transferSvc.TransferFromPrimary(
		c.Request.Context(), req.Destination, req.Amount,
	)
	h.replyTransfer(c, domain.TransferKindDoge, transfer, err)
}

func (h *handler) transferFromUser(c *gin.Context) {
	var req transferRequest
	if !h.bind(c, &req) {
		return
	}

	transfer, err := h.transferSvc.TransferFromUser(
		c.Request.Context(), c.Param("id"), req.Destination, req.Amount,
	)
	h.replyTransfer(c, domain.TransferKindDoge, transfer, err)
}

func (h *handler) transferToToken(c *gin.Context) {
	var req tokenTransferRequest
	if !h.bind(c, &req) {
		return
	}

	transfer, err := h.transferSvc.TransferToToken(
		c.Request.Context(), c.Param("id"), req.TokenAddress, req.Amount,
	)
	h.replyTransfer(c, domain.TransferKindToken, transfer, err)
}

func (h *handler) transferQuoted(c *gin.Context) {
	var req quotedTransferRequest
	if !h.bind(c, &req) {
		return
	}

	transfer, err := h.transferSvc.TransferQuoted(
		c.Request.Context(), req.Destination, req.Amount,
		strings.ToUpper(req.Asset),
	)
	h.replyTransfer(c, domain.TransferKindQuoted, transfer, err)
}

func (h *handler) completeTransfer(c *gin.Context) {
	transfer, err := h.transferSvc.CompleteSecondaryLeg(
		c.Request.Context(), c.Param("id"),
	)
	h.replyTransfer(c, domain.TransferKindToken, transfer, err)
}

func (h *handler) getTransfer(c *gin.Context) {
	transfer, err := h.transferSvc.GetTransfer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransferInfo(transfer))
}

func (h *handler) listTransfers(c *gin.Context) {
	statuses := make([]domain.TransferStatus, 0)
	if filter := c.Query("status"); filter != "" {
		for _, s := range strings.Split(filter, ",") {
			status, ok := domain.ParseTransferStatus(strings.TrimSpace(s))
			if !ok {
				h.fail(c, fmt.Errorf("%w: %s", ErrInvalidStatusFilter, s))
				return
			}
			statuses = append(statuses, status)
		}
	}

	transfers, err := h.transferSvc.ListTransfers(c.Request.Context(), statuses...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": toTransferInfoList(transfers)})
}

func (h *handler) getRate(c *gin.Context) {
	if h.conversionSvc == nil {
		h.fail(c, application.ErrNullConversionService)
		return
	}
	base := strings.ToUpper(c.DefaultQuery("base", domain.AssetDOGE))
	quote := strings.ToUpper(c.DefaultQuery("quote", domain.AssetUSDT))

	rate, err := h.conversionSvc.GetRate(c.Request.Context(), base, quote)
	if err != nil {
		h.fail(c, err)
		return
	}

	res := gin.H{
		"base":  base,
		"quote": quote,
		"rate":  rate.String(),
	}
	if amount := c.Query("amount"); amount != "" {
		value, err := decimal.NewFromString(amount)
		if err != nil {
			h.fail(c, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, err))
			return
		}
		res["amount"] = value.Mul(rate).String()
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) createCharge(c *gin.Context) {
	if h.paymentSvc == nil {
		h.fail(c, ErrPaymentsDisabled)
		return
	}
	var req chargeRequest
	if !h.bind(c, &req) {
		return
	}

	charge, err := h.paymentSvc.CreateCharge(
		c.Request.Context(), req.Amount, ports.PixCustomer{
			Name:           req.Customer.Name,
			Email:          req.Customer.Email,
			DocumentNumber: req.Customer.DocumentNumber,
		},
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toChargeInfo(charge))
}

func (h *handler) getCharge(c *gin.Context) {
	if h.paymentSvc == nil {
		h.fail(c, ErrPaymentsDisabled)
		return
	}

	charge, err := h.paymentSvc.GetCharge(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toChargeInfo(charge))
}

func (h *handler) payoutToBank(c *gin.Context) {
	if h.paymentSvc == nil {
		h.fail(c, ErrPaymentsDisabled)
		return
	}
	var req payoutRequest
	if !h.bind(c, &req) {
		return
	}

	payout, err := h.paymentSvc.PayoutToBank(
		c.Request.Context(), req.Amount, req.PixKey, ports.PixRecipient{
			Name:           req.Recipient.Name,
			DocumentNumber: req.Recipient.DocumentNumber,
		},
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPayoutInfo(payout))
}

func (h *handler) addWebhook(c *gin.Context) {
	if h.pubsub == nil {
		h.fail(c, ErrWebhooksDisabled)
		return
	}
	var req webhookRequest
	if !h.bind(c, &req) {
		return
	}
	if !isKnownTopic(req.Topic) {
		h.fail(c, fmt.Errorf("%w: %s", ErrUnknownTopic, req.Topic))
		return
	}

	id, err := h.pubsub.Subscribe(
		c.Request.Context(), req.Topic, req.Endpoint, req.Secret,
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *handler) removeWebhook(c *gin.Context) {
	if h.pubsub == nil {
		h.fail(c, ErrWebhooksDisabled)
		return
	}

	if err := h.pubsub.Unsubscribe(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listWebhooks(c *gin.Context) {
	if h.pubsub == nil {
		h.fail(c, ErrWebhooksDisabled)
		return
	}
	topic := c.Query("topic")
	if topic != "" && !isKnownTopic(topic) {
		h.fail(c, fmt.Errorf("%w: %s", ErrUnknownTopic, topic))
		return
	}

	subs, err := h.pubsub.ListSubscriptions(c.Request.Context(), topic)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": toWebhookInfoList(subs)})
}

func isKnownTopic(topic string) bool {
	if topic == ports.AnyTopic {
		return true
	}
	for _, t := range application.TransferTopics() {
		if t == topic {
			return true
		}
	}
	return false
}

// replyTransfer writes the outcome of a transfer operation. A partially
// completed cross-asset transfer is reported with status 207 along with the
// id of the broadcasted Dogecoin transaction.
func (h *handler) replyTransfer(
	c *gin.Context, kind domain.TransferKind, transfer *domain.Transfer,
	err error,
) {
	var partialErr *domain.PartialTransferError
	if errors.As(err, &partialErr) {
		h.metrics.observeTransfer(kind.String(), transfer.Status.String())
		log.WithError(err).WithField("transfer_id", partialErr.TransferID).
			Warn("transfer partially completed")
		c.Error(err)
		c.JSON(http.StatusMultiStatus, gin.H{
			"error":        err.Error(),
			"transfer_id":  partialErr.TransferID,
			"primary_txid": partialErr.PrimaryTxID,
			"transfer":     toTransferInfo(transfer),
		})
		return
	}
	if err != nil {
		h.metrics.observeTransfer(kind.String(), domain.TransferStatusFailed.String())
		h.fail(c, err)
		return
	}

	h.metrics.observeTransfer(kind.String(), transfer.Status.String())
	c.JSON(http.StatusOK, toTransferInfo(transfer))
}

func (h *handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, fmt.Errorf("%w: %s", ErrInvalidRequestBody, err))
		return false
	}
	return true
}

func (h *handler) fail(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(httpStatus(err), gin.H{"error": err.Error()})
}
