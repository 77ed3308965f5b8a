package application

import (
	"encoding/json"

	"github.com/tdex-network/dogecustody/internal/core/domain"
)

const transferTopicPrefix = "transfer."

// TransferTopic returns the topic the changes to the given status are
// published for, like transfer.completed.
func TransferTopic(status domain.TransferStatus) string {
	return transferTopicPrefix + status.String()
}

// TransferTopics returns the topics events are published for. New transfers
// are journalled as pending and announced only once their status changes.
func TransferTopics() []string {
	topics := make([]string, 0)
	for s := domain.TransferStatusBroadcasted; s <= domain.TransferStatusFailed; s++ {
		topics = append(topics, TransferTopic(s))
	}
	return topics
}

type transferEvent struct {
	Topic     string               `json:"topic"`
	Transfer  transferEventPayload `json:"transfer"`
	Timestamp int64                `json:"timestamp"`
}

type transferEventPayload struct {
	ID           string               `json:"id"`
	Kind         string               `json:"kind"`
	Status       string               `json:"status"`
	UserID       string               `json:"user_id,omitempty"`
	Source       string               `json:"source"`
	Destination  string               `json:"destination"`
	Amount       uint64               `json:"amount"`
	FeeAmount    uint64               `json:"fee_amount"`
	UserAmount   uint64               `json:"user_amount"`
	ChangeAmount uint64               `json:"change_amount"`
	TxID         string               `json:"txid,omitempty"`
	Error        string               `json:"error,omitempty"`
	Secondary    *secondaryLegPayload `json:"secondary,omitempty"`
}

type secondaryLegPayload struct {
	Asset       string `json:"asset"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
	TxID        string `json:"txid,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newTransferEvent(topic string, t *domain.Transfer) ([]byte, error) {
	payload := transferEventPayload{
		ID:           t.ID,
		Kind:         t.Kind.String(),
		Status:       t.Status.String(),
		UserID:       t.UserID,
		Source:       t.SourceAddress,
		Destination:  t.DestinationAddress,
		Amount:       t.Amount,
		FeeAmount:    t.FeeAmount,
		UserAmount:   t.UserAmount,
		ChangeAmount: t.ChangeAmount,
		TxID:         t.TxID,
		Error:        t.Error,
	}
	if leg := t.Secondary; leg != nil {
		payload.Secondary = &secondaryLegPayload{
			Asset:       leg.Asset,
			Destination: leg.Destination,
			Amount:      leg.Amount.String(),
			TxID:        leg.TxID,
			Error:       leg.Error,
		}
	}

	return json.Marshal(transferEvent{
		Topic:     topic,
		Transfer:  payload,
		Timestamp: t.UpdatedAt,
	})
}
