package application

import (
	"crypto/sha256"
	"encoding/binary"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/pkg/wallet"
)

// DepositService maps the custodian's users to their deposit addresses
type DepositService interface {
	// UserIndex returns the derivation index of the given user
	UserIndex(userID string) (uint32, error)
	// AddressForUser returns the deposit address derived at the user's index
	AddressForUser(userID string) (string, error)
}

type depositService struct {
	walletCtx *WalletContext
}

// NewDepositService returns the deposit address deriver of the given wallet
func NewDepositService(walletCtx *WalletContext) (DepositService, error) {
	if walletCtx == nil {
		return nil, ErrNullWalletContext
	}
	return &depositService{walletCtx}, nil
}

func (s *depositService) UserIndex(userID string) (uint32, error) {
	return userIndex(userID)
}

func (s *depositService) AddressForUser(userID string) (string, error) {
	index, err := userIndex(userID)
	if err != nil {
		return "", err
	}
	return s.walletCtx.deriveAddress(index)
}

// userIndex reads the first 4 bytes of the sha256 digest of the user id as a
// big endian unsigned integer. Distinct ids may collide on the same index,
// and thus on the same deposit address.
func userIndex(userID string) (uint32, error) {
	if len(userID) <= 0 {
		return 0, domain.ErrInvalidUserID
	}

	digest := sha256.Sum256([]byte(userID))
	index := binary.BigEndian.Uint32(digest[:4])
	if index == wallet.PrimaryIndex {
		log.WithField("user_id", userID).Warn(
			"user index collides with primary wallet index",
		)
	}
	return index, nil
}
