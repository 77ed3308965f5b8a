package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/dogecustody/internal/config"
	"github.com/tdex-network/dogecustody/internal/core/application"
	"github.com/tdex-network/dogecustody/internal/core/domain"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	inmemorylocker "github.com/tdex-network/dogecustody/internal/infrastructure/locker/inmemory"
	"github.com/tdex-network/dogecustody/internal/infrastructure/payment/pagarme"
	"github.com/tdex-network/dogecustody/internal/infrastructure/pubsub"
	"github.com/tdex-network/dogecustody/internal/infrastructure/rate-provider/binance"
	"github.com/tdex-network/dogecustody/internal/infrastructure/rate-provider/coingecko"
	secretstore "github.com/tdex-network/dogecustody/internal/infrastructure/secret-store"
	dbbadger "github.com/tdex-network/dogecustody/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/dogecustody/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/dogecustody/internal/infrastructure/token/erc20"
	httpinterface "github.com/tdex-network/dogecustody/internal/interfaces/http"
	"github.com/tdex-network/dogecustody/pkg/explorer"
	"github.com/tdex-network/dogecustody/pkg/explorer/blockcypher"
	"github.com/tdex-network/dogecustody/pkg/wallet"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to initialize config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	if err := run(ctx); err != nil {
		log.WithError(err).Fatal("daemon stopped with error")
	}
	log.Info("shutdown")
}

func run(ctx context.Context) error {
	walletCtx, err := newWalletContext(ctx)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"network":     walletCtx.Network().Name,
		"primary":     walletCtx.PrimaryAddress(),
		"fee_address": walletCtx.FeeAddress(),
	}).Info("wallet unlocked")

	repository, closeDb, err := newTransferRepository()
	if err != nil {
		return err
	}
	defer closeDb()

	subscriptions, closeSubsDb, err := newSubscriptionRepository()
	if err != nil {
		return err
	}
	defer closeSubsDb()

	pubsubSvc, err := pubsub.NewService(
		subscriptions, config.GetDuration(config.RequestTimeoutKey),
	)
	if err != nil {
		return err
	}

	// External collaborators are independent from each other, their health
	// checks run concurrently.
	var (
		explorerSvc explorer.Service
		tokenSvc    ports.TokenTransferer
		paymentRail ports.PaymentRail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		svc, err := blockcypher.NewService(blockcypher.ServiceOpts{
			APIURL:            config.GetString(config.ExplorerURLKey),
			Token:             config.GetString(config.ExplorerTokenKey),
			RequestsPerSecond: config.GetInt(config.ExplorerRPSKey),
			Timeout:           config.GetDuration(config.RequestTimeoutKey),
		})
		if err != nil {
			return fmt.Errorf("explorer: %w", err)
		}
		explorerSvc = svc
		return nil
	})
	g.Go(func() error {
		rpcURL := config.GetString(config.EthRPCURLKey)
		if rpcURL == "" {
			log.Info("token transfers disabled")
			return nil
		}
		svc, err := erc20.NewService(gctx, erc20.ServiceOpts{
			RPCURL:          rpcURL,
			PrivateKey:      config.GetString(config.EthPrivateKeyKey),
			ContractAddress: config.GetString(config.USDTContractKey),
		})
		if err != nil {
			return fmt.Errorf("token: %w", err)
		}
		tokenSvc = svc
		return nil
	})
	g.Go(func() error {
		apiKey := config.GetString(config.PagarMeAPIKeyKey)
		if apiKey == "" {
			log.Info("pix payments disabled")
			return nil
		}
		rail, err := pagarme.NewPaymentRail(
			config.GetString(config.PagarMeURLKey), apiKey,
			config.GetDuration(config.RequestTimeoutKey),
		)
		if err != nil {
			return fmt.Errorf("payments: %w", err)
		}
		paymentRail = rail
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	conversionSvc, err := application.NewConversionService(newRateProvider())
	if err != nil {
		return err
	}
	depositSvc, err := application.NewDepositService(walletCtx)
	if err != nil {
		return err
	}
	transferSvc, err := application.NewTransferService(
		application.TransferServiceOpts{
			WalletContext: walletCtx,
			Explorer:      explorerSvc,
			Locker:        inmemorylocker.NewLocker(),
			Repository:    repository,
			Conversion:    conversionSvc,
			Token:         tokenSvc,
			PubSub:        pubsubSvc,
		},
	)
	if err != nil {
		return err
	}
	var paymentSvc application.PaymentService
	if paymentRail != nil {
		if paymentSvc, err = application.NewPaymentService(
			paymentRail, conversionSvc,
		); err != nil {
			return err
		}
	}

	reportUnfinishedTransfers(ctx, transferSvc)

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:       fmt.Sprintf(":%d", config.GetInt(config.HTTPListeningPortKey)),
		DepositSvc:    depositSvc,
		TransferSvc:   transferSvc,
		ConversionSvc: conversionSvc,
		PaymentSvc:    paymentSvc,
		PubSub:        pubsubSvc,
	})
	if err != nil {
		return err
	}
	if err := svc.Start(); err != nil {
		return err
	}
	defer svc.Stop()

	log.Debug("daemon started")
	<-ctx.Done()
	return nil
}

func newWalletContext(ctx context.Context) (*application.WalletContext, error) {
	var (
		store ports.SecretStore
		err   error
	)
	switch {
	case config.GetString(config.MnemonicKey) != "":
		log.Warn("using plaintext mnemonic from environment")
		store, err = secretstore.NewStaticStore(config.GetString(config.MnemonicKey))
	case config.GetString(config.MasterKeyKey) != "":
		log.Warn("using plaintext master key from environment")
		store, err = secretstore.NewStaticStore(config.GetString(config.MasterKeyKey))
	default:
		store, err = secretstore.NewFileStore(
			config.GetSecretFile(), config.GetString(config.SecretPasswordFileKey),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("secret store: %w", err)
	}

	w, err := application.UnlockWallet(ctx, store, config.GetNetwork())
	if err != nil {
		return nil, err
	}

	return application.NewWalletContext(application.WalletContextOpts{
		Wallet:     w,
		FeeAddress: config.GetString(config.FeeAddressKey),
		FeePolicy: wallet.FeePolicy{
			OperatorFeeFraction: config.GetOperatorFeeFraction(),
			NetworkFee:          config.GetUint64(config.NetworkFeeKey),
		},
	})
}

func newTransferRepository() (domain.TransferRepository, func(), error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewTransferRepository(), func() {}, nil
	}
	return dbbadger.NewTransferRepository(
		config.GetDBDir(), log.WithField("component", "badger"),
	)
}

func newSubscriptionRepository() (ports.SubscriptionRepository, func(), error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewSubscriptionRepository(), func() {}, nil
	}
	return dbbadger.NewSubscriptionRepository(
		config.GetDBDir(), log.WithField("component", "badger"),
	)
}

func newRateProvider() ports.RateProvider {
	timeout := config.GetDuration(config.RequestTimeoutKey)
	if config.GetString(config.RateProviderKey) == config.RateProviderBinance {
		return binance.NewRateProvider(config.GetString(config.BinanceURLKey), timeout)
	}
	return coingecko.NewRateProvider(config.GetString(config.CoinGeckoURLKey), timeout)
}

// reportUnfinishedTransfers warns the operator about transfers left pending by
// a previous run or waiting for the token leg to be retried
func reportUnfinishedTransfers(
	ctx context.Context, svc application.TransferService,
) {
	transfers, err := svc.ListTransfers(
		ctx, domain.TransferStatusPending, domain.TransferStatusBroadcasted,
		domain.TransferStatusSecondaryFailed,
	)
	if err != nil {
		log.WithError(err).Warn("failed to list unfinished transfers")
		return
	}
	for _, t := range transfers {
		log.WithFields(log.Fields{
			"transfer_id": t.ID,
			"status":      t.Status.String(),
			"txid":        t.TxID,
		}).Warn("unfinished transfer")
	}
}
