package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/dogecustody/internal/core/application"
	"github.com/tdex-network/dogecustody/internal/core/ports"
	"github.com/tdex-network/dogecustody/internal/interfaces"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// ServiceOpts is the struct given to NewService. ConversionSvc, PaymentSvc
// and PubSub are optional, the related routes reply with 501 when missing.
type ServiceOpts struct {
	Address string

	DepositSvc    application.DepositService
	TransferSvc   application.TransferService
	ConversionSvc application.ConversionService
	PaymentSvc    application.PaymentService
	PubSub        ports.PubSub
}

func (o ServiceOpts) validate() error {
	if o.Address == "" {
		return fmt.Errorf("missing listening address")
	}
	if o.DepositSvc == nil {
		return fmt.Errorf("missing deposit service")
	}
	if o.TransferSvc == nil {
		return fmt.Errorf("missing transfer service")
	}
	return nil
}

// Service is the REST interface of the custodian
type Service struct {
	server *http.Server
}

// NewService returns the REST interface listening on the given address
func NewService(opts ServiceOpts) (*Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	router, err := newRouter(opts)
	if err != nil {
		return nil, err
	}

	return &Service{
		server: &http.Server{
			Addr:              opts.Address,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

var _ interfaces.Service = (*Service)(nil)

// Handler returns the root handler of the service
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) Start() error {
	errC := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	// Give the listener the chance to fail on bind errors.
	select {
	case err := <-errC:
		return err
	case <-time.After(100 * time.Millisecond):
	}

	log.Infof("http interface is listening on %s", s.server.Addr)
	return nil
}

func (s *Service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
		return
	}
	log.Info("http interface stopped")
}

func newRouter(opts ServiceOpts) (*gin.Engine, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := newMetrics(registry)
	if err != nil {
		return nil, err
	}

	h := &handler{
		depositSvc:    opts.DepositSvc,
		transferSvc:   opts.TransferSvc,
		conversionSvc: opts.ConversionSvc,
		paymentSvc:    opts.PaymentSvc,
		pubsub:        opts.PubSub,
		metrics:       m,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), m.instrument())

	router.GET("/metrics", gin.WrapH(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	))

	v1 := router.Group("/v1")
	v1.GET("/users/:id/address", h.getUserAddress)
	v1.POST("/users/:id/transfers", h.transferFromUser)
	v1.POST("/users/:id/token-transfers", h.transferToToken)
	v1.GET("/addresses/:addr/balance", h.getBalance)
	v1.POST("/transfers", h.transferFromPrimary)
	v1.GET("/transfers", h.listTransfers)
	v1.GET("/transfers/:id", h.getTransfer)
	v1.POST("/transfers/:id/complete", h.completeTransfer)
	v1.POST("/quoted-transfers", h.transferQuoted)
	v1.GET("/rates", h.getRate)
	v1.POST("/pix/charges", h.createCharge)
	v1.GET("/pix/charges/:id", h.getCharge)
	v1.POST("/pix/payouts", h.payoutToBank)
	v1.POST("/webhooks", h.addWebhook)
	v1.GET("/webhooks", h.listWebhooks)
	v1.DELETE("/webhooks/:id", h.removeWebhook)

	return router, nil
}
