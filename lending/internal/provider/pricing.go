package provider

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Astemirdum/library-lending/lending/config"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/circuit_breaker"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Price struct {
	TitleID string      `json:"titleUid"`
	Price   model.Money `json:"price"`
}

type PricingService struct {
	log    *zap.Logger
	client *http.Client
	cfg    config.PricingHTTPServer
	cb     circuit_breaker.CircuitBreaker
}

func NewPricingService(log *zap.Logger, cfg config.PricingHTTPServer) *PricingService {
	return &PricingService{
		log:    log.Named("pricing"),
		client: &http.Client{Timeout: 5 * time.Second},
		cfg:    cfg,
		cb:     newCB(),
	}
}

func (s *PricingService) CB() circuit_breaker.CircuitBreaker {
	return s.cb
}

// Price returns ok=false when the pricing service does not know the title.
func (s *PricingService) Price(ctx context.Context, titleID string) (model.Money, bool, error) {
	var (
		p     Price
		found bool
	)
	err := s.cb.Call(func() error {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			fmt.Sprintf("http://%s/api/v1/titles/%s/price", net.JoinHostPort(s.cfg.Host, s.cfg.Port), titleID),
			http.NoBody)
		if err != nil {
			return err
		}
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
		found, err = doJSON(s.client, req, &p)
		return err
	})
	if err != nil {
		s.log.Warn("price lookup", zap.String("title", titleID), zap.Error(err))
		return 0, false, errors.Wrap(err, "pricing service")
	}
	if !found {
		return 0, false, nil
	}
	if p.Price < 0 {
		return 0, false, errors.Errorf("pricing service: negative price %d for %s", p.Price, titleID)
	}
	return p.Price, true, nil
}

// StoredPrice never knows a price, so the engine falls back to the price stored on the title.
type StoredPrice struct{}

func (StoredPrice) Price(context.Context, string) (model.Money, bool, error) {
	return 0, false, nil
}
