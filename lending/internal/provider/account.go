package provider

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Astemirdum/library-lending/lending/config"
	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/Astemirdum/library-lending/pkg/circuit_breaker"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AccountService struct {
	log    *zap.Logger
	client *http.Client
	cfg    config.AccountHTTPServer
	cb     circuit_breaker.CircuitBreaker
}

func NewAccountService(log *zap.Logger, cfg config.AccountHTTPServer) *AccountService {
	return &AccountService{
		log:    log.Named("account"),
		client: &http.Client{Timeout: 5 * time.Second},
		cfg:    cfg,
		cb:     newCB(),
	}
}

func (s *AccountService) CB() circuit_breaker.CircuitBreaker {
	return s.cb
}

// Account fetches the role and status of a borrower in one request.
func (s *AccountService) Account(ctx context.Context, userID string) (model.Account, error) {
	var (
		acc   model.Account
		found bool
	)
	err := s.cb.Call(func() error {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			fmt.Sprintf("http://%s/api/v1/users/%s", net.JoinHostPort(s.cfg.Host, s.cfg.Port), userID),
			http.NoBody)
		if err != nil {
			return err
		}
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
		auth.SetAuthHeader(ctx, req)
		found, err = doJSON(s.client, req, &acc)
		return err
	})
	if err != nil {
		s.log.Warn("account lookup", zap.String("user", userID), zap.Error(err))
		return model.Account{}, errors.Wrap(err, "account service")
	}
	if !found {
		return model.Account{}, errors.Wrapf(errs.ErrNotFound, "user %s", userID)
	}
	return acc, nil
}

// StaticAccounts answers from the identity forwarded by the gateway when no
// account service is configured. Every account is active. Only the caller's own
// account carries the forwarded role; anyone a caller acts for is a member.
type StaticAccounts struct{}

func (StaticAccounts) Account(ctx context.Context, userID string) (model.Account, error) {
	acc := model.Account{Username: userID, Role: model.RoleMember, Active: true}
	if name, err := auth.GetUserName(ctx); err == nil && name == userID {
		if role := auth.GetUserRole(ctx); role != "" {
			acc.Role = model.Role(role)
		}
	}
	return acc, nil
}
