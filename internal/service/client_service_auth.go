package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-workout-keeper/internal/adapter"
	"github.com/MKhiriev/go-workout-keeper/internal/config"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// SessionBridge is the unauthorized signal the auth service answers.
type SessionBridge interface {
	OnUnauthorized(handler func()) (cancel func())
	Clear()
}

// SyncResumer restarts draining after the session is re-established.
type SyncResumer interface {
	Resume()
}

type clientAuthService struct {
	adapter adapter.ServerAdapter
	bridge  SessionBridge
	engine  SyncResumer
	timeout time.Duration
	now     func() time.Time

	mu          sync.Mutex
	credentials models.User

	relogging atomic.Bool
	relogins  sync.WaitGroup

	logger *logger.Logger
}

// NewClientAuthService remembers the configured login and password for
// unattended re-authentication.
func NewClientAuthService(serverAdapter adapter.ServerAdapter, bridge SessionBridge, engine SyncResumer, cfg config.ClientAdapter, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		adapter:     serverAdapter,
		bridge:      bridge,
		engine:      engine,
		timeout:     cfg.RequestTimeout,
		now:         time.Now,
		credentials: models.User{Login: cfg.Login, Password: cfg.Password},
		logger:      logger,
	}
}

func (a *clientAuthService) Register(ctx context.Context, user models.User) error {
	if user.Login == "" || user.Password == "" {
		return ErrInvalidDataProvided
	}

	if _, err := a.adapter.Register(ctx, user); err != nil {
		a.logger.Err(err).Str("func", "clientAuthService.Register").Str("login", user.Login).Msg("registration failed")
		return mapAuthError(err, ErrRegisterOnServer)
	}

	a.remember(user)
	a.established()
	return nil
}

func (a *clientAuthService) Login(ctx context.Context, user models.User) error {
	if user.Login == "" || user.Password == "" {
		return ErrInvalidDataProvided
	}

	token, err := a.adapter.Login(ctx, user)
	if err != nil {
		a.logger.Err(err).Str("func", "clientAuthService.Login").Str("login", user.Login).Msg("login failed")
		return mapAuthError(err, ErrLoginOnServer)
	}

	a.logger.Info().
		Str("func", "clientAuthService.Login").
		Str("login", user.Login).
		Int64("user_id", token.UserID).
		Msg("session established")

	a.remember(user)
	a.established()
	return nil
}

func (a *clientAuthService) EnsureSession(ctx context.Context) error {
	if !a.adapter.TokenExpired(a.now()) {
		return nil
	}

	credentials := a.stored()
	if credentials.Login == "" || credentials.Password == "" {
		return ErrNoCredentials
	}
	return a.Login(ctx, credentials)
}

// Watch registers the re-login handler on the bridge. The bridge calls it
// from the goroutine that saw the 401, so the login runs in its own.
func (a *clientAuthService) Watch(ctx context.Context) (cancel func()) {
	unregister := a.bridge.OnUnauthorized(func() {
		if !a.relogging.CompareAndSwap(false, true) {
			return
		}

		a.relogins.Add(1)
		go func() {
			defer a.relogins.Done()
			defer a.relogging.Store(false)
			a.relogin(ctx)
		}()
	})

	return func() {
		unregister()
		a.relogins.Wait()
	}
}

func (a *clientAuthService) relogin(ctx context.Context) {
	credentials := a.stored()
	if credentials.Login == "" || credentials.Password == "" {
		a.logger.Warn().Str("func", "clientAuthService.relogin").Msg("session rejected and no credentials stored, waiting for login")
		return
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	if err := a.Login(ctx, credentials); err != nil {
		a.logger.Err(fmt.Errorf("re-login: %w", err)).Str("func", "clientAuthService.relogin").Msg("automatic re-authentication failed")
	}
}

func (a *clientAuthService) remember(user models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.credentials = models.User{Login: user.Login, Password: user.Password}
}

func (a *clientAuthService) stored() models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.credentials
}

func (a *clientAuthService) established() {
	a.bridge.Clear()
	a.engine.Resume()
}
