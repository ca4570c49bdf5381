package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-workout-keeper/internal/config"
	"github.com/MKhiriev/go-workout-keeper/internal/logger"
	"github.com/MKhiriev/go-workout-keeper/internal/utils"
	"github.com/MKhiriev/go-workout-keeper/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient
	hasher *utils.Hasher
	bridge UnauthorizedNotifier

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the resolved base URL and request
// timeout. Payloads are signed with appCfg.HashKey when it is set.
//
// bridge may be nil; otherwise it is notified on every 401 of an
// authenticated request.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, bridge UnauthorizedNotifier, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := NormalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		hasher: utils.NewHasher(appCfg.HashKey),
		bridge: bridge,
		logger: logger,
	}, nil
}

// NormalizeBaseURL adds a missing http scheme and strips trailing slashes.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) TokenExpired(now time.Time) bool {
	token := h.Token()
	if token == "" {
		return true
	}

	parsed, err := utils.ParseUnverifiedJWTToken(token)
	if err != nil {
		return true
	}
	return parsed.ExpiredAt(now)
}

// Register implements [ServerAdapter]. It POSTs the user credentials to
// POST /api/auth/register and stores the bearer token from the Authorization
// response header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get(models.HeaderAuthorization))
	if err != nil {
		return models.User{}, fmt.Errorf("register parse bearer token: %w", err)
	}

	h.SetToken(token)
	return models.User{Login: user.Login, Name: user.Name}, nil
}

// Login implements [ServerAdapter]. It POSTs login and password to
// POST /api/auth/login. A 401 here means wrong credentials and does not
// raise the unauthorized signal.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.Token, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.User{Login: user.Login, Password: user.Password}).
		Post("/api/auth/login")
	if err != nil {
		return models.Token{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	signed, err := utils.ParseBearerToken(resp.Header().Get(models.HeaderAuthorization))
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse bearer token: %w", err)
	}
	token, err := utils.ParseUnverifiedJWTToken(signed)
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse token claims: %w", err)
	}

	h.SetToken(signed)
	return token, nil
}

// Deliver implements [ServerAdapter].
//
//	create  POST   /api/{entity}
//	update  PUT    /api/{entity}/{entityID}
//	delete  DELETE /api/{entity}/{entityID}
//
// The raw payload is the body of creates and updates. 201 means applied, 200 or the
// X-Idempotent-Replay header means the key had been applied before.
func (h *httpServerAdapter) Deliver(ctx context.Context, record models.MutationRecord) (models.DeliveryResult, error) {
	collection, ok := record.EntityType.Path()
	if !ok {
		return models.DeliveryResult{}, fmt.Errorf("%w: %q", ErrUnsupportedEntity, record.EntityType)
	}

	var result models.DeliveryResponse
	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(models.HeaderIdempotencyKey, record.ClientID).
		SetHeader(models.HeaderClientTimestamp, record.CreatedAt.UTC().Format(models.ClientTimestampLayout)).
		SetResult(&result)
	// the entity id of a delete travels in the path
	if len(record.Payload) > 0 && record.Operation != models.OperationDelete {
		req.SetBody([]byte(record.Payload))
		if h.hasher.Enabled() {
			req.SetHeader(models.HeaderPayloadHash, h.hasher.Sum(record.Payload))
		}
	}

	var (
		resp *resty.Response
		err  error
	)
	switch record.Operation {
	case models.OperationCreate:
		resp, err = req.Post("/api/" + collection)
	case models.OperationUpdate:
		resp, err = req.Put("/api/" + collection + "/" + url.PathEscape(record.EntityID))
	case models.OperationDelete:
		resp, err = req.Delete("/api/" + collection + "/" + url.PathEscape(record.EntityID))
	default:
		return models.DeliveryResult{}, fmt.Errorf("%w: operation %q", ErrBadRequest, record.Operation)
	}
	if err != nil {
		return models.DeliveryResult{}, fmt.Errorf("deliver request: %w", err)
	}

	if err = h.checkAuthed(resp); err != nil {
		h.logger.Debug().
			Err(err).
			Str("func", "httpServerAdapter.Deliver").
			Str("client_id", record.ClientID).
			Msg("mutation was not accepted")
		return models.DeliveryResult{}, err
	}

	return models.DeliveryResult{
		ServerID: result.ID,
		Replayed: resp.StatusCode() == http.StatusOK || strings.EqualFold(resp.Header().Get(models.HeaderIdempotentReplay), "true"),
	}, nil
}

// Ping implements [ServerAdapter]. It calls GET /api/ping.
func (h *httpServerAdapter) Ping(ctx context.Context) (models.PingResponse, error) {
	var ping models.PingResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&ping).
		Get("/api/ping")
	if err != nil {
		return models.PingResponse{}, fmt.Errorf("ping request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PingResponse{}, err
	}

	return ping, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader(models.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

// checkAuthed maps the response and raises the unauthorized signal on 401.
func (h *httpServerAdapter) checkAuthed(resp *resty.Response) error {
	err := mapHTTPError(resp)
	if errors.Is(err, ErrUnauthorized) && h.bridge != nil {
		h.bridge.NotifyUnauthorized()
	}
	return err
}
