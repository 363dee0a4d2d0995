// Package sessiond talks to the session daemon that owns account
// identities: bearer-token verification for incoming requests and
// email lookups for roster invites.
package sessiond

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/platform/cache"
	"github.com/courtside-app/courtside-api/internal/platform/logging"
	"github.com/courtside-app/courtside-api/internal/platform/resilience"
	"github.com/courtside-app/courtside-api/internal/usecase"
)

const (
	defaultRequestTimeout = 5 * time.Second
	maxResponseBytes      = 1 << 20
)

// errSessiondTransient marks failures that should count against the
// circuit breaker: network errors and 5xx responses, not auth denials.
var errSessiondTransient = errors.New("sessiond transient failure")

type Config struct {
	BaseURL        string
	VerifyPath     string
	LookupPath     string
	TokenCacheTTL  time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient *http.Client
	verifyURL  string
	lookupURL  string
	breaker    *resilience.CircuitBreaker
	tokenCache *cache.Store
	flight     resilience.SingleFlight
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.CircuitBreaker
	if cfg.CircuitBreaker.Enabled {
		normalized := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
		breaker = resilience.NewCircuitBreaker(normalized.FailureThreshold, normalized.OpenTimeout, normalized.HalfOpenMaxReq)
	}

	var tokenCache *cache.Store
	if cfg.TokenCacheTTL > 0 {
		tokenCache = cache.NewStore(cfg.TokenCacheTTL)
	}

	return &Client{
		httpClient: httpClient,
		verifyURL:  buildURL(cfg.BaseURL, cfg.VerifyPath),
		lookupURL:  buildURL(cfg.BaseURL, cfg.LookupPath),
		breaker:    breaker,
		tokenCache: tokenCache,
		logger:     logger,
	}
}

// VerifyAccessToken resolves a bearer token to a principal. Verified
// tokens are cached briefly, keyed by a digest so raw tokens never sit
// in memory; concurrent misses for the same token collapse into one
// upstream call.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := "token:" + hashToken(token)
	if c.tokenCache != nil {
		if cached, ok := c.tokenCache.Get(ctx, cacheKey); ok {
			return cached.(user.Principal), nil
		}
	}

	value, err, _ := c.flight.Do(cacheKey, func() (any, error) {
		principal, err := c.verify(ctx, token)
		if err != nil {
			return nil, err
		}
		if c.tokenCache != nil {
			c.tokenCache.Set(ctx, cacheKey, principal)
		}
		return principal, nil
	})
	if err != nil {
		return user.Principal{}, err
	}

	return value.(user.Principal), nil
}

// LookupByEmail resolves an account by email address for team invites.
func (c *Client) LookupByEmail(ctx context.Context, email string) (user.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return user.Principal{}, fmt.Errorf("%w: email is required", usecase.ErrInvalidInput)
	}

	var decoded accountResponse
	err := c.do(ctx, c.lookupURL, lookupRequest{Email: email}, &decoded)
	if err != nil {
		if errors.Is(err, errStatusNotFound) {
			return user.Principal{}, fmt.Errorf("%w: account for %s", usecase.ErrNotFound, email)
		}
		return user.Principal{}, err
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid lookup response: user_id is empty")
	}

	return decoded.principal(), nil
}

func (c *Client) verify(ctx context.Context, token string) (user.Principal, error) {
	var decoded verifyResponse
	if err := c.do(ctx, c.verifyURL, verifyRequest{Token: token}, &decoded); err != nil {
		if errors.Is(err, errStatusDenied) {
			return user.Principal{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
		}
		return user.Principal{}, err
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid verify response: user_id is empty")
	}

	return decoded.accountResponse.principal(), nil
}

var (
	errStatusDenied   = errors.New("sessiond denied the request")
	errStatusNotFound = errors.New("sessiond resource not found")
)

// do runs one JSON POST round trip through the circuit breaker.
func (c *Client) do(ctx context.Context, endpoint string, payload any, out any) error {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return fmt.Errorf("%w: sessiond circuit open", usecase.ErrDependencyUnavailable)
		}
	}

	err := c.roundTrip(ctx, endpoint, payload, out)
	if c.breaker != nil {
		if errors.Is(err, errSessiondTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if errors.Is(err, errSessiondTransient) {
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, endpoint string, payload any, out any) error {
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sessiond request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create sessiond request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(errSessiondTransient, "request sessiond: %v", err)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return errors.Wrapf(errSessiondTransient, "read sessiond response: %v", err)
	}
	body := buf.Bytes()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errStatusDenied
	case resp.StatusCode == http.StatusNotFound:
		return errStatusNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Warn("sessiond 5xx response", "status_code", resp.StatusCode)
		return errors.Wrapf(errSessiondTransient, "sessiond status %d", resp.StatusCode)
	default:
		return fmt.Errorf("sessiond request failed with status %d", resp.StatusCode)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal sessiond response: %w", err)
	}
	return nil
}

type verifyRequest struct {
	Token string `json:"token"`
}

type lookupRequest struct {
	Email string `json:"email"`
}

type accountResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Plan   string `json:"plan"`
}

func (r accountResponse) principal() user.Principal {
	return user.Principal{
		UserID: r.UserID,
		Email:  r.Email,
		Name:   r.Name,
		Plan:   user.Plan(r.Plan),
	}
}

type verifyResponse struct {
	accountResponse
	Active bool `json:"active"`
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
