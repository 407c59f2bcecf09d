// Package webhook busca o feed bruto de leads exposto pelo webhook externo.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotConfigured indica que WEBHOOK_URL não foi definida.
	ErrNotConfigured = errors.New("webhook url not configured")
	// ErrMaxRetries indica que todas as tentativas falharam.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// maxBodySize limita a resposta lida do webhook.
const maxBodySize = 50 << 20

// HTTPClient é o subconjunto de *http.Client usado pelo Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError é uma resposta fora da faixa 2xx.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string { return "webhook responded " + e.Status }

// retryable: erros de rede, 429 e 5xx. Demais 4xx falham na hora.
func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Options configura as tentativas.
type Options struct {
	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Client faz GET no webhook com retentativas e backoff exponencial com jitter.
type Client struct {
	url    string
	http   HTTPClient
	opts   Options
	log    *zap.Logger
	jitter func(time.Duration) time.Duration
}

func NewClient(url string, httpClient HTTPClient, opts Options, log *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 200 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		url:  url,
		http: httpClient,
		opts: opts,
		log:  log,
		jitter: func(d time.Duration) time.Duration {
			return time.Duration(rand.Int63n(int64(d)/2 + 1))
		},
	}
}

// URL devolve o endereço configurado.
func (c *Client) URL() string { return c.url }

// Fetch devolve o corpo bruto da resposta. Cada tentativa tem seu próprio timeout.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	attempts := c.opts.MaxRetries + 1
	delay := c.opts.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.fetchOnce(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == attempts {
			break
		}

		wait := delay + c.jitter(delay)
		c.log.Warn("webhook fetch failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > c.opts.MaxDelay {
			delay = c.opts.MaxDelay
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrMaxRetries, attempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("error reading webhook body: %w", err)
	}
	return body, nil
}
