package esi

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://esi.evetech.net/latest"
	defaultDatasource = "tranquility"
	// The Forge
	defaultRegionID = 10000002
	// DefaultLocationID es Jita IV - Moon 4 - Caldari Navy Assembly Plant.
	DefaultLocationID = 60003760

	// ESI no publica un límite fijo para /markets; 20/s deja margen
	// frente al error limit (100 errores / 60s).
	defaultRatePerSec = 20
	defaultBurst      = 5
	defaultTimeout    = 15 * time.Second

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond

	// statusErrorLimited es el 420 que ESI devuelve al agotar el error limit.
	statusErrorLimited = 420
	// errorLimitWarn: por debajo de esto se avisa del error limit restante.
	errorLimitWarn = 20
)

// Config configura el cliente ESI. Los campos a cero toman el valor por defecto.
type Config struct {
	BaseURL    string
	Datasource string
	RegionID   int64
	// LocationID filtra las órdenes a una estación. 0 = toda la región.
	LocationID int64
	RatePerSec float64
	Burst      int
	Timeout    time.Duration
	UserAgent  string
}

// Client es el HTTP client de ESI con rate limiting y retries.
type Client struct {
	http    *http.Client
	cfg     Config
	limiter *rate.Limiter
}

// NewClient crea un Client. Con la Config vacía apunta a Jita en producción.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Datasource == "" {
		cfg.Datasource = defaultDatasource
	}
	if cfg.RegionID == 0 {
		cfg.RegionID = defaultRegionID
	}
	if cfg.LocationID < 0 {
		cfg.LocationID = 0
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = defaultRatePerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
	}
}

// get hace un GET con rate limiting y retries. Devuelve los headers de la
// respuesta buena para leer la paginación.
func (c *Client) get(ctx context.Context, url string, out any) (http.Header, error) {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := c.do(ctx, url)
		if err != nil {
			if attempt == maxRetries {
				return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}
		c.checkErrorLimit(resp.Header)

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == statusErrorLimited {
			resp.Body.Close()
			slog.Warn("rate limited by ESI", "status", resp.StatusCode, "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return nil, fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		body, err := decodeBody(resp)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("decode body: %w", err)
		}

		if resp.StatusCode >= 400 {
			var e errorResponse
			raw, _ := io.ReadAll(body)
			body.Close()
			if json.Unmarshal(raw, &e) == nil && e.Error != "" {
				return nil, fmt.Errorf("client error %d: %s", resp.StatusCode, e.Error)
			}
			return nil, fmt.Errorf("client error %d: %s", resp.StatusCode, string(raw))
		}

		err = json.NewDecoder(body).Decode(out)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return resp.Header, nil
	}
	return nil, fmt.Errorf("exhausted %d retries", maxRetries)
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	// Con Accept-Encoding explícito el transport no descomprime: lo hace decodeBody.
	req.Header.Set("Accept-Encoding", "br, gzip")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	return c.http.Do(req)
}

// checkErrorLimit avisa cuando queda poco error limit de ESI.
func (c *Client) checkErrorLimit(h http.Header) {
	v := h.Get("X-Esi-Error-Limit-Remain")
	if v == "" {
		return
	}
	remain, err := strconv.Atoi(v)
	if err != nil || remain >= errorLimitWarn {
		return
	}
	slog.Warn("ESI error limit low", "remain", remain, "reset", h.Get("X-Esi-Error-Limit-Reset"))
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

// decodeBody devuelve un reader del cuerpo ya descomprimido según Content-Encoding.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "br":
		return &readCloser{Reader: brotli.NewReader(resp.Body), closer: resp.Body}, nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: zr, closer: multiCloser{zr, resp.Body}}, nil
	default:
		return resp.Body, nil
	}
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r *readCloser) Close() error { return r.closer.Close() }

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
