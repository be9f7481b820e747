// Package daemon реализует клиент фонового HTTP-сервиса антивирусного
// сканера. Многие вендорские движки работают как локальный демон
// с REST-интерфейсом: клиент опрашивает его готовность, отправляет
// артефакты на сканирование и переводит ответы в общий конверт
// результата. Каждый запрос учитывается в метриках microengine.http
// и microengine.request.time.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/levinOo/go-microengine-utils/internal/logger"
	"github.com/levinOo/go-microengine-utils/internal/pool"
	"github.com/levinOo/go-microengine-utils/metrics"
	"github.com/levinOo/go-microengine-utils/scan"
)

// Client представляет клиента сервиса сканера.
type Client struct {
	base    string
	http    *resty.Client
	h       *metrics.Handle
	log     *zap.SugaredLogger
	retries []time.Duration
}

// Option настраивает Client.
type Option func(*Client)

// WithLogger задает логгер клиента.
func WithLogger(sugar *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = sugar }
}

// WithRetryIntervals заменяет паузы между повторами при отказе соединения.
func WithRetryIntervals(intervals []time.Duration) Option {
	return func(c *Client) { c.retries = intervals }
}

// WithTimeout ограничивает длительность одного HTTP-запроса.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// NewClient создает клиент сервиса сканера по базовому URL.
// Отказ соединения повторяется с паузами 1с, 3с и 5с: демон сканера
// обычно поднимается рядом с движком и несколько секунд недоступен
// после рестарта.
func NewClient(baseURL string, h *metrics.Handle, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    resty.New(),
		h:       h,
		retries: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.NewLogger()
	}
	return c
}

// Ready проверяет готовность сервиса. Любой сбой превращается
// в ошибку ServerNotReady.
func (c *Client) Ready(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/ready", nil)
	if err != nil {
		return &scan.Error{Event: scan.EventServerNotReady, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return scan.NewServerNotReadyError(fmt.Sprintf("status %d", resp.StatusCode()))
	}
	return nil
}

// WaitReady опрашивает сервис с указанным интервалом, пока он не станет
// готов или не истечет ctx.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.Ready(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return scan.NewServerNotReadyError(ctx.Err().Error())
		case <-ticker.C:
		}
	}
}

// ScanBytes отправляет содержимое артефакта на сканирование.
func (c *Client) ScanBytes(ctx context.Context, content []byte) (*scan.Result, error) {
	resp, err := c.do(ctx, http.MethodPost, "/scan", content)
	if err != nil {
		return nil, err
	}
	return c.parseResult(resp)
}

// ScanFile просит сервис просканировать файл по пути. Путь должен быть
// виден демону, то есть движок и демон делят файловую систему.
func (c *Client) ScanFile(ctx context.Context, path string) (*scan.Result, error) {
	resp, err := c.do(ctx, http.MethodPost, "/scan/file", map[string]string{"path": path})
	if err != nil {
		return nil, err
	}
	return c.parseResult(resp)
}

// do выполняет запрос с повтором при отказе соединения и учитывает его
// в метриках. Ошибки транспорта возвращаются как ServerTransportError.
func (c *Client) do(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	timer := c.h.Timer(metrics.HTTPResponseTimer, "path:"+path)
	defer timer.Stop()

	resp, err := c.attempt(ctx, method, path, body)

	if errors.Is(err, syscall.ECONNREFUSED) {
	retry:
		for i, interval := range c.retries {
			c.log.Infow("retrying daemon request", "attempt", i+1, "error", err)

			select {
			case <-time.After(interval):
			case <-ctx.Done():
				err = ctx.Err()
				break retry
			}

			resp, err = c.attempt(ctx, method, path, body)
			if err == nil {
				c.log.Infow("daemon request succeeded after retries", "attempts", i+1)
				break
			}
			if !errors.Is(err, syscall.ECONNREFUSED) {
				break
			}
		}
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	c.h.Increment(metrics.HTTPRequest,
		"method:"+method,
		"path:"+path,
		"status:"+strconv.Itoa(status),
	)

	if err != nil {
		return nil, scan.NewServerTransportError(err)
	}
	return resp, nil
}

func (c *Client) attempt(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx).SetHeader("Accept", "application/json")

	switch b := body.(type) {
	case nil:
	case []byte:
		req.SetHeader("Content-Type", "application/octet-stream").SetBody(b)
	default:
		req.SetHeader("Content-Type", "application/json").SetBody(b)
	}

	return req.Execute(method, c.base+path)
}

// responsePool переиспользует конверты ответов между запросами.
var responsePool = pool.New[*scanResponse](func() *scanResponse { return &scanResponse{} })

// parseResult переводит ответ сервиса в общий конверт результата.
func (c *Client) parseResult(resp *resty.Response) (*scan.Result, error) {
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusServiceUnavailable:
		return nil, scan.NewServerNotReadyError(resp.String())
	default:
		return nil, scan.NewMalformedResponseError(fmt.Sprintf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	env := responsePool.Get()
	defer responsePool.Put(env)

	if err := env.UnmarshalJSON(resp.Body()); err != nil {
		return nil, scan.NewMalformedResponseError(resp.String())
	}

	if env.Error != "" {
		return nil, &scan.Error{Event: env.Error}
	}

	result := &scan.Result{Bit: true, Verdict: env.Infected}
	if env.MalwareFamily != "" {
		result.Metadata = &scan.Verdict{MalwareFamily: env.MalwareFamily}
	}
	return result, nil
}
