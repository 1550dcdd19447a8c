package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"design-order-bot/internal/errs"
	"design-order-bot/internal/logger"
	"design-order-bot/internal/order"

	"github.com/google/uuid"
)

type (
	// Client - клиент API заказов. Повторов нет: ошибка сразу уходит вызывающему.
	Client struct {
		serverAddr string
		path       string

		cl *http.Client
	}

	HttpError struct {
		Url     string
		Code    int
		Message string
	}
)

func New(serverAddr, path string, timeout time.Duration) *Client {
	return &Client{
		serverAddr: strings.TrimRight(serverAddr, "/"),
		path:       "/" + strings.Trim(path, "/"),

		cl: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("Http request failed for %s with code %d and message:\n%s", e.Url, e.Code, e.Message)
}

func (c *Client) Invoke(ctx context.Context, method string, data any) (content []byte, err error) {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(jsonData)
	}

	reqUrl := c.serverAddr + c.path
	req, err := http.NewRequestWithContext(ctx, method, reqUrl, body)
	if err != nil {
		logger.Warning("Error while create request for", reqUrl, "with method", method, ":", err)
		return nil, err
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	logger.Debug("---> request", req.Method, reqUrl, requestID)

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	logger.Debug("<--- request", req.Method, reqUrl, requestID, "with body", string(bodyBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HttpError{
			Url:     reqUrl,
			Code:    resp.StatusCode,
			Message: string(bodyBytes),
		}
	}

	return bodyBytes, nil
}

// List - все заказы, новые первыми
func (c *Client) List(ctx context.Context) ([]order.Order, error) {
	content, err := c.Invoke(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, mapError("list", 0, err)
	}

	var resp order.ListResponse
	if err := json.Unmarshal(content, &resp); err != nil {
		return nil, errs.NewSyncError("list", err)
	}
	if resp.Orders == nil {
		resp.Orders = []order.Order{}
	}
	return resp.Orders, nil
}

// UpdateStatus - идемпотентная смена статуса
func (c *Client) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	_, err := c.Invoke(ctx, http.MethodPut, order.StatusUpdateRequest{ID: id, Status: status})
	return mapError("update_status", id, err)
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.Invoke(ctx, http.MethodDelete, order.DeleteRequest{ID: id})
	return mapError("delete", id, err)
}

// Create возвращает id и created_at, назначенные сервером
func (c *Client) Create(ctx context.Context, r order.CreateRequest) (order.Created, error) {
	var created order.Created
	if err := r.Validate(); err != nil {
		return created, err
	}

	content, err := c.Invoke(ctx, http.MethodPost, r)
	if err != nil {
		return created, mapError("create", 0, err)
	}
	if err := json.Unmarshal(content, &created); err != nil {
		return created, errs.NewSyncError("create", err)
	}
	if created.ID == 0 {
		return created, errs.NewSyncError("create", errors.New("response has no order id"))
	}
	return created, nil
}

// ошибки транспорта в ошибки домена: 404 - NotFoundError, остальное - SyncError
func mapError(op string, id int64, err error) error {
	if err == nil {
		return nil
	}

	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Code == http.StatusNotFound && id != 0 {
			return errs.NewNotFoundErrorWithCause("id", id, err)
		}
		return errs.NewSyncErrorWithCode(op, httpErr.Code, err)
	}
	return errs.NewSyncError(op, err)
}
