package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"design-order-bot/internal/logger"
	"design-order-bot/internal/telegram/response"
)

type (
	// Client - клиент Telegram Bot API
	Client struct {
		serverAddr string
		token      string

		cl *http.Client
	}

	HttpError struct {
		Url     string
		Code    int
		Message string
	}
)

func New(serverAddr, token string) *Client {
	return &Client{
		serverAddr: strings.TrimRight(serverAddr, "/"),
		token:      token,

		cl: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				IdleConnTimeout:     30 * time.Second,
				DisableKeepAlives:   false,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("Http request failed for %s with code %d and message:\n%s", e.Url, e.Code, e.Message)
}

// Invoke вызывает метод Bot API и возвращает поле result ответа
func (c *Client) Invoke(ctx context.Context, method string, data any) (json.RawMessage, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	reqUrl := c.serverAddr + "/bot" + c.token + "/" + strings.Trim(method, "/")
	// в логи токен не пишем
	logUrl := c.serverAddr + "/bot<token>/" + method

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqUrl, bytes.NewReader(body))
	if err != nil {
		err = hideURL(err, logUrl)
		logger.Warning("Error while create request for", logUrl, ":", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("---> request", req.Method, logUrl, "with body", data)

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, hideURL(err, logUrl)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	logger.Debug("<--- request", req.Method, logUrl, "with body", string(bodyBytes))
	if err != nil {
		logger.Warning("Error while read response body", err)
	}

	var envelope response.Envelope
	if jsonErr := json.Unmarshal(bodyBytes, &envelope); jsonErr != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("decode %s response: %w", method, jsonErr)
	}

	if resp.StatusCode != http.StatusOK || !envelope.Ok {
		message := envelope.Description
		if message == "" {
			message = string(bodyBytes)
		}
		return nil, &HttpError{
			Url:     logUrl,
			Code:    resp.StatusCode,
			Message: message,
		}
	}

	return envelope.Result, nil
}

// hideURL заменяет адрес с токеном в ошибке транспорта
func hideURL(err error, logUrl string) error {
	var uErr *url.Error
	if errors.As(err, &uErr) {
		uErr.URL = logUrl
	}
	return err
}
