package client

import (
	"context"

	"design-order-bot/internal/telegram/requests"
)

func (c *Client) SetHook(ctx context.Context, hookAddr, secret string) error {
	_, err := c.Invoke(ctx, "setWebhook", requests.HookSetupRequest{
		URL:            hookAddr,
		SecretToken:    secret,
		AllowedUpdates: []string{"message", "callback_query"},
	})
	return err
}

func (c *Client) DeleteHook(ctx context.Context) error {
	_, err := c.Invoke(ctx, "deleteWebhook", requests.HookDeleteRequest{})
	return err
}
