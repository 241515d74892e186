package telegram

import (
	"context"
)

// SetWebhook включает доставку обновлений на url; secretToken придёт в X-Telegram-Bot-Api-Secret-Token
func (c *Client) SetWebhook(ctx context.Context, url, secretToken string) error {
	reqBody := struct {
		URL            string   `json:"url"`
		AllowedUpdates []string `json:"allowed_updates"`
		SecretToken    string   `json:"secret_token,omitempty"`
	}{
		URL:            url,
		AllowedUpdates: []string{"message"},
		SecretToken:    secretToken,
	}

	if err := c.call(ctx, "setWebhook", reqBody, nil); err != nil {
		return err
	}

	c.log.Info("webhook set successfully", "url", url)
	return nil
}

// DeleteWebhook удаляет webhook (нужно вызывать перед запуском polling)
func (c *Client) DeleteWebhook(ctx context.Context) error {
	reqBody := struct {
		DropPendingUpdates bool `json:"drop_pending_updates"`
	}{
		DropPendingUpdates: true,
	}

	if err := c.call(ctx, "deleteWebhook", reqBody, nil); err != nil {
		return err
	}

	c.log.Info("webhook deleted successfully")
	return nil
}
