package telegram

type Config struct {
	BotToken       string `envconfig:"BOT_TOKEN"`
	APIURL         string `envconfig:"API_URL" default:"https://api.telegram.org"`
	UseWebhook     string `envconfig:"USE_WEBHOOK"` // Railway требует строки
	WebhookURL     string `envconfig:"WEBHOOK_URL"`
	WebhookSecret  string `envconfig:"WEBHOOK_SECRET"` // [A-Za-z0-9_-]{1,256}
	PollingTimeout int    `envconfig:"POLLING_TIMEOUT" default:"30"`
	WebAppURL      string `envconfig:"WEBAPP_URL"`
	ChannelURL     string `envconfig:"CHANNEL_URL" default:"https://t.me/tezstar"`
	OrdersChatID   int64  `envconfig:"ORDERS_CHAT_ID"` // копии заказов операторам, 0 - не слать
}

// IsWebhookEnabled парсит строку UseWebhook в boolean
func (c *Config) IsWebhookEnabled() bool {
	return c.UseWebhook == "true" || c.UseWebhook == "1" || c.UseWebhook == "True"
}

func (c *Config) Enabled() bool {
	return c.BotToken != ""
}
