package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

// Config конфигурация Kafka producer для событий заказов
type Config struct {
	Brokers          string        `envconfig:"BROKERS"` // "broker1:9092,broker2:9092", пусто - события не публикуются
	Topic            string        `envconfig:"TOPIC" default:"yma_star.order_events"`
	ClientID         string        `envconfig:"CLIENT_ID" default:"yma_star"`
	SecurityProtocol string        `envconfig:"SECURITY_PROTOCOL"` // "SASL_SSL", "SASL_PLAINTEXT", "PLAINTEXT"
	SASLMechanism    string        `envconfig:"SASL_MECHANISM"`    // только "PLAIN"
	SASLUsername     string        `envconfig:"SASL_USERNAME"`
	SASLPassword     string        `envconfig:"SASL_PASSWORD"`
	SendTimeout      time.Duration `envconfig:"SEND_TIMEOUT" default:"5s"`
}

func (c *Config) Enabled() bool {
	return c != nil && c.Brokers != ""
}

// GetBrokers возвращает список брокеров из строки
func (c *Config) GetBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// saramaConfig конфиг sync producer: ждём подтверждения от всех реплик
func (c *Config) saramaConfig() (*sarama.Config, error) {
	config := sarama.NewConfig()
	config.ClientID = c.ClientID
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	if c.SendTimeout > 0 {
		config.Producer.Timeout = c.SendTimeout
		config.Net.DialTimeout = c.SendTimeout
		config.Net.WriteTimeout = c.SendTimeout
		config.Net.ReadTimeout = c.SendTimeout
	}

	switch c.SecurityProtocol {
	case "", "PLAINTEXT":
	case "SASL_SSL", "SASL_PLAINTEXT":
		if c.SASLMechanism != "" && c.SASLMechanism != sarama.SASLTypePlaintext {
			return nil, fmt.Errorf("sasl mechanism %s is not supported", c.SASLMechanism)
		}
		config.Net.SASL.Enable = true
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		config.Net.SASL.User = c.SASLUsername
		config.Net.SASL.Password = c.SASLPassword
		config.Net.TLS.Enable = c.SecurityProtocol == "SASL_SSL"
	default:
		return nil, fmt.Errorf("security protocol %s is not supported", c.SecurityProtocol)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kafka config: %w", err)
	}
	return config, nil
}
