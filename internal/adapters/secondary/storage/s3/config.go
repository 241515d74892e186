package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Host       string        `envconfig:"HOST"`                     // localhost:9000, пусто - аватары не зеркалируются
	AccessKey  string        `envconfig:"ACCESS_KEY"`               // minioadmin
	SecretKey  string        `envconfig:"SECRET_KEY"`               // minioadmin
	Bucket     string        `envconfig:"BUCKET" default:"avatars"` // avatars
	Region     string        `envconfig:"REGION" default:"us-east-1"`
	UseSSL     bool          `envconfig:"USE_SSL" default:"false"` // false для локальной разработки
	PresignTTL time.Duration `envconfig:"PRESIGN_TTL" default:"1h"`
}

func (c *Config) Enabled() bool {
	return c != nil && c.Host != ""
}

// NewClient создаёт MinIO клиент без обращения к серверу
func (c *Config) NewClient() (*minio.Client, error) {
	client, err := minio.New(c.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

// Connect создаёт клиент и проверяет, что bucket существует
func (c *Config) Connect(ctx context.Context) (*minio.Client, error) {
	client, err := c.NewClient()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", c.Bucket)
	}

	return client, nil
}
