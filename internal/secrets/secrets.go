// Package secrets resolves credentials from an external secret store by
// logical id.
package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"

	"github.com/fecwatch/contribution-monitor/internal/config"
	apperrors "github.com/fecwatch/contribution-monitor/internal/errors"
)

// Logical secret ids.
const (
	FECAPIKey    = "fec-api-key"
	SMTPPassword = "smtp-password"
)

// Store defines the interface for secret lookup
type Store interface {
	Get(ctx context.Context, id string) (string, error)
}

// New returns the store selected by SECRETS_BACKEND.
func New(cfg *config.Config) (Store, error) {
	switch cfg.SecretsBackend {
	case "env":
		return EnvStore{}, nil
	default:
		return NewAWSStore(cfg.AWSRegion, cfg.ProjectID)
	}
}

// secretsAPI is the slice of the Secrets Manager client we use
type secretsAPI interface {
	GetSecretValueWithContext(ctx aws.Context, input *secretsmanager.GetSecretValueInput, opts ...request.Option) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSStore reads secrets from AWS Secrets Manager under a project prefix,
// e.g. {PROJECT_ID}/fec-api-key.
type AWSStore struct {
	api    secretsAPI
	prefix string
}

// NewAWSStore creates a Secrets Manager backed store
func NewAWSStore(region, prefix string) (*AWSStore, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	return &AWSStore{
		api:    secretsmanager.New(sess),
		prefix: prefix,
	}, nil
}

// Get fetches one secret value
func (s *AWSStore) Get(ctx context.Context, id string) (string, error) {
	name := s.prefix + "/" + id
	out, err := s.api.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", apperrors.NewConfigError(name, fmt.Sprintf("failed to read secret: %v", err))
	}
	if out.SecretString == nil {
		return "", apperrors.NewConfigError(name, "secret has no string value")
	}
	return *out.SecretString, nil
}

// EnvStore resolves secrets from environment variables for local runs:
// fec-api-key -> FEC_API_KEY.
type EnvStore struct{}

// Get fetches one secret value from the environment
func (EnvStore) Get(_ context.Context, id string) (string, error) {
	key := strings.ToUpper(strings.ReplaceAll(id, "-", "_"))
	value := os.Getenv(key)
	if value == "" {
		return "", apperrors.NewConfigError(key, "environment variable is not set")
	}
	return value, nil
}
