package github

import (
	"context"
	"fmt"

	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
)

// SecretsClient is the subset of the GitHub API used to publish secrets.
type SecretsClient interface {
	GetPublicKey(ctx context.Context) (*model.PublicKey, error)
	PutSecret(ctx context.Context, name string, secret model.EncryptedSecret) error
}

// SecretPublisherConfig is the configuration of the secret publisher.
type SecretPublisherConfig struct {
	Client SecretsClient
	Logger log.Logger
}

func (c *SecretPublisherConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("client is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "github.SecretPublisher"})
	return nil
}

// SecretPublisher stores plain values as encrypted repository secrets.
type SecretPublisher struct {
	client SecretsClient
	logger log.Logger
}

// NewSecretPublisher returns a new secret publisher.
func NewSecretPublisher(cfg SecretPublisherConfig) (*SecretPublisher, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &SecretPublisher{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// Publish fetches the repository public key, seals value with it and stores it as
// the named secret.
func (s *SecretPublisher) Publish(ctx context.Context, name, value string) error {
	pk, err := s.client.GetPublicKey(ctx)
	if err != nil {
		return err
	}

	encrypted, err := SealSecret(pk.Key, value)
	if err != nil {
		return fmt.Errorf("could not encrypt secret %s: %w", name, err)
	}

	err = s.client.PutSecret(ctx, name, model.EncryptedSecret{
		KeyID:          pk.ID,
		EncryptedValue: encrypted,
	})
	if err != nil {
		return err
	}

	s.logger.WithCtxValues(ctx).Debugf("Secret %s sealed with key %s", name, pk.ID)

	return nil
}
