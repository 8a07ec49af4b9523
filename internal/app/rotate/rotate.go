package rotate

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
)

// DefaultSecretName is the repository secret that holds the access token.
const DefaultSecretName = "IMGUR_ACCESS_TOKEN"

// TokenClient probes and refreshes access tokens.
type TokenClient interface {
	CheckToken(ctx context.Context, token string) error
	RefreshToken(ctx context.Context, creds model.ClientCredentials) (string, error)
}

//go:generate mockery --case underscore --output rotatemock --outpkg rotatemock --name TokenClient

// SecretPublisher stores a value as a named secret.
type SecretPublisher interface {
	Publish(ctx context.Context, name, value string) error
}

//go:generate mockery --case underscore --output rotatemock --outpkg rotatemock --name SecretPublisher

// ServiceConfig is the configuration for the rotate service.
type ServiceConfig struct {
	TokenClient TokenClient
	// Publisher is only required for publishing requests.
	Publisher SecretPublisher
	Logger    log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.TokenClient == nil {
		return fmt.Errorf("token client is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Rotate"})
	return nil
}

// Service keeps the access token alive.
type Service struct {
	tokens    TokenClient
	publisher SecretPublisher
	logger    log.Logger
}

// NewService creates a new rotate service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		tokens:    cfg.TokenClient,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}, nil
}

// Request is a rotation request.
type Request struct {
	State model.CredentialState
	// Publish stores a refreshed token as SecretName instead of only reporting it.
	Publish    bool
	SecretName string
}

func (r *Request) defaults() error {
	if r.SecretName == "" {
		r.SecretName = DefaultSecretName
	}
	return nil
}

// Result is the outcome of a rotation.
type Result struct {
	Final model.RotationState
	// Transitions are the visited states in order, starting at unknown.
	Transitions []model.RotationState
	// State is the credential state after the rotation, it holds the refreshed token
	// when one was obtained and it's only valid when the probe accepted the token.
	State     model.CredentialState
	Refreshed bool
	Published bool
}

// maxTransitions bounds a run, the longest path has 6 transitions.
const maxTransitions = 16

// Run drives the rotation state machine until a terminal state is reached.
// A rejected probe is recovered as an invalid token, any other failure aborts the run.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.defaults(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.Publish && s.publisher == nil {
		return nil, fmt.Errorf("publishing requires a secret publisher: %w", model.ErrNotValid)
	}

	// Validity is always decided by this run's probe.
	cred := req.State
	cred.Valid = false

	r := &rotation{
		svc:    s,
		req:    req,
		cred:   cred,
		state:  model.RotationStateUnknown,
		logger: s.logger.WithCtxValues(ctx),
	}
	r.res.Transitions = []model.RotationState{r.state}

	for !r.state.Terminal() {
		if len(r.res.Transitions) > maxTransitions {
			return nil, fmt.Errorf("rotation did not finish, last state %q", r.state)
		}

		transition, ok := transitions[r.state]
		if !ok {
			return nil, fmt.Errorf("no transition from state %q", r.state)
		}

		next, err := transition(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("rotation failed on %q state: %w", r.state, err)
		}

		r.logger.Debugf("Rotation state %s -> %s", r.state, next)
		r.state = next
		r.res.Transitions = append(r.res.Transitions, next)
	}

	r.res.Final = r.state
	r.res.State = r.cred

	return &r.res, nil
}

type rotation struct {
	svc    *Service
	req    Request
	cred   model.CredentialState
	state  model.RotationState
	res    Result
	logger log.Logger
}

type transitionFunc func(ctx context.Context, r *rotation) (model.RotationState, error)

var transitions = map[model.RotationState]transitionFunc{
	model.RotationStateUnknown:    fromUnknown,
	model.RotationStateProbing:    fromProbing,
	model.RotationStateInvalid:    fromInvalid,
	model.RotationStateRefreshing: fromRefreshing,
	model.RotationStateRefreshed:  fromRefreshed,
	model.RotationStatePublishing: fromPublishing,
}

func fromUnknown(_ context.Context, _ *rotation) (model.RotationState, error) {
	return model.RotationStateProbing, nil
}

func fromProbing(ctx context.Context, r *rotation) (model.RotationState, error) {
	if r.cred.AccessToken == "" {
		r.logger.Infof("No access token held, rotation required")
		return model.RotationStateInvalid, nil
	}

	err := r.svc.tokens.CheckToken(ctx, r.cred.AccessToken)
	switch {
	case err == nil:
		r.cred.Valid = true
		r.logger.Infof("Access token is valid")
		return model.RotationStateValid, nil
	case ctx.Err() != nil:
		return "", ctx.Err()
	case errors.Is(err, model.ErrRemoteAPI):
		r.logger.Infof("Access token rejected: %s", err)
	default:
		r.logger.Warningf("Access token probe failed, assuming it's invalid: %s", err)
	}

	return model.RotationStateInvalid, nil
}

func fromInvalid(_ context.Context, _ *rotation) (model.RotationState, error) {
	return model.RotationStateRefreshing, nil
}

func fromRefreshing(ctx context.Context, r *rotation) (model.RotationState, error) {
	token, err := r.svc.tokens.RefreshToken(ctx, r.req.State.Credentials)
	if err != nil {
		return "", fmt.Errorf("could not refresh access token: %w", err)
	}

	r.cred.AccessToken = token
	r.res.Refreshed = true
	r.logger.Infof("Access token refreshed")

	return model.RotationStateRefreshed, nil
}

func fromRefreshed(_ context.Context, r *rotation) (model.RotationState, error) {
	if !r.req.Publish {
		return model.RotationStatePrinted, nil
	}
	return model.RotationStatePublishing, nil
}

func fromPublishing(ctx context.Context, r *rotation) (model.RotationState, error) {
	if err := r.svc.publisher.Publish(ctx, r.req.SecretName, r.cred.AccessToken); err != nil {
		return "", fmt.Errorf("could not publish access token: %w", err)
	}

	r.res.Published = true
	r.logger.Infof("Access token published as %s secret", r.req.SecretName)

	return model.RotationStatePublished, nil
}
