package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/renderci/internal/app/rotate"
	"github.com/slok/renderci/internal/github"
	"github.com/slok/renderci/internal/imgur"
	"github.com/slok/renderci/internal/model"
)

// TokenCommand is the parent command for access token subcommands.
type TokenCommand struct {
	Cmd *kingpin.CmdClause

	accessToken  string
	refreshToken string
	clientID     string
	clientSecret string
}

// NewTokenCommand returns the token parent command.
func NewTokenCommand(app *kingpin.Application) *TokenCommand {
	c := &TokenCommand{}

	c.Cmd = app.Command("token", "Manage the image hosting access token.")
	c.Cmd.Flag("imgur-access-token", "Currently held access token.").Envar("IMGUR_ACCESS_TOKEN").StringVar(&c.accessToken)
	c.Cmd.Flag("imgur-refresh-token", "Refresh token used to obtain new access tokens.").Envar("IMGUR_REFRESH_TOKEN").StringVar(&c.refreshToken)
	c.Cmd.Flag("imgur-client-id", "OAuth2 client id.").Envar("IMGUR_CLIENT_ID").StringVar(&c.clientID)
	c.Cmd.Flag("imgur-client-secret", "OAuth2 client secret.").Envar("IMGUR_CLIENT_SECRET").StringVar(&c.clientSecret)

	return c
}

func (c TokenCommand) credentialState() model.CredentialState {
	return model.CredentialState{
		AccessToken: c.accessToken,
		Credentials: model.ClientCredentials{
			RefreshToken: c.refreshToken,
			ClientID:     c.clientID,
			ClientSecret: c.clientSecret,
		},
	}
}

// TokenRotateCommand probes the access token and rotates it when it's no longer valid.
type TokenRotateCommand struct {
	Cmd      *kingpin.CmdClause
	rootCmd  *RootCommand
	tokenCmd *TokenCommand

	publish     bool
	secretName  string
	githubRepo  string
	githubToken string
	format      string
}

// NewTokenRotateCommand returns the token rotate command.
func NewTokenRotateCommand(rootCmd *RootCommand, tokenCmd *TokenCommand) *TokenRotateCommand {
	c := &TokenRotateCommand{rootCmd: rootCmd, tokenCmd: tokenCmd}

	c.Cmd = tokenCmd.Cmd.Command("rotate", "Refresh the access token if it's no longer valid.")
	c.Cmd.Flag("publish", "Publish the refreshed token as an encrypted repository secret instead of printing it.").BoolVar(&c.publish)
	c.Cmd.Flag("secret-name", "Repository secret that stores the access token.").Default(rotate.DefaultSecretName).StringVar(&c.secretName)
	c.Cmd.Flag("github-repo", "Repository (owner/name) where the secret is published.").Envar("GITHUB_REPOSITORY").StringVar(&c.githubRepo)
	c.Cmd.Flag("github-token", "Token used to publish the secret.").Envar("GITHUB_TOKEN").StringVar(&c.githubToken)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c TokenRotateCommand) Name() string { return c.Cmd.FullCommand() }

func (c TokenRotateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger
	httpClient := c.rootCmd.HTTPClient()

	tokenClient, err := imgur.NewClient(imgur.ClientConfig{
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create imgur client: %w", err)
	}

	cfg := rotate.ServiceConfig{
		TokenClient: tokenClient,
		Logger:      logger,
	}

	if c.publish {
		ghClient, err := github.NewClient(github.ClientConfig{
			Repo:       c.githubRepo,
			Token:      c.githubToken,
			HTTPClient: httpClient,
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("could not create github client: %w", err)
		}

		cfg.Publisher, err = github.NewSecretPublisher(github.SecretPublisherConfig{
			Client: ghClient,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("could not create secret publisher: %w", err)
		}
	}

	svc, err := rotate.NewService(cfg)
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, rotate.Request{
		State:      c.tokenCmd.credentialState(),
		Publish:    c.publish,
		SecretName: c.secretName,
	})
	if err != nil {
		return fmt.Errorf("could not rotate token: %w", err)
	}

	// The token is only shown when it's the only place the new value ends up.
	token := ""
	if res.Final == model.RotationStatePrinted {
		token = res.State.AccessToken
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintRotation(res.Final, res.Transitions, token); err != nil {
		return fmt.Errorf("could not print rotation: %w", err)
	}

	return nil
}
