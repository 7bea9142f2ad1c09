// AngelaMos | 2026
// google.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/carterperez-dev/slidecraft/internal/config"
	"github.com/carterperez-dev/slidecraft/internal/core"
)

const (
	stateKeyPrefix = "oauthstate:"
	stateTTL       = 10 * time.Minute
)

// GoogleIdentity is the verified result of an OIDC callback.
type GoogleIdentity struct {
	Subject      string
	Email        string
	Name         string
	RefreshToken string
}

// GoogleOIDC drives the authorization-code flow against Google. The
// offline access type matters here: the refresh token it yields is what
// lets us call the Slides API on the account's behalf later.
type GoogleOIDC struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth    oauth2.Config
	redis    *redis.Client
}

func NewGoogleOIDC(
	ctx context.Context,
	cfg config.GoogleConfig,
	redisClient *redis.Client,
) (*GoogleOIDC, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover google oidc: %w", err)
	}

	scopes := append(
		[]string{oidc.ScopeOpenID, "profile", "email"},
		cfg.Scopes...,
	)

	return &GoogleOIDC{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		redis: redisClient,
	}, nil
}

// AuthURL mints a single-use state token and returns the Google consent
// URL to redirect the browser to.
func (g *GoogleOIDC) AuthURL(ctx context.Context) (string, error) {
	state, err := core.GenerateRefreshToken()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}

	key := stateKeyPrefix + state
	if err := g.redis.Set(ctx, key, "1", stateTTL).Err(); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}

	// ApprovalForce guarantees Google re-issues a refresh token even for
	// returning accounts.
	url := g.oauth.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
	)

	return url, nil
}

// Exchange validates the callback state, trades the code for tokens and
// verifies the ID token signature against Google's JWKS.
func (g *GoogleOIDC) Exchange(
	ctx context.Context,
	state, code string,
) (*GoogleIdentity, error) {
	if state == "" || code == "" {
		return nil, fmt.Errorf("oauth callback: %w", core.ErrInvalidInput)
	}

	key := stateKeyPrefix + state
	deleted, err := g.redis.Del(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("consume state: %w", err)
	}
	if deleted == 0 {
		return nil, fmt.Errorf(
			"oauth callback: unknown or expired state: %w",
			core.ErrUnauthorized,
		)
	}

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("oauth callback: no id_token in response")
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse id token claims: %w", err)
	}

	if !claims.EmailVerified {
		return nil, fmt.Errorf(
			"oauth callback: unverified email: %w",
			core.ErrUnauthorized,
		)
	}

	return &GoogleIdentity{
		Subject:      idToken.Subject,
		Email:        claims.Email,
		Name:         claims.Name,
		RefreshToken: token.RefreshToken,
	}, nil
}

// TokenSource rebuilds an oauth2 token source from a stored refresh
// token so the slides builder can act for the account.
func (g *GoogleOIDC) TokenSource(
	ctx context.Context,
	refreshToken string,
) oauth2.TokenSource {
	return g.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
}
