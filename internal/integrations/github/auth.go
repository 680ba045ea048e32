// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package github adapts the GitHub REST API to the engine's host interface.
package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// NewClient creates a GitHub client for token.
// An empty token yields an unauthenticated client, enough for dry runs
// against public repositories.
func NewClient(ctx context.Context, token string) *Client {
	var tc *http.Client
	if token != "" {
		tc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return &Client{client: github.NewClient(tc)}
}

