package services

import (
	"testing"

	"github.com/rohits-web03/innerself/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2/google"
)

func TestNewGoogleOAuthConfig(t *testing.T) {
	assert.Nil(t, NewGoogleOAuthConfig(config.GoogleConfig{ClientID: "id"}))

	cfg := NewGoogleOAuthConfig(config.GoogleConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/api/auth/google/callback",
	})
	require.NotNil(t, cfg)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, google.Endpoint, cfg.Endpoint)
	assert.Len(t, cfg.Scopes, 2)
}
