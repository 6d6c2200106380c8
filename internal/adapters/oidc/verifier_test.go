package oidc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVerifier_ConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  VerifierConfig
	}{
		{"missing client id", VerifierConfig{ClientSecret: "s", DiscoveryURL: "https://idp.example.com"}},
		{"missing client secret", VerifierConfig{ClientID: "c", DiscoveryURL: "https://idp.example.com"}},
		{"missing discovery url", VerifierConfig{ClientID: "c", ClientSecret: "s"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewVerifier(tc.cfg)
			assert.Error(t, err)
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("", "a", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, "x", firstNonEmpty("x"))
}
