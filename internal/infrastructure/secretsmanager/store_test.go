package secretsmanager

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveName(t *testing.T) {
	s := NewStore(nil, "kinboard")

	tests := []struct {
		name     string
		userID   string
		category string
		key      string
		want     string
	}{
		{
			name:     "plain",
			userID:   "01hqxv",
			category: "financial",
			key:      "checking",
			want:     "kinboard-01hqxv-financial-checking",
		},
		{
			name:     "email user id sanitized",
			userID:   "Anna.Smith@Example.com",
			category: "identity",
			key:      "ssn",
			want:     "kinboard-anna-smith-example-com-identity-ssn",
		},
		{
			name:     "spaces and unicode",
			userID:   "user one",
			category: "medical",
			key:      "blood type",
			want:     "kinboard-user-one-medical-blood-type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.DeriveName(tt.userID, tt.category, tt.key)
			assert.Equal(t, tt.want, got)
			// Deterministic.
			assert.Equal(t, got, s.DeriveName(tt.userID, tt.category, tt.key))
		})
	}
}

func TestDeriveName_Truncation(t *testing.T) {
	s := NewStore(nil, "kinboard")
	got := s.DeriveName(strings.Repeat("a", 200), "financial", "k")
	assert.Len(t, got, 127)
}

func TestObfuscateUserID(t *testing.T) {
	a := ObfuscateUserID("anna@example.com")
	b := ObfuscateUserID("ben@example.com")

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, ObfuscateUserID("anna@example.com"))
	assert.NotContains(t, a, "@")
}
