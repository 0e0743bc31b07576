package vault

import (
	"context"
	"testing"

	"github.com/kinboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "****"},
		{"abc", "****"},
		{"1234", "****"},
		{"12345", "*2345"},
		{"4111111111111111", "********1111"},
		{"DE89370400440532013000", "********3000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskValue(tt.in), tt.in)
	}
}

func TestSecretService_Save_AttachesMask(t *testing.T) {
	store := newFakeSecretStore()
	svc := NewSecretService(store)

	err := svc.Save(context.Background(), "u1", domain.SaveSecretRequest{
		Category: domain.CategoryFinancial, Key: "card", Value: "4111111111111111",
	})
	require.NoError(t, err)

	extra := store.extras[skey("u1", domain.CategoryFinancial, "card")]
	assert.Equal(t, "********1111", extra["mask"])
}

func TestSecretService_Save_RejectsUnknownCategory(t *testing.T) {
	svc := NewSecretService(newFakeSecretStore())

	for _, cat := range []string{"", "system", "passwords", "FINANCIAL"} {
		err := svc.Save(context.Background(), "u1", domain.SaveSecretRequest{
			Category: cat, Key: "k", Value: "v",
		})
		assert.ErrorIs(t, err, domain.ErrBadRequest, cat)
	}
}

func TestSecretService_Delete_AbsentIsNoError(t *testing.T) {
	svc := NewSecretService(newFakeSecretStore())
	assert.NoError(t, svc.Delete(context.Background(), "u1", domain.CategoryMedical, "gone"))
}

func TestSecretService_Delete_RejectsSystemCategory(t *testing.T) {
	svc := NewSecretService(newFakeSecretStore())
	err := svc.Delete(context.Background(), "u1", domain.CategorySystem, "pin")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
