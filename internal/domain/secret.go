package domain

// Secret categories form a closed enum. Anything else is rejected at the
// HTTP boundary before it reaches the vault services.
const (
	CategoryFinancial = "financial"
	CategoryIdentity  = "identity"
	CategoryMedical   = "medical"

	// CategorySystem is reserved for internal records (the PIN credential).
	// It is never accepted from clients and never shows up in listings.
	CategorySystem = "system"
)

// ValidCategory reports whether c is one of the closed set of secret categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryFinancial, CategoryIdentity, CategoryMedical:
		return true
	}
	return false
}

// SecretEntry is the masked listing form of a stored secret. It carries no
// plaintext: Mask is computed at save time and stored as a tag, so listing
// never reads secret values.
type SecretEntry struct {
	Category  string `json:"category"`
	Key       string `json:"key"`
	Mask      string `json:"mask"`
	CreatedAt string `json:"created_at"`
}

// SaveSecretRequest is the payload for storing or overwriting a secret.
type SaveSecretRequest struct {
	Category string `json:"category" validate:"required"`
	Key      string `json:"key" validate:"required,max=64"`
	Value    string `json:"value" validate:"required"`
}

// RevealSecretRequest is the payload for the verify-and-fetch path.
type RevealSecretRequest struct {
	Pin      string `json:"pin" validate:"required"`
	Category string `json:"category" validate:"required"`
	Key      string `json:"key" validate:"required"`
}
