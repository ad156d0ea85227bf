package auth

import "github.com/luxemart/storefront/pkg/localstore"

// TokenSlot holds the raw bearer credential, not JSON-wrapped. It is set on
// login, cleared on logout, and read by every outgoing request.
const TokenSlot = "token"

// Credentials reads and writes the credential slot. The checkout flow and
// the request client only ever read it; the auth service owns mutation.
type Credentials struct {
	store *localstore.Store
}

func NewCredentials(store *localstore.Store) *Credentials {
	return &Credentials{store: store}
}

// Token returns the stored credential, or "" when absent or unreadable.
func (c *Credentials) Token() string {
	return c.store.GetString(TokenSlot)
}

// IsAuthenticated reports whether a credential is currently set.
func (c *Credentials) IsAuthenticated() bool {
	return c.Token() != ""
}

func (c *Credentials) set(token string) error {
	return c.store.Set(TokenSlot, []byte(token))
}

func (c *Credentials) clear() error {
	return c.store.Delete(TokenSlot)
}
