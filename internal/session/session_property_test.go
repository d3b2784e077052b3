package session

import (
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: the expiry hint reports exactly the exp claim of whatever
// token the backend issued, without needing the signing secret
func TestProperty_TokenExpiryHintMatchesClaim(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expiry hint equals the token's exp claim", prop.ForAll(
		func(minutesAhead int) bool {
			expiry := time.Now().Add(time.Duration(minutesAhead) * time.Minute).Truncate(time.Second)

			claims := jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expiry),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			}
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
			signed, err := token.SignedString([]byte("backend-only-secret"))
			if err != nil {
				t.Logf("FAIL: could not sign token: %v", err)
				return false
			}

			f := newFixture(t, chi.NewRouter())
			f.api.SetToken(signed)

			hint, ok := f.store.TokenExpiryHint()
			if !ok {
				t.Logf("FAIL: no expiry hint for a token with an exp claim")
				return false
			}
			return hint.Equal(expiry)
		},
		gen.IntRange(1, 60*24*30),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: an identity is never visible without a token behind it
func TestProperty_NoIdentityWithoutToken(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("clearing the token hides the identity", prop.ForAll(
		func(tokenValue string) bool {
			f := newFixture(t, chi.NewRouter())

			// Force the inconsistent shape directly: state says
			// authenticated but the client holds no credential.
			f.store.mu.Lock()
			f.store.state = Authenticated
			f.store.user.Email = "ghost@example.com"
			f.store.mu.Unlock()

			if tokenValue != "" {
				f.api.SetToken(tokenValue)
				if _, ok := f.store.Current(); !ok {
					t.Logf("FAIL: identity hidden despite token present")
					return false
				}
			}

			f.api.ClearToken()
			if _, ok := f.store.Current(); ok {
				t.Logf("FAIL: identity visible without a token")
				return false
			}
			return true
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
