package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/AaronLay10/PuzzleMaster/internal/config"
)

// Credentials guard the operator endpoints with HTTP basic auth. A nil
// *Credentials disables the check.
type Credentials struct {
	User string
	Pass string
}

// LoadCredentials reads PUZZLEMASTER_OPERATOR_USER and _PASS, honoring the
// *_FILE convention. It returns nil when either is unset.
func LoadCredentials() (*Credentials, error) {
	user, _, err := config.LookupSecret("PUZZLEMASTER_OPERATOR_USER")
	if err != nil {
		return nil, fmt.Errorf("resolve operator user: %w", err)
	}
	pass, _, err := config.LookupSecret("PUZZLEMASTER_OPERATOR_PASS")
	if err != nil {
		return nil, fmt.Errorf("resolve operator password: %w", err)
	}
	if user == "" || pass == "" {
		return nil, nil
	}
	return &Credentials{User: user, Pass: pass}, nil
}

func (c *Credentials) allows(r *http.Request) bool {
	if c == nil {
		return true
	}
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.User)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(c.Pass)) == 1
	return userOK && passOK
}

// require wraps handler with the credential check.
func (c *Credentials) require(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !c.allows(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="PuzzleMaster"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}
}
