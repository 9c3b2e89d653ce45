package server

import (
	"errors"
	"net/http"
	"strings"
)

var errNoSession = errors.New("no valid session")

// sessionFromRequest resolves the live session from the Bearer token.
func sessionFromRequest(r *http.Request, sessions *SessionRegistry) (*LiveSession, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return nil, errNoSession
	}
	live, err := sessions.Get(token)
	if err != nil {
		return nil, errNoSession
	}
	return live, nil
}
