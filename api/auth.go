package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/TykTechnologies/asana-mock/constants"
	tykerrors "github.com/TykTechnologies/asana-mock/error"
)

type contextKey int

const callerKey contextKey = iota

var errNoToken = errors.New("no bearer token")

// IsAuthenticated resolves the bearer token to a user gid and stores it in
// the request context. The configured Secret maps to DefaultUser; when no
// DefaultUser is set it acts as the system user and skips membership checks.
func (a *API) IsAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			tykerrors.HandleError(constants.AuthLogTag, "Not Authorized", err, http.StatusUnauthorized, w, r)
			return
		}

		caller, ok := a.Config.Tokens[token]
		if !ok {
			if a.Config.Secret == "" || token != a.Config.Secret {
				tykerrors.HandleError(constants.AuthLogTag, "Not Authorized", errors.New("unknown token"), http.StatusUnauthorized, w, r)
				return
			}
			caller = a.Config.DefaultUser
		}

		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errNoToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// callerFrom returns the gid of the authenticated user, empty for the system user
func callerFrom(r *http.Request) string {
	caller, _ := r.Context().Value(callerKey).(string)
	return caller
}
