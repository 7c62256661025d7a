package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/TykTechnologies/asana-mock/asana"
)

// gidList accepts either a JSON array of gids or a comma separated string
type gidList []string

func (l *gidList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*l = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(b, &joined); err != nil {
		return fmt.Errorf("expected a list of gids: %w", err)
	}
	*l = nil
	for _, gid := range strings.Split(joined, ",") {
		if gid = strings.TrimSpace(gid); gid != "" {
			*l = append(*l, gid)
		}
	}
	return nil
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// CheckGIDs rejects requests whose path ids could never name a resource.
// A user may also be named by "me" or an email address.
func (a *API) CheckGIDs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, v := range mux.Vars(r) {
			if !strings.HasSuffix(name, "_gid") {
				continue
			}
			if name == "user_gid" && (v == asana.Me || strings.Contains(v, "@")) {
				continue
			}
			if !asana.IsGID(v) {
				a.badRequest(w, r, strings.TrimSuffix(name, "_gid")+": Not a recognized ID: "+v, nil)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// boolParam parses an optional true/false query parameter
func boolParam(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: Not a boolean: %s", name, raw)
	}
	return &v, nil
}

// timeParam parses an optional ISO 8601 time; "now" is accepted as well
func timeParam(r *http.Request, name string, now time.Time) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if raw == "now" {
		return &now, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s: Not a valid ISO 8601 date-time: %s", name, raw)
}
