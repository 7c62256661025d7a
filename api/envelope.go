package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/TykTechnologies/asana-mock/constants"
)

// resource is the rendered form of a resource before it is projected and encoded
type resource = map[string]interface{}

var errEmptyBody = errors.New("empty request body")

// decodeData reads a {"data": {...}} request body into target
func decodeData(r *http.Request, target interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return err
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return errors.New("missing data field")
	}
	return json.Unmarshal(envelope.Data, target)
}

// readData decodes the request body and writes a 400 when it cannot
func (a *API) readData(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := decodeData(r, target); err != nil {
		a.badRequest(w, r, "Could not parse request data, invalid JSON", err)
		return false
	}
	return true
}

// writeData writes a single resource, projected to opt_fields
func (a *API) writeData(w http.ResponseWriter, r *http.Request, code int, data resource) {
	if fields := optFields(r); len(fields) > 0 && data != nil {
		data = projectFields(data, fields)
	}
	a.writeJSON(w, r, code, map[string]interface{}{"data": data})
}

// writeEmpty answers actions that have nothing to return
func (a *API) writeEmpty(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, r, http.StatusOK, map[string]interface{}{"data": resource{}})
}

func (a *API) writeJSON(w http.ResponseWriter, r *http.Request, code int, body interface{}) {
	var (
		out []byte
		err error
	)
	if pretty(r) {
		out, err = json.MarshalIndent(body, "", "  ")
	} else {
		out, err = json.Marshal(body)
	}
	if err != nil {
		handlerLogger.WithError(err).Error("could not encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(out)
}

func pretty(r *http.Request) bool {
	q := r.URL.Query()
	if _, ok := q["opt_pretty"]; !ok {
		return false
	}
	v := q.Get("opt_pretty")
	return v == "" || v == "true"
}

func optFields(r *http.Request) []string {
	raw := r.URL.Query().Get("opt_fields")
	if raw == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// page is the window of a list response asked for with limit and offset
type page struct {
	Limit  int
	Offset int
	Paged  bool
}

func encodeOffset(n int) string {
	return base64.RawURLEncoding.EncodeToString([]byte("o:" + strconv.Itoa(n)))
}

func decodeOffset(token string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(raw), "o:"))
	if err != nil || !strings.HasPrefix(string(raw), "o:") || n < 0 {
		return 0, fmt.Errorf("malformed offset %q", token)
	}
	return n, nil
}

// readPage parses limit and offset. Without either the whole list is returned.
func (a *API) readPage(r *http.Request) (page, error) {
	q := r.URL.Query()
	p := page{}
	maxLimit := a.Config.Pagination.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 100
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			return p, fmt.Errorf("limit: Must be between 1 and %d", maxLimit)
		}
		p.Limit, p.Paged = n, true
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := decodeOffset(raw)
		if err != nil {
			return p, errors.New("offset: Your pagination token is invalid")
		}
		p.Offset = n
		if !p.Paged {
			p.Limit, p.Paged = a.Config.Pagination.DefaultLimit, true
			if p.Limit <= 0 || p.Limit > maxLimit {
				p.Limit = maxLimit
			}
		}
	}
	return p, nil
}

// nextPage builds the next_page object, nil on the last page
func (a *API) nextPage(r *http.Request, p page, total int) interface{} {
	if !p.Paged || p.Offset+p.Limit >= total {
		return nil
	}
	offset := encodeOffset(p.Offset + p.Limit)
	q := r.URL.Query()
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("offset", offset)
	path := strings.TrimPrefix(r.URL.Path, constants.BasePath) + "?" + q.Encode()

	base := strings.TrimRight(a.Config.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return map[string]interface{}{
		"offset": offset,
		"path":   path,
		"uri":    base + constants.BasePath + path,
	}
}

// writeList pages items and renders each one, compact unless opt_fields asks
// for more
func writeList[T any](a *API, w http.ResponseWriter, r *http.Request, items []T, compact, full func(*T) resource) {
	p, err := a.readPage(r)
	if err != nil {
		a.badRequest(w, r, err.Error(), err)
		return
	}

	window := items
	if p.Paged {
		start := p.Offset
		if start > len(items) {
			start = len(items)
		}
		end := start + p.Limit
		if end > len(items) {
			end = len(items)
		}
		window = items[start:end]
	}

	fields := optFields(r)
	data := make([]resource, 0, len(window))
	for i := range window {
		if len(fields) == 0 {
			data = append(data, compact(&window[i]))
			continue
		}
		data = append(data, projectFields(full(&window[i]), fields))
	}

	body := map[string]interface{}{"data": data}
	if p.Paged {
		body["next_page"] = a.nextPage(r, p, len(items))
	}
	a.writeJSON(w, r, http.StatusOK, body)
}
