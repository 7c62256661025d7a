package apidiff

import (
	"strings"

	"github.com/gorilla/mux"
)

// FromRouter lists the endpoints a router serves under basePath, with the
// base path stripped. Routes without methods, and routes outside basePath,
// are left out.
func FromRouter(r *mux.Router, basePath string) ([]Endpoint, error) {
	basePath = strings.TrimRight(basePath, "/")
	var endpoints []Endpoint
	err := r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		if basePath != "" {
			if tpl != basePath && !strings.HasPrefix(tpl, basePath+"/") {
				return nil
			}
			tpl = strings.TrimPrefix(tpl, basePath)
		}
		if tpl == "" {
			tpl = "/"
		}
		for _, m := range methods {
			endpoints = append(endpoints, Endpoint{
				Method:      strings.ToUpper(m),
				Path:        tpl,
				OperationID: route.GetName(),
				Tag:         firstSegment(tpl),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortEndpoints(endpoints)
	return endpoints, nil
}

func firstSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}
