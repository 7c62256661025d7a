/*
Package apidiff compares the endpoints of an OpenAPI document with the routes
a router serves, and scaffolds stub code for the endpoints missing from it.
*/
package apidiff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/TykTechnologies/asana-mock/constants"
	logger "github.com/TykTechnologies/asana-mock/log"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

var log = logger.Get()
var diffLogger = log.WithField("prefix", constants.DiffLogTag)

// DefaultSpecURL is where Asana publishes its OpenAPI document
const DefaultSpecURL = "https://raw.githubusercontent.com/Asana/openapi/master/defs/asana_oas.yaml"

const parameterRefPrefix = "#/components/parameters/"

// methods in the order they are listed for a path
var methods = []string{"get", "post", "put", "patch", "delete", "head", "options", "trace"}

type Parameter struct {
	Name     string `json:"name" yaml:"name"`
	In       string `json:"in" yaml:"in"`
	Required bool   `json:"required" yaml:"required"`
}

// Endpoint is one operation, either declared by a document or served by a router
type Endpoint struct {
	Method      string      `json:"method" yaml:"method"`
	Path        string      `json:"path" yaml:"path"`
	OperationID string      `json:"operation_id,omitempty" yaml:"operation_id,omitempty"`
	Tag         string      `json:"tag,omitempty" yaml:"tag,omitempty"`
	Summary     string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Key identifies an endpoint regardless of the names of its path parameters
func (e Endpoint) Key() string {
	return strings.ToUpper(e.Method) + " " + NormalizePath(e.Path)
}

func (e Endpoint) String() string {
	return strings.ToUpper(e.Method) + " " + e.Path
}

type parameter struct {
	Ref      string `yaml:"$ref"`
	Name     string `yaml:"name"`
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
}

type operation struct {
	OperationID string      `yaml:"operationId"`
	Summary     string      `yaml:"summary"`
	Tags        []string    `yaml:"tags"`
	Parameters  []parameter `yaml:"parameters"`
}

type document struct {
	Paths      map[string]map[string]yaml.Node `yaml:"paths"`
	Components struct {
		Parameters map[string]parameter `yaml:"parameters"`
	} `yaml:"components"`
}

// LoadSpec reads an OpenAPI document from a file or an http(s) URL. A token,
// when given, is sent as a bearer token.
func LoadSpec(ctx context.Context, source, token string) ([]Endpoint, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = download(ctx, source, token)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("reading spec %s: %w", source, err)
	}
	return ParseSpec(data)
}

func download(ctx context.Context, url, token string) ([]byte, error) {
	client := http.DefaultClient
	if token != "" {
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	diffLogger.WithField("url", url).Debug("downloading spec")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ParseSpec lists the operations of an OpenAPI document, sorted by path then
// method. Path level parameters are merged into every operation of the path.
func ParseSpec(data []byte) ([]Endpoint, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}
	if len(doc.Paths) == 0 {
		return nil, errors.New("parsing spec: no paths")
	}

	var endpoints []Endpoint
	for path, item := range doc.Paths {
		var shared []parameter
		if node, ok := item["parameters"]; ok {
			if err := node.Decode(&shared); err != nil {
				diffLogger.WithError(err).WithField("path", path).Warning("skipping path parameters")
			}
		}

		for _, method := range methods {
			node, ok := item[method]
			if !ok {
				continue
			}
			var op operation
			if err := node.Decode(&op); err != nil {
				diffLogger.WithError(err).WithField("path", path).Warningf("skipping %s operation", method)
				continue
			}
			e := Endpoint{
				Method:      strings.ToUpper(method),
				Path:        path,
				OperationID: op.OperationID,
				Summary:     op.Summary,
				Parameters:  doc.mergeParameters(shared, op.Parameters),
			}
			if len(op.Tags) > 0 {
				e.Tag = op.Tags[0]
			}
			endpoints = append(endpoints, e)
		}
	}
	sortEndpoints(endpoints)
	return endpoints, nil
}

func (doc *document) resolve(p parameter) (parameter, bool) {
	if p.Ref == "" {
		return p, p.Name != ""
	}
	if !strings.HasPrefix(p.Ref, parameterRefPrefix) {
		return p, false
	}
	resolved, ok := doc.Components.Parameters[strings.TrimPrefix(p.Ref, parameterRefPrefix)]
	return resolved, ok && resolved.Name != ""
}

// mergeParameters lets operation parameters replace path parameters with the
// same name and location
func (doc *document) mergeParameters(shared, own []parameter) []Parameter {
	var out []Parameter
	index := map[string]int{}
	for _, list := range [][]parameter{shared, own} {
		for _, raw := range list {
			p, ok := doc.resolve(raw)
			if !ok {
				diffLogger.WithField("ref", raw.Ref).Debug("unresolved parameter")
				continue
			}
			param := Parameter{Name: p.Name, In: p.In, Required: p.Required || p.In == "path"}
			key := p.In + ":" + p.Name
			if i, seen := index[key]; seen {
				out[i] = param
				continue
			}
			index[key] = len(out)
			out = append(out, param)
		}
	}
	return out
}

func methodRank(m string) int {
	for i, candidate := range methods {
		if strings.EqualFold(candidate, m) {
			return i
		}
	}
	return len(methods)
}

func sortEndpoints(endpoints []Endpoint) {
	sort.SliceStable(endpoints, func(i, j int) bool {
		if endpoints[i].Path != endpoints[j].Path {
			return endpoints[i].Path < endpoints[j].Path
		}
		return methodRank(endpoints[i].Method) < methodRank(endpoints[j].Method)
	})
}
