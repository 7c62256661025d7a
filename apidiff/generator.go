package apidiff

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultPackage is the package name of the scaffolded files
const DefaultPackage = "scaffold"

// one file per tag and kind, named <tag>_<kind>.go
var templateKinds = []string{"handlers", "interactors", "serializers"}

var (
	wordSep     = regexp.MustCompile(`[^A-Za-z0-9]+`)
	goIdent     = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	packageName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// fields the templates declare themselves
var reservedFields = map[string]bool{"Body": true}

// GoName turns an operation id, a tag or a parameter name into an exported
// Go identifier: getTasksForProject -> GetTasksForProject, task_gid -> TaskGid
func GoName(s string) string {
	title := cases.Title(language.English, cases.NoLower)
	var b strings.Builder
	for _, word := range wordSep.Split(s, -1) {
		if word != "" {
			b.WriteString(title.String(word))
		}
	}
	return b.String()
}

func fileStem(tag string) string {
	words := wordSep.Split(strings.ToLower(tag), -1)
	var kept []string
	for _, w := range words {
		if w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, "_")
}

type templateParam struct {
	Name  string
	Field string
}

type templateEndpoint struct {
	Name        string
	Method      string
	Path        string
	OperationID string
	Summary     string
	HasBody     bool
	PathParams  []templateParam
	QueryParams []templateParam
}

type templateData struct {
	Package   string
	Tag       string
	Endpoints []templateEndpoint
}

// Failure records an endpoint or a file that could not be scaffolded
type Failure struct {
	Target string
	Err    error
}

type Result struct {
	Written []string
	Skipped []string
	Failed  []Failure
}

// Generator writes handler, interactor and serializer stubs for endpoints.
// A failing endpoint or file is logged and skipped. Existing files are kept
// unless Force is set.
type Generator struct {
	OutDir  string
	Package string
	Force   bool
	Logger  *logrus.Entry
}

func (g *Generator) logger() *logrus.Entry {
	if g.Logger != nil {
		return g.Logger
	}
	return diffLogger
}

func parseTemplates() (*template.Template, error) {
	funcs := sprig.TxtFuncMap()
	funcs["goname"] = GoName
	return template.New("scaffold").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}

func newTemplateEndpoint(e Endpoint) (templateEndpoint, error) {
	name := GoName(e.OperationID)
	if e.OperationID == "" {
		words := []string{strings.ToLower(e.Method)}
		for _, seg := range strings.Split(e.Path, "/") {
			if seg != "" && !strings.HasPrefix(seg, "{") {
				words = append(words, seg)
			}
		}
		name = GoName(strings.Join(words, " "))
	}
	if !goIdent.MatchString(name) {
		return templateEndpoint{}, fmt.Errorf("cannot derive a Go name for %s", e)
	}

	te := templateEndpoint{
		Name:        name,
		Method:      strings.ToUpper(e.Method),
		Path:        e.Path,
		OperationID: e.OperationID,
		Summary:     strings.Join(strings.Fields(e.Summary), " "),
	}
	switch te.Method {
	case "POST", "PUT", "PATCH":
		te.HasBody = true
	}

	fields := map[string]bool{}
	add := func(list *[]templateParam, param string) {
		field := GoName(param)
		if !goIdent.MatchString(field) || reservedFields[field] || fields[field] {
			return
		}
		fields[field] = true
		*list = append(*list, templateParam{Name: param, Field: field})
	}
	for _, match := range pathParam.FindAllString(e.Path, -1) {
		add(&te.PathParams, strings.Trim(match, "{}"))
	}
	for _, p := range e.Parameters {
		if p.In == "query" {
			add(&te.QueryParams, p.Name)
		}
	}
	return te, nil
}

func render(tmpl *template.Template, name string, data templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", name, err)
	}
	return src, nil
}

// Generate scaffolds the endpoints, grouped in files by tag
func (g *Generator) Generate(endpoints []Endpoint) (Result, error) {
	var res Result
	pkg := g.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	if !packageName.MatchString(pkg) {
		return res, fmt.Errorf("invalid package name %q", pkg)
	}
	if g.OutDir == "" {
		return res, errors.New("no output directory")
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return res, fmt.Errorf("parsing templates: %w", err)
	}
	if err := os.MkdirAll(g.OutDir, 0o755); err != nil {
		return res, err
	}

	fail := func(target string, err error) {
		g.logger().WithError(err).WithField("target", target).Warning("skipping")
		res.Failed = append(res.Failed, Failure{Target: target, Err: err})
	}

	groups := map[string][]templateEndpoint{}
	names := map[string]string{}
	for _, e := range endpoints {
		te, err := newTemplateEndpoint(e)
		if err != nil {
			fail(e.String(), err)
			continue
		}
		if prev, taken := names[te.Name]; taken {
			fail(e.String(), fmt.Errorf("name %s is already used by %s", te.Name, prev))
			continue
		}
		names[te.Name] = e.String()

		tag := e.Tag
		if tag == "" {
			tag = UntaggedGroup
		}
		groups[tag] = append(groups[tag], te)
	}

	stems := map[string]string{}
	for _, tag := range Tags(groups) {
		stem := fileStem(tag)
		if stem == "" {
			fail(tag, errors.New("tag has no usable file name"))
			continue
		}
		if owner, taken := stems[stem]; taken {
			for _, te := range groups[tag] {
				fail(te.Method+" "+te.Path, fmt.Errorf("tag %q writes the same files as tag %q", tag, owner))
			}
			continue
		}
		stems[stem] = tag
		data := templateData{Package: pkg, Tag: tag, Endpoints: groups[tag]}
		for _, kind := range templateKinds {
			path := filepath.Join(g.OutDir, stem+"_"+kind+".go")
			if !g.Force {
				if _, err := os.Stat(path); err == nil {
					g.logger().WithField("file", path).Info("exists, not overwriting")
					res.Skipped = append(res.Skipped, path)
					continue
				}
			}
			src, err := render(tmpl, kind+".go.tmpl", data)
			if err != nil {
				fail(path, err)
				continue
			}
			if err := os.WriteFile(path, src, 0o644); err != nil {
				fail(path, err)
				continue
			}
			res.Written = append(res.Written, path)
		}
	}
	g.logger().WithFields(logrus.Fields{
		"written": len(res.Written),
		"skipped": len(res.Skipped),
		"failed":  len(res.Failed),
	}).Info("scaffolding done")
	return res, nil
}
