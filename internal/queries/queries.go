package queries

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/agnosticeng/chain-index/internal/engine"
)

//go:embed cql/*.cql clickhouse/*.sql
var files embed.FS

type Dialect string

const (
	CQL        Dialect = "cql"
	ClickHouse Dialect = "clickhouse"
)

const schemaTemplate = "schema"

func (d Dialect) ext() (string, error) {
	switch d {
	case CQL:
		return ".cql", nil
	case ClickHouse:
		return ".sql", nil
	default:
		return "", fmt.Errorf("unknown query dialect %q", string(d))
	}
}

// LoadTemplates parses every query and schema template of a dialect.
func LoadTemplates(d Dialect) (*template.Template, error) {
	ext, err := d.ext()

	if err != nil {
		return nil, err
	}

	return template.New(string(d)).
		Option("missingkey=default").
		Funcs(sprig.FuncMap()).
		ParseFS(files, string(d)+"/*"+ext)
}

func RenderTemplate(tmpl *template.Template, name string, vars map[string]interface{}) (string, error) {
	var buf bytes.Buffer

	if err := tmpl.ExecuteTemplate(&buf, name, vars); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}

// Load renders the query text of every statement kind for a dialect.
func Load(d Dialect, vars map[string]interface{}) (engine.QuerySet, error) {
	tmpl, err := LoadTemplates(d)

	if err != nil {
		return nil, err
	}

	ext, _ := d.ext()

	var qs = make(engine.QuerySet)

	for _, name := range engine.KindNames() {
		q, err := RenderTemplate(tmpl, name+ext, vars)

		if err != nil {
			return nil, fmt.Errorf("failed to render %s template: %w", name+ext, err)
		}

		qs[name] = q
	}

	return qs, nil
}

// Schema renders the schema of a dialect as a list of statements.
func Schema(d Dialect, vars map[string]interface{}) ([]string, error) {
	tmpl, err := LoadTemplates(d)

	if err != nil {
		return nil, err
	}

	ext, _ := d.ext()

	s, err := RenderTemplate(tmpl, schemaTemplate+ext, vars)

	if err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", schemaTemplate+ext, err)
	}

	var stmts []string

	for _, stmt := range strings.Split(s, ";") {
		if stmt = strings.TrimSpace(stmt); len(stmt) > 0 {
			stmts = append(stmts, stmt)
		}
	}

	return stmts, nil
}

var tableRefRe = regexp.MustCompile(`(?is)^\s*(?:INSERT\s+INTO|UPDATE|SELECT\s+.+?\s+FROM|DESCRIBE\s+TABLE)\s+([A-Za-z_][A-Za-z0-9_]*)(?:\.([A-Za-z_][A-Za-z0-9_]*))?`)

// TableRef returns the keyspace (or database) and table a statement targets.
// keyspace is empty when the table is not qualified.
func TableRef(query string) (keyspace string, table string, err error) {
	var m = tableRefRe.FindStringSubmatch(query)

	if m == nil {
		return "", "", fmt.Errorf("cannot find target table of query %q", query)
	}

	if len(m[2]) == 0 {
		return "", m[1], nil
	}

	return m[1], m[2], nil
}
