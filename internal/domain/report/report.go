package report

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrUnknownReport = errors.New("unknown report")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type paramKind int

const (
	kindDate paramKind = iota
	kindID
)

// param maps a form field onto a report parameter name.
type param struct {
	field string
	name  string
	kind  paramKind
}

type definition struct {
	path   string
	params []param
}

var definitions = map[string]definition{
	"platnosci": {
		path:   "Platnosci",
		params: []param{{field: "date_from", name: "DateFrom", kind: kindDate}, {field: "date_to", name: "DateTo", kind: kindDate}},
	},
	"karnety": {
		path:   "Karnety",
		params: []param{{field: "date_from", name: "DateFrom", kind: kindDate}, {field: "date_to", name: "DateTo", kind: kindDate}},
	},
	"klient": {
		path:   "HistoriaKlienta",
		params: []param{{field: "client_id", name: "ClientId", kind: kindID}},
	},
	"zajecia": {
		path:   "Zajecia",
		params: []param{{field: "date", name: "Date", kind: kindDate}},
	},
	"instruktor": {
		path:   "OcenyInstruktora",
		params: []param{{field: "instructor_id", name: "InstructorId", kind: kindID}},
	},
}

var fixedKeys = []string{"Rpt", "rs:Command", "rs:Format"}

// BuildURL renders a report-server link. The report path and the render
// command come first; caller params follow in key order and can never
// replace the fixed keys.
func BuildURL(baseURL, reportPath string, params map[string]string) string {
	var b strings.Builder
	b.WriteString(baseURL)
	if strings.Contains(baseURL, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}

	fixed := map[string]string{
		"Rpt":        reportPath,
		"rs:Command": "Render",
		"rs:Format":  "HTML4.0",
	}
	for i, key := range fixedKeys {
		if i > 0 {
			b.WriteByte('&')
		}
		writePair(&b, key, fixed[key])
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		if _, reserved := fixed[key]; reserved {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteByte('&')
		writePair(&b, key, params[key])
	}

	return b.String()
}

func writePair(b *strings.Builder, key, value string) {
	b.WriteString(url.QueryEscape(key))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}

type Builder struct {
	baseURL string
	folder  string
}

func NewBuilder(baseURL, folder string) *Builder {
	return &Builder{baseURL: baseURL, folder: folder}
}

func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build validates the form values of the named report and returns the
// report-server URL to redirect to.
func (b *Builder) Build(name string, values map[string]string) (string, error) {
	def, ok := definitions[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}

	params := make(map[string]string, len(def.params))
	dates := make(map[string]time.Time, len(def.params))
	for _, p := range def.params {
		raw := strings.TrimSpace(values[p.field])
		if raw == "" {
			return "", &ValidationError{Message: p.field + " is required"}
		}
		switch p.kind {
		case kindDate:
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return "", &ValidationError{Message: p.field + " must be in YYYY-MM-DD format"}
			}
			dates[p.field] = parsed
			params[p.name] = parsed.Format("2006-01-02")
		case kindID:
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return "", &ValidationError{Message: p.field + " must be a positive integer"}
			}
			params[p.name] = strconv.FormatUint(id, 10)
		}
	}

	if from, ok := dates["date_from"]; ok {
		if to, ok := dates["date_to"]; ok && to.Before(from) {
			return "", &ValidationError{Message: "date_to must not be before date_from"}
		}
	}

	return BuildURL(b.baseURL, path.Join(b.folder, def.path), params), nil
}
