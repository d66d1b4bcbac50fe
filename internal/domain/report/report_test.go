package report

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

const base = "http://reports.local/ReportServer/Pages/ReportViewer.aspx"

func TestBuildURLOrdersFixedKeysFirst(t *testing.T) {
	got := BuildURL(base, "/GymReports/Platnosci", map[string]string{
		"DateTo":   "2024-01-31",
		"DateFrom": "2024-01-01",
	})

	want := base + "?Rpt=%2FGymReports%2FPlatnosci&rs%3ACommand=Render&rs%3AFormat=HTML4.0&DateFrom=2024-01-01&DateTo=2024-01-31"
	if got != want {
		t.Fatalf("unexpected url\n got: %s\nwant: %s", got, want)
	}
}

func TestBuildURLFixedKeysCannotBeOverridden(t *testing.T) {
	got := BuildURL(base, "/GymReports/Zajecia", map[string]string{
		"rs:Format": "PDF",
		"Rpt":       "/Other",
		"Date":      "2024-02-01",
	})

	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	query := parsed.Query()
	if query.Get("rs:Format") != "HTML4.0" || len(query["rs:Format"]) != 1 {
		t.Fatalf("format overridden: %v", query["rs:Format"])
	}
	if query.Get("Rpt") != "/GymReports/Zajecia" || len(query["Rpt"]) != 1 {
		t.Fatalf("report path overridden: %v", query["Rpt"])
	}
	if query.Get("Date") != "2024-02-01" {
		t.Fatalf("missing caller param")
	}
}

func TestBuildURLAppendsToExistingQuery(t *testing.T) {
	got := BuildURL("http://reports.local/viewer?tenant=gym", "/R", nil)
	if !strings.HasPrefix(got, "http://reports.local/viewer?tenant=gym&Rpt=%2FR&") {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestBuilderBuild(t *testing.T) {
	builder := NewBuilder(base, "/GymReports")

	got, err := builder.Build("klient", map[string]string{"client_id": " 42 "})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasPrefix(got, base+"?Rpt=%2FGymReports%2FHistoriaKlienta&") || !strings.HasSuffix(got, "&ClientId=42") {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestBuilderValidation(t *testing.T) {
	builder := NewBuilder(base, "/GymReports")

	cases := []struct {
		name   string
		values map[string]string
	}{
		{name: "platnosci", values: map[string]string{"date_from": "2024-01-01"}},
		{name: "platnosci", values: map[string]string{"date_from": "2024-02-01", "date_to": "2024-01-01"}},
		{name: "karnety", values: map[string]string{"date_from": "01.01.2024", "date_to": "2024-01-31"}},
		{name: "klient", values: map[string]string{"client_id": "0"}},
		{name: "instruktor", values: map[string]string{"instructor_id": "abc"}},
		{name: "zajecia", values: map[string]string{}},
	}
	for _, tc := range cases {
		var validationErr *ValidationError
		if _, err := builder.Build(tc.name, tc.values); !errors.As(err, &validationErr) {
			t.Fatalf("%s %v: expected validation error, got %v", tc.name, tc.values, err)
		}
	}

	if _, err := builder.Build("nope", nil); !errors.Is(err, ErrUnknownReport) {
		t.Fatalf("expected ErrUnknownReport, got %v", err)
	}
}

func TestNamesAreSorted(t *testing.T) {
	names := Names()
	want := []string{"instruktor", "karnety", "klient", "platnosci", "zajecia"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected names %v", names)
	}
}
