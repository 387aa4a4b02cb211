package docservice

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/open-sspm/sspmdocs/internal/apperr"
	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/docs"
	"github.com/open-sspm/sspmdocs/internal/testutil"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.Holder(t))
}

func TestNotLoaded(t *testing.T) {
	h := docs.NewHolder()
	h.Fail(errors.New("HTTP 404"))
	svc := NewService(h)

	if _, err := svc.Overview(); !errors.Is(err, apperr.ErrNotLoaded) {
		t.Fatalf("Overview err = %v, want ErrNotLoaded", err)
	}
	_, err := svc.Rulesets("")
	if !errors.Is(err, apperr.ErrNotLoaded) || !strings.Contains(err.Error(), "HTTP 404") {
		t.Fatalf("Rulesets err = %v", err)
	}
}

func TestOverview(t *testing.T) {
	ov, err := newService(t).Overview()
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.SpecVersion != "0.4.1" || ov.SchemaVersion != "1" {
		t.Errorf("versions = %q/%q", ov.SpecVersion, ov.SchemaVersion)
	}
	want := descriptor.Counts{Rulesets: 2, Datasets: 1, Connectors: 1, Profiles: 1}
	if diff := cmp.Diff(want, ov.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(ov.DescriptorJSON, `"spec_version": "0.4.1"`) {
		t.Errorf("descriptor JSON not pretty printed:\n%s", ov.DescriptorJSON)
	}
}

func TestRulesetsFilter(t *testing.T) {
	svc := newService(t)

	all, err := svc.Rulesets("")
	if err != nil {
		t.Fatalf("Rulesets: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}

	cases := map[string][]string{
		"OKTA":     {"okta.cis"},
		"global":   {"github.baseline"},
		"1.0.0":    {"okta.cis"},
		"baseline": {"github.baseline"},
		"nothing":  nil,
	}
	for q, want := range cases {
		items, err := svc.Rulesets(q)
		if err != nil {
			t.Fatalf("Rulesets(%q): %v", q, err)
		}
		var got []string
		for _, it := range items {
			got = append(got, it.Key)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Rulesets(%q) mismatch (-want +got):\n%s", q, diff)
		}
	}
}

func TestRulesetDetail(t *testing.T) {
	svc := newService(t)

	rd, err := svc.Ruleset("okta.cis", "")
	if err != nil {
		t.Fatalf("Ruleset: %v", err)
	}
	if len(rd.Rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(rd.Rules))
	}
	if rd.Rules[0].SeverityClass != "sev-high" || rd.Rules[0].Check != "dataset.field_compare" {
		t.Errorf("rule[0] = %+v", rd.Rules[0])
	}
	if !strings.HasPrefix(rd.JSON, "{\n  \"schema_version\"") {
		t.Errorf("raw JSON should keep document order:\n%s", rd.JSON)
	}

	rd, err = svc.Ruleset("okta.cis", "manual")
	if err != nil {
		t.Fatalf("Ruleset: %v", err)
	}
	if len(rd.Rules) != 1 || rd.Rules[0].Key != "okta.admin_review" {
		t.Errorf("filtered rules = %+v", rd.Rules)
	}

	_, err = svc.Ruleset("missing", "")
	if !errors.Is(err, apperr.ErrNotFound) || !strings.Contains(err.Error(), "missing") {
		t.Errorf("missing ruleset err = %v", err)
	}
}

func TestDatasetDetail(t *testing.T) {
	svc := newService(t)

	dd, err := svc.Dataset("okta.users@1", "")
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	var fields []string
	for _, r := range dd.Rows {
		fields = append(fields, r.Field)
	}
	want := []string{"factors", "factors[]", "factors[].type", "id", "login"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if dd.Rows[0].Type != "array<object>" || !dd.Rows[3].Required {
		t.Errorf("rows = %+v", dd.Rows)
	}

	dd, err = svc.Dataset("okta.users@1", "zzz")
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if !dd.HasFields || len(dd.Rows) != 0 {
		t.Errorf("HasFields = %v, rows = %d", dd.HasFields, len(dd.Rows))
	}

	for _, ref := range []string{"okta.users@2", "okta.users", "okta.users@x"} {
		if _, err := svc.Dataset(ref, ""); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Dataset(%q) err = %v", ref, err)
		}
	}
}

func TestDatasetFields(t *testing.T) {
	rows, err := newService(t).DatasetFields("okta.users@1", "email")
	if err != nil {
		t.Fatalf("DatasetFields: %v", err)
	}
	if len(rows) != 1 || rows[0].Field != "login" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestConnectorsAndProfiles(t *testing.T) {
	svc := newService(t)

	cd, err := svc.Connector("okta")
	if err != nil {
		t.Fatalf("Connector: %v", err)
	}
	if diff := cmp.Diff([]string{"okta.users@1"}, cd.Provides); diff != "" {
		t.Errorf("provides mismatch (-want +got):\n%s", diff)
	}
	if _, err := svc.Connector("github"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Connector(github) err = %v", err)
	}

	items, err := svc.Profiles("cis compliance")
	if err != nil {
		t.Fatalf("Profiles: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("multi-word query should be one substring, got %+v", items)
	}
	items, _ = svc.Profiles("_cis_")
	if len(items) != 1 || items[0].Rulesets != 2 {
		t.Errorf("profiles = %+v", items)
	}

	pd, err := svc.Profile("cis.baseline")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if pd.Profile.Rulesets[1].Version != "" {
		t.Errorf("unpinned ruleset version = %q", pd.Profile.Rulesets[1].Version)
	}
}

func TestDictionary(t *testing.T) {
	dv, err := newService(t).Dictionary()
	if err != nil {
		t.Fatalf("Dictionary: %v", err)
	}
	var names []string
	for _, e := range dv.Enums {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"check_type", "severity"}, names); diff != "" {
		t.Errorf("enum order mismatch (-want +got):\n%s", diff)
	}
}

func TestRequirementsAndArtifacts(t *testing.T) {
	svc := newService(t)

	reqs, err := svc.Requirements("okta")
	if err != nil {
		t.Fatalf("Requirements: %v", err)
	}
	if len(reqs) != 1 || reqs[0].Datasets[0] != "okta.users@1" {
		t.Errorf("requirements = %+v", reqs)
	}

	arts, err := svc.Artifacts("sha256:prof")
	if err != nil {
		t.Fatalf("Artifacts: %v", err)
	}
	if len(arts) != 1 || arts[0].Key != "cis.baseline" {
		t.Errorf("artifacts = %+v", arts)
	}
}

func TestSchemaDoc(t *testing.T) {
	svc := newService(t)

	sd, err := svc.Schema(descriptor.KindRuleset, "")
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if !sd.Loaded || sd.Title != "Open SSPM Ruleset" {
		t.Errorf("schema doc = %+v", sd)
	}
	if sd.SourcePath != "docs/metaschema/opensspm.ruleset.schema.json" {
		t.Errorf("SourcePath = %q", sd.SourcePath)
	}
	if !strings.Contains(sd.Example, `"okta.cis"`) {
		t.Errorf("example should be the first ruleset:\n%s", sd.Example)
	}

	var sev string
	for _, r := range sd.Rows {
		if r.Field == "ruleset.rules[].severity" {
			sev = r.Details
		}
	}
	if !strings.HasPrefix(sev, `enum="critical", "high"`) {
		t.Errorf("severity details = %q", sev)
	}

	if _, err := svc.Schema(descriptor.Kind(0), ""); !errors.Is(err, apperr.ErrUnknownKind) {
		t.Errorf("invalid kind err = %v", err)
	}
}

func TestSchemaNotLoaded(t *testing.T) {
	site := testutil.Site(t)
	delete(site.Schemas, descriptor.KindProfile)
	h := docs.NewHolder()
	h.Set(site)
	svc := NewService(h)

	sd, err := svc.Schema(descriptor.KindProfile, "")
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if sd.Loaded {
		t.Error("expected schema to be reported as not loaded")
	}
	if _, err := svc.SchemaFields(descriptor.KindProfile, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SchemaFields err = %v", err)
	}
}

func TestSeverityClass(t *testing.T) {
	for sev, want := range map[string]string{
		"critical": "sev-critical", "high": "sev-high", "medium": "sev-medium",
		"low": "sev-low", "info": "sev-info", "": "sev-info",
	} {
		if got := SeverityClass(sev); got != want {
			t.Errorf("SeverityClass(%q) = %q, want %q", sev, got, want)
		}
	}
}
