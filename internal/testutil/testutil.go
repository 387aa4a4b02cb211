// Package testutil provides a small, complete docs source for tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/docs"
	"github.com/open-sspm/sspmdocs/internal/storage"
)

// DescriptorJSON is a compiled descriptor covering every view.
const DescriptorJSON = `{
  "schema_version": 1,
  "kind": "opensspm.descriptor",
  "version": {"project": "open-sspm", "spec_version": "0.4.1", "schema_version": 1},
  "dictionary": {
    "source_path": "specs/dictionary.json",
    "hash": "sha256:dict",
    "object": {
      "schema_version": 1,
      "kind": "opensspm.dictionary",
      "dictionary": {"enums": {"severity": ["critical", "high", "medium", "low", "info"], "check_type": ["dataset.field_compare", "manual.attestation"]}}
    }
  },
  "rulesets": [
    {
      "source_path": "specs/rulesets/okta/cis.json",
      "hash": "sha256:okta",
      "object": {
        "schema_version": 1,
        "kind": "opensspm.ruleset",
        "ruleset": {
          "key": "okta.cis",
          "name": "CIS Okta Benchmark",
          "description": "Checks from the **CIS** Okta benchmark.",
          "scope": {"kind": "connector_instance", "connector_kind": "okta"},
          "source": {"name": "CIS", "version": "1.0.0", "date": "2024-05-01"},
          "rules": [
            {"key": "okta.mfa_enforced", "title": "MFA enforced", "severity": "high", "summary": "Require MFA for all users.",
             "monitoring": {"status": "automated"}, "check": {"type": "dataset.field_compare", "dataset": "okta.users"}},
            {"key": "okta.admin_review", "title": "Admin review", "severity": "low", "summary": "Review admins quarterly.",
             "monitoring": {"status": "manual"}, "check": {"type": "manual.attestation"}}
          ]
        }
      }
    },
    {
      "source_path": "specs/rulesets/github/baseline.json",
      "hash": "sha256:gh",
      "object": {
        "schema_version": 1,
        "kind": "opensspm.ruleset",
        "ruleset": {
          "key": "github.baseline",
          "name": "GitHub Baseline",
          "scope": {"kind": "global"},
          "rules": [
            {"key": "github.branch_protection", "title": "Branch protection", "severity": "critical",
             "monitoring": {"status": "partial"}}
          ]
        }
      }
    }
  ],
  "dataset_contracts": [
    {
      "source_path": "specs/datasets/okta/users.json",
      "hash": "sha256:users",
      "object": {
        "schema_version": 1,
        "kind": "opensspm.dataset_contract",
        "dataset": {
          "key": "okta.users",
          "version": 1,
          "description": "Okta user accounts.",
          "primary_key": "id",
          "recommended_display": "login",
          "schema": {
            "type": "object",
            "required": ["id"],
            "properties": {
              "login": {"type": "string", "format": "email"},
              "id": {"type": "string", "description": "Okta user id."},
              "factors": {"type": "array", "items": {"$ref": "#/$defs/factor"}}
            },
            "$defs": {
              "factor": {"type": "object", "required": ["type"], "properties": {"type": {"type": "string", "enum": ["push", "sms"]}}}
            }
          }
        }
      }
    }
  ],
  "connectors": [
    {
      "source_path": "specs/connectors/okta.json",
      "hash": "sha256:conn",
      "object": {
        "schema_version": 1,
        "kind": "opensspm.connector_manifest",
        "connector": {"kind": "okta", "name": "Okta", "provides": [{"dataset": "okta.users", "version": 1}]}
      }
    }
  ],
  "profiles": [
    {
      "source_path": "specs/profiles/cis.json",
      "hash": "sha256:prof",
      "object": {
        "schema_version": 1,
        "kind": "opensspm.profile",
        "profile": {
          "key": "cis.baseline",
          "name": "CIS Baseline",
          "description": "Baseline for _CIS_ compliance.",
          "rulesets": [{"key": "okta.cis", "version": "1.0.0"}, {"key": "github.baseline"}]
        }
      }
    }
  ],
  "index": {
    "requirements": {
      "schema_version": 1,
      "kind": "opensspm.requirements_index",
      "rulesets": [
        {"ruleset_key": "okta.cis", "status": "active", "scope": {"kind": "connector_instance", "connector_kind": "okta"},
         "datasets": [{"dataset": "okta.users", "version": 1}], "check_types": ["dataset.field_compare", "manual.attestation"]},
        {"ruleset_key": "github.baseline", "status": "active", "scope": {"kind": "global"}, "datasets": [], "check_types": []}
      ]
    },
    "artifacts": {
      "schema_version": 1,
      "kind": "opensspm.artifacts_index",
      "artifacts": [
        {"kind": "ruleset", "key": "okta.cis", "source_path": "specs/rulesets/okta/cis.json", "hash": "sha256:okta"},
        {"kind": "profile", "key": "cis.baseline", "source_path": "specs/profiles/cis.json", "hash": "sha256:prof"}
      ]
    }
  }
}`

// SchemaJSON holds one metaschema per kind.
var SchemaJSON = map[descriptor.Kind]string{
	descriptor.KindRuleset: `{
  "title": "Open SSPM Ruleset",
  "description": "A named collection of rules.",
  "required": ["kind", "ruleset"],
  "properties": {
    "kind": {"const": "opensspm.ruleset", "description": "Object kind."},
    "schema_version": {"type": "integer", "minimum": 1},
    "ruleset": {
      "type": "object",
      "required": ["key", "rules"],
      "properties": {
        "key": {"type": "string", "pattern": "^[a-z0-9_.]+$", "description": "Stable ruleset key."},
        "rules": {"type": "array", "items": {"$ref": "#/$defs/rule"}}
      }
    }
  },
  "$defs": {
    "rule": {
      "type": "object",
      "required": ["key", "severity"],
      "additionalProperties": false,
      "properties": {
        "key": {"type": "string"},
        "severity": {"$ref": "#/$defs/severity"}
      }
    },
    "severity": {"type": "string", "enum": ["critical", "high", "medium", "low", "info"]}
  }
}`,
	descriptor.KindDatasetContract: `{
  "title": "Open SSPM Dataset Contract",
  "required": ["dataset"],
  "properties": {
    "kind": {"const": "opensspm.dataset_contract"},
    "dataset": {"type": "object", "properties": {"key": {"type": "string"}, "version": {"type": "integer", "minimum": 1}}}
  }
}`,
	descriptor.KindConnectorManifest: `{
  "title": "Open SSPM Connector Manifest",
  "properties": {
    "kind": {"const": "opensspm.connector_manifest"},
    "connector": {"type": "object", "properties": {"provides": {"type": "array", "uniqueItems": true, "items": {"type": "object", "properties": {"dataset": {"type": "string"}}}}}}
  }
}`,
	descriptor.KindProfile: `{
  "title": "Open SSPM Profile",
  "properties": {
    "kind": {"const": "opensspm.profile"},
    "profile": {"type": "object", "properties": {"rulesets": {"type": "array", "items": {"type": "string"}}}}
  }
}`,
	descriptor.KindDictionary: `{
  "title": "Open SSPM Dictionary",
  "properties": {
    "kind": {"const": "opensspm.dictionary"},
    "dictionary": {"type": "object", "properties": {"enums": {"type": "object", "additionalProperties": {"type": "array"}}}}
  }
}`,
}

// WriteSource writes the fixture descriptor and metaschemas into a fresh
// temporary directory and returns it.
func WriteSource(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, docs.DescriptorFile, DescriptorJSON)
	for k, src := range SchemaJSON {
		WriteFile(t, dir, docs.SchemaPath(k), src)
	}
	return dir
}

// WriteFile writes content to name under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Site loads the fixture source.
func Site(t *testing.T) *docs.Site {
	t.Helper()
	store, err := storage.NewFS(WriteSource(t))
	if err != nil {
		t.Fatal(err)
	}
	site, err := docs.Load(context.Background(), store)
	if err != nil {
		t.Fatalf("docs.Load: %v", err)
	}
	return site
}

// Holder returns a holder populated with the fixture site.
func Holder(t *testing.T) *docs.Holder {
	t.Helper()
	h := docs.NewHolder()
	h.Set(Site(t))
	return h
}
