package descriptor

import (
	"encoding/json"
	"fmt"
)

// Object is a compiled document of one of the five kinds.
type Object interface {
	Kind() Kind
	isObject()
}

var (
	_ Object = (*RulesetDoc)(nil)
	_ Object = (*DatasetContractDoc)(nil)
	_ Object = (*ConnectorManifestDoc)(nil)
	_ Object = (*ProfileDoc)(nil)
	_ Object = (*DictionaryDoc)(nil)
)

type Scope struct {
	Kind          string `json:"kind"`
	ConnectorKind string `json:"connector_kind,omitempty"`
}

type Source struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Date    string `json:"date"`
	URL     string `json:"url,omitempty"`
}

// DatasetRef points at a dataset contract by key and version.
type DatasetRef struct {
	Dataset string `json:"dataset"`
	Version int    `json:"version"`
}

// String formats the reference as "key@version".
func (r DatasetRef) String() string {
	return fmt.Sprintf("%s@%d", r.Dataset, r.Version)
}

type RulesetDoc struct {
	SchemaVersion int     `json:"schema_version"`
	DocKind       string  `json:"kind"`
	Ruleset       Ruleset `json:"ruleset"`
}

func (*RulesetDoc) Kind() Kind { return KindRuleset }
func (*RulesetDoc) isObject()  {}

type Ruleset struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Scope       Scope    `json:"scope"`
	Source      *Source  `json:"source,omitempty"`
	Status      string   `json:"status,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Rules       []Rule   `json:"rules"`
}

type Rule struct {
	Key         string       `json:"key"`
	Title       string       `json:"title"`
	Severity    string       `json:"severity"`
	Monitoring  Monitoring   `json:"monitoring"`
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	Check       *Check       `json:"check,omitempty"`
	Remediation *Remediation `json:"remediation,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
}

type Monitoring struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type Check struct {
	Type    string `json:"type"`
	Dataset string `json:"dataset,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type Remediation struct {
	Instructions string `json:"instructions"`
	Risks        string `json:"risks,omitempty"`
	Effort       string `json:"effort,omitempty"`
}

type DatasetContractDoc struct {
	SchemaVersion int             `json:"schema_version"`
	DocKind       string          `json:"kind"`
	Dataset       DatasetContract `json:"dataset"`
}

func (*DatasetContractDoc) Kind() Kind { return KindDatasetContract }
func (*DatasetContractDoc) isObject()  {}

type DatasetContract struct {
	Key                string          `json:"key"`
	Version            int             `json:"version"`
	Description        string          `json:"description,omitempty"`
	PrimaryKey         string          `json:"primary_key,omitempty"`
	RecommendedDisplay string          `json:"recommended_display,omitempty"`
	Schema             json.RawMessage `json:"schema"`
}

// Ref returns the "key@version" reference of the contract.
func (d DatasetContract) Ref() DatasetRef {
	return DatasetRef{Dataset: d.Key, Version: d.Version}
}

// RowSchema decodes the row schema into generic schema nodes. A missing or
// malformed schema yields nil.
func (d DatasetContract) RowSchema() any {
	if len(d.Schema) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(d.Schema, &v); err != nil {
		return nil
	}
	return v
}

type ConnectorManifestDoc struct {
	SchemaVersion int               `json:"schema_version"`
	DocKind       string            `json:"kind"`
	Connector     ConnectorManifest `json:"connector"`
}

func (*ConnectorManifestDoc) Kind() Kind { return KindConnectorManifest }
func (*ConnectorManifestDoc) isObject()  {}

type ConnectorManifest struct {
	Kind     string       `json:"kind"`
	Name     string       `json:"name"`
	Provides []DatasetRef `json:"provides"`
}

type ProfileDoc struct {
	SchemaVersion int     `json:"schema_version"`
	DocKind       string  `json:"kind"`
	Profile       Profile `json:"profile"`
}

func (*ProfileDoc) Kind() Kind { return KindProfile }
func (*ProfileDoc) isObject()  {}

type Profile struct {
	Key         string              `json:"key"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Rulesets    []ProfileRulesetRef `json:"rulesets"`
}

type ProfileRulesetRef struct {
	Key     string `json:"key"`
	Version string `json:"version,omitempty"`
}

type DictionaryDoc struct {
	SchemaVersion int        `json:"schema_version"`
	DocKind       string     `json:"kind"`
	Dictionary    Dictionary `json:"dictionary"`
}

func (*DictionaryDoc) Kind() Kind { return KindDictionary }
func (*DictionaryDoc) isObject()  {}

type Dictionary struct {
	Enums map[string][]string `json:"enums"`
}
