// Package descriptor models the compiled Open SSPM descriptor document.
//
// The descriptor is produced by an external compiler; this package only
// decodes it. Hashes are carried as opaque strings.
package descriptor

import (
	"encoding/json"
	"fmt"
)

// Descriptor is the top-level compiled bundle (descriptor.v1.json).
type Descriptor struct {
	SchemaVersion    int                              `json:"schema_version"`
	Kind             string                           `json:"kind"`
	Version          Version                          `json:"version"`
	Dictionary       Compiled[DictionaryDoc]          `json:"dictionary"`
	Rulesets         []Compiled[RulesetDoc]           `json:"rulesets"`
	DatasetContracts []Compiled[DatasetContractDoc]   `json:"dataset_contracts"`
	Connectors       []Compiled[ConnectorManifestDoc] `json:"connectors"`
	Profiles         []Compiled[ProfileDoc]           `json:"profiles"`
	Index            Index                            `json:"index"`
}

// Compiled wraps an object with the source it was compiled from and its hash.
// Raw keeps the object exactly as it appeared in the descriptor.
type Compiled[T any] struct {
	SourcePath string          `json:"source_path"`
	Hash       string          `json:"hash"`
	Object     T               `json:"object"`
	Raw        json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the entry and retains the raw object bytes.
func (c *Compiled[T]) UnmarshalJSON(b []byte) error {
	var wire struct {
		SourcePath string          `json:"source_path"`
		Hash       string          `json:"hash"`
		Object     json.RawMessage `json:"object"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	c.SourcePath = wire.SourcePath
	c.Hash = wire.Hash
	c.Raw = wire.Object
	if len(wire.Object) == 0 || string(wire.Object) == "null" {
		return nil
	}
	return json.Unmarshal(wire.Object, &c.Object)
}

// Version describes the spec release the descriptor was compiled from.
type Version struct {
	Project             string `json:"project"`
	Repo                string `json:"repo"`
	SpecVersion         string `json:"spec_version"`
	SchemaVersion       *int   `json:"schema_version"`
	GeneratorMinVersion string `json:"generator_min_version"`
}

// Index holds the precomputed indexes shipped with the descriptor.
type Index struct {
	Requirements RequirementsIndex `json:"requirements"`
	Artifacts    ArtifactsIndex    `json:"artifacts"`
}

type ArtifactsIndex struct {
	SchemaVersion int        `json:"schema_version"`
	Kind          string     `json:"kind"`
	Artifacts     []Artifact `json:"artifacts"`
}

type Artifact struct {
	Kind       string `json:"kind"`
	Key        string `json:"key"`
	SourcePath string `json:"source_path"`
	Hash       string `json:"hash"`
}

type RequirementsIndex struct {
	SchemaVersion int                  `json:"schema_version"`
	Kind          string               `json:"kind"`
	Rulesets      []RulesetRequirement `json:"rulesets"`
}

type RulesetRequirement struct {
	RulesetKey  string       `json:"ruleset_key"`
	Status      string       `json:"status"`
	Scope       Scope        `json:"scope"`
	Datasets    []DatasetRef `json:"datasets"`
	CheckTypes  []string     `json:"check_types"`
	ValueParams []string     `json:"value_params"`
}

// Parse decodes a descriptor document.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("descriptor: decode: %w", err)
	}
	return &d, nil
}
