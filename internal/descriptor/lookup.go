package descriptor

import (
	"strconv"
	"strings"
)

// Ruleset returns the compiled ruleset with the given key.
func (d *Descriptor) Ruleset(key string) (*Compiled[RulesetDoc], bool) {
	for i := range d.Rulesets {
		if d.Rulesets[i].Object.Ruleset.Key == key {
			return &d.Rulesets[i], true
		}
	}
	return nil, false
}

// Dataset returns the dataset contract with the given key and version.
func (d *Descriptor) Dataset(key string, version int) (*Compiled[DatasetContractDoc], bool) {
	for i := range d.DatasetContracts {
		ds := d.DatasetContracts[i].Object.Dataset
		if ds.Key == key && ds.Version == version {
			return &d.DatasetContracts[i], true
		}
	}
	return nil, false
}

// DatasetByRef looks a dataset contract up by its "key@version" reference.
func (d *Descriptor) DatasetByRef(ref string) (*Compiled[DatasetContractDoc], bool) {
	key, ver, ok := strings.Cut(ref, "@")
	if !ok {
		return nil, false
	}
	v, err := strconv.Atoi(ver)
	if err != nil {
		return nil, false
	}
	return d.Dataset(key, v)
}

// Connector returns the connector manifest for a connector kind.
func (d *Descriptor) Connector(kind string) (*Compiled[ConnectorManifestDoc], bool) {
	for i := range d.Connectors {
		if d.Connectors[i].Object.Connector.Kind == kind {
			return &d.Connectors[i], true
		}
	}
	return nil, false
}

// Profile returns the profile with the given key.
func (d *Descriptor) Profile(key string) (*Compiled[ProfileDoc], bool) {
	for i := range d.Profiles {
		if d.Profiles[i].Object.Profile.Key == key {
			return &d.Profiles[i], true
		}
	}
	return nil, false
}

// Example returns the first compiled object of kind together with its raw
// JSON, or nil when the descriptor has none.
func (d *Descriptor) Example(kind Kind) (Object, []byte) {
	switch kind {
	case KindRuleset:
		if len(d.Rulesets) > 0 {
			return &d.Rulesets[0].Object, d.Rulesets[0].Raw
		}
	case KindDatasetContract:
		if len(d.DatasetContracts) > 0 {
			return &d.DatasetContracts[0].Object, d.DatasetContracts[0].Raw
		}
	case KindConnectorManifest:
		if len(d.Connectors) > 0 {
			return &d.Connectors[0].Object, d.Connectors[0].Raw
		}
	case KindProfile:
		if len(d.Profiles) > 0 {
			return &d.Profiles[0].Object, d.Profiles[0].Raw
		}
	case KindDictionary:
		if len(d.Dictionary.Raw) > 0 {
			return &d.Dictionary.Object, d.Dictionary.Raw
		}
	}
	return nil, nil
}

// Counts summarises how many objects of each listable kind are present.
type Counts struct {
	Rulesets   int `json:"rulesets"`
	Datasets   int `json:"datasets"`
	Connectors int `json:"connectors"`
	Profiles   int `json:"profiles"`
}

func (d *Descriptor) Counts() Counts {
	return Counts{
		Rulesets:   len(d.Rulesets),
		Datasets:   len(d.DatasetContracts),
		Connectors: len(d.Connectors),
		Profiles:   len(d.Profiles),
	}
}
