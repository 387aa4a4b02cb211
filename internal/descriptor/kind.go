package descriptor

import "strings"

// Kind identifies one of the five compiled object kinds. The set is closed.
type Kind int

const (
	KindRuleset Kind = iota + 1
	KindDatasetContract
	KindConnectorManifest
	KindProfile
	KindDictionary
)

var kindInfo = map[Kind]struct {
	name  string
	short string
	title string
}{
	KindRuleset:           {"opensspm.ruleset", "ruleset", "Ruleset"},
	KindDatasetContract:   {"opensspm.dataset_contract", "dataset_contract", "Dataset contract"},
	KindConnectorManifest: {"opensspm.connector_manifest", "connector_manifest", "Connector manifest"},
	KindProfile:           {"opensspm.profile", "profile", "Profile"},
	KindDictionary:        {"opensspm.dictionary", "dictionary", "Dictionary"},
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindRuleset, KindDatasetContract, KindConnectorManifest, KindProfile, KindDictionary}
}

// ParseKind accepts a wire name ("opensspm.profile") or a short name
// ("profile").
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds() {
		info := kindInfo[k]
		if s == info.name || s == info.short {
			return k, true
		}
	}
	return 0, false
}

// String returns the wire name used in documents and schema file names.
func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return "unknown"
}

// Short returns the name without the "opensspm." prefix.
func (k Kind) Short() string { return kindInfo[k].short }

// Title is the human label of the kind.
func (k Kind) Title() string { return kindInfo[k].title }

// SchemaFile is the metaschema file name for the kind.
func (k Kind) SchemaFile() string {
	return k.String() + ".schema.json"
}

// Valid reports whether k is one of the five kinds.
func (k Kind) Valid() bool {
	_, ok := kindInfo[k]
	return ok
}
