// Package docs loads the descriptor and metaschemas and holds the resulting
// immutable site for the rest of the application.
package docs

import (
	"time"

	"github.com/open-sspm/sspmdocs/internal/descriptor"
)

// Artifact names relative to the source root.
const (
	DescriptorFile = "descriptor.v1.json"
	MetaschemaDir  = "metaschema"
)

// SchemaPath returns the artifact name of the metaschema for kind.
func SchemaPath(kind descriptor.Kind) string {
	return MetaschemaDir + "/" + kind.SchemaFile()
}

// Site is one successfully loaded set of artifacts. It is never modified
// after Load returns it.
type Site struct {
	Descriptor *descriptor.Descriptor
	// Raw is the descriptor decoded generically, for verbatim display.
	Raw any
	// Schemas holds each metaschema decoded generically, by kind.
	Schemas  map[descriptor.Kind]any
	Checksum string
	Source   string
	LoadedAt time.Time
}

// Schema returns the metaschema for kind, or nil when it was not loaded.
func (s *Site) Schema(kind descriptor.Kind) any {
	return s.Schemas[kind]
}
