package docservice

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/open-sspm/sspmdocs/internal/apperr"
	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/docs"
	"github.com/open-sspm/sspmdocs/internal/schemadoc"
)

// Overview is the landing view.
type Overview struct {
	SpecVersion    string
	SchemaVersion  string
	Counts         descriptor.Counts
	DescriptorJSON string
}

func (s *Service) Overview() (*Overview, error) {
	site, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	v := site.Descriptor.Version
	out := &Overview{
		SpecVersion:    orUnknown(v.SpecVersion),
		SchemaVersion:  "?",
		Counts:         site.Descriptor.Counts(),
		DescriptorJSON: prettyJSON(site.Raw),
	}
	if v.SchemaVersion != nil {
		out.SchemaVersion = strconv.Itoa(*v.SchemaVersion)
	}
	return out, nil
}

type RulesetItem struct {
	Key       string
	Name      string
	Scope     string
	Connector string
	Rules     int
	Hash      string
}

// Rulesets lists rulesets matching query on key, name, scope and source.
func (s *Service) Rulesets(query string) ([]RulesetItem, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	var out []RulesetItem
	for _, c := range d.Rulesets {
		rs := c.Object.Ruleset
		var srcName, srcVersion string
		if rs.Source != nil {
			srcName, srcVersion = rs.Source.Name, rs.Source.Version
		}
		if !schemadoc.Matches(query, rs.Key, rs.Name, rs.Scope.Kind, rs.Scope.ConnectorKind, srcName, srcVersion) {
			continue
		}
		out = append(out, RulesetItem{
			Key:       rs.Key,
			Name:      rs.Name,
			Scope:     rs.Scope.Kind,
			Connector: rs.Scope.ConnectorKind,
			Rules:     len(rs.Rules),
			Hash:      c.Hash,
		})
	}
	return out, nil
}

type RuleItem struct {
	Key           string
	Title         string
	Severity      string
	SeverityClass string
	Monitoring    string
	Check         string
	Summary       string
}

type RulesetDetail struct {
	Ruleset    descriptor.Ruleset
	SourcePath string
	Hash       string
	Rules      []RuleItem
	JSON       string
}

// Ruleset returns the ruleset with key; its rules are filtered by query.
func (s *Service) Ruleset(key, query string) (*RulesetDetail, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	c, ok := d.Ruleset(key)
	if !ok {
		return nil, fmt.Errorf("%w: ruleset %s", apperr.ErrNotFound, key)
	}
	rs := c.Object.Ruleset
	out := &RulesetDetail{
		Ruleset:    rs,
		SourcePath: c.SourcePath,
		Hash:       c.Hash,
		JSON:       prettyRaw(c.Raw),
	}
	for _, r := range rs.Rules {
		var check string
		if r.Check != nil {
			check = r.Check.Type
		}
		if !schemadoc.Matches(query, r.Key, r.Summary, r.Title, r.Severity, r.Monitoring.Status, check) {
			continue
		}
		out.Rules = append(out.Rules, RuleItem{
			Key:           r.Key,
			Title:         r.Title,
			Severity:      r.Severity,
			SeverityClass: SeverityClass(r.Severity),
			Monitoring:    r.Monitoring.Status,
			Check:         check,
			Summary:       r.Summary,
		})
	}
	return out, nil
}

type DatasetItem struct {
	Ref         string
	Key         string
	Version     int
	Description string
	Hash        string
}

func (s *Service) Datasets(query string) ([]DatasetItem, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	var out []DatasetItem
	for _, c := range d.DatasetContracts {
		ds := c.Object.Dataset
		if !schemadoc.Matches(query, ds.Key, ds.Description, strconv.Itoa(ds.Version)) {
			continue
		}
		out = append(out, DatasetItem{
			Ref:         ds.Ref().String(),
			Key:         ds.Key,
			Version:     ds.Version,
			Description: ds.Description,
			Hash:        c.Hash,
		})
	}
	return out, nil
}

type DatasetDetail struct {
	Dataset    descriptor.DatasetContract
	Ref        string
	SourcePath string
	Hash       string
	// HasFields is set when the row schema has properties at all, even if
	// the filter hides every row.
	HasFields  bool
	Rows       []schemadoc.Row
	SchemaJSON string
	JSON       string
}

// Dataset returns the contract for "key@version" with its flattened row
// schema filtered by query.
func (s *Service) Dataset(ref, query string) (*DatasetDetail, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	c, ok := d.DatasetByRef(ref)
	if !ok {
		return nil, fmt.Errorf("%w: dataset %s", apperr.ErrNotFound, ref)
	}
	ds := c.Object.Dataset
	rows := schemadoc.FlattenDocument(ds.RowSchema())
	return &DatasetDetail{
		Dataset:    ds,
		Ref:        ds.Ref().String(),
		SourcePath: c.SourcePath,
		Hash:       c.Hash,
		HasFields:  len(rows) > 0,
		Rows:       schemadoc.FilterRows(rows, query),
		SchemaJSON: prettyRaw(ds.Schema),
		JSON:       prettyRaw(c.Raw),
	}, nil
}

type ConnectorItem struct {
	Kind     string
	Name     string
	Provides int
	Hash     string
}

func (s *Service) Connectors(query string) ([]ConnectorItem, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	var out []ConnectorItem
	for _, c := range d.Connectors {
		co := c.Object.Connector
		if !schemadoc.Matches(query, co.Kind, co.Name) {
			continue
		}
		out = append(out, ConnectorItem{Kind: co.Kind, Name: co.Name, Provides: len(co.Provides), Hash: c.Hash})
	}
	return out, nil
}

type ConnectorDetail struct {
	Connector  descriptor.ConnectorManifest
	Provides   []string
	SourcePath string
	Hash       string
	JSON       string
}

func (s *Service) Connector(kind string) (*ConnectorDetail, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	c, ok := d.Connector(kind)
	if !ok {
		return nil, fmt.Errorf("%w: connector %s", apperr.ErrNotFound, kind)
	}
	co := c.Object.Connector
	out := &ConnectorDetail{Connector: co, SourcePath: c.SourcePath, Hash: c.Hash, JSON: prettyRaw(c.Raw)}
	for _, p := range co.Provides {
		out.Provides = append(out.Provides, p.String())
	}
	return out, nil
}

type ProfileItem struct {
	Key      string
	Name     string
	Rulesets int
	Hash     string
}

func (s *Service) Profiles(query string) ([]ProfileItem, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	var out []ProfileItem
	for _, c := range d.Profiles {
		p := c.Object.Profile
		if !schemadoc.Matches(query, p.Key, p.Name, p.Description) {
			continue
		}
		out = append(out, ProfileItem{Key: p.Key, Name: p.Name, Rulesets: len(p.Rulesets), Hash: c.Hash})
	}
	return out, nil
}

type ProfileDetail struct {
	Profile    descriptor.Profile
	SourcePath string
	Hash       string
	JSON       string
}

func (s *Service) Profile(key string) (*ProfileDetail, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	c, ok := d.Profile(key)
	if !ok {
		return nil, fmt.Errorf("%w: profile %s", apperr.ErrNotFound, key)
	}
	return &ProfileDetail{Profile: c.Object.Profile, SourcePath: c.SourcePath, Hash: c.Hash, JSON: prettyRaw(c.Raw)}, nil
}

type EnumItem struct {
	Name   string
	Values []string
}

type DictionaryView struct {
	Enums []EnumItem
	JSON  string
}

// Dictionary lists the shared enums sorted by name.
func (s *Service) Dictionary() (*DictionaryView, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	enums := d.Dictionary.Object.Dictionary.Enums
	names := make([]string, 0, len(enums))
	for n := range enums {
		names = append(names, n)
	}
	sort.Strings(names)

	out := &DictionaryView{JSON: "{}"}
	if len(d.Dictionary.Raw) > 0 {
		out.JSON = prettyRaw(d.Dictionary.Raw)
	}
	for _, n := range names {
		out.Enums = append(out.Enums, EnumItem{Name: n, Values: enums[n]})
	}
	return out, nil
}

type RequirementItem struct {
	RulesetKey string
	Scope      string
	Connector  string
	CheckTypes []string
	Datasets   []string
}

func (s *Service) Requirements(query string) ([]RequirementItem, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	var out []RequirementItem
	for _, r := range d.Index.Requirements.Rulesets {
		if !schemadoc.Matches(query, r.RulesetKey, r.Scope.Kind, r.Scope.ConnectorKind) {
			continue
		}
		item := RequirementItem{
			RulesetKey: r.RulesetKey,
			Scope:      r.Scope.Kind,
			Connector:  r.Scope.ConnectorKind,
			CheckTypes: r.CheckTypes,
		}
		for _, ds := range r.Datasets {
			item.Datasets = append(item.Datasets, ds.String())
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Service) Artifacts(query string) ([]descriptor.Artifact, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	var out []descriptor.Artifact
	for _, a := range d.Index.Artifacts.Artifacts {
		if schemadoc.Matches(query, a.Kind, a.Key, a.SourcePath, a.Hash) {
			out = append(out, a)
		}
	}
	return out, nil
}

// SchemaDoc documents one metaschema.
type SchemaDoc struct {
	Kind        descriptor.Kind
	Loaded      bool
	Title       string
	Description string
	SourcePath  string
	Rows        []schemadoc.Row
	Example     string
	SchemaJSON  string
}

// Schema builds the documentation view of the metaschema for kind. A kind
// whose schema is missing yields a view with Loaded unset.
func (s *Service) Schema(kind descriptor.Kind, query string) (*SchemaDoc, error) {
	site, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, apperr.ErrUnknownKind
	}
	out := &SchemaDoc{Kind: kind, SourcePath: "docs/" + docs.SchemaPath(kind)}
	schema, ok := site.Schema(kind).(map[string]any)
	if !ok {
		return out, nil
	}

	out.Loaded = true
	out.Title = kind.String()
	if t, ok := schema["title"].(string); ok && t != "" {
		out.Title = t
	}
	out.Description, _ = schema["description"].(string)
	out.Rows = schemadoc.FilterRows(schemadoc.FlattenDocument(schema), query)
	if _, raw := site.Descriptor.Example(kind); len(raw) > 0 {
		out.Example = prettyRaw(raw)
	}
	out.SchemaJSON = prettyJSON(schema)
	return out, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
