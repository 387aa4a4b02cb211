// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the Open SSPM docs for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/open-sspm/sspmdocs/internal/apperr"
	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/docservice"
	"github.com/open-sspm/sspmdocs/internal/index"
)

const (
	DescriptorURI = "sspm://descriptor"
	GuideURI      = "sspm://field-tables"

	searchLimit = 20
)

// Server wraps the MCP server with the docs tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
	idx index.DocIndex
}

// New creates a new MCP server with all docs tools registered.
func New(svc *docservice.Service, idx index.DocIndex, version string) *Server {
	s := &Server{svc: svc, idx: idx}

	s.mcp = server.NewMCPServer(
		"Open SSPM Docs",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_objects",
		mcp.WithDescription("List the compiled objects of one kind. "+
			"Dictionary lists its enum names."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("ruleset, dataset_contract, connector_manifest, profile or dictionary")),
	), s.listObjects)

	s.mcp.AddTool(mcp.NewTool("get_object",
		mcp.WithDescription("Return one compiled object as JSON."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Object kind")),
		mcp.WithString("key", mcp.Description("Object key; key@version for datasets; ignored for dictionary")),
	), s.getObject)

	s.mcp.AddTool(mcp.NewTool("schema_fields",
		mcp.WithDescription("Flatten the metaschema of a kind into field rows. "+
			"See the "+GuideURI+" resource for the row format."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Object kind")),
		mcp.WithString("query", mcp.Description("Optional case-insensitive row filter")),
	), s.schemaFields)

	s.mcp.AddTool(mcp.NewTool("search",
		mcp.WithDescription("Full-text search over rulesets, rules, datasets, connectors, profiles and schema fields."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.search)

	s.mcp.AddResource(
		mcp.NewResource(DescriptorURI, "Compiled descriptor",
			mcp.WithResourceDescription("The descriptor.v1.json bundle the docs are built from."),
			mcp.WithMIMEType("application/json"),
		),
		s.readDescriptorResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(GuideURI, "Field table guide",
			mcp.WithResourceDescription("How to read schema_fields rows."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func textJSON(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func requireKind(req mcp.CallToolRequest) (descriptor.Kind, error) {
	raw, err := req.RequireString("kind")
	if err != nil {
		return 0, err
	}
	k, ok := descriptor.ParseKind(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s", apperr.ErrUnknownKind, raw)
	}
	return k, nil
}

type objectSummary struct {
	Key   string `json:"key"`
	Title string `json:"title,omitempty"`
}

func (s *Server) listObjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := requireKind(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var out []objectSummary
	switch kind {
	case descriptor.KindRuleset:
		items, err := s.svc.Rulesets("")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, it := range items {
			out = append(out, objectSummary{Key: it.Key, Title: it.Name})
		}
	case descriptor.KindDatasetContract:
		items, err := s.svc.Datasets("")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, it := range items {
			out = append(out, objectSummary{Key: it.Ref, Title: it.Description})
		}
	case descriptor.KindConnectorManifest:
		items, err := s.svc.Connectors("")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, it := range items {
			out = append(out, objectSummary{Key: it.Kind, Title: it.Name})
		}
	case descriptor.KindProfile:
		items, err := s.svc.Profiles("")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, it := range items {
			out = append(out, objectSummary{Key: it.Key, Title: it.Name})
		}
	case descriptor.KindDictionary:
		dv, err := s.svc.Dictionary()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, e := range dv.Enums {
			out = append(out, objectSummary{Key: e.Name})
		}
	}
	if out == nil {
		out = []objectSummary{}
	}
	return textJSON(out)
}

func (s *Server) getObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := requireKind(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key := ""
	if k, kErr := req.RequireString("key"); kErr == nil {
		key = k
	}
	if key == "" && kind != descriptor.KindDictionary {
		return mcp.NewToolResultError("key is required for " + kind.Short()), nil
	}

	var text string
	switch kind {
	case descriptor.KindRuleset:
		var d *docservice.RulesetDetail
		if d, err = s.svc.Ruleset(key, ""); err == nil {
			text = d.JSON
		}
	case descriptor.KindDatasetContract:
		var d *docservice.DatasetDetail
		if d, err = s.svc.Dataset(key, ""); err == nil {
			text = d.JSON
		}
	case descriptor.KindConnectorManifest:
		var d *docservice.ConnectorDetail
		if d, err = s.svc.Connector(key); err == nil {
			text = d.JSON
		}
	case descriptor.KindProfile:
		var d *docservice.ProfileDetail
		if d, err = s.svc.Profile(key); err == nil {
			text = d.JSON
		}
	case descriptor.KindDictionary:
		var d *docservice.DictionaryView
		if d, err = s.svc.Dictionary(); err == nil {
			text = d.JSON
		}
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) schemaFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := requireKind(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query := ""
	if q, qErr := req.RequireString("query"); qErr == nil {
		query = q
	}
	rows, err := s.svc.SchemaFields(kind, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textJSON(rows)
}

func (s *Server) search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.Site(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.idx.Search(query, searchLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no results"), nil
	}
	return textJSON(results)
}

func (s *Server) readDescriptorResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	site, err := s.svc.Site()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(site.Raw)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: encode descriptor: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DescriptorURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) readGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GuideURI,
			MIMEType: "text/markdown",
			Text:     FieldTableGuide,
		},
	}, nil
}
