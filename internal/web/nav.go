package web

import (
	"net/url"

	"github.com/open-sspm/sspmdocs/internal/descriptor"
)

type navItem struct {
	Section string
	Label   string
	Href    string
	Active  bool
}

// activeHref maps a view to the navigation link it highlights. Detail views
// share the link of their list.
func activeHref(view, rest string) string {
	switch view {
	case "overview":
		return "/overview"
	case "ruleset", "rulesets":
		return "/rulesets"
	case "dataset", "datasets":
		return "/datasets"
	case "connector", "connectors":
		return "/connectors"
	case "profile", "profiles":
		return "/profiles"
	case "schema":
		if k, ok := descriptor.ParseKind(rest); ok {
			return "/schema/" + k.Short()
		}
		return "/schema/" + url.PathEscape(rest)
	case "dictionary":
		return "/dictionary"
	case "requirements":
		return "/requirements"
	case "artifacts":
		return "/artifacts"
	default:
		return ""
	}
}

func navItems(active string) []navItem {
	items := []navItem{
		{Section: "Browse", Label: "Overview", Href: "/overview"},
		{Label: "Rulesets", Href: "/rulesets"},
		{Label: "Datasets", Href: "/datasets"},
		{Label: "Connectors", Href: "/connectors"},
		{Label: "Profiles", Href: "/profiles"},
		{Label: "Dictionary", Href: "/dictionary"},
		{Label: "Requirements", Href: "/requirements"},
		{Label: "Artifacts", Href: "/artifacts"},
	}
	for i, k := range descriptor.Kinds() {
		item := navItem{Label: k.Title(), Href: "/schema/" + k.Short()}
		if i == 0 {
			item.Section = "Schemas"
		}
		items = append(items, item)
	}
	for i := range items {
		items[i].Active = items[i].Href == active
	}
	return items
}
