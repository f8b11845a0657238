// Package scanner defines the fixed catalog of external scanning tools and
// the process runner that invokes them.
package scanner

import "errors"

// ErrUnknownTool indicates the requested tool is not in the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// Tool names. The catalog is closed; there is no runtime registration.
const (
	ToolDig       = "dig"
	ToolNmap      = "nmap"
	ToolSubfinder = "subfinder"
	ToolWpscan    = "wpscan"
	ToolWhatweb   = "whatweb"
	ToolSslscan   = "sslscan"
	ToolNuclei    = "nuclei"
)

// Descriptor describes one scanning tool. The argument vector is built
// programmatically; the target domain always travels as one literal argv
// element and is never joined into a shell string.
type Descriptor struct {
	Name        string
	Description string
	buildArgs   func(domain string) []string
}

// Args returns the full argument vector for scanning domain, with argv[0]
// being the binary name.
func (d Descriptor) Args(domain string) []string {
	return d.buildArgs(domain)
}

// ToolInfo is the API representation of a catalog entry.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// catalog holds the supported tools in presentation order.
var catalog = []Descriptor{
	{
		Name:        ToolDig,
		Description: "DNS lookup tool that provides information about DNS records",
		buildArgs:   func(domain string) []string { return []string{"dig", domain} },
	},
	{
		Name:        ToolNmap,
		Description: "Network discovery and security auditing tool",
		buildArgs:   func(domain string) []string { return []string{"nmap", domain} },
	},
	{
		Name:        ToolSubfinder,
		Description: "Subdomain discovery tool",
		buildArgs:   func(domain string) []string { return []string{"subfinder", "-d", domain} },
	},
	{
		Name:        ToolWpscan,
		Description: "WordPress security scanner",
		buildArgs:   func(domain string) []string { return []string{"wpscan", "--url", domain} },
	},
	{
		Name:        ToolWhatweb,
		Description: "Web scanner that identifies web technologies",
		buildArgs:   func(domain string) []string { return []string{"whatweb", domain} },
	},
	{
		Name:        ToolSslscan,
		Description: "SSL/TLS scanner that tests SSL/TLS enabled services",
		buildArgs:   func(domain string) []string { return []string{"sslscan", domain} },
	},
	{
		Name:        ToolNuclei,
		Description: "Fast and customizable vulnerability scanner",
		buildArgs: func(domain string) []string {
			return []string{"nuclei", "-u", domain, "-t", "http/technologies/", "--silent"}
		},
	},
}

// Registry resolves tool names against the fixed catalog.
type Registry struct {
	byName map[string]Descriptor
	order  []Descriptor
}

// NewRegistry builds the registry from the built-in catalog.
func NewRegistry() *Registry {
	byName := make(map[string]Descriptor, len(catalog))
	for _, d := range catalog {
		byName[d.Name] = d
	}
	return &Registry{
		byName: byName,
		order:  catalog,
	}
}

// List returns all tools in stable catalog order.
func (r *Registry) List() []ToolInfo {
	infos := make([]ToolInfo, 0, len(r.order))
	for _, d := range r.order {
		infos = append(infos, ToolInfo{Name: d.Name, Description: d.Description})
	}
	return infos
}

// Resolve looks up a tool by name.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, ErrUnknownTool
	}
	return d, nil
}
