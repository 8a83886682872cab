package backendapi

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ufologist/weapp-backend-api/internal/deepmerge"
)

// Endpoint is the partial descriptor configured for one logical endpoint name.
// Names may be namespaced with a dot, e.g. "user.getProfile".
type Endpoint struct {
	Method string            `yaml:"method" json:"method"`
	URL    string            `yaml:"url" json:"url"`
	Header map[string]string `yaml:"header" json:"header,omitempty"`
	Data   map[string]any    `yaml:"data" json:"data,omitempty"`
	Upload bool              `yaml:"upload" json:"upload,omitempty"`
}

func (e Endpoint) clone() Endpoint {
	out := e
	if e.Header != nil {
		out.Header = make(map[string]string, len(e.Header))
		for k, v := range e.Header {
			out.Header[k] = v
		}
	}
	out.Data = deepmerge.Clone(e.Data)
	return out
}

// merge overlays over onto e and returns the combined endpoint. Later values
// win on scalars, headers merge per key, data maps merge recursively.
func (e Endpoint) merge(over Endpoint) Endpoint {
	out := e.clone()
	if over.Method != "" {
		out.Method = over.Method
	}
	if over.URL != "" {
		out.URL = over.URL
	}
	if over.Header != nil {
		if out.Header == nil {
			out.Header = make(map[string]string, len(over.Header))
		}
		for k, v := range over.Header {
			out.Header[k] = v
		}
	}
	if over.Data != nil {
		out.Data = deepmerge.Merge(out.Data, over.Data)
	}
	if over.Upload {
		out.Upload = true
	}
	return out
}

// EndpointsFile is the on-disk YAML shape for endpoint configuration.
type EndpointsFile struct {
	Defaults  Endpoint            `yaml:"defaults"`
	Endpoints map[string]Endpoint `yaml:"endpoints"`
}

// LoadEndpointsFile reads and parses a YAML endpoint configuration file.
func LoadEndpointsFile(path string) (*EndpointsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoints file: %w", err)
	}

	var file EndpointsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse endpoints file: %w", err)
	}

	for name, ep := range file.Endpoints {
		if ep.URL == "" {
			return nil, fmt.Errorf("endpoint %q: url is required", name)
		}
	}

	return &file, nil
}

// endpointRegistry maps logical endpoint names to their configuration. Name
// collisions overwrite with a warning, last writer wins.
type endpointRegistry struct {
	mu    sync.RWMutex
	table map[string]Endpoint
}

func newEndpointRegistry() *endpointRegistry {
	return &endpointRegistry{table: make(map[string]Endpoint)}
}

func (r *endpointRegistry) add(name string, ep Endpoint, logger Logger) {
	r.mu.Lock()
	_, exists := r.table[name]
	r.table[name] = ep.clone()
	r.mu.Unlock()

	if exists && logger != nil {
		logger.Warn("endpoint config overwritten", "name", name)
	}
}

func (r *endpointRegistry) addAll(table map[string]Endpoint, logger Logger) {
	for name, ep := range table {
		r.add(name, ep, logger)
	}
}

func (r *endpointRegistry) get(name string) (Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.table[name]
	if !ok {
		return Endpoint{}, false
	}
	return ep.clone(), true
}

func (r *endpointRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.table)
}

// AddEndpoints merges the given endpoint table into the client's registry.
// Existing names are overwritten with a warning.
func (c *Client) AddEndpoints(table map[string]Endpoint) {
	c.endpoints.addAll(table, c.logger)
}

// Endpoint returns the configuration registered under name.
func (c *Client) Endpoint(name string) (Endpoint, bool) {
	return c.endpoints.get(name)
}

// resolveDescriptor merges global defaults, the named endpoint configuration
// and per-call values into one concrete descriptor. The trailing part of name
// after the first "/" is appended verbatim to the configured URL, supporting
// REST-style path suffixes.
func (c *Client) resolveDescriptor(name string, cs callSettings) *Descriptor {
	var ep Endpoint
	if name == "" {
		if c.logger != nil {
			c.logger.Warn("resolve: empty endpoint name, merging defaults with call values only")
		}
	} else {
		key, tail := name, ""
		if i := strings.Index(name, "/"); i >= 0 {
			key, tail = name[:i], name[i+1:]
		}
		if cs.namespace != "" {
			key = cs.namespace + "." + key
		}

		found, ok := c.endpoints.get(key)
		if !ok {
			if c.logger != nil {
				c.logger.Warn("resolve: endpoint not configured", "name", key)
			}
		} else {
			ep = found
		}

		if tail != "" && ep.URL != "" {
			ep.URL = ep.URL + "/" + tail
		}
	}

	merged := c.defaults.merge(ep)

	d := &Descriptor{
		Method: merged.Method,
		URL:    merged.URL,
		Header: merged.Header,
	}
	if cs.method != "" {
		d.Method = cs.method
	}
	if cs.url != "" {
		d.URL = cs.url
	}
	if d.Method == "" {
		d.Method = "GET"
	}
	if d.Header == nil {
		d.Header = make(map[string]string)
	}
	for k, v := range cs.header {
		d.Header[k] = v
	}

	switch data := cs.data.(type) {
	case nil:
		if merged.Data != nil {
			d.Data = merged.Data
		}
	case map[string]any:
		d.Data = deepmerge.Merge(merged.Data, data)
	default:
		d.Data = data
	}

	if cs.upload != nil {
		d.Upload = cs.upload
	} else if merged.Upload {
		d.Upload = &UploadSpec{}
	}

	d.originalURL = d.URL
	d.settings = cs
	d.fingerprint = fingerprintFor(d.Method, d.originalURL, d.Data, c.logger)

	return d
}

// endpointsFromPayload converts a remote configuration payload (a decoded
// JSON object of name -> endpoint) into an endpoint table.
func endpointsFromPayload(payload any) (map[string]Endpoint, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("remote endpoints payload not serializable: %w", err)
	}
	var table map[string]Endpoint
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("remote endpoints payload malformed: %w", err)
	}
	return table, nil
}
