package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/content-hunter/internal/source/jsonfile"
	"github.com/DjordjeVuckovic/content-hunter/internal/source/xmlfile"
	"gopkg.in/yaml.v3"
)

type Type string

const (
	JSONFile Type = "json"
	XMLFile  Type = "xml"
)

type Config struct {
	Name string `yaml:"name"`
	Type Type   `yaml:"type"`
	Path string `yaml:"path"`
}

// Settings is the decoded sources file: the adapters to build and their policies.
type Settings struct {
	Sources  []Config
	Policies Policies
}

type fileSettings struct {
	Sources    []Config `yaml:"sources"`
	Resilience struct {
		Default yaml.Node            `yaml:"default"`
		Sources map[string]yaml.Node `yaml:"sources"`
	} `yaml:"resilience"`
}

// LoadSettings decodes a sources file. Per-source policy blocks are
// overlaid on the default policy, so they only need the fields they change.
func LoadSettings(r io.Reader) (*Settings, error) {
	var fs fileSettings
	if err := yaml.NewDecoder(r).Decode(&fs); err != nil {
		return nil, fmt.Errorf("decode sources config: %w", err)
	}

	def := DefaultPolicy()
	if !fs.Resilience.Default.IsZero() {
		if err := fs.Resilience.Default.Decode(&def); err != nil {
			return nil, fmt.Errorf("decode default policy: %w", err)
		}
	}

	policies := Policies{Default: def, Sources: make(map[string]Policy, len(fs.Resilience.Sources))}
	for name, node := range fs.Resilience.Sources {
		p := def
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode policy %q: %w", name, err)
		}
		policies.Sources[name] = p
	}
	if err := policies.Validate(); err != nil {
		return nil, err
	}

	for i, c := range fs.Sources {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("source #%d: name is required", i)
		}
		if c.Type != JSONFile && c.Type != XMLFile {
			return nil, fmt.Errorf("source %q: unsupported type %q, expected one of %v", c.Name, c.Type, []Type{JSONFile, XMLFile})
		}
	}

	return &Settings{Sources: fs.Sources, Policies: policies}, nil
}

func LoadSettingsFile(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources config: %w", err)
	}
	defer f.Close()
	return LoadSettings(f)
}

// Build creates the raw adapter described by cfg.
func Build(cfg Config) (Source, error) {
	switch cfg.Type {
	case JSONFile:
		return jsonfile.New(cfg.Name, cfg.Path), nil
	case XMLFile:
		return xmlfile.New(cfg.Name, cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}

// BuildResilient creates every configured adapter wrapped in its resilient client.
func (s *Settings) BuildResilient(opts ...ResilientOption) ([]*ResilientClient, error) {
	clients := make([]*ResilientClient, 0, len(s.Sources))
	for _, cfg := range s.Sources {
		raw, err := Build(cfg)
		if err != nil {
			return nil, err
		}
		clients = append(clients, NewResilientClient(raw, s.Policies, opts...))
	}
	return clients, nil
}
