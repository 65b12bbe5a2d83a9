// Package config loads the project configuration from vtsc.yaml or vtsc.hcl.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/vtsc/pkg/compiler"
)

// FileNames are the configuration files Find looks for, in order.
var FileNames = []string{"vtsc.yaml", "vtsc.yml", "vtsc.hcl"}

type Config struct {
	// Prefix starts every synthesized identifier.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty" hcl:"prefix,optional"`
	// OutDir receives the generated documents, mirroring the source tree.
	// Empty writes them next to their sources.
	OutDir  string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" hcl:"out_dir,optional"`
	Include []string `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	// Disable names plugins that do not run.
	Disable  []string        `json:"disable,omitempty" yaml:"disable,omitempty" hcl:"disable,optional"`
	Grammars []*GrammarBlock `json:"grammars,omitempty" yaml:"grammars,omitempty" hcl:"grammar,block"`
}

// GrammarBlock selects the grammar of the files with one extension.
type GrammarBlock struct {
	Extension  string `json:"extension" yaml:"extension" hcl:"extension,label"`
	Module     *bool  `json:"module,omitempty" yaml:"module,omitempty" hcl:"module,optional"`
	TypeScript bool   `json:"typescript,omitempty" yaml:"typescript,omitempty" hcl:"typescript,optional"`
}

// Default is the configuration used when no file exists.
func Default() *Config {
	return &Config{}
}

// Find returns the path of the first configuration file in dir, or "" when
// there is none.
func Find(fs afero.Fs, dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
		if ok {
			return path, nil
		}
	}
	return "", nil
}

// Resolve loads the configuration at path, or the one Find locates in dir
// when path is empty. Without either it returns Default.
func Resolve(fs afero.Fs, dir, path string) (*Config, string, error) {
	if path == "" {
		found, err := Find(fs, dir)
		if err != nil {
			return nil, "", err
		}
		if found == "" {
			return Default(), "", nil
		}
		path = found
	}
	cfg, err := Load(fs, path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Load reads a YAML or HCL configuration file, chosen by extension, and
// validates it. HCL files may reference environment variables as env.NAME.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		cfg, err = parseYAML(data)
	} else {
		cfg, err = parseHCL(data, path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

func parseHCL(data []byte, path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, ctx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}

func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	if len(vars) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(vars)
}

var identRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate reports every problem of the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Prefix != "" && !identRE.MatchString(c.Prefix) {
		result = multierror.Append(result, errors.Errorf("prefix %q is not an identifier", c.Prefix))
	}
	for _, p := range append(slices.Clone(c.Include), c.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			result = multierror.Append(result, errors.Errorf("invalid pattern %q", p))
		}
	}
	known := compiler.PluginNames()
	for _, name := range c.Disable {
		if !slices.Contains(known, name) {
			result = multierror.Append(result, errors.Errorf("unknown plugin %q", name))
		}
	}
	seen := map[string]bool{}
	for _, g := range c.Grammars {
		ext := strings.ToLower(g.Extension)
		switch {
		case !strings.HasPrefix(ext, ".") || len(ext) < 2:
			result = multierror.Append(result, errors.Errorf("grammar extension %q must start with a dot", g.Extension))
		case seen[ext]:
			result = multierror.Append(result, errors.Errorf("grammar extension %q is configured twice", g.Extension))
		}
		seen[ext] = true
	}
	return result.ErrorOrNil()
}

// CompilerOptions converts the configuration to compiler options, starting
// from the defaults.
func (c *Config) CompilerOptions() compiler.Options {
	opts := compiler.DefaultOptions()
	if c.Prefix != "" {
		opts.Prefix = c.Prefix
	}
	opts.Disabled = slices.Clone(c.Disable)
	for _, g := range c.Grammars {
		module := true
		if g.Module != nil {
			module = *g.Module
		}
		opts.Grammars[strings.ToLower(g.Extension)] = compiler.Grammar{Module: module, TypeScript: g.TypeScript}
	}
	return opts
}
