package config_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/compiler"
	"github.com/walteh/vtsc/pkg/config"
)

func TestLoad(t *testing.T) {
	f := false
	tests := []struct {
		name        string
		file        string
		content     string
		want        *config.Config
		errContains []string
	}{
		{
			name: "yaml",
			file: "vtsc.yaml",
			content: `prefix: __X_
out_dir: .vtsc
include: ["src/**/*.vue"]
disable: [strip]
grammars:
  - extension: .vue
    typescript: true
  - extension: .html
    module: false
`,
			want: &config.Config{
				Prefix:  "__X_",
				OutDir:  ".vtsc",
				Include: []string{"src/**/*.vue"},
				Disable: []string{"strip"},
				Grammars: []*config.GrammarBlock{
					{Extension: ".vue", TypeScript: true},
					{Extension: ".html", Module: &f},
				},
			},
		},
		{
			name: "hcl",
			file: "vtsc.hcl",
			content: `prefix  = "__X_"
exclude = ["legacy/**"]

grammar ".vue" {
  typescript = true
}
`,
			want: &config.Config{
				Prefix:   "__X_",
				Exclude:  []string{"legacy/**"},
				Grammars: []*config.GrammarBlock{{Extension: ".vue", TypeScript: true}},
			},
		},
		{
			name:    "empty yaml",
			file:    "vtsc.yaml",
			content: "",
			want:    &config.Config{},
		},
		{
			name:        "unknown yaml field",
			file:        "vtsc.yaml",
			content:     "prefx: a\n",
			errContains: []string{"parsing YAML"},
		},
		{
			name: "every validation error is reported",
			file: "vtsc.yaml",
			content: `prefix: "1bad"
disable: [nope]
include: ["[a-"]
grammars:
  - extension: vue
  - extension: .x
  - extension: .X
`,
			errContains: []string{
				`prefix "1bad" is not an identifier`,
				`unknown plugin "nope"`,
				`invalid pattern "[a-"`,
				`grammar extension "vue" must start with a dot`,
				`grammar extension ".X" is configured twice`,
			},
		},
		{
			name:        "bad hcl",
			file:        "vtsc.hcl",
			content:     `prefix = `,
			errContains: []string{"parsing HCL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/p/"+tt.file, []byte(tt.content), 0o644))

			path, err := config.Find(fs, "/p")
			require.NoError(t, err)
			assert.Equal(t, "/p/"+tt.file, path)

			got, err := config.Load(fs, path)
			if len(tt.errContains) > 0 {
				require.Error(t, err)
				for _, want := range tt.errContains {
					assert.Contains(t, err.Error(), want)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindNone(t *testing.T) {
	path, err := config.Find(afero.NewMemMapFs(), "/p")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestCompilerOptions(t *testing.T) {
	f := false
	cfg := &config.Config{
		Prefix:  "__X_",
		Disable: []string{"strip"},
		Grammars: []*config.GrammarBlock{
			{Extension: ".HTML", Module: &f, TypeScript: true},
		},
	}
	opts := cfg.CompilerOptions()
	assert.Equal(t, "__X_", opts.Prefix)
	assert.Equal(t, []string{"strip"}, opts.Disabled)
	assert.Equal(t, compiler.Grammar{Module: true}, opts.GrammarFor("a.vue"))
	assert.Equal(t, compiler.Grammar{TypeScript: true}, opts.GrammarFor("a.html"))

	assert.Equal(t, compiler.DefaultOptions().Prefix, config.Default().CompilerOptions().Prefix)
}

func TestResolve(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/custom.yaml", []byte("prefix: __C_\n"), 0o644))

	cfg, path, err := config.Resolve(fs, "/p", "")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, config.Default(), cfg)

	cfg, path, err = config.Resolve(fs, "/p", "/p/custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/p/custom.yaml", path)
	assert.Equal(t, "__C_", cfg.Prefix)

	_, _, err = config.Resolve(fs, "/p", "/p/missing.yaml")
	require.Error(t, err)
}
