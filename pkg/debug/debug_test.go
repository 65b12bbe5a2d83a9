package debug_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/debug"
)

func TestGetPackageAndFuncFromFuncName(t *testing.T) {
	tests := []struct {
		in       string
		pkg, fun string
	}{
		{"github.com/walteh/vtsc/pkg/compiler.Compile", "github.com/walteh/vtsc/pkg/compiler", "Compile"},
		{"github.com/walteh/vtsc/pkg/compiler.(*Compiler).Compile", "github.com/walteh/vtsc/pkg/compiler", "(*Compiler).Compile"},
		{"main.main", "main", "main"},
		{"nodot", "nodot", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			pkg, fun := debug.GetPackageAndFuncFromFuncName(tt.in)
			assert.Equal(t, tt.pkg, pkg)
			assert.Equal(t, tt.fun, fun)
		})
	}
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "pkg/x:file.go:12", debug.FormatCaller("pkg/x", "/a/b/file.go", 12, false))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := debug.NewLogger(&buf, debug.LoggerOptions{Level: zerolog.InfoLevel, Caller: true})
	logger.Debug().Msg("hidden")
	logger.Info().Str("file", "App.vue").Msg("compiled")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "compiled", line["message"])
	assert.Equal(t, "App.vue", line["file"])
	assert.NotEmpty(t, line["run"])
	assert.NotEmpty(t, line["time"])
	assert.Contains(t, line["caller"], "debug_test.go:")
}
