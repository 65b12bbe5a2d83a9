package finder_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/vtsc/pkg/finder"
)

func TestDefaultFinder_FindComponents(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/app/App.vue":                     "<template></template>",
		"/app/components/Card.vue":         "<template></template>",
		"/app/components/card.test.ts":     "test()",
		"/app/node_modules/lib/Button.vue": "<template></template>",
		"/app/legacy/Old.vue":              "<template></template>",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
		wantErr bool
	}{
		{
			name: "defaults",
			want: []string{"App.vue", "components/Card.vue", "legacy/Old.vue"},
		},
		{
			name:    "custom exclude replaces the default",
			exclude: []string{"legacy/**"},
			want:    []string{"App.vue", "components/Card.vue", "node_modules/lib/Button.vue"},
		},
		{
			name:    "include subset",
			include: []string{"components/*.vue"},
			want:    []string{"components/Card.vue"},
		},
		{
			name:    "invalid pattern",
			include: []string{"[a-"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := finder.NewDefaultFinder(fs).FindComponents(context.Background(), "/app", tt.include, tt.exclude)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			var rels []string
			for _, f := range got {
				rels = append(rels, f.Rel)
				assert.Equal(t, "vue", f.FileType)
				assert.Equal(t, files["/app/"+f.Rel], string(f.Content))
			}
			assert.Equal(t, tt.want, rels)
		})
	}
}
