package declare_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"recordkit/internal/declare"
	"recordkit/options"
)

// TestExamples builds every examples/<name>/records.yaml and constructs each
// <Record>.yaml input next to it, comparing the JSON export with <Record>.json.
func TestExamples(t *testing.T) {
	t.Parallel()

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	decls, err := filepath.Glob(filepath.Join(repoRoot, "examples", "*", "records.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, decls)

	clock := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	for _, decl := range decls {
		dir := filepath.Dir(decl)

		t.Run(filepath.Base(dir), func(t *testing.T) {
			t.Parallel()

			cat, err := declare.LoadFile(decl)
			require.NoError(t, err)

			inputs, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
			require.NoError(t, err)

			for _, input := range inputs {
				if input == decl {
					continue
				}

				name := strings.TrimSuffix(filepath.Base(input), ".yaml")

				schema, err := cat.Schema(name)
				require.NoError(t, err)

				data, err := os.ReadFile(input)
				require.NoError(t, err)

				var raw map[string]any
				require.NoError(t, yaml.Unmarshal(data, &raw))

				r, err := schema.Construct(raw, options.WithClock(clock))
				require.NoError(t, err, input)

				got, err := json.Marshal(r)
				require.NoError(t, err)

				want, err := os.ReadFile(filepath.Join(dir, name+".json"))
				require.NoError(t, err)

				assert.JSONEq(t, string(want), string(got), input)
			}
		})
	}
}
