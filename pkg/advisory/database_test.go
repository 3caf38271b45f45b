package advisory

import (
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestDatabase(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return fsys
}

func minimalDocumentYAML(id, name string) string {
	return fmt.Sprintf(`schema-version: 1.0.1
id: %s
package:
  ecosystem: crates
  name: %s
date: 2023-05-01
patched:
  - ">=1.2.3"
`, id, name)
}

func TestOpenDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("walks nested directories in lexical order", func(t *testing.T) {
		fsys := writeTestDatabase(t, map[string]string{
			"advisories/crates/tokio/RUSTSEC-2023-0005.yml":     minimalDocumentYAML("RUSTSEC-2023-0005", "tokio"),
			"advisories/crates/smallvec/RUSTSEC-2021-0003.yaml": minimalDocumentYAML("RUSTSEC-2021-0003", "smallvec"),
			"advisories/README.md":                              "# not an advisory\n",
			"advisories/crates/notes.txt":                       "scratch\n",
		})

		store, err := OpenDatabase(ctx, fsys, "advisories")
		require.NoError(t, err)

		assert.Equal(t, 2, store.Len())
		assert.Equal(t, []PackageID{
			{Ecosystem: "crates", Name: "smallvec"},
			{Ecosystem: "crates", Name: "tokio"},
		}, store.Packages())
	})

	t.Run("undecodable document fails the load with its path", func(t *testing.T) {
		fsys := writeTestDatabase(t, map[string]string{
			"advisories/RUSTSEC-2023-0005.yaml": minimalDocumentYAML("RUSTSEC-2023-0005", "tokio"),
			"advisories/broken.yaml":            "id: RUSTSEC-2023-0006\nseverty: high\n",
		})

		store, err := OpenDatabase(ctx, fsys, "advisories")
		assert.Nil(t, store)

		loadErr := &LoadError{}
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "advisories/broken.yaml", loadErr.ID)
	})

	t.Run("semantically invalid document fails the load with its ID", func(t *testing.T) {
		fsys := writeTestDatabase(t, map[string]string{
			"advisories/RUSTSEC-2023-0005.yaml": minimalDocumentYAML("RUSTSEC-2023-0005", "tokio"),
			"advisories/RUSTSEC-2023-0006.yaml": `schema-version: 1.0.1
id: RUSTSEC-2023-0006
package:
  ecosystem: crates
  name: hyper
date: 2023-06-01
patched:
  - "one point two"
`,
		})

		store, err := OpenDatabase(ctx, fsys, "advisories")
		assert.Nil(t, store)

		loadErr := &LoadError{}
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "RUSTSEC-2023-0006", loadErr.ID)
	})

	t.Run("missing root", func(t *testing.T) {
		fsys := afero.NewMemMapFs()

		_, err := OpenDatabase(ctx, fsys, "no-such-dir")
		require.Error(t, err)
	})

	t.Run("empty database loads an empty store", func(t *testing.T) {
		fsys := writeTestDatabase(t, map[string]string{
			"advisories/.keep": "",
		})

		store, err := OpenDatabase(ctx, fsys, "advisories")
		require.NoError(t, err)
		assert.Equal(t, 0, store.Len())
	})
}
