package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathStrings(path []Node) []string {
	if path == nil {
		return nil
	}
	out := make([]string, len(path))
	for i, node := range path {
		out[i] = node.String()
	}
	return out
}

func TestGraph_ShortestPath(t *testing.T) {
	t.Run("diamond takes the lexically first branch", func(t *testing.T) {
		g, err := Resolve([]Dependency{
			crate("app", "1.0.0"),
			crate("serde", "1.0.190", "app"),
			crate("tokio", "1.33.0", "app"),
			crate("hashbrown", "0.14.1", "serde", "tokio"),
		})
		require.NoError(t, err)

		// Two equal-length routes exist; sorted adjacency picks serde over
		// tokio every time.
		path := g.ShortestPath("crates/app@1.0.0", "crates/hashbrown@0.14.1")
		assert.Equal(t, []string{"app@1.0.0", "serde@1.0.190", "hashbrown@0.14.1"}, pathStrings(path))
	})

	t.Run("prefers fewer hops over lexical order", func(t *testing.T) {
		g, err := Resolve([]Dependency{
			crate("app", "1.0.0"),
			crate("aaa", "0.1.0", "app"),
			crate("leaf", "0.0.1", "aaa", "app"),
		})
		require.NoError(t, err)

		path := g.ShortestPath("crates/app@1.0.0", "crates/leaf@0.0.1")
		assert.Equal(t, []string{"app@1.0.0", "leaf@0.0.1"}, pathStrings(path))
	})

	t.Run("target equals start", func(t *testing.T) {
		g, err := Resolve([]Dependency{
			crate("app", "1.0.0"),
		})
		require.NoError(t, err)

		path := g.ShortestPath("crates/app@1.0.0", "crates/app@1.0.0")
		assert.Equal(t, []string{"app@1.0.0"}, pathStrings(path))
	})

	t.Run("cycle terminates", func(t *testing.T) {
		g, err := Resolve([]Dependency{
			crate("app", "1.0.0"),
			crate("a", "1.0.0", "app", "c"),
			crate("b", "1.0.0", "a"),
			crate("c", "1.0.0", "b"),
		})
		require.NoError(t, err)

		path := g.ShortestPath("crates/app@1.0.0", "crates/c@1.0.0")
		assert.Equal(t, []string{"app@1.0.0", "a@1.0.0", "b@1.0.0", "c@1.0.0"}, pathStrings(path))
	})

	t.Run("unreachable and unknown targets", func(t *testing.T) {
		g, err := Resolve([]Dependency{
			crate("app", "1.0.0"),
			crate("island", "2.0.0"),
			crate("serde", "1.0.190", "app"),
		})
		require.NoError(t, err)

		assert.Nil(t, g.ShortestPath("crates/app@1.0.0", "crates/island@2.0.0"))
		assert.Nil(t, g.ShortestPath("crates/app@1.0.0", "crates/rand@0.8.5"))
		assert.Nil(t, g.ShortestPath("crates/rand@0.8.5", "crates/app@1.0.0"))
	})
}

func TestGraph_AllShortestPaths(t *testing.T) {
	g, err := Resolve([]Dependency{
		crate("server", "1.0.0"),
		crate("worker", "2.0.0"),
		crate("tool", "3.0.0"),
		crate("hyper", "0.14.27", "server", "worker"),
		crate("openssl", "0.10.55", "hyper", "worker"),
	})
	require.NoError(t, err)

	t.Run("one path per reaching root, in root order", func(t *testing.T) {
		paths := g.AllShortestPaths("crates/openssl@0.10.55")
		require.Len(t, paths, 2)

		assert.Equal(t, []string{"server@1.0.0", "hyper@0.14.27", "openssl@0.10.55"}, pathStrings(paths[0]))
		assert.Equal(t, []string{"worker@2.0.0", "openssl@0.10.55"}, pathStrings(paths[1]))
	})

	t.Run("no reaching root", func(t *testing.T) {
		g, err := Resolve([]Dependency{
			crate("app", "1.0.0"),
			crate("x", "0.1.0", "y"),
			crate("y", "0.1.0", "x"),
		})
		require.NoError(t, err)

		// x and y only reference each other, so no root reaches them.
		assert.Empty(t, g.AllShortestPaths("crates/x@0.1.0"))
	})

	t.Run("root is the target", func(t *testing.T) {
		paths := g.AllShortestPaths("crates/tool@3.0.0")
		require.Len(t, paths, 1)
		assert.Equal(t, []string{"tool@3.0.0"}, pathStrings(paths[0]))
	})
}
