package depgraph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/semver"
)

// GraphError rejects the dependency graph input as a whole. Matching never
// runs against a graph that didn't resolve cleanly, for the same reason the
// advisory store loads all-or-nothing: a partially resolved graph could hide
// a vulnerable node.
type GraphError struct {
	// Node is the node key or raw parent reference that caused the rejection.
	Node string
	Err  error
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("invalid dependency graph: %q: %v", e.Node, e.Err)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

// Dependency is one resolved package occurrence, as supplied by a lockfile
// reader or any other collaborator that produces package/version tuples with
// parent edges.
type Dependency struct {
	Ecosystem string
	Name      string
	Version   string

	// Parents lists the packages that depend on this one, written as a bare
	// name when that's unambiguous, or as "name@version" (or
	// "name@version#id") when it isn't. A dependency with no parents is a
	// root: a direct dependency of the audited application.
	Parents []string

	// ID disambiguates multiple occurrences of the same name and version.
	ID string
}

// Node is one resolved package in the graph.
type Node struct {
	Package advisory.PackageID
	Version semver.Version
	ID      string
}

// Key returns the node's unique vertex key, e.g. "crates/hashbrown@0.14.1".
func (n Node) Key() string {
	key := n.Package.String() + "@" + n.Version.String()
	if n.ID != "" {
		key += "#" + n.ID
	}
	return key
}

// String renders the node the way dependency paths display it, without the
// ecosystem prefix.
func (n Node) String() string {
	s := n.Package.Name + "@" + n.Version.String()
	if n.ID != "" {
		s += "#" + n.ID
	}
	return s
}

func nodeKey(n Node) string {
	return n.Key()
}

// A Graph is a resolved, read-only dependency graph. Edges point from a
// package to the packages it depends on, so every path starts at a root and
// ends at the node it explains. Cycles are legal; traversal tracks visited
// nodes instead of assuming a DAG.
type Graph struct {
	graph graph.Graph[string, Node]
	nodes map[string]Node

	// order and roots are node keys in input order, which is what makes
	// traversal and reporting deterministic for a given input.
	order []string
	roots []string

	// children holds each node's outgoing neighbors sorted by key, so BFS
	// expands them the same way on every run.
	children map[string][]string
}

// Resolve builds a Graph from dependency tuples. Any unparsable version,
// duplicate node, or unknown or ambiguous parent reference rejects the whole
// input with a *GraphError.
func Resolve(deps []Dependency) (*Graph, error) {
	g := &Graph{
		graph: graph.New(nodeKey, graph.Directed()),
		nodes: make(map[string]Node, len(deps)),
	}

	// references collects every form a parent reference may take, mapped to
	// the node keys it could mean. More than one key makes the form
	// ambiguous.
	references := make(map[string][]string)

	for _, dep := range deps {
		node, err := makeNode(dep)
		if err != nil {
			return nil, err
		}

		key := node.Key()
		if _, ok := g.nodes[key]; ok {
			return nil, &GraphError{Node: key, Err: errors.New("duplicate node; give repeated versions distinct ids")}
		}
		if err := g.graph.AddVertex(node); err != nil {
			return nil, &GraphError{Node: key, Err: err}
		}

		g.nodes[key] = node
		g.order = append(g.order, key)
		if len(dep.Parents) == 0 {
			g.roots = append(g.roots, key)
		}

		nameAndVersion := dep.Name + "@" + node.Version.String()
		references[dep.Name] = append(references[dep.Name], key)
		references[nameAndVersion] = append(references[nameAndVersion], key)
		if node.ID != "" {
			references[nameAndVersion+"#"+node.ID] = append(references[nameAndVersion+"#"+node.ID], key)
		}
	}

	for i, dep := range deps {
		childKey := g.order[i]
		for _, ref := range dep.Parents {
			parentKey, err := resolveReference(references, ref)
			if err != nil {
				return nil, err
			}
			if err := g.graph.AddEdge(parentKey, childKey); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, &GraphError{Node: ref, Err: err}
			}
		}
	}

	adjacency, err := g.graph.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	g.children = make(map[string][]string, len(adjacency))
	for key, edges := range adjacency {
		if len(edges) == 0 {
			continue
		}
		children := make([]string, 0, len(edges))
		for child := range edges {
			children = append(children, child)
		}

		// sort for deterministic traversal
		sort.Strings(children)
		g.children[key] = children
	}

	return g, nil
}

func makeNode(dep Dependency) (Node, error) {
	if dep.Ecosystem == "" {
		return Node{}, &GraphError{Node: dep.Name, Err: errors.New("ecosystem must not be empty")}
	}
	if dep.Name == "" {
		return Node{}, &GraphError{Node: dep.Ecosystem, Err: errors.New("package name must not be empty")}
	}

	v, err := semver.Parse(dep.Version)
	if err != nil {
		return Node{}, &GraphError{Node: dep.Ecosystem + "/" + dep.Name, Err: err}
	}

	return Node{
		Package: advisory.PackageID{Ecosystem: dep.Ecosystem, Name: dep.Name},
		Version: v,
		ID:      dep.ID,
	}, nil
}

func resolveReference(references map[string][]string, ref string) (string, error) {
	keys := references[ref]
	switch len(keys) {
	case 0:
		return "", &GraphError{Node: ref, Err: errors.New("parent reference does not match any node")}
	case 1:
		return keys[0], nil
	}

	return "", &GraphError{Node: ref, Err: fmt.Errorf("parent reference is ambiguous; matches %s", strings.Join(keys, ", "))}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Node returns the node with the given key.
func (g *Graph) Node(key string) (Node, bool) {
	node, ok := g.nodes[key]
	return node, ok
}

// Nodes returns every node, in input order.
func (g *Graph) Nodes() []Node {
	return g.lookup(g.order)
}

// Roots returns the nodes that nothing depends on, in input order. Root
// order is the tie-break order for path tracing.
func (g *Graph) Roots() []Node {
	return g.lookup(g.roots)
}

func (g *Graph) lookup(keys []string) []Node {
	nodes := make([]Node, len(keys))
	for i, key := range keys {
		nodes[i] = g.nodes[key]
	}
	return nodes
}
