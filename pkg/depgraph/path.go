package depgraph

import "slices"

// ShortestPath returns the shortest dependency path between two node keys,
// both ends included. Equal-length paths resolve identically on every run
// because BFS expands neighbors in sorted key order. Returns nil when either
// key is unknown or no path exists.
func (g *Graph) ShortestPath(from, to string) []Node {
	if _, ok := g.nodes[from]; !ok {
		return nil
	}
	if _, ok := g.nodes[to]; !ok {
		return nil
	}
	if from == to {
		return []Node{g.nodes[from]}
	}

	visited := map[string]bool{from: true}
	pred := make(map[string]string)
	queue := []string{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range g.children[current] {
			if visited[child] {
				continue
			}
			visited[child] = true
			pred[child] = current

			if child == to {
				return g.assemble(pred, from, to)
			}
			queue = append(queue, child)
		}
	}

	return nil
}

func (g *Graph) assemble(pred map[string]string, from, to string) []Node {
	var keys []string
	for key := to; ; key = pred[key] {
		keys = append(keys, key)
		if key == from {
			break
		}
	}
	slices.Reverse(keys)

	return g.lookup(keys)
}

// AllShortestPaths returns the shortest path to the node from each root that
// can reach it, in root order.
func (g *Graph) AllShortestPaths(to string) [][]Node {
	var paths [][]Node
	for _, root := range g.roots {
		if path := g.ShortestPath(root, to); path != nil {
			paths = append(paths, path)
		}
	}
	return paths
}
