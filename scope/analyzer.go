package scope

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sdegenaar/zenify-sub002/core"
	"github.com/sdegenaar/zenify-sub002/logger"
)

// Dependency-cycle analysis over declared edges, advisory only: a detected
// cycle is logged as a warning and registration is never blocked, because
// legitimate bidirectional associations exist in application code.

// DetectCycles reports whether start participates in a dependency cycle
// reachable through declared edges anywhere in the scope forest. The first
// cycle found is logged with its path.
func DetectCycles(start core.TypeKey) bool {
	graph := buildGraph()

	visited := make(map[core.TypeKey]bool)
	onStack := make(map[core.TypeKey]bool)
	var path []core.TypeKey
	var cycle []core.TypeKey

	var dfs func(node core.TypeKey) bool
	dfs = func(node core.TypeKey) bool {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, dep := range graph[node] {
			if onStack[dep] {
				// Back-edge: slice the current path from the repeated node
				for i, n := range path {
					if n == dep {
						cycle = append(append([]core.TypeKey{}, path[i:]...), dep)
						break
					}
				}
				return true
			}
			if !visited[dep] && dfs(dep) {
				return true
			}
		}

		onStack[node] = false
		path = path[:len(path)-1]
		return false
	}

	if !dfs(start) {
		return false
	}

	parts := make([]string, len(cycle))
	for i, n := range cycle {
		parts[i] = n.String()
	}
	logger.GetLogger("analyzer").Warn("⚠️ 检测到循环依赖",
		zap.String("start", start.String()),
		zap.String("cycle", strings.Join(parts, " -> ")))
	return true
}

// VisualizeDependencyGraph renders a human-readable adjacency dump of the
// declared edges across every live scope, for diagnostics
func VisualizeDependencyGraph() string {
	scopes := AllScopes()
	sort.Slice(scopes, func(i, j int) bool {
		if scopes[i].Name() != scopes[j].Name() {
			return scopes[i].Name() < scopes[j].Name()
		}
		return scopes[i].ID() < scopes[j].ID()
	})

	var b strings.Builder
	for _, s := range scopes {
		entries := s.Entries()
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Key.String() < entries[j].Key.String()
		})

		fmt.Fprintf(&b, "scope %q (%s)\n", s.Name(), s.ID())
		if len(entries) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		for _, e := range entries {
			if len(e.DependsOn) == 0 {
				fmt.Fprintf(&b, "  %s\n", e.Key)
				continue
			}
			deps := make([]string, len(e.DependsOn))
			for i, d := range e.DependsOn {
				deps[i] = d.String()
			}
			fmt.Fprintf(&b, "  %s -> %s\n", e.Key, strings.Join(deps, ", "))
		}
	}
	return b.String()
}

// buildGraph merges the declared edges of every live scope into one directed
// graph keyed by TypeKey
func buildGraph() map[core.TypeKey][]core.TypeKey {
	graph := make(map[core.TypeKey][]core.TypeKey)
	for _, s := range AllScopes() {
		for _, e := range s.Entries() {
			if len(e.DependsOn) > 0 {
				graph[e.Key] = append(graph[e.Key], e.DependsOn...)
			}
		}
	}
	return graph
}
