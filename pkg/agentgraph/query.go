package agentgraph

// Successors returns the targets of edges leaving id, in edge order.
// A target reached by parallel edges appears once.
func (s *Store) Successors(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uniqueNeighbors(s, id, func(e *Edge) (string, bool) {
		return e.TargetNodeID, e.SourceNodeID == id
	})
}

// Predecessors returns the sources of edges entering id, in edge order.
func (s *Store) Predecessors(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uniqueNeighbors(s, id, func(e *Edge) (string, bool) {
		return e.SourceNodeID, e.TargetNodeID == id
	})
}

func uniqueNeighbors(s *Store, id string, pick func(*Edge) (string, bool)) []string {
	var out []string
	seen := make(map[string]bool)
	for _, eid := range s.edgeOrder {
		n, ok := pick(s.edges[eid])
		if ok && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// NodesByKind returns copies of the nodes of kind, in insertion order.
func (s *Store) NodesByKind(kind string) []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Node
	for _, id := range s.nodeOrder {
		if n := s.nodes[id]; n.Kind == kind {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Reachable returns the set of nodes reachable from start by following
// edges forward, including start itself. An unknown start yields an empty set.
func (s *Store) Reachable(start string) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reachable := make(map[string]bool)
	if _, ok := s.nodes[start]; !ok {
		return reachable
	}

	adj := make(map[string][]string, len(s.nodes))
	for _, eid := range s.edgeOrder {
		e := s.edges[eid]
		adj[e.SourceNodeID] = append(adj[e.SourceNodeID], e.TargetNodeID)
	}

	// BFS from start
	queue := []string{start}
	reachable[start] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adj[current] {
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reachable
}
