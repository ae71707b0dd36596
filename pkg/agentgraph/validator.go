package agentgraph

// GraphView is the read-only view of a graph a ConnectionValidator sees.
type GraphView interface {
	// HasNode reports whether id is a node in the graph.
	HasNode(id string) bool
	// HasEdgeBetween reports whether an edge with these endpoints and handles exists.
	HasEdgeBetween(src, tgt string, h Handles) bool
	// NodeKind returns the kind of node id.
	NodeKind(id string) (string, bool)
}

// ConnectionValidator decides whether a proposed edge is legal. It returns
// nil to accept or an error (usually wrapping a connection sentinel) to reject.
type ConnectionValidator interface {
	Validate(g GraphView, src, tgt string, h Handles) error
}

// ValidatorFunc adapts a function to ConnectionValidator.
type ValidatorFunc func(g GraphView, src, tgt string, h Handles) error

// Validate implements ConnectionValidator.
func (f ValidatorFunc) Validate(g GraphView, src, tgt string, h Handles) error {
	return f(g, src, tgt, h)
}

// DefaultValidator rejects self-loops, missing endpoints and, unless
// AllowParallel is set, exact duplicates. Any kind may connect to any kind.
type DefaultValidator struct {
	AllowParallel bool
}

// Validate implements ConnectionValidator.
func (v DefaultValidator) Validate(g GraphView, src, tgt string, h Handles) error {
	if src == tgt {
		return &ConnectionError{Source: src, Target: tgt, Err: ErrSelfLoop}
	}
	if !g.HasNode(src) || !g.HasNode(tgt) {
		return &ConnectionError{Source: src, Target: tgt, Err: ErrUnknownEndpoint}
	}
	if !v.AllowParallel && g.HasEdgeBetween(src, tgt, h) {
		return &ConnectionError{Source: src, Target: tgt, Err: ErrDuplicateEdge}
	}
	return nil
}

// ChainValidators runs validators in order and returns the first rejection.
func ChainValidators(validators ...ConnectionValidator) ConnectionValidator {
	return ValidatorFunc(func(g GraphView, src, tgt string, h Handles) error {
		for _, v := range validators {
			if err := v.Validate(g, src, tgt, h); err != nil {
				return err
			}
		}
		return nil
	})
}

// stampEdge applies the rendering defaults to an accepted edge.
func stampEdge(e *Edge) {
	e.Animated = true
	e.Marker = MarkerArrowClosed
}
