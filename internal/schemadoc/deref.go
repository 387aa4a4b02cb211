package schemadoc

// Chain is the set of $ref strings followed along a single resolution path.
// A Chain must not be shared between sibling branches: hand each branch its
// own Clone.
type Chain struct {
	refs map[string]struct{}
}

// NewChain returns a chain seeded with refs.
func NewChain(refs ...string) Chain {
	c := Chain{refs: make(map[string]struct{}, len(refs))}
	for _, r := range refs {
		c.refs[r] = struct{}{}
	}
	return c
}

// Has reports whether ref has already been followed on this chain.
func (c Chain) Has(ref string) bool {
	_, ok := c.refs[ref]
	return ok
}

// Len returns the number of refs on the chain.
func (c Chain) Len() int { return len(c.refs) }

// Clone returns an independent copy of the chain.
func (c Chain) Clone() Chain {
	out := Chain{refs: make(map[string]struct{}, len(c.refs)+1)}
	for r := range c.refs {
		out.refs[r] = struct{}{}
	}
	return out
}

func (c *Chain) add(ref string) {
	if c.refs == nil {
		c.refs = make(map[string]struct{})
	}
	c.refs[ref] = struct{}{}
}

// Deref follows node's $ref against root until it reaches a node without a
// reference. Every ref followed is recorded on chain. A ref that is already on
// the chain, or that does not resolve, stops the walk and the referring node is
// returned as is.
func Deref(node, root any, chain *Chain) any {
	for {
		obj, ok := node.(map[string]any)
		if !ok {
			return node
		}
		ref, ok := obj["$ref"].(string)
		if !ok || ref == "" {
			return node
		}
		if chain.Has(ref) {
			return node
		}
		chain.add(ref)

		resolved, ok := Resolve(root, ref)
		if !ok || !truthy(resolved) {
			return node
		}
		node = resolved
	}
}
