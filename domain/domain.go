package domain

// Domain is a single node of a generalization hierarchy. The zero value is an
// unnamed, childless node; trees are grown with Add. A node owns its children
// outright, with no back-edges, so the structure is a plain tree.
type Domain struct {
	name     string
	children []*Domain
}

// New returns a hierarchy root carrying the given column name.
func New(name string) *Domain {
	return &Domain{name: name}
}

// Name returns the node's value (for the root, the column name).
func (d *Domain) Name() string {
	if d == nil {
		return ""
	}

	return d.name
}

// Empty reports whether the hierarchy is absent or carries no values.
func (d *Domain) Empty() bool {
	return d == nil || d.name == ""
}

// get returns the direct child with the given name, creating it when absent.
func (d *Domain) get(name string) *Domain {
	for _, c := range d.children {
		if c.name == name {
			return c
		}
	}
	c := &Domain{name: name}
	d.children = append(d.children, c)

	return c
}

// Add inserts a node at the given path below the root, creating intermediate
// nodes on demand (mkdir -p semantics). The root itself is implied and must
// not appear in path.
func (d *Domain) Add(path ...string) {
	cur := d
	for _, p := range path {
		cur = cur.get(p)
	}
}

// Find returns the path from value up to (but excluding) the root: the value
// itself first, then each ancestor in turn. An empty slice means the value is
// not present in the hierarchy.
//
// Complexity: O(nodes) worst case.
func (d *Domain) Find(value string) []string {
	if d == nil {
		return nil
	}
	var stack []string
	d.find(value, &stack)

	return stack
}

// find appends the ancestor chain for value to stack as the recursion
// unwinds, producing child-first order.
func (d *Domain) find(value string, stack *[]string) bool {
	for _, c := range d.children {
		if c.name == value || c.find(value, stack) {
			*stack = append(*stack, c.name)

			return true
		}
	}

	return false
}

// Breadth returns the number of siblings at value's level, value included:
// the count of alternatives a reader must consider once a cell has been
// generalized to value's parent. Returns 0 when value is absent.
func (d *Domain) Breadth(value string) int {
	if d == nil {
		return 0
	}
	for _, c := range d.children {
		if c.name == value {
			return len(d.children)
		}
		if n := c.Breadth(value); n != 0 {
			return n
		}
	}

	return 0
}
