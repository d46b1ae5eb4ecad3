package control

import "sync"

// Node is a trie node keyed by a ControlId prefix. It carries an optional
// control reference (when the prefix is a complete control id) and ordered
// children, ordered by (part-kind, declaration order in chartStepIDs,
// insertion order).
type Node struct {
	IDPrefix Id
	Children []*Node
	Control  *Control
}

func newNode(prefix Id) *Node {
	return &Node{IDPrefix: prefix}
}

// insert places control into the subtree rooted at n, creating intermediate
// nodes as needed. chartStepIDs gives the declaration order used to break
// ties between same-kind children.
func (n *Node) insert(c *Control, chartStepIDs []string) {
	if len(n.IDPrefix.Parts) == len(c.ID().Parts) {
		n.Control = c
		return
	}

	childPrefix := c.ID().Prefix(len(n.IDPrefix.Parts) + 1)
	for _, child := range n.Children {
		if child.IDPrefix.Equal(childPrefix) {
			child.insert(c, chartStepIDs)
			return
		}
	}

	newChild := newNode(childPrefix)
	newChild.insert(c, chartStepIDs)

	level := len(n.IDPrefix.Parts)
	newPart := newChild.IDPrefix.Parts[level]
	i := 0
	for i < len(n.Children) {
		childPart := n.Children[i].IDPrefix.Parts[level]
		if newPart.Kind < childPart.Kind {
			break
		}
		if childPart.Kind == newPart.Kind {
			childIndex := indexOf(chartStepIDs, childPart.Name)
			newIndex := indexOf(chartStepIDs, newPart.Name)
			if newIndex < childIndex {
				break
			}
		}
		i++
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = newChild
}

// indexOf returns the position of name within ids, or len(ids) (sorting
// last) if name is absent, matching Option<usize>::None comparing greater
// than any Some index.
func indexOf(ids []string, name string) int {
	for i, id := range ids {
		if id == name {
			return i
		}
	}
	return len(ids)
}

// Set is a chart's resolved collection of used controls: the first-access
// order list plus the trie built from it.
type Set struct {
	UsedControls []*Control
	RootNode     *Node
}

// Builder accumulates controls referenced while loading a single chart. Once
// every step has registered its controls, Build finalizes the Set.
type Builder struct {
	repo   *Repository
	rootID Id

	mu       sync.Mutex
	seen     map[string]bool
	accessed []*Control
}

// NewBuilder creates a ControlSetBuilder rooted at rootID (typically a single
// Chart part), backed by repo.
func NewBuilder(rootID Id, repo *Repository) *Builder {
	return &Builder{
		repo:   repo,
		rootID: rootID,
		seen:   make(map[string]bool),
	}
}

// get is the shared implementation behind GetFloat/GetVec2/GetVec3/GetVec4/
// GetWithDefault: it fetches-or-creates the control, records the maximum
// used-component count seen this cycle, and appends it to the first-access
// order list the first time it is referenced by this builder.
func (b *Builder) get(id Id, componentCount int, defaultValue [4]float32) *Control {
	c := b.repo.GetOrCreate(id, defaultValue)
	c.noteUsedComponentCount(componentCount)

	b.mu.Lock()
	defer b.mu.Unlock()
	key := idKey(id)
	if !b.seen[key] {
		b.seen[key] = true
		b.accessed = append(b.accessed, c)
	}
	return c
}

// GetFloat returns the control at id, creating it with a 1-component default
// if absent.
func (b *Builder) GetFloat(id Id, def float32) *Control {
	return b.get(id, 1, [4]float32{def, 0, 0, 0})
}

// GetVec2 returns the control at id, creating it with a 2-component default
// if absent.
func (b *Builder) GetVec2(id Id, def [2]float32) *Control {
	return b.get(id, 2, [4]float32{def[0], def[1], 0, 0})
}

// GetVec3 returns the control at id, creating it with a 3-component default
// if absent.
func (b *Builder) GetVec3(id Id, def [3]float32) *Control {
	return b.get(id, 3, [4]float32{def[0], def[1], def[2], 0})
}

// GetVec4 returns the control at id, creating it with a 4-component default
// if absent.
func (b *Builder) GetVec4(id Id, def [4]float32) *Control {
	return b.get(id, 4, def)
}

// GetWithDefault returns the control at id, creating it with an explicit
// component count and a full 4-float default array if absent.
func (b *Builder) GetWithDefault(id Id, componentCount int, def [4]float32) *Control {
	return b.get(id, componentCount, def)
}

// Build consumes the builder and returns the finalized Set. chartStepIDs
// gives the declaration order of the owning chart's step list, used to break
// ties between same-kind trie children.
func (b *Builder) Build(chartStepIDs []string) Set {
	b.mu.Lock()
	controls := append([]*Control{}, b.accessed...)
	b.mu.Unlock()

	root := newNode(b.rootID)
	for _, c := range controls {
		root.insert(c, chartStepIDs)
	}
	return Set{UsedControls: controls, RootNode: root}
}
