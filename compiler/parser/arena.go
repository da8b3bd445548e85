package parser

import "fmt"

// Arena owns every node created while parsing one file and hands out
// their IDs. IDs are dense and start at zero, so they are only meaningful
// together with the arena that issued them.
type Arena struct {
	nodes []Node
}

// NewArena creates an empty Arena
func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 0, 256)}
}

type identified interface {
	Node
	setID(ID)
}

// track registers n with the arena and returns it
func track[T identified](a *Arena, n T) T {
	n.setID(ID(len(a.nodes)))
	a.nodes = append(a.nodes, n)
	return n
}

// Node returns the node with the given ID
func (a *Arena) Node(id ID) (Node, error) {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil, fmt.Errorf("node %d not in arena of %d nodes", id, len(a.nodes))
	}
	return a.nodes[id], nil
}

// Len returns the number of nodes in the arena
func (a *Arena) Len() int {
	return len(a.nodes)
}
