package tree

import (
	"encoding/gob"
	"io"
)

// Save serializes the tree rooted at n using encoding/gob.
func (n *Node) Save(w io.Writer) error {
	return gob.NewEncoder(w).Encode(n)
}

// Load deserializes a tree using encoding/gob into n.
func (n *Node) Load(r io.Reader) error {
	return gob.NewDecoder(r).Decode(n)
}
