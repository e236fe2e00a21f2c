package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gnana997/comptree/pkg/tree"
)

// ErrInvalidTree is returned by DecodeJSON for input that is not a tree.
var ErrInvalidTree = errors.New("invalid tree")

// EncodeJSON writes root as indented JSON using the camelCase field names of
// tree.Node.
func EncodeJSON(w io.Writer, root *tree.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	return nil
}

// DecodeJSON reads a tree written by EncodeJSON. Unknown fields are
// rejected, and every node must carry an ID and a file path.
func DecodeJSON(r io.Reader) (*tree.Node, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var root tree.Node
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}

	var invalid error
	tree.Traverse(&root, func(node *tree.Node) {
		if invalid != nil {
			return
		}
		switch {
		case node.ID == "":
			invalid = fmt.Errorf("%w: node %q has no id", ErrInvalidTree, node.Name)
		case node.FilePath == "":
			invalid = fmt.Errorf("%w: node %q has no filePath", ErrInvalidTree, node.ID)
		}
	})
	if invalid != nil {
		return nil, invalid
	}

	return &root, nil
}
