package vfs

// FindByPath resolves a path in a fetched tree (recursive).
func FindByPath(root *Tree, p Path) *Tree {
	if root == nil || root.File == nil {
		return nil
	}
	if root.File.Path.Equals(p) {
		return root
	}
	for _, child := range root.Children {
		if found := FindByPath(child, p); found != nil {
			return found
		}
	}
	return nil
}

// CountNodes counts all nodes in a tree.
func CountNodes(root *Tree) int {
	if root == nil {
		return 0
	}
	count := 1
	for _, child := range root.Children {
		count += CountNodes(child)
	}
	return count
}

// Flatten returns all nodes in a flat map keyed by path. The aggregate
// root carries the zero path and is keyed by "/".
func Flatten(root *Tree) map[string]*Tree {
	result := make(map[string]*Tree)
	flattenRecursive(root, result)
	return result
}

func flattenRecursive(node *Tree, result map[string]*Tree) {
	if node == nil || node.File == nil {
		return
	}
	result[node.File.Path.Key()] = node
	for _, child := range node.Children {
		flattenRecursive(child, result)
	}
}

// Walk visits every node of the tree in pre-order, stopping early if fn
// returns an error and propagating that error to the caller.
func Walk(root *Tree, fn func(*Tree) error) error {
	if root == nil {
		return nil
	}
	if err := fn(root); err != nil {
		return err
	}
	for _, child := range root.Children {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}
