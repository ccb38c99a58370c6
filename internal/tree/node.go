package tree

// Node is the capability a type needs to be traversed: ordered, indexable
// access to its children. Child is only called with 0 <= i < NumChildren().
//
// A tree is a Node whose children are the root-level items; the root itself
// is never yielded by traversals.
type Node[N any] interface {
	NumChildren() int
	Child(i int) N
}
