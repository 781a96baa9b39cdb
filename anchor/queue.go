package anchor

// Queue holds the references of the anchored operations not yet covered by a
// root.  It is owned by a single goroutine.
type Queue struct {
	refs []string
}

// Push appends ref to the queue
func (q *Queue) Push(ref string) {
	q.refs = append(q.refs, ref)
}

// Len returns the number of queued references
func (q *Queue) Len() int {
	return len(q.refs)
}

// Refs returns a copy of the queued references, oldest first
func (q *Queue) Refs() []string {
	refs := make([]string, len(q.refs))
	copy(refs, q.refs)
	return refs
}

// Clear empties the queue
func (q *Queue) Clear() {
	q.refs = q.refs[:0]
}
