package engagement

type mutationState int

const (
	mutationIdle mutationState = iota
	mutationPending
	mutationReconciled
)

// likeMutation tracks one optimistic like/unlike round trip. It captures the
// exact pre-toggle values so a failed remote mutation rolls back to the
// captured snapshot instead of a re-derived inverse, which would double-count
// against interleaved realtime updates.
type likeMutation struct {
	state         mutationState
	prevHasLiked  bool
	prevLikeCount int
}

func (m *likeMutation) begin(hasLiked bool, likeCount int) {
	m.state = mutationPending
	m.prevHasLiked = hasLiked
	m.prevLikeCount = likeCount
}

// rollback returns the captured pre-toggle values and settles the mutation.
func (m *likeMutation) rollback() (hasLiked bool, likeCount int) {
	m.state = mutationReconciled
	return m.prevHasLiked, m.prevLikeCount
}

// reconcile settles the mutation, keeping the optimistic values authoritative.
func (m *likeMutation) reconcile() {
	m.state = mutationReconciled
}

func (m *likeMutation) pending() bool {
	return m.state == mutationPending
}
