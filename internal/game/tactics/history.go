package tactics

// History is the per-character, turn-local record of chosen action types.
// It is used only for anti-repetition scoring and for the "no attack yet
// this turn" overwatch gate; it is cleared at every turn boundary and never
// persisted.
//
// History is safe only under strictly sequential access per character id;
// callers evaluating characters in parallel must supply one History per
// evaluation shard or serialize per id.
type History struct {
	last  map[string]ActionType
	taken map[string][]ActionType
}

// NewHistory returns an empty turn history.
func NewHistory() *History {
	return &History{
		last:  make(map[string]ActionType),
		taken: make(map[string][]ActionType),
	}
}

// Record appends t to characterID's history for this turn.
func (h *History) Record(characterID string, t ActionType) {
	h.last[characterID] = t
	h.taken[characterID] = append(h.taken[characterID], t)
}

// Last returns the most recent action type chosen for characterID.
func (h *History) Last(characterID string) (ActionType, bool) {
	t, ok := h.last[characterID]
	return t, ok
}

// Taken returns the ordered action types chosen for characterID this turn.
func (h *History) Taken(characterID string) []ActionType {
	return h.taken[characterID]
}

// HasTaken reports whether characterID has already chosen an action of
// type t this turn.
func (h *History) HasTaken(characterID string, t ActionType) bool {
	for _, a := range h.taken[characterID] {
		if a == t {
			return true
		}
	}
	return false
}

// Reset clears all per-character records. Called once per turn boundary.
func (h *History) Reset() {
	h.last = make(map[string]ActionType)
	h.taken = make(map[string][]ActionType)
}
