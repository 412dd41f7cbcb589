package action

import (
	"encoding/json"
	"slices"
)

// Sequence is an ordered, read-only list of actions.
type Sequence struct {
	actions []Action
}

func NewSequence(actions ...Action) Sequence {
	return Sequence{actions: slices.Clone(actions)}
}

func (s Sequence) Len() int {
	return len(s.actions)
}

func (s Sequence) At(i int) Action {
	return s.actions[i]
}

// Actions returns a copy of the underlying actions.
func (s Sequence) Actions() []Action {
	return slices.Clone(s.actions)
}

// Kinds lists each action's kind in order.
func (s Sequence) Kinds() []Kind {
	kinds := make([]Kind, len(s.actions))
	for i, a := range s.actions {
		kinds[i] = a.Kind
	}
	return kinds
}

func (s Sequence) MarshalJSON() ([]byte, error) {
	if s.actions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.actions)
}

func (s *Sequence) UnmarshalJSON(data []byte) error {
	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return err
	}
	s.actions = actions
	return nil
}
