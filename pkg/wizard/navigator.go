package wizard

// Navigator is the step state machine. States are step indices in
// [0, count); Next and Back clamp at the ends and never validate.
type Navigator struct {
	current int
	count   int
}

// NewNavigator starts at step 0. count below 1 is treated as 1.
func NewNavigator(count int) *Navigator {
	if count < 1 {
		count = 1
	}
	return &Navigator{count: count}
}

// Current returns the active step index.
func (n *Navigator) Current() int {
	return n.current
}

// Count returns the number of steps.
func (n *Navigator) Count() int {
	return n.count
}

// Next advances one step, staying on the last step.
func (n *Navigator) Next() int {
	if n.current < n.count-1 {
		n.current++
	}
	return n.current
}

// Back moves one step back, staying on the first step.
func (n *Navigator) Back() int {
	if n.current > 0 {
		n.current--
	}
	return n.current
}

// Goto jumps to index, clamped into range.
func (n *Navigator) Goto(index int) int {
	switch {
	case index < 0:
		n.current = 0
	case index >= n.count:
		n.current = n.count - 1
	default:
		n.current = index
	}
	return n.current
}

// Resize changes the step count, keeping the current index in range. Used
// when the definition changes under an active session.
func (n *Navigator) Resize(count int) {
	if count < 1 {
		count = 1
	}
	n.count = count
	if n.current >= count {
		n.current = count - 1
	}
}

// IsFirst reports whether the first step is active.
func (n *Navigator) IsFirst() bool {
	return n.current == 0
}

// IsLast reports whether the last step is active.
func (n *Navigator) IsLast() bool {
	return n.current == n.count-1
}
