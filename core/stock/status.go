package stock

// Status is the closed set of loan record statuses that drive stock.
type Status string

const (
	// StatusIssued marks equipment handed out on loan, not yet resolved.
	StatusIssued Status = "ISSUED"
	// StatusInUse marks equipment actively in use by the worker.
	StatusInUse Status = "IN_USE"
	// StatusProvided marks equipment given permanently (consumables).
	StatusProvided Status = "PROVIDED"
	// StatusReturned marks a completed cycle: the item left and came back.
	StatusReturned Status = "RETURNED"
	// StatusDamaged marks equipment returned unusable.
	StatusDamaged Status = "DAMAGED"
	// StatusLost marks equipment that will never return.
	StatusLost Status = "LOST"
)

// Statuses returns every supported status, in display order.
func Statuses() []Status {
	return []Status{
		StatusIssued,
		StatusInUse,
		StatusProvided,
		StatusReturned,
		StatusDamaged,
		StatusLost,
	}
}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusIssued, StatusInUse, StatusProvided, StatusReturned, StatusDamaged, StatusLost:
		return true
	default:
		return false
	}
}

// Effect returns the net contribution of a loan record with the given
// status and quantity to its item's stock counter.
//
// Outbound statuses (issued, in use, provided) remove quantity from the
// shelf. Returned is net zero: the outbound half already happened
// logically, so a returned record contributes nothing overall. Damaged and
// lost keep the outbound effect because the equipment never comes back.
func Effect(status Status, quantity int) int {
	switch status {
	case StatusIssued, StatusInUse, StatusProvided:
		return -quantity
	case StatusDamaged, StatusLost:
		return -quantity
	case StatusReturned:
		return 0
	default:
		// Unknown statuses are treated as outbound so a missed mapping can
		// only understate stock, never overstate it.
		return -quantity
	}
}
