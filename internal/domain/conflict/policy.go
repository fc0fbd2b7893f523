package conflict

type Decision int

const (
	Deny Decision = iota
	Allow
)

// ForcePolicy lists the overridable checks. Codes without a field here can
// never be forced.
type ForcePolicy struct {
	LeaveConflict Decision
	Overlap       Decision
}

// DenyAll is the default policy for unforced submissions.
var DenyAll = ForcePolicy{}

// PolicyFromForce maps the single force flag accepted on the wire.
func PolicyFromForce(force bool) ForcePolicy {
	if !force {
		return DenyAll
	}
	return ForcePolicy{LeaveConflict: Allow, Overlap: Allow}
}

// Allows reports whether the policy overrides a rejection with code.
func (p ForcePolicy) Allows(code Code) bool {
	switch code {
	case CodeLeaveConflict:
		return p.LeaveConflict == Allow
	case CodeOverlappingHours:
		return p.Overlap == Allow
	default:
		return false
	}
}
