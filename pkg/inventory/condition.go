package inventory

// severityOutcome is the fixed two-bucket severity mapping. Damage reports are
// the only events that move a resource out of Serviceable; nothing in this
// package ever moves one back automatically. Restoration happens through an
// explicit repair-completion (see requests.go), where the technician states the
// resulting condition.
var severityOutcome = map[Severity]Condition{
	SeverityMinor:     ConditionUnderMaintenance,
	SeverityModerate:  ConditionUnderMaintenance,
	SeveritySevere:    ConditionCondemned,
	SeverityTotalLoss: ConditionCondemned,
}

// severityPriority derives the repair-request priority filed for a damage report.
var severityPriority = map[Severity]Priority{
	SeverityMinor:     PriorityLow,
	SeverityModerate:  PriorityMedium,
	SeveritySevere:    PriorityHigh,
	SeverityTotalLoss: PriorityCritical,
}

// OutcomeForSeverity returns the condition a damage report of the given
// severity puts a resource into. ok is false for an unknown severity.
func OutcomeForSeverity(s Severity) (Condition, bool) {
	c, ok := severityOutcome[s]
	return c, ok
}

// PriorityForSeverity returns the repair-request priority for a severity.
func PriorityForSeverity(s Severity) Priority {
	if p, ok := severityPriority[s]; ok {
		return p
	}
	return PriorityMedium
}

// ValidCondition reports whether c is a known condition value.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionServiceable, ConditionUnderMaintenance, ConditionCondemned:
		return true
	}
	return false
}
