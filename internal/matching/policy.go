package matching

// Policy holds the weights and switches of the matching model. Weights are in
// the same unit as the workload term so they can be compared directly.
type Policy struct {
	ConsecutivePenalty     float64
	ProgramMixPenalty      float64
	DepartmentPenalty      float64
	RosterDepartmentFactor float64
	WorkloadWeight         float64
	GraduateCourseLevel    int
	NoMixPrograms          bool
	BlockSameDay           bool
	PendingLeaveBlocks     bool
	MaxWorkload            float64
}

// DefaultPolicy mirrors the configuration defaults.
func DefaultPolicy() Policy {
	return Policy{
		ConsecutivePenalty:  500,
		ProgramMixPenalty:   1000,
		DepartmentPenalty:   2000,
		WorkloadWeight:      10,
		GraduateCourseLevel: 500,
		BlockSameDay:        true,
	}
}
