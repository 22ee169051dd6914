package matching

import (
	"strings"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

// Engine evaluates, scores and selects proctors under a Policy. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	policy Policy
}

// New returns an engine for the given policy.
func New(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// score returns the additive soft-constraint penalty of an eligible candidate
// and the categories it violates.
func (e *Engine) score(c Candidate, f *taFacts, ec *examContext, preferred models.Program, hasPreference bool) (float64, models.OverrideInfo) {
	var overrides models.OverrideInfo
	penalty := c.TA.Workload * e.policy.WorkloadWeight

	if f != nil && f.adjacentDay {
		penalty += e.policy.ConsecutivePenalty
		overrides.Consecutive = true
	}

	if hasPreference && c.TA.Program != preferred {
		penalty += e.policy.ProgramMixPenalty
		overrides.MSPhD = true
	}

	if ec.department != "" && !strings.EqualFold(strings.TrimSpace(c.TA.Department), ec.department) {
		waived := c.AlreadyAssigned && e.policy.RosterDepartmentFactor == 0
		if !waived {
			weight := e.policy.DepartmentPenalty
			if c.AlreadyAssigned {
				weight *= e.policy.RosterDepartmentFactor
			}
			penalty += weight
			overrides.Department = true
		}
	}

	return penalty, overrides
}

// preferredProgram decides which program the exam should be staffed from.
// Graduate-level courses prefer PhD TAs. Under the no-mix policy the program
// of the TAs already seated wins, otherwise the majority of the eligible pool,
// with ties going to PhD.
func (e *Engine) preferredProgram(ec *examContext, holders, eligible []models.TA) (models.Program, bool) {
	if e.isGraduateExam(ec.exam) {
		return models.ProgramPhD, true
	}
	if !e.policy.NoMixPrograms {
		return "", false
	}
	if len(holders) > 0 {
		return majorityProgram(holders), true
	}
	if len(eligible) == 0 {
		return "", false
	}
	return majorityProgram(eligible), true
}

func (e *Engine) isGraduateExam(exam models.Exam) bool {
	if e.policy.GraduateCourseLevel <= 0 {
		return false
	}
	for _, code := range exam.CourseCodes {
		if n, ok := CourseNumber(code); ok && n >= e.policy.GraduateCourseLevel {
			return true
		}
	}
	return false
}

func majorityProgram(tas []models.TA) models.Program {
	var ms, phd int
	for _, ta := range tas {
		switch ta.Program {
		case models.ProgramMS:
			ms++
		case models.ProgramPhD:
			phd++
		}
	}
	if ms > phd {
		return models.ProgramMS
	}
	return models.ProgramPhD
}
