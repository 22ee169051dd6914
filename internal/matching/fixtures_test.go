package matching

import (
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

var examDay = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC) // Wednesday

func newTA(email string, program models.Program, department string, workload float64) models.TA {
	return models.TA{
		Email:      email,
		FirstName:  email,
		Program:    program,
		Department: department,
		Workload:   workload,
		TAType:     models.TATypeFullTime,
		Active:     true,
	}
}

func newExam(courses ...string) models.Exam {
	if len(courses) == 0 {
		courses = []string{"CS 101"}
	}
	return models.Exam{
		ID:          "exam-1",
		Kind:        models.ExamKindDepartment,
		CourseCodes: pq.StringArray(courses),
		ExamDate:    examDay,
		StartTime:   "09:00",
		EndTime:     "11:00",
		NumProctors: 2,
	}
}

func seatOn(examID, email string, date time.Time, start, end string) models.BookedSeat {
	return models.BookedSeat{
		SeatID:    examID + "-" + email,
		ExamID:    examID,
		TAEmail:   email,
		ExamDate:  date,
		StartTime: start,
		EndTime:   end,
	}
}

func snapshotOf(exam models.Exam, tas ...models.TA) *Snapshot {
	return &Snapshot{
		Exam:           exam,
		TAs:            tas,
		Roster:         map[string]bool{},
		PendingTargets: map[string]bool{},
	}
}

func byEmail(candidates []Candidate) map[string]Candidate {
	out := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		out[c.TA.Email] = c
	}
	return out
}
