package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ta-proctoring-api/internal/matching"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

var testExamDate = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func newTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// fakeWorld is an in-memory store shared by the fake repositories below.
type fakeWorld struct {
	mu          sync.Mutex
	seq         int
	exams       map[string]models.Exam
	tas         map[string]*models.TA
	assignments map[string]*models.Assignment
	seats       map[string]*models.Seat
	swaps       map[string]*models.SwapRequest
	swapOrder   []string
	leaves      []models.LeaveRequest
	roster      map[string]bool
	workloadErr error
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		exams:       map[string]models.Exam{},
		tas:         map[string]*models.TA{},
		assignments: map[string]*models.Assignment{},
		seats:       map[string]*models.Seat{},
		swaps:       map[string]*models.SwapRequest{},
		roster:      map[string]bool{},
	}
}

func (w *fakeWorld) nextID(prefix string) string {
	w.seq++
	return fmt.Sprintf("%s-%d", prefix, w.seq)
}

func (w *fakeWorld) addTA(email string, program models.Program, department string, workload float64) {
	w.tas[email] = &models.TA{
		Email:      email,
		FirstName:  strings.Split(email, "@")[0],
		LastName:   "TA",
		Program:    program,
		Department: department,
		Workload:   workload,
		TAType:     models.TATypeFullTime,
		Active:     true,
	}
}

func (w *fakeWorld) addExam(id, course string, date time.Time, start, end string, proctors int) models.Exam {
	exam := models.Exam{
		ID:          id,
		Kind:        models.ExamKindDepartment,
		CourseCodes: pq.StringArray{course},
		ExamDate:    date,
		StartTime:   start,
		EndTime:     end,
		Classrooms:  pq.StringArray{"B-101"},
		NumProctors: proctors,
	}
	w.exams[id] = exam
	return exam
}

// seed places a confirmed assignment without touching workloads.
func (w *fakeWorld) seed(examID string, emails ...string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	assignment := &models.Assignment{ID: w.nextID("asg"), ExamID: examID, Mode: models.AssignmentModeManual}
	ids := make([]string, 0, len(emails))
	for i, email := range emails {
		seat := models.Seat{ID: w.nextID("seat"), AssignmentID: assignment.ID, ExamID: examID, TAEmail: email, Position: i + 1}
		assignment.Seats = append(assignment.Seats, seat)
		copied := seat
		w.seats[seat.ID] = &copied
		ids = append(ids, seat.ID)
	}
	w.assignments[examID] = assignment
	return ids
}

func (w *fakeWorld) workload(email string) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tas[email].Workload
}

func (w *fakeWorld) holder(seatID string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seats[seatID].TAEmail
}

func (w *fakeWorld) totalWorkload() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	var total float64
	for _, ta := range w.tas {
		total += ta.Workload
	}
	return total
}

type fakeExamStore struct{ w *fakeWorld }

func (s fakeExamStore) FindByID(ctx context.Context, exec sqlx.ExtContext, id string, forUpdate bool) (*models.Exam, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	exam, ok := s.w.exams[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &exam, nil
}

type fakeTAStore struct{ w *fakeWorld }

func (s fakeTAStore) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*models.TA, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	ta, ok := s.w.tas[strings.ToLower(email)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *ta
	return &copied, nil
}

func (s fakeTAStore) AdjustWorkload(ctx context.Context, exec sqlx.ExtContext, email string, delta float64) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if s.w.workloadErr != nil {
		return s.w.workloadErr
	}
	ta, ok := s.w.tas[strings.ToLower(email)]
	if !ok {
		return sql.ErrNoRows
	}
	ta.Workload += delta
	return nil
}

type fakeAssignmentStore struct{ w *fakeWorld }

func (s fakeAssignmentStore) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if _, exists := s.w.assignments[assignment.ExamID]; exists {
		return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	assignment.ID = s.w.nextID("asg")
	assignment.CreatedAt = time.Now().UTC()
	for i := range assignment.Seats {
		seat := &assignment.Seats[i]
		seat.ID = s.w.nextID("seat")
		seat.AssignmentID = assignment.ID
		seat.ExamID = assignment.ExamID
		seat.Position = i + 1
		copied := *seat
		s.w.seats[seat.ID] = &copied
	}
	copied := *assignment
	s.w.assignments[assignment.ExamID] = &copied
	return nil
}

func (s fakeAssignmentStore) FindByExamID(ctx context.Context, exec sqlx.ExtContext, examID string) (*models.Assignment, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	assignment, ok := s.w.assignments[examID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *assignment
	copied.Seats = nil
	for _, seat := range assignment.Seats {
		copied.Seats = append(copied.Seats, *s.w.seats[seat.ID])
	}
	return &copied, nil
}

func (s fakeAssignmentStore) ExistsForExam(ctx context.Context, exec sqlx.ExtContext, examID string) (bool, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	_, ok := s.w.assignments[examID]
	return ok, nil
}

func (s fakeAssignmentStore) ListHistory(ctx context.Context, limit, offset int) ([]models.Assignment, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []models.Assignment
	for _, a := range s.w.assignments {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExamID < out[j].ExamID })
	return out, nil
}

func (s fakeAssignmentStore) FindSeat(ctx context.Context, exec sqlx.ExtContext, seatID string, forUpdate bool) (*models.Seat, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	seat, ok := s.w.seats[seatID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *seat
	return &copied, nil
}

func (s fakeAssignmentStore) ReassignSeat(ctx context.Context, exec sqlx.ExtContext, seatID, from, to string) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	seat, ok := s.w.seats[seatID]
	if !ok || !strings.EqualFold(seat.TAEmail, from) {
		return sql.ErrNoRows
	}
	seat.TAEmail = to
	return nil
}

func (s fakeAssignmentStore) ListSeats(ctx context.Context, filter models.SeatFilter) ([]models.SeatDetail, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []models.SeatDetail
	for _, seat := range s.w.seats {
		exam := s.w.exams[seat.ExamID]
		if filter.Department != "" && !strings.EqualFold(matching.OwningDepartment(exam), filter.Department) {
			continue
		}
		out = append(out, models.SeatDetail{Seat: *seat, CourseCodes: exam.CourseCodes, ExamDate: exam.ExamDate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSwapStore struct{ w *fakeWorld }

func (s fakeSwapStore) Create(ctx context.Context, exec sqlx.ExtContext, swap *models.SwapRequest) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	swap.ID = s.w.nextID("swap")
	copied := *swap
	s.w.swaps[swap.ID] = &copied
	s.w.swapOrder = append(s.w.swapOrder, swap.ID)
	return nil
}

func (s fakeSwapStore) FindByID(ctx context.Context, exec sqlx.ExtContext, id string, forUpdate bool) (*models.SwapRequest, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	swap, ok := s.w.swaps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *swap
	return &copied, nil
}

func (s fakeSwapStore) Resolve(ctx context.Context, exec sqlx.ExtContext, id string, status models.SwapStatus, at time.Time) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	swap, ok := s.w.swaps[id]
	if !ok || swap.Status != models.SwapStatusPending {
		return sql.ErrNoRows
	}
	swap.Status = status
	swap.RespondedAt = &at
	return nil
}

func (s fakeSwapStore) FindPendingForSeat(ctx context.Context, exec sqlx.ExtContext, seatID string, forUpdate bool) (*models.SwapRequest, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, swap := range s.w.swaps {
		if swap.SeatID == seatID && swap.Status == models.SwapStatusPending {
			copied := *swap
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s fakeSwapStore) List(ctx context.Context, filter models.SwapFilter) ([]models.SwapDetail, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []models.SwapDetail
	for _, id := range s.w.swapOrder {
		swap := s.w.swaps[id]
		if filter.SeatID != "" && swap.SeatID != filter.SeatID {
			continue
		}
		if p := filter.Participant; p != "" && swap.RequestedBy != p && swap.TargetTA != p && swap.PreviousTA != p {
			continue
		}
		exam := s.w.exams[swap.ExamID]
		if filter.Department != "" && !strings.EqualFold(matching.OwningDepartment(exam), filter.Department) {
			continue
		}
		out = append(out, models.SwapDetail{SwapRequest: *swap, CourseCodes: exam.CourseCodes, ExamDate: exam.ExamDate})
	}
	if !filter.Ascending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

type fakeSnapshots struct{ w *fakeWorld }

func (s fakeSnapshots) Load(ctx context.Context, exec sqlx.ExtContext, exam models.Exam) (*matching.Snapshot, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	snap := &matching.Snapshot{
		Exam:           exam,
		Leaves:         append([]models.LeaveRequest(nil), s.w.leaves...),
		Roster:         map[string]bool{},
		PendingTargets: map[string]bool{},
	}
	for _, ta := range s.w.tas {
		snap.TAs = append(snap.TAs, *ta)
	}
	for _, seat := range s.w.seats {
		e := s.w.exams[seat.ExamID]
		snap.Seats = append(snap.Seats, models.BookedSeat{
			SeatID:    seat.ID,
			ExamID:    seat.ExamID,
			TAEmail:   seat.TAEmail,
			ExamDate:  e.ExamDate,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
	}
	for email := range s.w.roster {
		snap.Roster[email] = true
	}
	window, err := matching.ExamWindow(exam)
	if err != nil {
		return nil, err
	}
	for _, swap := range s.w.swaps {
		if swap.Status != models.SwapStatusPending {
			continue
		}
		other, err := matching.ExamWindow(s.w.exams[swap.ExamID])
		if err != nil {
			return nil, err
		}
		if other.Overlaps(window) {
			snap.PendingTargets[strings.ToLower(swap.TargetTA)] = true
		}
	}
	return snap, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages map[string][]string
}

func (n *fakeNotifier) Notify(ctx context.Context, recipient, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.messages == nil {
		n.messages = map[string][]string{}
	}
	n.messages[recipient] = append(n.messages[recipient], message)
}

func (n *fakeNotifier) count(recipient string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages[recipient])
}

func approvedLeave(email string, date time.Time) models.LeaveRequest {
	return models.LeaveRequest{
		ID:        "leave-" + email,
		TAEmail:   email,
		StartDate: date,
		StartTime: "00:00",
		EndDate:   date,
		EndTime:   "23:59",
		Status:    models.LeaveStatusApproved,
	}
}

func newTestProctoringService(t *testing.T, w *fakeWorld) (*ProctoringService, sqlmock.Sqlmock, *MetricsService) {
	t.Helper()
	db, mock := newTxMock(t)
	metrics := NewMetricsService()
	svc := NewProctoringService(
		db,
		fakeExamStore{w},
		fakeTAStore{w},
		fakeAssignmentStore{w},
		fakeSnapshots{w},
		NewExamLocker(nil, time.Second, metrics, nil),
		matching.New(matching.DefaultPolicy()),
		metrics,
		nil,
		nil,
	)
	return svc, mock, metrics
}

func newTestSwapService(t *testing.T, w *fakeWorld) (*SwapService, sqlmock.Sqlmock, *fakeNotifier, *MetricsService) {
	t.Helper()
	db, mock := newTxMock(t)
	metrics := NewMetricsService()
	notes := &fakeNotifier{}
	svc := NewSwapService(
		db,
		fakeExamStore{w},
		fakeTAStore{w},
		fakeAssignmentStore{w},
		fakeSwapStore{w},
		fakeSnapshots{w},
		NewExamLocker(nil, time.Second, metrics, nil),
		matching.New(matching.DefaultPolicy()),
		notes,
		metrics,
		nil,
		nil,
	)
	return svc, mock, notes, metrics
}
