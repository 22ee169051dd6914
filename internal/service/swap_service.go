package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/ta-proctoring-api/internal/dto"
	"github.com/noah-isme/ta-proctoring-api/internal/matching"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
)

type seatStore interface {
	FindSeat(ctx context.Context, exec sqlx.ExtContext, seatID string, forUpdate bool) (*models.Seat, error)
	ReassignSeat(ctx context.Context, exec sqlx.ExtContext, seatID, from, to string) error
	ListSeats(ctx context.Context, filter models.SeatFilter) ([]models.SeatDetail, error)
}

type swapStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, swap *models.SwapRequest) error
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string, forUpdate bool) (*models.SwapRequest, error)
	Resolve(ctx context.Context, exec sqlx.ExtContext, id string, status models.SwapStatus, at time.Time) error
	FindPendingForSeat(ctx context.Context, exec sqlx.ExtContext, seatID string, forUpdate bool) (*models.SwapRequest, error)
	List(ctx context.Context, filter models.SwapFilter) ([]models.SwapDetail, error)
}

type notifier interface {
	Notify(ctx context.Context, recipient, message string)
}

// SwapService runs the peer and staff swap flows for proctoring seats.
type SwapService struct {
	tx        txProvider
	exams     examStore
	tas       workloadStore
	seats     seatStore
	swaps     swapStore
	snapshots snapshotSource
	locker    examLocker
	engine    *matching.Engine
	notifier  notifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSwapService constructs a SwapService.
func NewSwapService(
	tx txProvider,
	exams examStore,
	tas workloadStore,
	seats seatStore,
	swaps swapStore,
	snapshots snapshotSource,
	locker examLocker,
	engine *matching.Engine,
	notifier notifier,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *SwapService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = matching.New(matching.DefaultPolicy())
	}
	return &SwapService{
		tx:        tx,
		exams:     exams,
		tas:       tas,
		seats:     seats,
		swaps:     swaps,
		snapshots: snapshots,
		locker:    locker,
		engine:    engine,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Candidates lists who could take over the seat. TAs may only look at their
// own seats; secretaries at seats of their department.
func (s *SwapService) Candidates(ctx context.Context, seatID string, caller *models.JWTClaims) (*dto.SwapCandidatesResponse, error) {
	seat, err := s.loadSeat(ctx, nil, seatID, false)
	if err != nil {
		return nil, err
	}
	exam, err := s.loadExam(ctx, nil, seat.ExamID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSeat(caller, seat, exam); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Load(ctx, nil, *exam)
	if err != nil {
		return nil, err
	}
	pool, err := s.engine.SwapCandidates(snap, *seat)
	if err != nil {
		return nil, engineError(err)
	}

	resp := &dto.SwapCandidatesResponse{
		Status:       dto.StatusSuccess,
		Assignable:   make([]dto.SwapCandidate, 0, len(pool.Assignable)),
		Unassignable: make([]dto.SwapIneligible, 0, len(pool.Unassignable)),
	}
	for _, c := range pool.Assignable {
		resp.Assignable = append(resp.Assignable, dto.SwapCandidate{Email: c.TA.Email, Name: c.TA.FullName(), Workload: c.TA.Workload})
	}
	for _, c := range pool.Unassignable {
		resp.Unassignable = append(resp.Unassignable, dto.SwapIneligible{Email: c.TA.Email, Name: c.TA.FullName(), Reason: c.Reason})
	}
	return resp, nil
}

// RequestSwap opens a pending peer request from the seat holder to target.
func (s *SwapService) RequestSwap(ctx context.Context, req dto.SwapRequestPayload, caller *models.JWTClaims) (*models.SwapRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid swap request payload")
	}
	seat, err := s.loadSeat(ctx, nil, req.AssignmentID, false)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(seat.TAEmail, caller.Email) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the seat holder can request a swap")
	}

	swap := &models.SwapRequest{
		SeatID:      seat.ID,
		ExamID:      seat.ExamID,
		Kind:        models.SwapKindPeer,
		Status:      models.SwapStatusPending,
		RequestedBy: caller.Email,
		PreviousTA:  seat.TAEmail,
	}
	var exam *models.Exam
	err = s.withExamLock(ctx, seat.ExamID, func(tx *sqlx.Tx) error {
		locked, err := s.loadSeat(ctx, tx, seat.ID, true)
		if err != nil {
			return err
		}
		if !strings.EqualFold(locked.TAEmail, caller.Email) {
			return appErrors.Clone(appErrors.ErrConflict, "seat is no longer held by the requester")
		}
		if err := s.ensureNoPending(ctx, tx, locked.ID); err != nil {
			return err
		}
		if exam, err = s.loadExam(ctx, tx, locked.ExamID); err != nil {
			return err
		}
		target, err := s.checkReplacement(ctx, tx, *exam, *locked, req.TargetTAEmail, s.engine.CheckReplacement)
		if err != nil {
			return err
		}
		swap.TargetTA = target.Email
		swap.CreatedAt = s.now()
		if err := s.swaps.Create(ctx, tx, swap); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store swap request")
		}
		return nil
	})
	if err != nil {
		s.recordFailure(models.SwapKindPeer, err)
		return nil, err
	}

	s.metrics.RecordSwap(models.SwapKindPeer, OutcomeRequested)
	s.logger.Info("swap requested",
		zap.String("swap_id", swap.ID),
		zap.String("seat_id", swap.SeatID),
		zap.String("ta_email", swap.PreviousTA),
		zap.String("target_ta", swap.TargetTA),
	)
	s.notify(ctx, swap.TargetTA, fmt.Sprintf("%s asked you to take over proctoring of %s.", caller.Email, describeExam(exam)))
	return swap, nil
}

// RespondSwap applies the target TA's decision to a pending request. A
// request that is already resolved yields a conflict and changes nothing.
func (s *SwapService) RespondSwap(ctx context.Context, swapID string, req dto.SwapResponsePayload, caller *models.JWTClaims) (*models.SwapRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid swap decision")
	}
	swap, err := s.loadSwap(ctx, nil, swapID, false)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(swap.TargetTA, caller.Email) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the requested TA can respond to this swap")
	}

	accept := req.Decision == dto.DecisionAccept
	var exam *models.Exam
	err = s.withExamLock(ctx, swap.ExamID, func(tx *sqlx.Tx) error {
		locked, err := s.loadSwap(ctx, tx, swapID, true)
		if err != nil {
			return err
		}
		if locked.Status.Terminal() {
			return appErrors.Clone(appErrors.ErrConflict, "swap request has already been resolved")
		}
		swap = locked
		if exam, err = s.loadExam(ctx, tx, swap.ExamID); err != nil {
			return err
		}

		at := s.now()
		if !accept {
			return s.resolve(ctx, tx, swap, models.SwapStatusRejected, at)
		}

		seat, err := s.loadSeat(ctx, tx, swap.SeatID, true)
		if err != nil {
			return err
		}
		if !strings.EqualFold(seat.TAEmail, swap.PreviousTA) {
			return appErrors.Clone(appErrors.ErrConflict, "seat changed hands since the request was made")
		}
		target, err := s.checkReplacement(ctx, tx, *exam, *seat, swap.TargetTA, s.engine.ValidateReplacement)
		if err != nil {
			return err
		}
		if err := s.moveSeat(ctx, tx, *exam, *seat, target.Email); err != nil {
			return err
		}
		return s.resolve(ctx, tx, swap, models.SwapStatusAccepted, at)
	})
	if err != nil {
		s.recordFailure(models.SwapKindPeer, err)
		return nil, err
	}

	outcome, verb := OutcomeRejected, "declined"
	if accept {
		outcome, verb = OutcomeAccepted, "accepted"
	}
	s.metrics.RecordSwap(models.SwapKindPeer, outcome)
	s.logger.Info("swap resolved",
		zap.String("swap_id", swap.ID),
		zap.String("seat_id", swap.SeatID),
		zap.String("status", string(swap.Status)),
	)
	s.notify(ctx, swap.RequestedBy, fmt.Sprintf("%s %s your swap request for %s.", swap.TargetTA, verb, describeExam(exam)))
	return swap, nil
}

// StaffSwap moves the seat to newTA immediately and records a staff entry in
// the seat history. An open peer request on the seat is rejected in the same
// transaction.
func (s *SwapService) StaffSwap(ctx context.Context, seatID string, req dto.StaffSwapPayload, caller *models.JWTClaims) (*models.SwapRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid staff swap payload")
	}
	seat, err := s.loadSeat(ctx, nil, seatID, false)
	if err != nil {
		return nil, err
	}

	var (
		swap      *models.SwapRequest
		exam      *models.Exam
		cancelled *models.SwapRequest
	)
	err = s.withExamLock(ctx, seat.ExamID, func(tx *sqlx.Tx) error {
		locked, err := s.loadSeat(ctx, tx, seat.ID, true)
		if err != nil {
			return err
		}
		if exam, err = s.loadExam(ctx, tx, locked.ExamID); err != nil {
			return err
		}
		if err := authorizeSeat(caller, locked, exam); err != nil {
			return err
		}

		at := s.now()
		if cancelled, err = s.rejectPending(ctx, tx, locked.ID, at); err != nil {
			return err
		}
		target, err := s.checkReplacement(ctx, tx, *exam, *locked, req.NewTA, s.engine.CheckReplacement)
		if err != nil {
			return err
		}
		if err := s.moveSeat(ctx, tx, *exam, *locked, target.Email); err != nil {
			return err
		}

		swap = &models.SwapRequest{
			SeatID:           locked.ID,
			ExamID:           locked.ExamID,
			Kind:             models.SwapKindStaff,
			Status:           models.SwapStatusStaff,
			RequestedBy:      caller.Email,
			RequestedByStaff: true,
			PreviousTA:       locked.TAEmail,
			TargetTA:         target.Email,
			CreatedAt:        at,
			RespondedAt:      &at,
		}
		if err := s.swaps.Create(ctx, tx, swap); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record staff swap")
		}
		return nil
	})
	if err != nil {
		s.recordFailure(models.SwapKindStaff, err)
		return nil, err
	}

	s.metrics.RecordSwap(models.SwapKindStaff, OutcomeAccepted)
	s.logger.Info("staff swap committed",
		zap.String("swap_id", swap.ID),
		zap.String("seat_id", swap.SeatID),
		zap.String("ta_email", swap.PreviousTA),
		zap.String("target_ta", swap.TargetTA),
		zap.String("actor", caller.Email),
	)
	what := describeExam(exam)
	if cancelled != nil {
		s.metrics.RecordSwap(models.SwapKindPeer, OutcomeRejected)
		s.logger.Info("pending swap rejected by staff swap",
			zap.String("swap_id", cancelled.ID),
			zap.String("seat_id", cancelled.SeatID),
		)
		note := fmt.Sprintf("Your swap request for %s was closed because %s reassigned the seat.", what, caller.Email)
		s.notify(ctx, cancelled.RequestedBy, note)
		s.notify(ctx, cancelled.TargetTA, note)
	}
	s.notify(ctx, swap.PreviousTA, fmt.Sprintf("You were released from proctoring %s by %s.", what, caller.Email))
	s.notify(ctx, swap.TargetTA, fmt.Sprintf("You were assigned to proctor %s by %s.", what, caller.Email))
	return swap, nil
}

// ListMine returns the swaps the caller sent, received or gave up a seat in.
func (s *SwapService) ListMine(ctx context.Context, caller *models.JWTClaims, limit, offset int) ([]models.SwapDetail, error) {
	return s.list(ctx, models.SwapFilter{Participant: caller.Email, Limit: limit, Offset: offset})
}

// AdminHistory returns swap records newest first, limited to the caller's
// department for secretaries.
func (s *SwapService) AdminHistory(ctx context.Context, caller *models.JWTClaims, limit, offset int) ([]models.SwapDetail, error) {
	return s.list(ctx, models.SwapFilter{Department: scopeDepartment(caller), Limit: limit, Offset: offset})
}

// SeatHistory returns the swap records of one seat oldest first.
func (s *SwapService) SeatHistory(ctx context.Context, seatID string, caller *models.JWTClaims) ([]models.SwapDetail, error) {
	seat, err := s.loadSeat(ctx, nil, seatID, false)
	if err != nil {
		return nil, err
	}
	exam, err := s.loadExam(ctx, nil, seat.ExamID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSeat(caller, seat, exam); err != nil {
		return nil, err
	}
	return s.list(ctx, models.SwapFilter{SeatID: seat.ID, Ascending: true})
}

// ListSeats returns proctoring seats ordered by date or course.
func (s *SwapService) ListSeats(ctx context.Context, caller *models.JWTClaims, orderBy string, limit, offset int) ([]models.SeatDetail, error) {
	switch orderBy {
	case "", "date", "course":
	default:
		return nil, appErrors.WithDetails(appErrors.ErrValidation, "order_by must be date or course", []dto.FieldError{{Field: "order_by", Rule: "oneof", Value: orderBy}})
	}
	seats, err := s.seats.ListSeats(ctx, models.SeatFilter{
		Department: scopeDepartment(caller),
		OrderBy:    orderBy,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list seats")
	}
	if seats == nil {
		seats = []models.SeatDetail{}
	}
	return seats, nil
}

func (s *SwapService) list(ctx context.Context, filter models.SwapFilter) ([]models.SwapDetail, error) {
	swaps, err := s.swaps.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list swaps")
	}
	if swaps == nil {
		swaps = []models.SwapDetail{}
	}
	return swaps, nil
}

func (s *SwapService) withExamLock(ctx context.Context, examID string, fn func(tx *sqlx.Tx) error) error {
	unlock, err := s.locker.Lock(ctx, examID)
	if err != nil {
		return err
	}
	defer unlock()
	return inSerializableTx(ctx, s.tx, fn)
}

type replacementCheck func(snap *matching.Snapshot, seat models.Seat, email string) (matching.Candidate, error)

// checkReplacement returns the stored TA behind email once it may take the
// seat. Seats and swap records use the returned TA's email as stored.
func (s *SwapService) checkReplacement(ctx context.Context, tx *sqlx.Tx, exam models.Exam, seat models.Seat, email string, check replacementCheck) (*models.TA, error) {
	email = strings.TrimSpace(email)
	ta, err := s.tas.FindByEmail(ctx, tx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target TA not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target TA")
	}
	snap, err := s.snapshots.Load(ctx, tx, exam)
	if err != nil {
		return nil, err
	}
	candidate, err := check(snap, seat, ta.Email)
	if err != nil {
		return nil, engineError(err)
	}
	if !candidate.Assignable {
		rejection := []matching.Rejection{{Email: ta.Email, Reason: candidate.Reason}}
		return nil, appErrors.WithDetails(appErrors.ErrEligibility, rejectionMessage(rejection), rejection)
	}
	return ta, nil
}

// moveSeat hands the seat to the new TA and moves the exam hours between the
// two workloads.
func (s *SwapService) moveSeat(ctx context.Context, tx *sqlx.Tx, exam models.Exam, seat models.Seat, to string) error {
	hours, err := matching.ExamHours(exam)
	if err != nil {
		return engineError(err)
	}
	if err := s.seats.ReassignSeat(ctx, tx, seat.ID, seat.TAEmail, to); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "seat changed hands during the swap")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign seat")
	}
	if err := s.tas.AdjustWorkload(ctx, tx, seat.TAEmail, -hours); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update workload")
	}
	if err := s.tas.AdjustWorkload(ctx, tx, to, hours); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update workload")
	}
	return nil
}

func (s *SwapService) resolve(ctx context.Context, tx *sqlx.Tx, swap *models.SwapRequest, status models.SwapStatus, at time.Time) error {
	if err := s.swaps.Resolve(ctx, tx, swap.ID, status, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "swap request has already been resolved")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve swap request")
	}
	swap.Status = status
	swap.RespondedAt = &at
	return nil
}

func (s *SwapService) ensureNoPending(ctx context.Context, tx *sqlx.Tx, seatID string) error {
	_, err := s.swaps.FindPendingForSeat(ctx, tx, seatID, false)
	switch {
	case err == nil:
		return appErrors.Clone(appErrors.ErrConflict, "seat already has a pending swap request")
	case errors.Is(err, sql.ErrNoRows):
		return nil
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending swaps")
}

// rejectPending closes the open request on the seat, if any, and returns it.
func (s *SwapService) rejectPending(ctx context.Context, tx *sqlx.Tx, seatID string, at time.Time) (*models.SwapRequest, error) {
	pending, err := s.swaps.FindPendingForSeat(ctx, tx, seatID, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending swaps")
	}
	if err := s.resolve(ctx, tx, pending, models.SwapStatusRejected, at); err != nil {
		return nil, err
	}
	return pending, nil
}

func (s *SwapService) loadSeat(ctx context.Context, exec sqlx.ExtContext, seatID string, forUpdate bool) (*models.Seat, error) {
	seat, err := s.seats.FindSeat(ctx, exec, seatID, forUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "proctoring assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load proctoring assignment")
	}
	return seat, nil
}

func (s *SwapService) loadSwap(ctx context.Context, exec sqlx.ExtContext, swapID string, forUpdate bool) (*models.SwapRequest, error) {
	swap, err := s.swaps.FindByID(ctx, exec, swapID, forUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "swap request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load swap request")
	}
	return swap, nil
}

func (s *SwapService) loadExam(ctx context.Context, exec sqlx.ExtContext, examID string) (*models.Exam, error) {
	exam, err := s.exams.FindByID(ctx, exec, examID, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	return exam, nil
}

func (s *SwapService) notify(ctx context.Context, recipient, message string) {
	if s.notifier == nil || recipient == "" {
		return
	}
	s.notifier.Notify(ctx, recipient, message)
}

func (s *SwapService) recordFailure(kind models.SwapKind, err error) {
	switch {
	case errors.Is(err, appErrors.ErrConflict):
		s.metrics.RecordSwap(kind, OutcomeConflict)
	case errors.Is(err, appErrors.ErrEligibility):
		s.metrics.RecordSwap(kind, OutcomeIneligible)
	}
}

// authorizeSeat limits TAs to their own seat and secretaries to their
// department's exams.
func authorizeSeat(caller *models.JWTClaims, seat *models.Seat, exam *models.Exam) error {
	if caller == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "missing identity")
	}
	if !caller.IsStaff() {
		if !strings.EqualFold(seat.TAEmail, caller.Email) {
			return appErrors.Clone(appErrors.ErrForbidden, "not your proctoring assignment")
		}
		return nil
	}
	if caller.DepartmentScoped() && !strings.EqualFold(matching.OwningDepartment(*exam), caller.Department) {
		return appErrors.Clone(appErrors.ErrForbidden, "exam belongs to another department")
	}
	return nil
}

func scopeDepartment(caller *models.JWTClaims) string {
	if caller != nil && caller.DepartmentScoped() {
		return caller.Department
	}
	return ""
}

func describeExam(exam *models.Exam) string {
	if exam == nil {
		return "an exam"
	}
	return fmt.Sprintf("%s on %s %s-%s", strings.Join(exam.CourseCodes, "/"), exam.ExamDate.Format("2006-01-02"), exam.StartTime, exam.EndTime)
}
