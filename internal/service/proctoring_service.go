package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/ta-proctoring-api/internal/dto"
	"github.com/noah-isme/ta-proctoring-api/internal/matching"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
)

type examStore interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string, forUpdate bool) (*models.Exam, error)
}

type workloadStore interface {
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*models.TA, error)
	AdjustWorkload(ctx context.Context, exec sqlx.ExtContext, email string, delta float64) error
}

type assignmentStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error
	FindByExamID(ctx context.Context, exec sqlx.ExtContext, examID string) (*models.Assignment, error)
	ExistsForExam(ctx context.Context, exec sqlx.ExtContext, examID string) (bool, error)
	ListHistory(ctx context.Context, limit, offset int) ([]models.Assignment, error)
}

type examLocker interface {
	Lock(ctx context.Context, examID string) (func(), error)
}

// ProctoringService evaluates TAs for exams and commits proctor assignments.
type ProctoringService struct {
	tx          txProvider
	exams       examStore
	tas         workloadStore
	assignments assignmentStore
	snapshots   snapshotSource
	locker      examLocker
	engine      *matching.Engine
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewProctoringService constructs a ProctoringService.
func NewProctoringService(
	tx txProvider,
	exams examStore,
	tas workloadStore,
	assignments assignmentStore,
	snapshots snapshotSource,
	locker examLocker,
	engine *matching.Engine,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ProctoringService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = matching.New(matching.DefaultPolicy())
	}
	return &ProctoringService{
		tx:          tx,
		exams:       exams,
		tas:         tas,
		assignments: assignments,
		snapshots:   snapshots,
		locker:      locker,
		engine:      engine,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// CandidateTAs evaluates every active TA for the exam. Assignable TAs come
// first in selection order, followed by the rest sorted by email.
func (s *ProctoringService) CandidateTAs(ctx context.Context, examID string) (*dto.CandidateListResponse, error) {
	exam, err := s.loadExam(ctx, nil, examID, false)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Load(ctx, nil, *exam)
	if err != nil {
		return nil, err
	}
	candidates, err := s.engine.Evaluate(snap)
	if err != nil {
		return nil, engineError(err)
	}

	rows := make([]dto.CandidateTA, 0, len(candidates))
	for _, c := range matching.Rank(candidates) {
		rows = append(rows, candidateRow(c))
	}
	for _, c := range candidates {
		if !c.Assignable {
			rows = append(rows, candidateRow(c))
		}
	}
	return &dto.CandidateListResponse{Status: dto.StatusSuccess, TAs: rows}, nil
}

// AutomaticAssignment picks the best num_proctors TAs. Nothing is written
// unless commit is set, in which case selection and commit happen in one
// transaction.
func (s *ProctoringService) AutomaticAssignment(ctx context.Context, examID string, commit bool, actor string) (*dto.AutomaticAssignmentResponse, error) {
	if !commit {
		exam, err := s.loadExam(ctx, nil, examID, false)
		if err != nil {
			return nil, err
		}
		if err := s.ensureUnassigned(ctx, nil, examID); err != nil {
			return nil, err
		}
		snap, err := s.snapshots.Load(ctx, nil, *exam)
		if err != nil {
			return nil, err
		}
		selection, err := s.autoSelect(snap)
		if err != nil {
			return nil, err
		}
		s.metrics.RecordAssignment(models.AssignmentModeAutomatic, OutcomePreview)
		return &dto.AutomaticAssignmentResponse{
			Success:      true,
			AssignedTAs:  selection.Emails(),
			OverrideInfo: selection.Overrides,
		}, nil
	}

	assignment, err := s.commit(ctx, examID, models.AssignmentModeAutomatic, actor, s.autoSelect)
	if err != nil {
		return nil, err
	}
	return &dto.AutomaticAssignmentResponse{
		Success:      true,
		AssignedTAs:  assignment.Emails(),
		OverrideInfo: assignment.OverrideInfo,
		Committed:    true,
	}, nil
}

// ConfirmAssignment validates a staff-chosen list and commits it.
func (s *ProctoringService) ConfirmAssignment(ctx context.Context, examID string, req dto.ConfirmAssignmentRequest, actor string) (*dto.ConfirmAssignmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid assignment payload")
	}
	exam, err := s.loadExam(ctx, nil, examID, false)
	if err != nil {
		return nil, err
	}
	if err := matching.CheckSelectionShape(req.AssignedTAs, exam.NumProctors); err != nil {
		return nil, shapeError(err)
	}

	assignment, err := s.commit(ctx, examID, models.AssignmentModeManual, actor, func(snap *matching.Snapshot) (matching.Selection, error) {
		selection, rejections, err := s.engine.ValidateSelection(snap, req.AssignedTAs)
		if err != nil {
			var shape *matching.ShapeError
			if errors.As(err, &shape) {
				return matching.Selection{}, shapeError(err)
			}
			return matching.Selection{}, engineError(err)
		}
		if len(rejections) > 0 {
			return matching.Selection{}, appErrors.WithDetails(appErrors.ErrEligibility, rejectionMessage(rejections), rejections)
		}
		return selection, nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConfirmAssignmentResponse{
		Success:      true,
		AssignedTAs:  assignment.Emails(),
		OverrideInfo: assignment.OverrideInfo,
	}, nil
}

// GetAssignment returns the persisted assignment of an exam.
func (s *ProctoringService) GetAssignment(ctx context.Context, examID string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByExamID(ctx, nil, examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam has no confirmed proctors")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// History lists assignments newest first.
func (s *ProctoringService) History(ctx context.Context, limit, offset int) ([]models.Assignment, error) {
	assignments, err := s.assignments.ListHistory(ctx, limit, offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return assignments, nil
}

func (s *ProctoringService) autoSelect(snap *matching.Snapshot) (matching.Selection, error) {
	selection, err := s.engine.Assign(snap)
	if err != nil {
		var short *matching.InsufficientCandidatesError
		if errors.As(err, &short) {
			s.metrics.RecordAssignment(models.AssignmentModeAutomatic, OutcomeInsufficient)
			return matching.Selection{}, appErrors.WithDetails(appErrors.ErrInsufficientCandidate, short.Error(), map[string]int{
				"needed":   short.Needed,
				"eligible": short.Eligible,
			})
		}
		return matching.Selection{}, engineError(err)
	}
	return selection, nil
}

// commit runs selection and persistence for one exam under the exam lock in
// a single serializable transaction. Workload of every chosen TA grows by the
// exam duration in the same transaction.
func (s *ProctoringService) commit(
	ctx context.Context,
	examID string,
	mode models.AssignmentMode,
	actor string,
	choose func(*matching.Snapshot) (matching.Selection, error),
) (*models.Assignment, error) {
	unlock, err := s.locker.Lock(ctx, examID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var assignment *models.Assignment
	err = inSerializableTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		exam, err := s.loadExam(ctx, tx, examID, true)
		if err != nil {
			return err
		}
		if err := s.ensureUnassigned(ctx, tx, examID); err != nil {
			return err
		}
		snap, err := s.snapshots.Load(ctx, tx, *exam)
		if err != nil {
			return err
		}
		selection, err := choose(snap)
		if err != nil {
			return err
		}
		hours, err := matching.ExamHours(*exam)
		if err != nil {
			return engineError(err)
		}

		assignment = &models.Assignment{
			ExamID:       exam.ID,
			Mode:         mode,
			CreatedBy:    actor,
			OverrideInfo: selection.Overrides,
		}
		for _, email := range selection.Emails() {
			assignment.Seats = append(assignment.Seats, models.Seat{TAEmail: email})
		}
		if err := s.assignments.Create(ctx, tx, assignment); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store assignment")
		}
		for _, email := range selection.Emails() {
			if err := s.tas.AdjustWorkload(ctx, tx, email, hours); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update workload")
			}
		}
		return nil
	})
	if err != nil {
		s.recordFailure(mode, err)
		return nil, err
	}

	s.metrics.RecordAssignment(mode, OutcomeCommitted)
	s.metrics.RecordOverrides(assignment.OverrideInfo)
	s.logger.Info("proctors assigned",
		zap.String("exam_id", examID),
		zap.String("mode", string(mode)),
		zap.Strings("ta_emails", assignment.Emails()),
		zap.Bool("consecutive_overridden", assignment.Consecutive),
		zap.Bool("ms_phd_overridden", assignment.MSPhD),
		zap.Bool("department_overridden", assignment.Department),
	)
	return assignment, nil
}

func (s *ProctoringService) recordFailure(mode models.AssignmentMode, err error) {
	switch {
	case errors.Is(err, appErrors.ErrEligibility), errors.Is(err, appErrors.ErrValidation):
		s.metrics.RecordAssignment(mode, OutcomeIneligible)
	case errors.Is(err, appErrors.ErrInsufficientCandidate):
		// counted in autoSelect
	case errors.Is(err, appErrors.ErrConflict):
		s.metrics.RecordAssignment(mode, OutcomeConflict)
	}
}

func (s *ProctoringService) loadExam(ctx context.Context, exec sqlx.ExtContext, examID string, forUpdate bool) (*models.Exam, error) {
	exam, err := s.exams.FindByID(ctx, exec, examID, forUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	return exam, nil
}

func (s *ProctoringService) ensureUnassigned(ctx context.Context, exec sqlx.ExtContext, examID string) error {
	exists, err := s.assignments.ExistsForExam(ctx, exec, examID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "exam already has confirmed proctors")
	}
	return nil
}

func candidateRow(c matching.Candidate) dto.CandidateTA {
	row := dto.CandidateTA{
		Email:           c.TA.Email,
		FirstName:       c.TA.FirstName,
		LastName:        c.TA.LastName,
		Workload:        c.TA.Workload,
		Program:         c.TA.Program,
		Department:      c.TA.Department,
		Assignable:      c.Assignable,
		AlreadyAssigned: c.AlreadyAssigned,
	}
	if c.Assignable {
		penalty := c.Penalty
		row.Penalty = &penalty
	} else {
		row.Reason = c.Reason
	}
	return row
}

func rejectionMessage(rejections []matching.Rejection) string {
	parts := make([]string, 0, len(rejections))
	for _, r := range rejections {
		parts = append(parts, r.Email+": "+r.Reason)
	}
	return "some TAs are not eligible: " + strings.Join(parts, "; ")
}

// engineError wraps malformed exam or schedule data found while evaluating.
func engineError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to evaluate candidates")
}
