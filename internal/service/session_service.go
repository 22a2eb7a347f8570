package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gcec-dev/feedesk-api/internal/dto"
	"github.com/gcec-dev/feedesk-api/internal/models"
	appErrors "github.com/gcec-dev/feedesk-api/pkg/errors"
)

type financeUpstream interface {
	Grades(ctx context.Context) ([]models.Grade, error)
	Academic(ctx context.Context, slug string) (*models.AcademicRecord, error)
	UpdateFinance(ctx context.Context, studentSlug string, record models.FinanceYearRecord) ([]models.FinanceYearRecord, error)
	DeleteFinance(ctx context.Context, studentSlug, year, month string) error
}

type sessionStore interface {
	Create(sess *models.FeeSession) string
	Mutate(id string, fn func(*models.FeeSession) error) error
	View(id string, fn func(models.FeeSession)) error
	Delete(id string)
}

// SessionService owns the fee grid sessions: the roster snapshot for a
// selected year and grade, and the cell-selection machine that drives
// save, print and delete against the upstream ledger.
type SessionService struct {
	sessions        sessionStore
	upstream        financeUpstream
	validator       *validator.Validate
	logger          *zap.Logger
	confirmedDelete bool
	now             func() time.Time
}

// NewSessionService constructs the session service. confirmedDelete gates
// local entry removal on upstream acknowledgement; the default false keeps
// the legacy page's optimistic behaviour.
func NewSessionService(sessions sessionStore, up financeUpstream, validate *validator.Validate, logger *zap.Logger, confirmedDelete bool) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessions:        sessions,
		upstream:        up,
		validator:       validate,
		logger:          logger,
		confirmedDelete: confirmedDelete,
		now:             time.Now,
	}
}

// Open loads the roster for the requested academic year and grade and starts
// an idle session over it. A grade with no roster entry yields an empty grid,
// not an error.
func (s *SessionService) Open(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionSnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	academic, err := s.upstream.Academic(ctx, req.AcademicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to load academic record")
	}

	var roster []models.Student
	for _, gradeRoster := range academic.StudentProperties {
		if gradeRoster.Grade == req.Grade {
			roster = gradeRoster.Students
			break
		}
	}

	sess := &models.FeeSession{
		AcademicYear: req.AcademicYear,
		GradeSlug:    req.Grade,
		GradeName:    s.lookupGradeName(ctx, req.Grade),
		Roster:       roster,
		Phase:        models.PhaseIdle,
	}
	s.sessions.Create(sess)

	snap := snapshotOf(*sess)
	return &snap, nil
}

// Grid renders the roster filtered by the search query, resolving each
// student-month cell from the current snapshot.
func (s *SessionService) Grid(ctx context.Context, id, search string) (*dto.GridView, error) {
	var view dto.GridView
	err := s.sessions.View(id, func(sess models.FeeSession) {
		view.Session = snapshotOf(sess)
		view.Months = models.Months

		filtered := FilterRoster(sess.Roster, search)
		view.Rows = make([]dto.GridRow, 0, len(filtered))
		for i, student := range filtered {
			row := dto.GridRow{
				No:          i + 1,
				StudentSlug: student.Slug,
				StudentID:   student.StudentID,
				EngName:     student.EngName,
				ContactOne:  student.ContactOne,
				ContactTwo:  student.ContactTwo,
				Cells:       make(map[string]*dto.CellView),
			}
			for _, month := range models.Months {
				if entry := ResolveFeeEntry(student, sess.AcademicYear, month); entry != nil {
					row.Cells[month] = &dto.CellView{
						Value:  entry.Value,
						Remain: entry.Remain,
						Status: string(entry.Status),
						PaidBy: string(entry.PaidBy),
						Date:   entry.Date,
					}
				}
			}
			view.Rows = append(view.Rows, row)
		}
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SelectCell enters editing for the targeted cell. The buffer is always
// repopulated from the current roster snapshot, or defaulted with today's
// date when the cell is empty; a buffer staged for a previous cell is
// discarded without confirmation.
func (s *SessionService) SelectCell(ctx context.Context, id string, req dto.SelectCellRequest) (*dto.SessionSnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cell payload")
	}
	if !models.IsMonth(req.Month) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown month")
	}

	var snap dto.SessionSnapshot
	err := s.sessions.Mutate(id, func(sess *models.FeeSession) error {
		if sess.Phase != models.PhaseIdle && sess.Phase != models.PhaseEditing {
			return appErrors.Clone(appErrors.ErrStateConflict, "a mutation is in flight for this session")
		}

		var target *models.Student
		for i := range sess.Roster {
			if sess.Roster[i].Slug == req.StudentSlug {
				target = &sess.Roster[i]
				break
			}
		}
		if target == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "student not in roster")
		}

		if entry := ResolveFeeEntry(*target, sess.AcademicYear, req.Month); entry != nil {
			sess.Buffer = models.EditBuffer{
				Value:  entry.Value,
				Remain: entry.Remain,
				Status: entry.Status,
				PaidBy: entry.PaidBy,
				Date:   entry.Date,
			}
		} else {
			sess.Buffer = models.EditBuffer{Date: s.now().UTC().Format("2006-01-02")}
		}

		sess.Phase = models.PhaseEditing
		sess.StudentSlug = req.StudentSlug
		sess.Month = req.Month
		sess.LastError = ""
		snap = snapshotOf(*sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save persists the staged entry and returns the session to idle. On upstream
// failure the session stays in editing with the buffer intact so the operator
// can retry without re-entering anything.
func (s *SessionService) Save(ctx context.Context, id string, req dto.SaveFeeRequest) (*dto.SessionSnapshot, error) {
	return s.upsert(ctx, id, req, false)
}

// SaveAndPrint persists the staged entry and keeps the buffer alive in
// print_ready so the receipt can be rendered from it.
func (s *SessionService) SaveAndPrint(ctx context.Context, id string, req dto.SaveFeeRequest) (*dto.SessionSnapshot, error) {
	return s.upsert(ctx, id, req, true)
}

func (s *SessionService) upsert(ctx context.Context, id string, req dto.SaveFeeRequest, print bool) (*dto.SessionSnapshot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}

	var (
		slug  string
		year  string
		entry models.FeeEntry
		seq   uint64
	)
	inFlight := models.PhaseSaving
	if print {
		inFlight = models.PhasePrinting
	}

	err := s.sessions.Mutate(id, func(sess *models.FeeSession) error {
		if sess.Phase != models.PhaseEditing {
			return appErrors.Clone(appErrors.ErrStateConflict, "no cell is being edited")
		}

		date := req.Date
		if date == "" {
			date = sess.Buffer.Date
		}
		sess.Buffer = models.EditBuffer{
			Value:  req.Value,
			Remain: req.Remain,
			Status: models.FeeStatus(req.Status),
			PaidBy: models.PaymentMethod(req.PaidBy),
			Date:   date,
		}
		entry = models.FeeEntry{
			Month:  sess.Month,
			Value:  req.Value,
			Remain: req.Remain,
			Date:   date,
			Status: models.FeeStatus(req.Status),
			PaidBy: models.PaymentMethod(req.PaidBy),
		}
		slug = sess.StudentSlug
		year = sess.AcademicYear
		sess.Seq++
		seq = sess.Seq
		sess.Phase = inFlight
		return nil
	})
	if err != nil {
		return nil, err
	}

	finance, upErr := s.upstream.UpdateFinance(ctx, slug, models.FinanceYearRecord{Year: year, Fee: []models.FeeEntry{entry}})

	var snap dto.SessionSnapshot
	err = s.sessions.Mutate(id, func(sess *models.FeeSession) error {
		if sess.Seq != seq {
			// A newer mutation superseded this response; drop it.
			snap = snapshotOf(*sess)
			return nil
		}
		if upErr != nil {
			sess.Phase = models.PhaseEditing
			sess.LastError = "There was an error saving the data. Please try again."
			snap = snapshotOf(*sess)
			return nil
		}

		sess.Roster = ApplyFinanceUpdate(sess.Roster, slug, finance)
		sess.LastError = ""
		if print {
			sess.Phase = models.PhasePrintReady
		} else {
			sess.Phase = models.PhaseIdle
			sess.StudentSlug = ""
			sess.Month = ""
			sess.Buffer = models.EditBuffer{}
		}
		snap = snapshotOf(*sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if upErr != nil {
		s.logger.Warn("fee upsert failed", zap.String("student", slug), zap.String("year", year), zap.Error(upErr))
		return &snap, appErrors.Wrap(upErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to save fee entry")
	}
	return &snap, nil
}

// DeleteEntry removes the selected cell's entry. The session always returns
// to idle regardless of the upstream outcome. In optimistic mode the local
// roster is filtered even when the upstream delete fails, mirroring the
// legacy page; with confirmed deletes enabled the roster only changes on
// acknowledgement and the failure is surfaced.
func (s *SessionService) DeleteEntry(ctx context.Context, id string) (*dto.SessionSnapshot, error) {
	var (
		slug  string
		year  string
		month string
		seq   uint64
	)
	err := s.sessions.Mutate(id, func(sess *models.FeeSession) error {
		if sess.Phase != models.PhaseEditing {
			return appErrors.Clone(appErrors.ErrStateConflict, "no cell is being edited")
		}
		slug = sess.StudentSlug
		year = sess.AcademicYear
		month = sess.Month
		sess.Seq++
		seq = sess.Seq
		sess.Phase = models.PhaseDeleting
		return nil
	})
	if err != nil {
		return nil, err
	}

	upErr := s.upstream.DeleteFinance(ctx, slug, year, month)
	if upErr != nil {
		s.logger.Warn("fee delete failed upstream",
			zap.String("student", slug),
			zap.String("year", year),
			zap.String("month", month),
			zap.Error(upErr),
		)
	}

	var snap dto.SessionSnapshot
	err = s.sessions.Mutate(id, func(sess *models.FeeSession) error {
		if sess.Seq != seq {
			snap = snapshotOf(*sess)
			return nil
		}
		if upErr == nil || !s.confirmedDelete {
			sess.Roster = RemoveFeeEntry(sess.Roster, slug, year, month)
		}
		sess.Phase = models.PhaseIdle
		sess.StudentSlug = ""
		sess.Month = ""
		sess.Buffer = models.EditBuffer{}
		if upErr != nil && s.confirmedDelete {
			sess.LastError = "There was an error deleting the entry. Please try again."
		} else {
			sess.LastError = ""
		}
		snap = snapshotOf(*sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if upErr != nil && s.confirmedDelete {
		return &snap, appErrors.Wrap(upErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to delete fee entry")
	}
	return &snap, nil
}

// Close dismisses the edit or receipt surface and returns the session to
// idle. Closing while a mutation is in flight is rejected.
func (s *SessionService) Close(ctx context.Context, id string) (*dto.SessionSnapshot, error) {
	var snap dto.SessionSnapshot
	err := s.sessions.Mutate(id, func(sess *models.FeeSession) error {
		switch sess.Phase {
		case models.PhaseIdle, models.PhaseEditing, models.PhasePrintReady:
		default:
			return appErrors.Clone(appErrors.ErrStateConflict, "a mutation is in flight for this session")
		}
		sess.Phase = models.PhaseIdle
		sess.StudentSlug = ""
		sess.Month = ""
		sess.Buffer = models.EditBuffer{}
		sess.LastError = ""
		snap = snapshotOf(*sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// End discards the session entirely.
func (s *SessionService) End(ctx context.Context, id string) {
	s.sessions.Delete(id)
}

func (s *SessionService) lookupGradeName(ctx context.Context, slug string) string {
	grades, err := s.upstream.Grades(ctx)
	if err != nil {
		s.logger.Warn("grade name lookup failed", zap.String("grade", slug), zap.Error(err))
		return ""
	}
	for _, grade := range grades {
		if grade.Slug == slug {
			return grade.Name
		}
	}
	return ""
}

func snapshotOf(sess models.FeeSession) dto.SessionSnapshot {
	snap := dto.SessionSnapshot{
		ID:           sess.ID,
		AcademicYear: sess.AcademicYear,
		Grade:        sess.GradeSlug,
		GradeName:    sess.GradeName,
		Phase:        string(sess.Phase),
		StudentSlug:  sess.StudentSlug,
		Month:        sess.Month,
		LastError:    sess.LastError,
		RosterSize:   len(sess.Roster),
	}
	if sess.Phase == models.PhaseEditing || sess.Phase == models.PhasePrintReady {
		snap.Buffer = &dto.BufferView{
			Value:  sess.Buffer.Value,
			Remain: sess.Buffer.Remain,
			Status: string(sess.Buffer.Status),
			PaidBy: string(sess.Buffer.PaidBy),
			Date:   sess.Buffer.Date,
		}
	}
	return snap
}
