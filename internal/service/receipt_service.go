package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/gcec-dev/feedesk-api/internal/models"
	"github.com/gcec-dev/feedesk-api/pkg/config"
	appErrors "github.com/gcec-dev/feedesk-api/pkg/errors"
	"github.com/gcec-dev/feedesk-api/pkg/export"
)

type receiptRenderer interface {
	Render(r export.Receipt) ([]byte, error)
}

type sessionViewer interface {
	View(id string, fn func(models.FeeSession)) error
}

// ReceiptService renders the printable voucher for a session that just
// saved an entry through the print branch.
type ReceiptService struct {
	sessions sessionViewer
	renderer receiptRenderer
	branding config.ReceiptConfig
	logger   *zap.Logger
}

// NewReceiptService constructs the receipt service.
func NewReceiptService(sessions sessionViewer, renderer receiptRenderer, branding config.ReceiptConfig, logger *zap.Logger) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{sessions: sessions, renderer: renderer, branding: branding, logger: logger}
}

// Render produces the PDF voucher for the session's retained buffer. The
// session must be in print_ready; the buffer holds the saved values and the
// selection still points at the student and month they were saved for.
func (s *ReceiptService) Render(ctx context.Context, sessionID string) ([]byte, error) {
	var (
		receipt export.Receipt
		ready   bool
	)
	err := s.sessions.View(sessionID, func(sess models.FeeSession) {
		if sess.Phase != models.PhasePrintReady {
			return
		}
		ready = true

		studentName := ""
		for _, student := range sess.Roster {
			if student.Slug == sess.StudentSlug {
				studentName = student.EngName
				break
			}
		}

		receipt = export.Receipt{
			SchoolName:  s.branding.SchoolName,
			AddressLine: s.branding.AddressLine,
			PhoneLine:   s.branding.PhoneLine,
			FooterNote:  s.branding.FooterNote,
			GradeName:   sess.GradeName,
			Date:        sess.Buffer.Date,
			StudentName: studentName,
			Month:       sess.Month,
			Amount:      sess.Buffer.Value,
			Remain:      sess.Buffer.Remain,
			Status:      string(sess.Buffer.Status),
			PaidBy:      string(sess.Buffer.PaidBy),
		}
	})
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, appErrors.Clone(appErrors.ErrStateConflict, "no receipt is ready for this session")
	}

	pdf, err := s.renderer.Render(receipt)
	if err != nil {
		s.logger.Error("receipt render failed", zap.String("session", sessionID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return pdf, nil
}
