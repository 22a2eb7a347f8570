package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcec-dev/feedesk-api/internal/models"
	"github.com/gcec-dev/feedesk-api/internal/repository"
	"github.com/gcec-dev/feedesk-api/pkg/config"
	appErrors "github.com/gcec-dev/feedesk-api/pkg/errors"
	"github.com/gcec-dev/feedesk-api/pkg/export"
)

type fakeRenderer struct {
	got export.Receipt
	err error
}

func (f *fakeRenderer) Render(r export.Receipt) ([]byte, error) {
	f.got = r
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func printReadySession() *models.FeeSession {
	return &models.FeeSession{
		AcademicYear: "2024",
		GradeSlug:    "grade-1",
		GradeName:    "Grade 1",
		Phase:        models.PhasePrintReady,
		StudentSlug:  "s001",
		Month:        "June",
		Roster: []models.Student{
			{Slug: "s001", EngName: "Kaung Myat"},
		},
		Buffer: models.EditBuffer{
			Value:  50000,
			Status: models.FeeStatusPaid,
			PaidBy: models.PaymentMethodKPay,
			Date:   "2024-06-15",
		},
	}
}

func TestReceiptRenderComposesVoucher(t *testing.T) {
	repo := repository.NewSessionRepository(time.Hour)
	id := repo.Create(printReadySession())

	renderer := &fakeRenderer{}
	branding := config.ReceiptConfig{
		SchoolName:  "GCEC",
		AddressLine: "Taungzalat, Kalaymyo",
		PhoneLine:   "09457373234",
		FooterNote:  "Thank you",
	}
	svc := NewReceiptService(repo, renderer, branding, nil)

	pdf, err := svc.Render(context.Background(), id)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	assert.Equal(t, "GCEC", renderer.got.SchoolName)
	assert.Equal(t, "Grade 1", renderer.got.GradeName)
	assert.Equal(t, "Kaung Myat", renderer.got.StudentName)
	assert.Equal(t, "June", renderer.got.Month)
	assert.Equal(t, float64(50000), renderer.got.Amount)
	assert.Equal(t, "Paid", renderer.got.Status)
	assert.Equal(t, "KPay", renderer.got.PaidBy)
	assert.Equal(t, "2024-06-15", renderer.got.Date)
}

func TestReceiptRenderRequiresPrintReady(t *testing.T) {
	repo := repository.NewSessionRepository(time.Hour)
	sess := printReadySession()
	sess.Phase = models.PhaseIdle
	id := repo.Create(sess)

	svc := NewReceiptService(repo, &fakeRenderer{}, config.ReceiptConfig{}, nil)

	_, err := svc.Render(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStateConflict.Code, appErrors.FromError(err).Code)
}

func TestReceiptRenderUnknownSession(t *testing.T) {
	repo := repository.NewSessionRepository(time.Hour)
	svc := NewReceiptService(repo, &fakeRenderer{}, config.ReceiptConfig{}, nil)

	_, err := svc.Render(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReceiptRenderFailure(t *testing.T) {
	repo := repository.NewSessionRepository(time.Hour)
	id := repo.Create(printReadySession())

	svc := NewReceiptService(repo, &fakeRenderer{err: errors.New("font missing")}, config.ReceiptConfig{}, nil)

	_, err := svc.Render(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
