package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/pkg/docstore"
)

func sampleRecord() *models.EnrollmentRecord {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return &models.EnrollmentRecord{
		EnrollmentID:  "ENR-01HX0000000000000000000000",
		ReceiptNumber: "RCP-20240501-ABCD2345",
		EnrollmentDraft: models.EnrollmentDraft{
			FullName:       "Ada Lovelace",
			Email:          "ada@example.com",
			PhoneNumber:    "+2348000000000",
			Program:        "Commercial Perfumery Masterclass (2 Weeks)",
			DeliveryFormat: models.DeliveryOnline,
		},
		FeeBreakdown:   models.FeeBreakdown{RegistrationFee: 20000, CourseFee: 500000, TotalAmount: 520000},
		Status:         models.EnrollmentStatusPending,
		SubmissionDate: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestEnrollmentRepositoryCreateFindAndMark(t *testing.T) {
	store := docstore.NewMemoryStore()
	repo := NewEnrollmentRepository(store, "")
	ctx := context.Background()

	record := sampleRecord()
	require.NoError(t, repo.Create(ctx, record))

	found, err := repo.FindByID(ctx, record.EnrollmentID)
	require.NoError(t, err)
	require.Equal(t, record.ReceiptNumber, found.ReceiptNumber)
	require.False(t, found.EmailSent)
	require.Equal(t, int64(520000), found.TotalAmount)

	later := record.CreatedAt.Add(time.Minute)
	require.NoError(t, repo.MarkNotified(ctx, record.EnrollmentID, models.NotificationPatch{
		EmailSent:      true,
		StudentEmailID: "msg-1",
		UpdatedAt:      later,
	}))

	found, err = repo.FindByID(ctx, record.EnrollmentID)
	require.NoError(t, err)
	require.True(t, found.EmailSent)
	require.Equal(t, "msg-1", found.StudentEmailID)
	require.Empty(t, found.AdminEmailID)
	require.True(t, found.UpdatedAt.Equal(later))
	require.True(t, found.CreatedAt.Equal(record.CreatedAt))
}

func TestEnrollmentRepositoryNotFound(t *testing.T) {
	repo := NewEnrollmentRepository(docstore.NewMemoryStore(), "enrollments")
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "ENR-missing")
	require.ErrorIs(t, err, ErrEnrollmentNotFound)
	require.ErrorIs(t, repo.MarkNotified(ctx, "ENR-missing", models.NotificationPatch{}), ErrEnrollmentNotFound)
}

func TestEnrollmentRepositoryPostgresPath(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewEnrollmentRepository(docstore.NewPostgresStore(sqlx.NewDb(db, "sqlmock")), "enrollments")
	record := sampleRecord()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents (path, body)")).
		WithArgs("enrollments/"+record.EnrollmentID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), record))
	require.NoError(t, mock.ExpectationsWereMet())
}
