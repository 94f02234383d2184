package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/pkg/docstore"
)

// ErrEnrollmentNotFound is returned when no record exists for an id.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// EnrollmentRepository stores one document per enrollment under <prefix>/<enrollmentId>.
type EnrollmentRepository struct {
	store  docstore.Store
	prefix string
}

// NewEnrollmentRepository constructs the repository. An empty prefix defaults to "enrollments".
func NewEnrollmentRepository(store docstore.Store, prefix string) *EnrollmentRepository {
	if prefix == "" {
		prefix = "enrollments"
	}
	return &EnrollmentRepository{store: store, prefix: prefix}
}

func (r *EnrollmentRepository) path(id string) string {
	return docstore.Join(r.prefix, id)
}

// Create writes the full record.
func (r *EnrollmentRepository) Create(ctx context.Context, record *models.EnrollmentRecord) error {
	if record == nil || record.EnrollmentID == "" {
		return fmt.Errorf("enrollment id required")
	}
	if err := r.store.Write(ctx, r.path(record.EnrollmentID), record); err != nil {
		return fmt.Errorf("create enrollment %s: %w", record.EnrollmentID, err)
	}
	return nil
}

// MarkNotified applies the email-status patch to an existing record.
func (r *EnrollmentRepository) MarkNotified(ctx context.Context, id string, patch models.NotificationPatch) error {
	if err := r.store.Patch(ctx, r.path(id), patch.Fields()); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("patch enrollment %s: %w", id, err)
	}
	return nil
}

// FindByID loads a record by its enrollment id.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.EnrollmentRecord, error) {
	var record models.EnrollmentRecord
	if err := r.store.Read(ctx, r.path(id), &record); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("read enrollment %s: %w", id, err)
	}
	return &record, nil
}

// Ping checks the backing store.
func (r *EnrollmentRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
