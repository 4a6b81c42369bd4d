package repo

import (
	"context"

	"companions/internal/domain"
	"companions/internal/infra"
	"companions/internal/sqlinline"
)

// DocumentRepositoryPG implements domain.DocumentRepository.
type DocumentRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDocumentRepository creates a DocumentRepositoryPG.
func NewDocumentRepository(sql infra.SQLExecutor) *DocumentRepositoryPG {
	return &DocumentRepositoryPG{sql: sql}
}

// Create inserts an uploaded document.
func (r *DocumentRepositoryPG) Create(ctx context.Context, d *domain.Document) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertDocument, d.AuthID, d.CompanionID, string(d.Type), d.StoragePath, d.PublicURL)
	return row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// ListByAuthID returns every document uploaded by authID, newest first.
func (r *DocumentRepositoryPG) ListByAuthID(ctx context.Context, authID string) ([]domain.Document, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDocumentsByAuthID, authID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Document
	for rows.Next() {
		var d domain.Document
		var docType string
		if err := rows.Scan(&d.ID, &d.AuthID, &d.CompanionID, &docType, &d.StoragePath, &d.PublicURL,
			&d.Verified, &d.VerificationDate, &d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.Type = domain.DocumentType(docType)
		items = append(items, d)
	}
	return items, rows.Err()
}

// TypesByAuthID returns the distinct document types uploaded by authID.
func (r *DocumentRepositoryPG) TypesByAuthID(ctx context.Context, authID string) ([]domain.DocumentType, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QDocumentTypesByAuthID, authID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []domain.DocumentType
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, domain.DocumentType(t))
	}
	return types, rows.Err()
}

var _ domain.DocumentRepository = (*DocumentRepositoryPG)(nil)
