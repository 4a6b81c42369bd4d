package repo

import (
	"context"

	"companions/internal/domain"
	"companions/internal/infra"
	"companions/internal/sqlinline"
)

// BlockRepositoryPG implements domain.BlockRepository.
type BlockRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewBlockRepository creates a BlockRepositoryPG.
func NewBlockRepository(sql infra.SQLExecutor) *BlockRepositoryPG {
	return &BlockRepositoryPG{sql: sql}
}

// Block hides the companion from blockedAuthID. Repeating it is a no-op.
func (r *BlockRepositoryPG) Block(ctx context.Context, companionID, blockedAuthID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertBlock, companionID, blockedAuthID)
	return err
}

// Unblock lifts a block. Missing blocks are not an error.
func (r *BlockRepositoryPG) Unblock(ctx context.Context, companionID, blockedAuthID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QDeleteBlock, companionID, blockedAuthID)
	return err
}

// List returns the auth ids blocked by a companion.
func (r *BlockRepositoryPG) List(ctx context.Context, companionID string) ([]string, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListBlocks, companionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ domain.BlockRepository = (*BlockRepositoryPG)(nil)
