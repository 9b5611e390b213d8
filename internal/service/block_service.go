package service

import (
	"context"

	"openwonder/api/internal/models"
	"openwonder/api/internal/repository"
)

type BlockService struct {
	blocks *repository.BlockRepository
}

func NewBlockService(blocks *repository.BlockRepository) *BlockService {
	return &BlockService{blocks: blocks}
}

// Block severs the pair: the block row goes in and any follow edge between
// the two, in either direction, goes out (one transaction in the repository).
func (s *BlockService) Block(ctx context.Context, actor models.User, targetID string) error {
	if actor.ID == targetID {
		return ErrSelfAction
	}
	return s.blocks.Create(ctx, actor.ID, targetID)
}

// Unblock removes the block. Follow edges destroyed by the block stay gone;
// the users start over.
func (s *BlockService) Unblock(ctx context.Context, actor models.User, targetID string) error {
	if actor.ID == targetID {
		return ErrSelfAction
	}
	return s.blocks.Delete(ctx, actor.ID, targetID)
}

func (s *BlockService) List(ctx context.Context, actor models.User) ([]models.BlockEdge, error) {
	return s.blocks.ListByBlocker(ctx, actor.ID)
}
