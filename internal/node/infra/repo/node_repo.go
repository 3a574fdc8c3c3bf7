package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"Stormhold/internal/node/domain"
	"Stormhold/internal/shared/errs"
)

type NodeRepo struct {
	db *gorm.DB
}

func NewNodeRepo(db *gorm.DB) *NodeRepo {
	return &NodeRepo{db: db}
}

const OpListAllNodes = "repo.node.ListAll"

func (r *NodeRepo) ListAll(ctx context.Context) ([]*domain.ResourceNode, error) {
	var out []*domain.ResourceNode
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, errs.Wrap(OpListAllNodes, errs.KindInfra, err, nil)
	}
	return out, nil
}

const OpGetNodeByCoords = "repo.node.GetByCoords"

// GetByCoords 查坐标上的资源点，没有时返回 (nil, nil)。
func (r *NodeRepo) GetByCoords(ctx context.Context, x, y int) (*domain.ResourceNode, error) {
	var m domain.ResourceNode
	err := r.db.WithContext(ctx).Where("x = ? AND y = ?", x, y).First(&m).Error

	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, errs.Wrap(OpGetNodeByCoords, errs.KindInfra, err, map[string]any{"x": x, "y": y})
	}
}

const OpSaveNode = "repo.node.Save"

func (r *NodeRepo) Save(ctx context.Context, n *domain.ResourceNode) error {
	if err := r.db.WithContext(ctx).Save(n).Error; err != nil {
		return errs.Wrap(OpSaveNode, errs.KindInfra, err, map[string]any{"node_id": n.ID})
	}
	return nil
}
