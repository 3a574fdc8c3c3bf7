package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Stormhold/internal/gamedata"
	"Stormhold/internal/kit/logx"
	"Stormhold/internal/node/domain"
)

type NodeRepo interface {
	ListAll(ctx context.Context) ([]*domain.ResourceNode, error)
	Save(ctx context.Context, n *domain.ResourceNode) error
}

// RegenService 野外资源点回储结算。
type RegenService struct {
	repo NodeRepo
	log  logx.Logger
}

func NewRegenService(repo NodeRepo, log logx.Logger) *RegenService {
	return &RegenService{repo: repo, log: log}
}

// Tick 对全部资源点结算一轮回储。单点失败只记日志。
func (s *RegenService) Tick(ctx context.Context, now time.Time) {
	nodes, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.WithContext(ctx).Error("list resource nodes failed", zap.Error(err))
		return
	}
	refill := gamedata.Get().Rules().NodeRefillHours
	for _, n := range nodes {
		before := n.Fill
		n.Regen(now, refill)
		if n.Fill == before {
			continue
		}
		if err := s.repo.Save(ctx, n); err != nil {
			s.log.WithContext(ctx).Error("save resource node failed",
				zap.Int64("node_id", n.ID), zap.Error(err))
		}
	}
}
