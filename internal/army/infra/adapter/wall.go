package adapter

import (
	"context"
	"errors"

	citydom "Stormhold/internal/city/domain"
	cityrepo "Stormhold/internal/city/infra/repo"
)

// WallAdapter 把城市建筑仓储适配成战斗侧需要的城墙等级查询。
type WallAdapter struct {
	buildings *cityrepo.BuildingRepo
}

func NewWallAdapter(buildings *cityrepo.BuildingRepo) *WallAdapter {
	return &WallAdapter{buildings: buildings}
}

func (a *WallAdapter) WallLevel(ctx context.Context, cityID int64) (int, error) {
	b, err := a.buildings.Get(ctx, cityID, "wall", 0)
	switch {
	case err == nil:
		return b.Level, nil
	case errors.Is(err, citydom.ErrBuildingNotFound):
		return 0, nil
	default:
		return 0, err
	}
}
