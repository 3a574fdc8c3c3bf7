package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"Stormhold/internal/report/domain"
	"Stormhold/internal/shared/errs"
	"Stormhold/internal/shared/utils"
)

const (
	battleCollection = "battle_report"
	spyCollection    = "spy_report"
)

type ReportRepo struct {
	battles *mongo.Collection
	spies   *mongo.Collection
	idGen   *utils.Snowflake
}

func NewReportRepo(db *mongo.Database, idGen *utils.Snowflake) *ReportRepo {
	return &ReportRepo{
		battles: db.Collection(battleCollection),
		spies:   db.Collection(spyCollection),
		idGen:   idGen,
	}
}

const OpSaveBattleReport = "repo.report.SaveBattle"

func (r *ReportRepo) SaveBattle(ctx context.Context, rep *domain.BattleReport) error {
	if rep.ID == 0 {
		rep.ID = r.idGen.NextID()
	}
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}
	if _, err := r.battles.InsertOne(ctx, rep); err != nil {
		return errs.Wrap(OpSaveBattleReport, errs.KindInfra, err, map[string]any{"report_id": rep.ID})
	}
	return nil
}

const OpSaveSpyReport = "repo.report.SaveSpy"

func (r *ReportRepo) SaveSpy(ctx context.Context, rep *domain.SpyReport) error {
	if rep.ID == 0 {
		rep.ID = r.idGen.NextID()
	}
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}
	if _, err := r.spies.InsertOne(ctx, rep); err != nil {
		return errs.Wrap(OpSaveSpyReport, errs.KindInfra, err, map[string]any{"report_id": rep.ID})
	}
	return nil
}

const OpListBattlesByPlayer = "repo.report.ListBattlesByPlayer"

// ListBattlesByPlayer 按可见性查玩家战报，新的在前。
func (r *ReportRepo) ListBattlesByPlayer(ctx context.Context, playerID int64, limit int64) ([]*domain.BattleReport, error) {
	cur, err := r.battles.Find(ctx,
		bson.M{"visible_to": playerID},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit),
	)
	if err != nil {
		return nil, errs.Wrap(OpListBattlesByPlayer, errs.KindInfra, err, map[string]any{"player_id": playerID})
	}
	defer cur.Close(ctx)

	var out []*domain.BattleReport
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.Wrap(OpListBattlesByPlayer, errs.KindInfra, err, map[string]any{"player_id": playerID})
	}
	return out, nil
}

const OpListSpiesByPlayer = "repo.report.ListSpiesByPlayer"

func (r *ReportRepo) ListSpiesByPlayer(ctx context.Context, playerID int64, limit int64) ([]*domain.SpyReport, error) {
	cur, err := r.spies.Find(ctx,
		bson.M{"visible_to": playerID},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit),
	)
	if err != nil {
		return nil, errs.Wrap(OpListSpiesByPlayer, errs.KindInfra, err, map[string]any{"player_id": playerID})
	}
	defer cur.Close(ctx)

	var out []*domain.SpyReport
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.Wrap(OpListSpiesByPlayer, errs.KindInfra, err, map[string]any{"player_id": playerID})
	}
	return out, nil
}
