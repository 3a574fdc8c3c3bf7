package tick

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"Stormhold/internal/shared/errs"
)

const lockCollection = "tick_lock"

// MongoLocker 基于 mongodb 唯一 _id 的条件 upsert 实现分布式锁：
// 只在锁文档不存在或已过期时写入成功；写入撞唯一键说明有人未过期持有。
type MongoLocker struct {
	coll  *mongo.Collection
	owner string
}

func NewMongoLocker(db *mongo.Database, owner string) *MongoLocker {
	return &MongoLocker{
		coll:  db.Collection(lockCollection),
		owner: owner,
	}
}

const OpTryAcquire = "tick.locker.TryAcquire"

func (l *MongoLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()
	_, err := l.coll.ReplaceOne(ctx,
		bson.M{"_id": key, "expires_at": bson.M{"$lte": now}},
		bson.M{"_id": key, "owner": l.owner, "expires_at": now.Add(ttl)},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, errs.Wrap(OpTryAcquire, errs.KindInfra, err, map[string]any{"key": key})
	}
	return true, nil
}

const OpRelease = "tick.locker.Release"

func (l *MongoLocker) Release(ctx context.Context, key string) error {
	_, err := l.coll.DeleteOne(ctx, bson.M{"_id": key, "owner": l.owner})
	if err != nil {
		return errs.Wrap(OpRelease, errs.KindInfra, err, map[string]any{"key": key})
	}
	return nil
}
