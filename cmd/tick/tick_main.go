package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	armydom "Stormhold/internal/army/domain"
	armyadapter "Stormhold/internal/army/infra/adapter"
	armyrepo "Stormhold/internal/army/infra/repo"
	armyservice "Stormhold/internal/army/service"
	citydom "Stormhold/internal/city/domain"
	cityrepo "Stormhold/internal/city/infra/repo"
	cityservice "Stormhold/internal/city/service"
	"Stormhold/internal/gamedata"
	"Stormhold/internal/kit/logx"
	nodedom "Stormhold/internal/node/domain"
	noderepo "Stormhold/internal/node/infra/repo"
	nodeservice "Stormhold/internal/node/service"
	reportmongo "Stormhold/internal/report/infra/mongodb"
	"Stormhold/internal/shared/infrastructure/db"
	sharedmongo "Stormhold/internal/shared/infrastructure/mongo"
	"Stormhold/internal/shared/logs"
	"Stormhold/internal/shared/serverconfig"
	"Stormhold/internal/shared/utils"
	"Stormhold/internal/tick"
)

func main() {
	serverconfig.Load()
	if err := logs.Init("tick", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	// 加载数值表，任一表非法直接 panic
	gamedata.Load()

	gormDB, err := db.Open(serverconfig.Conf.MySQL)
	if err != nil {
		logs.Fatal("open db failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&citydom.City{}, &citydom.CityBuilding{},
		&citydom.BuildQueueItem{}, &citydom.RecruitQueueItem{}, &citydom.WoundedUnit{},
		&armydom.Army{}, &armydom.ArmyUnit{},
		&nodedom.ResourceNode{},
	); err != nil {
		logs.Fatal("migrate failed", zap.Error(err))
	}

	mongoClient, err := sharedmongo.Open(serverconfig.Conf.MongoDB, logs.Logger())
	if err != nil {
		logs.Fatal("open mongodb failed", zap.Error(err))
	}
	mongoDB := mongoClient.Database(serverconfig.Conf.MongoDB.Database)

	idGen, err := utils.NewSnowflake(serverconfig.Conf.Tick.WorkerID)
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	logger := logx.NewZapLogger(logs.Logger())

	cityRepo := cityrepo.NewCityRepo(gormDB)
	buildingRepo := cityrepo.NewBuildingRepo(gormDB)
	buildQ := cityrepo.NewBuildQueueRepo(gormDB)
	recruitQ := cityrepo.NewRecruitQueueRepo(gormDB)
	woundedRepo := cityrepo.NewWoundedRepo(gormDB)
	armyRepo := armyrepo.NewArmyRepo(gormDB)
	nodeRepo := noderepo.NewNodeRepo(gormDB)
	reportRepo := reportmongo.NewReportRepo(mongoDB, idGen)

	garrison := armyservice.NewGarrisonService(armyRepo, cityRepo)
	wall := armyadapter.NewWallAdapter(buildingRepo)

	tickCfg := serverconfig.Conf.Tick
	interval := time.Duration(tickCfg.IntervalS) * time.Second
	lockTTL := time.Duration(tickCfg.LockTTLS) * time.Second

	regen := nodeservice.NewRegenService(nodeRepo, logger)
	economy := cityservice.NewEconomyService(cityRepo, buildingRepo, garrison, logger)
	queue := cityservice.NewQueueService(cityRepo, buildingRepo, buildQ, recruitQ, garrison, logger)
	movement := armyservice.NewMovementService(armyRepo, cityRepo, wall, nodeRepo, reportRepo, woundedRepo, logger)
	siege := armyservice.NewSiegeService(armyRepo, cityRepo, interval, logger)
	heal := cityservice.NewHealService(cityRepo, buildingRepo, woundedRepo, garrison, logger)

	hostname, _ := os.Hostname()
	owner := fmt.Sprintf("%s-%d", hostname, tickCfg.WorkerID)
	locker := tick.NewMongoLocker(mongoDB, owner)

	scheduler := tick.NewScheduler(locker, tickCfg.LockKey, lockTTL, interval, logger,
		tick.NewSubTick("node", regen.Tick),
		tick.NewSubTick("economy", economy.Tick),
		tick.NewSubTick("queue", func(ctx context.Context, now time.Time) {
			queue.TickConstruction(ctx, now)
			queue.TickRecruitment(ctx, now)
		}),
		tick.NewSubTick("movement", movement.Tick),
		tick.NewSubTick("siege", siege.Tick),
		tick.NewSubTick("heal", heal.Tick),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logs.Info("tick worker started",
		zap.String("owner", owner),
		zap.Duration("interval", interval))
	scheduler.RunLoop(ctx)

	logs.Info("收到退出信号，准备优雅退出")
	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = mongoClient.Disconnect(disconnectCtx)
}
