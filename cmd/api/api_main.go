package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	armyrepo "Stormhold/internal/army/infra/repo"
	armyservice "Stormhold/internal/army/service"
	cityrepo "Stormhold/internal/city/infra/repo"
	cityservice "Stormhold/internal/city/service"
	"Stormhold/internal/gamedata"
	"Stormhold/internal/gate"
	"Stormhold/internal/kit/logx"
	reportmongo "Stormhold/internal/report/infra/mongodb"
	"Stormhold/internal/shared/infrastructure/db"
	sharedmongo "Stormhold/internal/shared/infrastructure/mongo"
	"Stormhold/internal/shared/logs"
	"Stormhold/internal/shared/serverconfig"
	transporthttp "Stormhold/internal/shared/transport/http"
	"Stormhold/internal/shared/utils"
)

func main() {
	serverconfig.Load()
	if err := logs.Init("api", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	gamedata.Load()

	gormDB, err := db.Open(serverconfig.Conf.MySQL)
	if err != nil {
		logs.Fatal("open db failed", zap.Error(err))
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
	armyRepo := armyrepo.NewArmyRepo(gormDB)
	reportRepo := reportmongo.NewReportRepo(mongoDB, idGen)

	garrison := armyservice.NewGarrisonService(armyRepo, cityRepo)
	queue := cityservice.NewQueueService(cityRepo, buildingRepo, buildQ, recruitQ, garrison, logger)
	orders := armyservice.NewOrderService(armyRepo, cityRepo, logger)

	handler := gate.NewHandler(queue, orders, reportRepo)

	host := serverconfig.Conf.HTTPServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, serverconfig.Conf.HTTPServer.Port)
	server := transporthttp.NewHttpServer(addr, nil, logger)
	handler.RegisterRoutes(server.Engine())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("api server started", zap.String("addr", addr))
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("api serve failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Error("shutdown failed", zap.Error(err))
	}
	_ = mongoClient.Disconnect(shutdownCtx)
}
