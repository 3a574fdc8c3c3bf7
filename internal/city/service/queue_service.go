package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"Stormhold/internal/city/domain"
	"Stormhold/internal/gamedata"
	"Stormhold/internal/kit/logx"
)

// QueueService 负责建造/征兵队列：入队校验 + 周期结算。
//
// 入队规则：
//   - 全额费用在入队时刻一次性扣除，完工不再动资源
//   - 同时 RUNNING 不超过 MaxRunning，额外 QUEUED 不超过 MaxQueued
//   - 没有空闲槽时，新项的开始时间链在本城当前最晚的结束时间之后（FIFO）
type QueueService struct {
	cityRepo     CityRepo
	buildingRepo BuildingRepo
	buildQ       BuildQueueRepo
	recruitQ     RecruitQueueRepo
	garrison     Garrison
	log          logx.Logger
	now          func() time.Time
}

func NewQueueService(cityRepo CityRepo, buildingRepo BuildingRepo, buildQ BuildQueueRepo,
	recruitQ RecruitQueueRepo, garrison Garrison, log logx.Logger) *QueueService {
	return &QueueService{
		cityRepo:     cityRepo,
		buildingRepo: buildingRepo,
		buildQ:       buildQ,
		recruitQ:     recruitQ,
		garrison:     garrison,
		log:          log,
		now:          time.Now,
	}
}

// WithNow 替换时钟（测试用）。
func (s *QueueService) WithNow(now func() time.Time) *QueueService {
	s.now = now
	return s
}

// RequestBuild 请求建造/升级。所有校验都在任何状态变更之前完成。
func (s *QueueService) RequestBuild(ctx context.Context, playerID, cityID int64, buildingKey string, slot int) (*domain.BuildQueueItem, error) {
	reg := gamedata.Get()
	rules := reg.Rules()

	city, err := s.cityRepo.GetByID(ctx, cityID)
	if err != nil {
		return nil, err
	}
	if city.PlayerID != playerID {
		return nil, domain.ErrForbidden.WithData("city_id", cityID)
	}

	def, ok := reg.BuildingDef(buildingKey)
	if !ok {
		return nil, domain.ErrBuildingNotFound.WithData("building_key", buildingKey)
	}
	if slot != 0 && !def.MultiSlot {
		return nil, domain.ErrBuildingNotFound.WithData("building_key", buildingKey).WithData("slot", slot)
	}

	active, err := s.buildQ.ListActiveByCity(ctx, cityID)
	if err != nil {
		return nil, err
	}
	if len(active) >= rules.MaxRunningBuilds+rules.MaxQueuedBuilds {
		return nil, domain.ErrQueueFull.WithData("city_id", cityID)
	}

	// 目标等级 = 已建等级 + 同建筑同槽位的未完成项数 + 1。
	// 同一个 (key, slot) 不可能出现两个目标等级相同的待办项。
	curLevel := 0
	b, err := s.buildingRepo.Get(ctx, cityID, buildingKey, slot)
	switch {
	case err == nil:
		curLevel = b.Level
	case errors.Is(err, domain.ErrBuildingNotFound):
		// 尚未建造，从 0 级开始
	default:
		return nil, err
	}
	pending := 0
	for _, item := range active {
		if item.BuildingKey == buildingKey && item.Slot == slot {
			pending++
		}
	}
	target := curLevel + pending + 1

	if target > def.MaxLevel {
		return nil, domain.ErrLevelCapExceeded.WithData("building_key", buildingKey).WithData("target", target)
	}
	if buildingKey != domain.MainHallKey {
		mainLevel := 0
		if mh, err := s.buildingRepo.Get(ctx, cityID, domain.MainHallKey, 0); err == nil {
			mainLevel = mh.Level
		} else if !errors.Is(err, domain.ErrBuildingNotFound) {
			return nil, err
		}
		if target > mainLevel {
			return nil, domain.ErrLevelCapExceeded.
				WithData("building_key", buildingKey).
				WithData("target", target).
				WithData("main_hall", mainLevel)
		}
	}

	cost := def.CostAt(target)
	if !city.Debit(cost) {
		return nil, domain.ErrInsufficientResources.WithData("city_id", cityID).WithData("building_key", buildingKey)
	}

	now := s.now()
	item := &domain.BuildQueueItem{
		CityID:      cityID,
		Slot:        slot,
		BuildingKey: buildingKey,
		TargetLevel: target,
		RequestedAt: now,
	}
	scheduleBuild(item, active, rules.MaxRunningBuilds, def.TimeAt(target), now)

	if err := s.buildQ.Admit(ctx, city, item); err != nil {
		return nil, err
	}
	return item, nil
}

// scheduleBuild 决定新项立即开工还是排队链在最晚结束时间后。
func scheduleBuild(item *domain.BuildQueueItem, active []*domain.BuildQueueItem, maxRunning int, duration time.Duration, now time.Time) {
	running := 0
	latestEnd := now
	for _, it := range active {
		if it.Status == domain.StatusRunning {
			running++
		}
		if it.EndsAt.After(latestEnd) {
			latestEnd = it.EndsAt
		}
	}

	if running < maxRunning {
		item.Status = domain.StatusRunning
		item.StartAt = now
	} else {
		item.Status = domain.StatusQueued
		item.StartAt = latestEnd
	}
	item.EndsAt = item.StartAt.Add(duration)
}

// RequestRecruit 请求征兵。队列按训练建筑排队而不是按槽位。
func (s *QueueService) RequestRecruit(ctx context.Context, playerID, cityID int64, unitKey string, count int) (*domain.RecruitQueueItem, error) {
	reg := gamedata.Get()
	rules := reg.Rules()

	if count <= 0 {
		return nil, domain.ErrBuildingNotFound.WithData("count", count)
	}

	city, err := s.cityRepo.GetByID(ctx, cityID)
	if err != nil {
		return nil, err
	}
	if city.PlayerID != playerID {
		return nil, domain.ErrForbidden.WithData("city_id", cityID)
	}

	def, ok := reg.UnitDef(unitKey)
	if !ok {
		return nil, domain.ErrBuildingNotFound.WithData("unit_key", unitKey)
	}
	// 训练建筑必须已建成。
	if _, err := s.buildingRepo.Get(ctx, cityID, def.TrainBuilding, 0); err != nil {
		return nil, err
	}

	active, err := s.recruitQ.ListActiveByBuilding(ctx, cityID, def.TrainBuilding)
	if err != nil {
		return nil, err
	}
	if len(active) >= rules.MaxRunningRecruits+rules.MaxQueuedRecruits {
		return nil, domain.ErrQueueFull.WithData("city_id", cityID).WithData("building_key", def.TrainBuilding)
	}

	cost := def.Cost
	total := gamedata.Cost{}
	for _, k := range gamedata.Kinds() {
		total.Set(k, cost.Get(k)*int64(count))
	}
	if !city.Debit(total) {
		return nil, domain.ErrInsufficientResources.WithData("city_id", cityID).WithData("unit_key", unitKey)
	}

	now := s.now()
	item := &domain.RecruitQueueItem{
		CityID:      cityID,
		BuildingKey: def.TrainBuilding,
		UnitKey:     unitKey,
		Count:       count,
		RequestedAt: now,
	}
	duration := time.Duration(def.TrainSeconds*count) * time.Second
	scheduleRecruit(item, active, rules.MaxRunningRecruits, duration, now)

	if err := s.recruitQ.Admit(ctx, city, item); err != nil {
		return nil, err
	}
	return item, nil
}

func scheduleRecruit(item *domain.RecruitQueueItem, active []*domain.RecruitQueueItem, maxRunning int, duration time.Duration, now time.Time) {
	running := 0
	latestEnd := now
	for _, it := range active {
		if it.Status == domain.StatusRunning {
			running++
		}
		if it.EndsAt.After(latestEnd) {
			latestEnd = it.EndsAt
		}
	}

	if running < maxRunning {
		item.Status = domain.StatusRunning
		item.StartAt = now
	} else {
		item.Status = domain.StatusQueued
		item.StartAt = latestEnd
	}
	item.EndsAt = item.StartAt.Add(duration)
}

// TickConstruction 结算到期建造并晋升排队项。
// 单项失败只记日志不中断，下个 tick 自然重试。
func (s *QueueService) TickConstruction(ctx context.Context, now time.Time) {
	due, err := s.buildQ.ListDue(ctx, now)
	if err != nil {
		s.log.WithContext(ctx).Error("list due builds failed", zap.Error(err))
		return
	}

	touched := make(map[int64]bool)
	for _, item := range due {
		if err := s.finalizeBuild(ctx, item); err != nil {
			s.log.WithContext(ctx).Error("finalize build failed",
				zap.Int64("item_id", item.ID), zap.Error(err))
			continue
		}
		touched[item.CityID] = true
	}

	for cityID := range touched {
		if err := s.promoteBuilds(ctx, cityID, now); err != nil {
			s.log.WithContext(ctx).Error("promote builds failed",
				zap.Int64("city_id", cityID), zap.Error(err))
		}
	}
}

// finalizeBuild 落地一个完工项：建筑升级、缓存产量、重算人口与仓储、状态置 DONE。
// DONE 单向不可逆，重复结算天然是 no-op（ListDue 只取 RUNNING）。
func (s *QueueService) finalizeBuild(ctx context.Context, item *domain.BuildQueueItem) error {
	reg := gamedata.Get()
	def, ok := reg.BuildingDef(item.BuildingKey)
	if !ok {
		return domain.ErrBuildingNotFound.WithData("building_key", item.BuildingKey)
	}

	b, err := s.buildingRepo.Get(ctx, item.CityID, item.BuildingKey, item.Slot)
	switch {
	case errors.Is(err, domain.ErrBuildingNotFound):
		b = &domain.CityBuilding{
			CityID:      item.CityID,
			BuildingKey: item.BuildingKey,
			Slot:        item.Slot,
		}
	case err != nil:
		return err
	}
	b.Level = item.TargetLevel
	b.Category = int8(def.Category)
	b.ProdPerHour = def.ProductionAt(b.Level)
	if err := s.buildingRepo.Save(ctx, b); err != nil {
		return err
	}

	if err := s.recomputeCity(ctx, item.CityID); err != nil {
		return err
	}

	item.Status = domain.StatusDone
	return s.buildQ.Save(ctx, item)
}

// recomputeCity 按现有建筑重算人口与仓储上限。
func (s *QueueService) recomputeCity(ctx context.Context, cityID int64) error {
	reg := gamedata.Get()
	rules := reg.Rules()

	city, err := s.cityRepo.GetByID(ctx, cityID)
	if err != nil {
		return err
	}
	buildings, err := s.buildingRepo.ListByCity(ctx, cityID)
	if err != nil {
		return err
	}

	population := 0
	storage := rules.BaseStorage
	foodStorage := rules.BaseFoodStorage
	for _, b := range buildings {
		def, ok := reg.BuildingDef(b.BuildingKey)
		if !ok {
			continue
		}
		population += def.PopulationPerLevel * b.Level
		if def.StoresFood {
			foodStorage += def.StorageAt(b.Level)
		} else {
			storage += def.StorageAt(b.Level)
		}
	}
	city.Population = population
	city.StorageCap = storage
	city.FoodCap = foodStorage
	return s.cityRepo.Save(ctx, city)
}

// promoteBuilds 把排队项按请求顺序晋升进空出的 RUNNING 槽。
func (s *QueueService) promoteBuilds(ctx context.Context, cityID int64, now time.Time) error {
	reg := gamedata.Get()
	active, err := s.buildQ.ListActiveByCity(ctx, cityID)
	if err != nil {
		return err
	}

	running := 0
	for _, it := range active {
		if it.Status == domain.StatusRunning {
			running++
		}
	}
	// active 已按 requested_at 升序，顺序扫描即 FIFO。
	for _, it := range active {
		if running >= reg.Rules().MaxRunningBuilds {
			break
		}
		if it.Status != domain.StatusQueued || it.StartAt.After(now) {
			continue
		}
		it.Status = domain.StatusRunning
		if err := s.buildQ.Save(ctx, it); err != nil {
			return err
		}
		running++
	}
	return nil
}

// TickRecruitment 结算到期征兵：完成的兵并入驻军，再晋升排队项。
func (s *QueueService) TickRecruitment(ctx context.Context, now time.Time) {
	due, err := s.recruitQ.ListDue(ctx, now)
	if err != nil {
		s.log.WithContext(ctx).Error("list due recruits failed", zap.Error(err))
		return
	}

	type qkey struct {
		cityID int64
		bkey   string
	}
	touched := make(map[qkey]bool)
	for _, item := range due {
		if err := s.finalizeRecruit(ctx, item); err != nil {
			s.log.WithContext(ctx).Error("finalize recruit failed",
				zap.Int64("item_id", item.ID), zap.Error(err))
			continue
		}
		touched[qkey{item.CityID, item.BuildingKey}] = true
	}

	reg := gamedata.Get()
	for k := range touched {
		if err := s.promoteRecruits(ctx, k.cityID, k.bkey, reg.Rules().MaxRunningRecruits, now); err != nil {
			s.log.WithContext(ctx).Error("promote recruits failed",
				zap.Int64("city_id", k.cityID), zap.Error(err))
		}
	}
}

func (s *QueueService) finalizeRecruit(ctx context.Context, item *domain.RecruitQueueItem) error {
	if err := s.garrison.AddUnits(ctx, item.CityID, item.UnitKey, item.Count); err != nil {
		return err
	}
	item.Status = domain.StatusDone
	return s.recruitQ.Save(ctx, item)
}

func (s *QueueService) promoteRecruits(ctx context.Context, cityID int64, buildingKey string, maxRunning int, now time.Time) error {
	active, err := s.recruitQ.ListActiveByBuilding(ctx, cityID, buildingKey)
	if err != nil {
		return err
	}

	running := 0
	for _, it := range active {
		if it.Status == domain.StatusRunning {
			running++
		}
	}
	for _, it := range active {
		if running >= maxRunning {
			break
		}
		if it.Status != domain.StatusQueued || it.StartAt.After(now) {
			continue
		}
		it.Status = domain.StatusRunning
		if err := s.recruitQ.Save(ctx, it); err != nil {
			return err
		}
		running++
	}
	return nil
}
