package gamedata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	unitsFile     = "Units.json"
	buildingsFile = "Buildings.json"
	factionsFile  = "Factions.json"
	rulesFile     = "Rules.json"
)

// Load 解析包目录下的 JSON 数值表并整表替换当前 Registry。
// 与其他配置模块保持一致的调用方式：进程启动时调用一次，失败直接 panic；
// 任一文件解析失败时不落地半成品，旧表继续生效。
func Load() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("load gamedata failed: runtime.Caller(0) error")
	}
	LoadDir(filepath.Dir(file))
}

// LoadDir 从指定目录加载数值表（测试可指向临时目录）。
func LoadDir(baseDir string) {
	var units struct {
		List []UnitDef `json:"list"`
	}
	var buildings struct {
		List []BuildingDef `json:"list"`
	}
	var factions struct {
		List []FactionDef `json:"list"`
	}
	var rules Rules

	readJSON(filepath.Join(baseDir, unitsFile), &units)
	readJSON(filepath.Join(baseDir, buildingsFile), &buildings)
	readJSON(filepath.Join(baseDir, factionsFile), &factions)
	readJSON(filepath.Join(baseDir, rulesFile), &rules)

	reg := NewRegistry(units.List, buildings.List, factions.List, rules)
	validate(reg)
	Install(reg)
}

func readJSON(path string, target any) {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("load gamedata failed: read %q: %w", path, err))
	}
	if err := json.Unmarshal(data, target); err != nil {
		panic(fmt.Errorf("load gamedata failed: parse %q: %w", path, err))
	}
}

// validate 启动期交叉校验：兵种引用的训练建筑必须存在，曲线端点必须有意义。
func validate(r *Registry) {
	for key, u := range r.units {
		if u.TrainBuilding != "" {
			if _, ok := r.buildings[u.TrainBuilding]; !ok {
				panic(fmt.Sprintf("gamedata: unit %q references unknown building %q", key, u.TrainBuilding))
			}
		}
		if u.TrainSeconds <= 0 {
			panic(fmt.Sprintf("gamedata: unit %q has non-positive train_seconds", key))
		}
	}
	for key, b := range r.buildings {
		if b.MaxLevel <= 0 {
			panic(fmt.Sprintf("gamedata: building %q has non-positive max_level", key))
		}
	}
}
