package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Load 读取配置文件并反序列化到 target，同时开启文件变更监听（热更新）。
// 配置缺失或格式错误直接 panic：进程没有配置无法工作，启动期失败越早越好。
func Load(path string, target any) {
	if !fileExist(path) {
		panic(fmt.Sprintf("config file not exist, path=%v", path))
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Println("配置文件变更:", e.Name)
		if err := v.Unmarshal(target); err != nil {
			log.Printf("配置热更新失败，沿用旧配置: %v\n", err)
		}
	})
	v.WatchConfig()

	if err := v.ReadInConfig(); err != nil {
		panic(err)
	}
	if err := v.Unmarshal(target); err != nil {
		panic(err)
	}
}

// FindUpward 从 startDir 开始向上逐级查找 relPath，找不到则 panic。
// 约定仓库任意子目录启动都能定位 configs/conf.yml。
func FindUpward(startDir, relPath string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, relPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched " + relPath + " from: " + startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
