package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/avalia/backend/internal/application/ingest"
	"github.com/avalia/backend/internal/domain/review"
	"github.com/avalia/backend/internal/infrastructure/config"
	"github.com/avalia/backend/internal/infrastructure/embedding"
	applog "github.com/avalia/backend/internal/infrastructure/log"
	"github.com/avalia/backend/internal/infrastructure/vector"
)

func main() {
	applog.Init(nil)

	var (
		placesPath  = flag.String("places", "", "地点 CSV 文件路径（分号分隔）")
		reviewsPath = flag.String("reviews", "", "评论 CSV 文件路径（分号分隔）")
		jsonPath    = flag.String("json", "", "已合并的地点 JSON 文件路径（替代 CSV 输入）")
		outputJSON  = flag.String("output-json", "", "合并结果的 JSON 输出路径（可选）")
		rebuild     = flag.Bool("rebuild", false, "删除并重建向量集合")
		configPath  = flag.String("config", "", "配置文件路径（默认 "+config.DefaultConfigPath+"）")
	)
	flag.Parse()

	if *configPath != "" {
		_ = os.Setenv(config.EnvConfigPath, *configPath)
	}
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	loader := ingest.NewLoader()
	places, err := loadPlaces(loader, *jsonPath, *placesPath, *reviewsPath)
	if err != nil {
		log.Fatalf("数据加载失败: %v", err)
	}
	fmt.Printf("已加载 %d 个地点\n", len(places))

	if *outputJSON != "" {
		if err := loader.WritePlacesJSON(places, *outputJSON); err != nil {
			log.Fatalf("JSON 写入失败: %v", err)
		}
		fmt.Printf("合并结果已写入 %s\n", *outputJSON)
	}

	manager := vector.ProvideManager(cfg)
	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := manager.Connect(connectCtx); err != nil {
		log.Fatalf("向量数据库连接失败: %v", err)
	}
	defer func() { _ = manager.Close() }()

	chunker, err := ingest.ProvideChunker()
	if err != nil {
		log.Fatalf("分块器初始化失败: %v", err)
	}
	embedder := embedding.ProvideClient(cfg)
	service := ingest.NewService(embedder, manager, chunker)

	count, err := service.BuildIndex(context.Background(), places, *rebuild)
	if err != nil {
		log.Fatalf("索引构建失败: %v", err)
	}
	fmt.Printf("索引构建完成，共写入 %d 个分块\n", count)
}

// loadPlaces 根据输入模式加载地点数据：JSON 直读或 CSV 合并
func loadPlaces(loader *ingest.Loader, jsonPath, placesPath, reviewsPath string) ([]review.Place, error) {
	if jsonPath != "" {
		return loader.LoadPlacesJSON(jsonPath)
	}
	if placesPath == "" || reviewsPath == "" {
		return nil, fmt.Errorf("either --json or both --places and --reviews are required")
	}
	return loader.LoadPlaces(placesPath, reviewsPath)
}
