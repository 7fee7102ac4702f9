package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SainathReddyM/py-file-converter/internal/api"
	"github.com/SainathReddyM/py-file-converter/internal/auth"
	"github.com/SainathReddyM/py-file-converter/internal/config"
	"github.com/SainathReddyM/py-file-converter/internal/convert"
	"github.com/SainathReddyM/py-file-converter/internal/engine"
	"github.com/SainathReddyM/py-file-converter/internal/quota"
	"github.com/SainathReddyM/py-file-converter/internal/redis"
	"github.com/SainathReddyM/py-file-converter/internal/storage"
	"github.com/SainathReddyM/py-file-converter/internal/workspace"
)

func main() {
	cfgPath := os.Getenv("FILECONV_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if _, err := os.Stat(cfg.BasicConfig.EnginePath); err != nil {
		log.Fatalf("conversion engine not found at %s: %v", cfg.BasicConfig.EnginePath, err)
	}

	tempRoot := cfg.BasicConfig.TempDir
	if tempRoot == "" {
		tempRoot = "./temp_files"
	}
	if err := os.MkdirAll(tempRoot, 0o755); err != nil {
		log.Fatalf("create temp root: %v", err)
	}

	dbType := os.Getenv("FILECONV_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	recorder := storage.NewRecorder(db)

	var keyQuota *quota.Quota
	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(cfg)
		if err != nil {
			log.Fatalf("create redis client: %v", err)
		}
		defer rdb.Close()
		keyQuota = quota.New(rdb, cfg.Redis.KeyQuota, time.Duration(cfg.Redis.QuotaWindow)*time.Minute)
	}

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	workspace.StartSweeper(sweepCtx, tempRoot,
		time.Duration(cfg.BasicConfig.WorkspaceTTL)*time.Minute,
		time.Duration(cfg.BasicConfig.SweepInterval)*time.Minute,
	)

	invoker := engine.NewInvoker(
		cfg.BasicConfig.EnginePath,
		engine.ExecRunner{},
		time.Duration(cfg.BasicConfig.ConvertTimeout)*time.Second,
	)
	service := convert.NewService(convert.Options{
		TempRoot:       tempRoot,
		MaxUploadBytes: cfg.BasicConfig.MaxUploadMB << 20,
		MaxConcurrent:  int64(cfg.BasicConfig.MaxConcurrent),
		AdmissionWait:  time.Duration(cfg.BasicConfig.AdmissionWait) * time.Second,
	}, invoker, recorder)

	registry := auth.NewRegistry(cfg.APIKeys())
	log.Printf("loaded %d api keys, engine %s", registry.Len(), cfg.BasicConfig.EnginePath)

	handlers := api.NewHandler(service, registry, keyQuota, recorder)
	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8080"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
