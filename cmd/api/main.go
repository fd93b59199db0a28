package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/notifier"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envが無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.CatalogItem{},
		&model.Section{},
		&model.SectionRow{},
		&model.StockRecord{},
		&model.ItemAttribute{},
		&model.Adjustment{},
		&model.AdjustmentChange{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	stockRepo := infraRepo.NewStockGormRepository(gormDB)
	adjRepo := infraRepo.NewAdjustmentGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//変更通知。Redisが無ければ何もしない実装
	var notif usecase.ChangeNotifier = notifier.NewNoopNotifier()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		notif = notifier.NewRedisNotifier(client)
	}

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//Usecase生成
	stockUC := usecase.NewStockUsecase(txManager, stockRepo, adjRepo, notif, idGen, clock)
	catalogUC := usecase.NewCatalogUsecase(txManager, notif)

	//Handler生成
	stockH := handler.NewStockHandler(stockUC)
	catalogH := handler.NewCatalogHandler(catalogUC)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, stockH, catalogH); err != nil {
		panic(err)
	}
}
