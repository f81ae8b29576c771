package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"souk-oman/pkg/cache"
	"souk-oman/pkg/config"
	"souk-oman/pkg/database"
	"souk-oman/pkg/logger"
	"souk-oman/pkg/storage"
	"souk-oman/services/marketplace/internal/entity"
	"souk-oman/services/marketplace/internal/fixture"
	"souk-oman/services/marketplace/internal/repo/persistent"
	"souk-oman/services/marketplace/internal/usecase"
)

// Demo sellers and the ads they post. Each seller stays within the weekly
// quota, so a second run in the same week only reports quota errors.
var demoSellers = []struct {
	phone string
	ads   []entity.AdDraft
}{
	{
		phone: "+968 9100 0001",
		ads: []entity.AdDraft{
			{
				Title:       entity.LocalizedText{"ar": "آيفون 14 برو مستعمل", "en": "Used iPhone 14 Pro"},
				Description: entity.LocalizedText{"ar": "بحالة ممتازة مع الشاحن", "en": "Excellent condition, charger included"},
				Price:       320,
				Category:    "electronics",
				Location:    "muscat_city",
				Delivery:    true,
			},
			{
				Title:       entity.LocalizedText{"ar": "طاولة طعام خشبية", "en": "Wooden dining table"},
				Description: entity.LocalizedText{"ar": "ستة كراسي، خشب صلب", "en": "Six chairs, solid wood"},
				Price:       145.5,
				Category:    "furniture",
				Location:    "muscat_city",
			},
		},
	},
	{
		phone: "+968 9100 0002",
		ads: []entity.AdDraft{
			{
				Title:       entity.LocalizedText{"ar": "تويوتا لاندكروزر 2018", "en": "Toyota Land Cruiser 2018"},
				Description: entity.LocalizedText{"ar": "صيانة وكالة، ممشى 120 ألف", "en": "Dealer serviced, 120k km"},
				Price:       14500,
				Category:    "cars",
				Location:    "sohar",
			},
			{
				Title:       entity.LocalizedText{"ar": "دراجة هوائية جبلية", "en": "Mountain bike"},
				Description: entity.LocalizedText{"ar": "مقاس 27.5 مع خوذة", "en": "27.5 inch, helmet included"},
				Price:       85,
				Category:    "sports",
				Location:    "nizwa",
				Delivery:    true,
			},
		},
	},
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithConfig(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		log.Error("Failed to open storage: %v", err)
		panic(err)
	}
	defer closeBackend()

	location, err := time.LoadLocation(cfg.QuotaTimezone)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	store := storage.NewFacade(backend, log)
	listings := usecase.NewListingUseCase(ctx, usecase.ListingDeps{
		AdRepo:        persistent.NewAdRepository(store),
		QuotaRepo:     persistent.NewQuotaRepository(store),
		AnalyticsRepo: persistent.NewAnalyticsRepository(store),
		Seed:          fixture.SeedAds(),
		Location:      location,
		Logger:        log,
	})

	created := 0
	for _, seller := range demoSellers {
		userID := usecase.UserID(seller.phone)
		for _, draft := range seller.ads {
			draft.Phone = seller.phone
			ad, err := listings.CreateAd(ctx, userID, draft)
			if errors.Is(err, entity.ErrQuotaExceeded) {
				log.Info("Seller %s reached the weekly limit, skipping", seller.phone)
				break
			}
			if err != nil {
				log.Error("Failed to create ad %q: %v", draft.Title.In("en"), err)
				continue
			}
			created++
			log.Info("Created ad %s: %s", ad.ID, ad.Title.In("en"))
		}
	}

	log.Info("Seeded %d ads into %s storage", created, cfg.StorageBackend)
}

func openBackend(cfg *config.Config) (storage.Backend, func(), error) {
	switch cfg.StorageBackend {
	case "redis":
		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisBackend(client, cfg.StorageTTL), func() { client.Close() }, nil
	case "postgres":
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return storage.NewGormBackend(db), closeDB, nil
	default:
		return nil, nil, fmt.Errorf("seeding needs a persistent backend, STORAGE_BACKEND is %q", cfg.StorageBackend)
	}
}
