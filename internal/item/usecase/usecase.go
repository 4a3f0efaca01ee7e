package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/waretrack/inventory-service/internal/item"
	"github.com/waretrack/inventory-service/internal/item/dto"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/pkg/cache"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"github.com/waretrack/inventory-service/internal/pkg/search"
	"go.uber.org/zap"
)

const itemsIndex = "items"

type itemUseCase struct {
	repo   item.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

func NewItemUseCase(repo item.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) item.UseCase {
	return &itemUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *itemUseCase) CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.Item, error) {
	unique, err := uc.repo.IsCodeUnique(ctx, input.ItemCode, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, fmt.Errorf("%w: %s", item.ErrCodeTaken, input.ItemCode)
	}

	now := time.Now()
	it := &model.Item{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ItemCode:     input.ItemCode,
		Description:  input.Description,
		UOM:          input.UOM,
		Kit:          input.Kit,
		PackQuantity: input.PackQuantity,
		Active:       true,
	}

	if err := uc.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	go uc.invalidateItemCache(context.Background())
	go uc.syncToElastic(context.Background(), it)

	return it, nil
}

func (uc *itemUseCase) UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.Item, error) {
	it, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, item.ErrNotFound
	}

	if it.ItemCode != input.ItemCode {
		unique, err := uc.repo.IsCodeUnique(ctx, input.ItemCode, it.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, fmt.Errorf("%w: %s", item.ErrCodeTaken, input.ItemCode)
		}
	}

	it.ItemCode = input.ItemCode
	it.Description = input.Description
	it.UOM = input.UOM
	it.Kit = input.Kit
	it.PackQuantity = input.PackQuantity
	it.Active = input.Active
	it.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, it); err != nil {
		return nil, err
	}

	go uc.invalidateItemCache(context.Background())
	go uc.syncToElastic(context.Background(), it)

	return it, nil
}

func (uc *itemUseCase) GetItem(ctx context.Context, itemCode string) (*model.Item, error) {
	it, err := uc.repo.FindByCode(ctx, itemCode)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, item.ErrNotFound
	}
	return it, nil
}

func (uc *itemUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.Item, int, error) {
	cacheKey := ""
	if uc.cache != nil {
		if key, err := generateCacheKey(filters); err == nil {
			cacheKey = key
			val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
			if err == nil {
				var result struct {
					Items []model.Item
					Count int
				}
				if err := json.Unmarshal([]byte(val), &result); err == nil {
					return result.Items, result.Count, nil
				}
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"query_string": map[string]interface{}{
					"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
					"fields": []string{"item_code^3", "description"},
				},
			},
			"from": (filters.Page - 1) * filters.PageSize,
		}
		if filters.PageSize > 0 {
			q["size"] = filters.PageSize
		}

		res, err := uc.es.Search(ctx, itemsIndex, q)
		if err == nil {
			var esItems []model.Item
			for _, hit := range res.Hits.Hits {
				var it model.Item
				if err := json.Unmarshal(hit.Source, &it); err == nil {
					esItems = append(esItems, it)
				}
			}
			return esItems, res.Hits.Total.Value, nil
		}
		// If ES fails, fall through to DB
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		cacheData := struct {
			Items []model.Item
			Count int
		}{Items: items, Count: count}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return items, count, nil
}

func generateCacheKey(filters *dto.ItemFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("items:list:%x", md5.Sum(data)), nil
}

func (uc *itemUseCase) invalidateItemCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "items:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func (uc *itemUseCase) syncToElastic(ctx context.Context, it *model.Item) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"item_code": { "type": "keyword" },
				"description": { "type": "text" },
				"uom": { "type": "keyword" },
				"kit": { "type": "boolean" },
				"active": { "type": "boolean" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, itemsIndex, mapping)

	if err := uc.es.Index(ctx, itemsIndex, it.ID, it); err != nil {
		uc.logger.Error("failed to index item", zap.Error(err))
	}
}
