package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/zayar/cashflow-pwa-sub000/internal/dto"
	"github.com/zayar/cashflow-pwa-sub000/internal/model"
	"github.com/zayar/cashflow-pwa-sub000/internal/repository"
)

// recentItemsMax caps the per-user recently-picked list served to the item picker.
const recentItemsMax = 10

// ItemService backs the item picker and catalog management screens. Besides
// CRUD it tracks each user's recently picked items in Redis so the picker can
// surface them first.
type ItemService interface {
	Create(ctx context.Context, req dto.CreateItemRequest) (dto.ItemResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.ItemResponse, error)
	List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (dto.ItemResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	MarkPicked(ctx context.Context, userID uuid.UUID, itemID uuid.UUID)
	RecentlyPicked(ctx context.Context, userID uuid.UUID) ([]dto.ItemResponse, error)
}

type itemService struct {
	repo repository.ItemRepository
	rdb  *redis.Client
}

func NewItemService(repo repository.ItemRepository, rdb *redis.Client) ItemService {
	return &itemService{repo: repo, rdb: rdb}
}

func mapItem(it model.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:      it.ID.String(),
		Name:    it.Name,
		SKU:     it.SKU,
		Rate:    it.Rate,
		Taxable: it.Taxable,
		Active:  it.Active,
	}
}

func (s *itemService) Create(ctx context.Context, req dto.CreateItemRequest) (dto.ItemResponse, error) {
	taxable := true
	if req.Taxable != nil {
		taxable = *req.Taxable
	}
	it := &model.Item{
		Name:    req.Name,
		SKU:     req.SKU,
		Rate:    req.Rate,
		Taxable: taxable,
		Active:  true,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return dto.ItemResponse{}, err
	}
	return mapItem(*it), nil
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (dto.ItemResponse, error) {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ItemResponse{}, errors.New("item not found")
		}
		return dto.ItemResponse{}, err
	}
	return mapItem(*it), nil
}

func (s *itemService) List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		data = append(data, mapItem(it))
	}
	return &dto.ItemListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *itemService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (dto.ItemResponse, error) {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ItemResponse{}, errors.New("item not found")
		}
		return dto.ItemResponse{}, err
	}
	if req.Name != "" {
		it.Name = req.Name
	}
	if req.SKU != nil {
		it.SKU = req.SKU
	}
	if req.Rate != nil {
		it.Rate = *req.Rate
	}
	if req.Taxable != nil {
		it.Taxable = *req.Taxable
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return dto.ItemResponse{}, err
	}
	return mapItem(*it), nil
}

func (s *itemService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("item not found")
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// ── Recently picked ───────────────────────────────────────────────────────────
// Per-user Redis list, most recent first, deduplicated, capped at
// recentItemsMax. Best effort: a Redis outage never fails the draft edit.

func recentItemsKey(userID uuid.UUID) string {
	return "recent_items:" + userID.String()
}

func (s *itemService) MarkPicked(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	key := recentItemsKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.LRem(ctx, key, 0, itemID.String())
	pipe.LPush(ctx, key, itemID.String())
	pipe.LTrim(ctx, key, 0, recentItemsMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("item_service: failed to record recent item")
	}
}

func (s *itemService) RecentlyPicked(ctx context.Context, userID uuid.UUID) ([]dto.ItemResponse, error) {
	if s.rdb == nil {
		return []dto.ItemResponse{}, nil
	}
	raw, err := s.rdb.LRange(ctx, recentItemsKey(userID), 0, recentItemsMax-1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		if id, err := uuid.Parse(r); err == nil {
			ids = append(ids, id)
		}
	}
	items, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	// Preserve recency order; drop items deactivated since they were picked
	byID := make(map[uuid.UUID]model.Item, len(items))
	for _, it := range items {
		if it.Active {
			byID[it.ID] = it
		}
	}
	out := make([]dto.ItemResponse, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, mapItem(it))
		}
	}
	return out, nil
}
