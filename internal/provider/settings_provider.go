// Package provider implements the shop-hours and calendar-settings
// collaborators the scheduling core consumes, as gorm reads behind a
// Redis read-through cache.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/costuraflow/atelier-scheduler/internal/domain/appointment"
	"github.com/costuraflow/atelier-scheduler/internal/models"
)

type CachedProviders struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func New(db *gorm.DB, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedProviders {
	return &CachedProviders{db: db, rdb: rdb, ttl: ttl, log: log}
}

func hoursKey(atelierID uint) string {
	return fmt.Sprintf("shop_hours:%d", atelierID)
}

func settingsKey(atelierID uint) string {
	return fmt.Sprintf("calendar_settings:%d", atelierID)
}

// ShopHours returns the validated weekday entries for an atelier.
// Days without a row count as closed.
func (p *CachedProviders) ShopHours(ctx context.Context, atelierID uint) (domain.WeekHours, error) {
	var rows []models.ShopHours

	if data, err := p.rdb.Get(ctx, hoursKey(atelierID)).Bytes(); err == nil {
		if err := json.Unmarshal(data, &rows); err != nil {
			rows = nil
		}
	}

	if rows == nil {
		if err := p.db.WithContext(ctx).
			Where("atelier_id = ?", atelierID).
			Order("weekday ASC").
			Find(&rows).Error; err != nil {
			return nil, err
		}
		p.store(ctx, hoursKey(atelierID), rows)
	}

	week := domain.WeekHours{}
	for _, row := range rows {
		h, err := domain.ParseDayHours(row.Weekday, row.OpenTime, row.CloseTime, row.Closed)
		if err != nil {
			return nil, err
		}
		week[row.Weekday] = h
	}
	return week, nil
}

// CalendarSettings returns the slot tuning for an atelier, falling
// back to defaults when the shop never saved any.
func (p *CachedProviders) CalendarSettings(ctx context.Context, atelierID uint) (*models.CalendarSettings, error) {
	var settings models.CalendarSettings

	if data, err := p.rdb.Get(ctx, settingsKey(atelierID)).Bytes(); err == nil {
		if err := json.Unmarshal(data, &settings); err == nil {
			return &settings, nil
		}
	}

	err := p.db.WithContext(ctx).
		Where("atelier_id = ?", atelierID).
		First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.CalendarSettings{
			AtelierID:          atelierID,
			BufferTimeMinutes:  0,
			DefaultDurationMin: 30,
		}
	} else if err != nil {
		return nil, err
	}

	p.store(ctx, settingsKey(atelierID), settings)
	return &settings, nil
}

// InvalidateShop drops the cached rows after a settings write.
func (p *CachedProviders) InvalidateShop(ctx context.Context, atelierID uint) {
	if err := p.rdb.Del(ctx, hoursKey(atelierID), settingsKey(atelierID)).Err(); err != nil {
		p.log.Warn("settings cache invalidation failed",
			zap.Uint("atelier_id", atelierID),
			zap.Error(err),
		)
	}
}

// store is best effort; a cache miss next time is the only cost.
func (p *CachedProviders) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := p.rdb.Set(ctx, key, data, p.ttl).Err(); err != nil {
		p.log.Debug("settings cache store failed", zap.String("key", key), zap.Error(err))
	}
}
