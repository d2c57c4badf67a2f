package store

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/markethub/storefront-gateway/models"
)

// OrderCache is the client-authoritative fallback copy of orders written at
// checkout. The order service sometimes returns orders without line items;
// the cache fills the gap.
type OrderCache interface {
	Put(ctx context.Context, userID int64, order models.Order) error
	Get(ctx context.Context, userID, orderID int64) (*models.Order, bool)
	List(ctx context.Context, userID int64) ([]models.Order, error)
}

type GormOrderCache struct {
	db *gorm.DB
}

func NewGormOrderCache(db *gorm.DB) *GormOrderCache {
	return &GormOrderCache{db: db}
}

func (c *GormOrderCache) Put(ctx context.Context, userID int64, order models.Order) error {
	snapshot, err := models.NewOrderSnapshot(userID, order)
	if err != nil {
		return fmt.Errorf("encode order snapshot: %w", err)
	}
	result := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			UpdateAll: true,
		}).
		Create(&snapshot)
	if result.Error != nil {
		return fmt.Errorf("persist order snapshot: %w", result.Error)
	}
	return nil
}

func (c *GormOrderCache) Get(ctx context.Context, userID, orderID int64) (*models.Order, bool) {
	var snapshot models.OrderSnapshot
	result := c.db.WithContext(ctx).
		Where("user_id = ? AND order_id = ?", userID, orderID).
		First(&snapshot)
	if result.Error != nil {
		return nil, false
	}
	order, err := snapshot.ToOrder()
	if err != nil {
		log.Println("Corrupt order snapshot:", err)
		return nil, false
	}
	return &order, true
}

func (c *GormOrderCache) List(ctx context.Context, userID int64) ([]models.Order, error) {
	var snapshots []models.OrderSnapshot
	result := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date desc").
		Find(&snapshots)
	if result.Error != nil {
		return nil, fmt.Errorf("list order snapshots: %w", result.Error)
	}
	orders := make([]models.Order, 0, len(snapshots))
	for i := range snapshots {
		order, err := snapshots[i].ToOrder()
		if err != nil {
			log.Println("Skipping corrupt order snapshot:", err)
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

type MemoryOrderCache struct {
	mu     sync.RWMutex
	orders map[int64]map[int64]models.Order // userID -> orderID -> order
}

func NewMemoryOrderCache() *MemoryOrderCache {
	return &MemoryOrderCache{orders: make(map[int64]map[int64]models.Order)}
}

func (c *MemoryOrderCache) Put(_ context.Context, userID int64, order models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.orders[userID] == nil {
		c.orders[userID] = make(map[int64]models.Order)
	}
	c.orders[userID][order.OrderID] = order
	return nil
}

func (c *MemoryOrderCache) Get(_ context.Context, userID, orderID int64) (*models.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	order, ok := c.orders[userID][orderID]
	if !ok {
		return nil, false
	}
	return &order, true
}

func (c *MemoryOrderCache) List(_ context.Context, userID int64) ([]models.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	orders := make([]models.Order, 0, len(c.orders[userID]))
	for _, order := range c.orders[userID] {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders, nil
}
