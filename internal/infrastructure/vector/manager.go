package vector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/avalia/backend/internal/infrastructure/log"
)

// Manager Qdrant 连接管理器
type Manager struct {
	host       string
	port       int
	collection string
	client     *qdrant.Client
	logger     *slog.Logger
}

// NewManager 创建 Qdrant 管理器
func NewManager(host string, port int, collection string) *Manager {
	return &Manager{
		host:       host,
		port:       port,
		collection: collection,
		logger:     log.NewModuleLogger("vector", "manager"),
	}
}

// Collection 返回使用的集合名
func (m *Manager) Collection() string {
	return m.collection
}

// Connect 建立 Qdrant 连接并验证可达性
func (m *Manager) Connect(ctx context.Context) error {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: m.host,
		Port: m.port,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	// 测试连接：尝试列出集合
	if err := m.waitForReady(ctx, client, 10*time.Second); err != nil {
		client.Close()
		return fmt.Errorf("qdrant not ready: %w", err)
	}

	m.client = client
	m.logger.Info("Connected to qdrant",
		"host", m.host,
		"port", m.port,
		"collection", m.collection,
	)

	return nil
}

// Close 关闭 Qdrant 连接
func (m *Manager) Close() error {
	if m.client != nil {
		err := m.client.Close()
		m.client = nil
		return err
	}
	return nil
}

// GetClient 获取 Qdrant 客户端
func (m *Manager) GetClient() *qdrant.Client {
	return m.client
}

// waitForReady 等待 Qdrant 服务就绪
func (m *Manager) waitForReady(ctx context.Context, client *qdrant.Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := client.ListCollections(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("timeout waiting for qdrant to be ready")
}

// EnsureCollection 确保集合存在（余弦距离）
func (m *Manager) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	if m.client == nil {
		return fmt.Errorf("qdrant client not initialized")
	}

	existing, err := m.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range existing {
		if name == m.collection {
			return nil
		}
	}

	err = m.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: m.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", m.collection, err)
	}

	m.logger.Info("Created collection",
		"collection", m.collection,
		"vector_size", vectorSize,
	)

	return nil
}

// RecreateCollection 删除并重建集合（全量重建索引时使用）
func (m *Manager) RecreateCollection(ctx context.Context, vectorSize uint64) error {
	if m.client == nil {
		return fmt.Errorf("qdrant client not initialized")
	}

	existing, err := m.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range existing {
		if name == m.collection {
			if err := m.client.DeleteCollection(ctx, m.collection); err != nil {
				return fmt.Errorf("failed to delete collection %s: %w", m.collection, err)
			}
			m.logger.Info("Deleted existing collection", "collection", m.collection)
			break
		}
	}

	return m.EnsureCollection(ctx, vectorSize)
}
