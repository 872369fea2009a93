package accessservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type cacheEntry struct {
	caps      *Capabilities
	expiresAt time.Time
}

// Client клиент сервиса доступа с кэшированием прав.
// Права меняются редко, поэтому держим их в памяти с TTL
// и схлопываем конкурентные запросы через singleflight.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger

	cacheTTL time.Duration
	mu       sync.RWMutex
	cache    map[int64]cacheEntry
	group    singleflight.Group
}

// NewClient создает новый экземпляр клиента сервиса доступа
func NewClient(baseURL string, timeout time.Duration, cacheTTL time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:      log,
		cacheTTL: cacheTTL,
		cache:    make(map[int64]cacheEntry),
	}
}

// GetCapabilities возвращает права пользователя, используя кэш
func (c *Client) GetCapabilities(ctx context.Context, userID int64) (*Capabilities, error) {
	c.mu.RLock()
	entry, ok := c.cache[userID]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.caps, nil
	}

	v, err, _ := c.group.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		caps, err := c.fetchCapabilities(ctx, userID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[userID] = cacheEntry{caps: caps, expiresAt: time.Now().Add(c.cacheTTL)}
		c.mu.Unlock()
		return caps, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Capabilities), nil
}

// Invalidate сбрасывает кэш прав пользователя
func (c *Client) Invalidate(userID int64) {
	c.mu.Lock()
	delete(c.cache, userID)
	c.mu.Unlock()
}

func (c *Client) fetchCapabilities(ctx context.Context, userID int64) (*Capabilities, error) {
	url := fmt.Sprintf("%s/internal/users/%d/capabilities", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid user ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var caps Capabilities
	if err := json.NewDecoder(resp.Body).Decode(&caps); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &caps, nil
}
