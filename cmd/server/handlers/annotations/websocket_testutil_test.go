package annotations

import (
	"context"
	"testing"
	"time"

	"clipmark/cmd/server/ctxkeys"
	"clipmark/cmd/server/testutil"
	"clipmark/internal/services/annotations"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MockStreamHub implements the Hub interface for testing
type MockStreamHub struct {
	subscribers    map[ulid.ULID]*annotations.Subscriber
	subscribeCount int
}

func NewMockStreamHub() *MockStreamHub {
	return &MockStreamHub{
		subscribers: make(map[ulid.ULID]*annotations.Subscriber),
	}
}

func (m *MockStreamHub) Subscribe(connULID ulid.ULID, channel string) (*annotations.Subscriber, func()) {
	sub := &annotations.Subscriber{
		Channel: channel,
		Ch:      make(chan annotations.PublishEvent, 10),
		Done:    make(chan struct{}),
	}
	m.subscribers[connULID] = sub
	m.subscribeCount++

	cancel := func() {
		m.Unsubscribe(connULID)
	}
	return sub, cancel
}

func (m *MockStreamHub) Unsubscribe(connULID ulid.ULID) {
	if sub, exists := m.subscribers[connULID]; exists {
		close(sub.Ch)
		close(sub.Done)
		delete(m.subscribers, connULID)
	}
}

func (m *MockStreamHub) GetSubscriberCount() int {
	return len(m.subscribers)
}

// MockVideoResolver implements VideoResolver for testing
type MockVideoResolver struct {
	known map[string]bool
}

func NewMockVideoResolver(publicIDs ...string) *MockVideoResolver {
	known := make(map[string]bool, len(publicIDs))
	for _, id := range publicIDs {
		known[id] = true
	}
	return &MockVideoResolver{known: known}
}

func (m *MockVideoResolver) Exists(_ context.Context, publicID string) (bool, error) {
	return m.known[publicID], nil
}

// WebSocketTestConfig holds configuration for WebSocket tests
type WebSocketTestConfig struct {
	Secret        string
	MaxSessionSec int
	KnownVideos   []string
}

// DefaultWebSocketTestConfig returns a default test configuration
func DefaultWebSocketTestConfig() WebSocketTestConfig {
	return WebSocketTestConfig{
		Secret:        "test-secret-key-with-32-characters",
		MaxSessionSec: 900,
		KnownVideos:   []string{testVideoID},
	}
}

// SetupWebSocketHandlersApp creates a test app with WebSocket handlers
func SetupWebSocketHandlersApp(t *testing.T, config WebSocketTestConfig) (*fiber.App, *MockStreamHub, *WebSocketHandlers) {
	t.Helper()

	app := testutil.CreateTestApp(t)
	hub := NewMockStreamHub()
	resolver := NewMockVideoResolver(config.KnownVideos...)
	wsHandlers := NewWebSocketHandlers(hub, resolver, config.Secret, config.MaxSessionSec)

	app.Get("/ws/videos/:public_id/stream", wsHandlers.WSUpgrade, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"channel": c.Locals(ctxkeys.ChannelKey),
			"user_id": c.Locals(ctxkeys.UserIDKey),
		})
	})

	return app, hub, wsHandlers
}

// WSUpgradeTestCase represents a WebSocket upgrade test case
type WSUpgradeTestCase struct {
	Name           string
	Path           string
	Token          *string // nil means no token
	ExpectedStatus int
}

// GetStandardWSUpgradeTestCases returns common WebSocket upgrade test cases
func GetStandardWSUpgradeTestCases(t *testing.T, secret string) []WSUpgradeTestCase {
	t.Helper()

	userID := bson.NewObjectID().Hex()
	email := "test@example.com"
	streamPath := "/ws/videos/" + testVideoID + "/stream"

	validToken, err := testutil.CreateTestJWT(userID, email, []byte(secret), time.Hour)
	require.NoError(t, err)

	expiredToken, err := testutil.CreateTestJWT(userID, email, []byte(secret), -time.Hour)
	require.NoError(t, err)

	invalidToken := "invalid-token"

	return []WSUpgradeTestCase{
		{
			Name:           "ValidToken",
			Path:           streamPath,
			Token:          &validToken,
			ExpectedStatus: 200,
		},
		{
			Name:           "AnonymousViewerIsAllowed",
			Path:           streamPath,
			Token:          nil,
			ExpectedStatus: 200,
		},
		{
			Name:           "InvalidToken",
			Path:           streamPath,
			Token:          &invalidToken,
			ExpectedStatus: 401,
		},
		{
			Name:           "ExpiredToken",
			Path:           streamPath,
			Token:          &expiredToken,
			ExpectedStatus: 401,
		},
		{
			Name:           "UnknownVideo",
			Path:           "/ws/videos/nope/stream",
			Token:          nil,
			ExpectedStatus: 404,
		},
	}
}
