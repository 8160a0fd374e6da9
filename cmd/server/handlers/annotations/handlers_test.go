package annotations

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"clipmark/cmd/server/testutil"
	"clipmark/internal/services/annotations"
	"clipmark/internal/services/videos"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	testJWTSecret = "test-secret-with-32-plus-characters"
	testVideoID   = "vid-123"
	testEmail     = "test@example.com"
)

// MockAnnotationsService mocks the annotations service
type MockAnnotationsService struct {
	mock.Mock
}

func (m *MockAnnotationsService) Add(ctx context.Context, caller *bson.ObjectID, videoPublicID string, payload any) (*annotations.Annotation, error) {
	args := m.Called(ctx, caller, videoPublicID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*annotations.Annotation), args.Error(1)
}

func (m *MockAnnotationsService) List(ctx context.Context, caller *bson.ObjectID, videoPublicID string) ([]annotations.View, error) {
	args := m.Called(ctx, caller, videoPublicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]annotations.View), args.Error(1)
}

func (m *MockAnnotationsService) Publish(ctx context.Context, caller *bson.ObjectID, annotationID bson.ObjectID, position float64) (*annotations.Annotation, error) {
	args := m.Called(ctx, caller, annotationID, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*annotations.Annotation), args.Error(1)
}

func (m *MockAnnotationsService) Delete(ctx context.Context, caller *bson.ObjectID, annotationID bson.ObjectID) error {
	args := m.Called(ctx, caller, annotationID)
	return args.Error(0)
}

// AnnotationsTestSetup contains common test setup data
type AnnotationsTestSetup struct {
	MockService *MockAnnotationsService
	App         *fiber.App
	CallerID    bson.ObjectID
	Token       string
}

// SetupAnnotationsTest wires the handlers behind the same middleware
// split the server uses: required auth on mutations, optional on reads.
func SetupAnnotationsTest(t *testing.T) *AnnotationsTestSetup {
	t.Helper()

	mockService := &MockAnnotationsService{}
	app := testutil.CreateTestApp(t)
	validator := testutil.CreateTestValidator(t)

	h := NewHandlers(mockService, validator)

	jwtMW := testutil.SetupJWTMiddleware(testJWTSecret)
	optionalJWTMW := testutil.SetupOptionalJWTMiddleware(testJWTSecret)

	v1 := app.Group("/api/v1")
	v1.Post("/videos/:public_id/annotations", jwtMW, h.Add)
	v1.Get("/videos/:public_id/annotations", optionalJWTMW, h.List)
	v1.Post("/annotations/:id/publish", jwtMW, h.Publish)
	v1.Delete("/annotations/:id", jwtMW, h.Delete)

	callerID := bson.NewObjectID()
	token, err := testutil.CreateTestJWT(callerID.Hex(), testEmail, []byte(testJWTSecret), time.Hour)
	require.NoError(t, err)

	return &AnnotationsTestSetup{
		MockService: mockService,
		App:         app,
		CallerID:    callerID,
		Token:       token,
	}
}

func ptr(f float64) *float64 { return &f }

func TestAddAnnotation(t *testing.T) {
	t.Run("authenticated caller creates a draft", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		payload := map[string]any{"text": "nice shot"}
		created := &annotations.Annotation{
			ID:      bson.NewObjectID(),
			VideoID: bson.NewObjectID(),
			Payload: payload,
		}
		setup.MockService.On("Add", mock.Anything, &setup.CallerID, testVideoID, mock.Anything).Return(created, nil).Once()

		req := testutil.CreateAuthenticatedRequest("POST", "/api/v1/videos/"+testVideoID+"/annotations",
			map[string]any{"payload": payload}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)

		var got annotations.View
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, created.ID.Hex(), got.ID)
		assert.Nil(t, got.Position)

		setup.MockService.AssertExpectations(t)
	})

	t.Run("anonymous caller gets 401", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)

		req := testutil.CreateJSONRequest("POST", "/api/v1/videos/"+testVideoID+"/annotations",
			map[string]any{"payload": "x"})
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)

		setup.MockService.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing payload gets 400", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)

		req := testutil.CreateAuthenticatedRequest("POST", "/api/v1/videos/"+testVideoID+"/annotations",
			map[string]any{}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("unknown video gets 404", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		setup.MockService.On("Add", mock.Anything, &setup.CallerID, "nope", mock.Anything).
			Return(nil, videos.ErrVideoNotFound).Once()

		req := testutil.CreateAuthenticatedRequest("POST", "/api/v1/videos/nope/annotations",
			map[string]any{"payload": "x"}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestListAnnotations(t *testing.T) {
	t.Run("anonymous request reaches the service with a nil caller", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		views := []annotations.View{
			{Payload: "published note", Position: ptr(12.5)},
		}
		setup.MockService.On("List", mock.Anything, (*bson.ObjectID)(nil), testVideoID).Return(views, nil).Once()

		req := testutil.CreateJSONRequest("GET", "/api/v1/videos/"+testVideoID+"/annotations", nil)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var got []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 1)
		_, hasID := got[0]["id"]
		assert.False(t, hasID, "redacted views must not carry an id field")
		assert.Equal(t, 12.5, got[0]["position"])

		setup.MockService.AssertExpectations(t)
	})

	t.Run("authenticated request carries the caller id", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		views := []annotations.View{
			{ID: bson.NewObjectID().Hex(), Payload: "draft", Position: nil},
		}
		setup.MockService.On("List", mock.Anything, &setup.CallerID, testVideoID).Return(views, nil).Once()

		req := testutil.CreateAuthenticatedRequest("GET", "/api/v1/videos/"+testVideoID+"/annotations", nil, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var got []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.NotEmpty(t, got[0]["id"])
		assert.Nil(t, got[0]["position"], "draft position must serialize as null")

		setup.MockService.AssertExpectations(t)
	})

	t.Run("unknown video gets 404", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		setup.MockService.On("List", mock.Anything, (*bson.ObjectID)(nil), "nope").
			Return(nil, videos.ErrVideoNotFound).Once()

		req := testutil.CreateJSONRequest("GET", "/api/v1/videos/nope/annotations", nil)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestPublishAnnotation(t *testing.T) {
	annotationID := bson.NewObjectID()

	t.Run("owner publishes at a position", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		published := &annotations.Annotation{
			ID:       annotationID,
			Payload:  "note",
			Position: ptr(42.5),
		}
		setup.MockService.On("Publish", mock.Anything, &setup.CallerID, annotationID, 42.5).Return(published, nil).Once()

		req := testutil.CreateAuthenticatedRequest("POST", "/api/v1/annotations/"+annotationID.Hex()+"/publish",
			map[string]any{"position": 42.5}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var got annotations.View
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, 42.5, *got.Position)

		setup.MockService.AssertExpectations(t)
	})

	t.Run("position zero is accepted", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		published := &annotations.Annotation{ID: annotationID, Payload: "note", Position: ptr(0)}
		setup.MockService.On("Publish", mock.Anything, &setup.CallerID, annotationID, 0.0).Return(published, nil).Once()

		req := testutil.CreateAuthenticatedRequest("POST", "/api/v1/annotations/"+annotationID.Hex()+"/publish",
			map[string]any{"position": 0}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		setup.MockService.AssertExpectations(t)
	})

	t.Run("missing position gets 400", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)

		req := testutil.CreateAuthenticatedRequest("POST", "/api/v1/annotations/"+annotationID.Hex()+"/publish",
			map[string]any{}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)

		setup.MockService.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		setup.MockService.On("Publish", mock.Anything, &setup.CallerID, annotationID, 10.0).
			Return(nil, annotations.ErrForbidden).Once()

		req := testutil.CreateAuthenticatedRequest("POST", "/api/v1/annotations/"+annotationID.Hex()+"/publish",
			map[string]any{"position": 10}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("malformed id gets 404", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)

		req := testutil.CreateAuthenticatedRequest("POST", "/api/v1/annotations/not-an-id/publish",
			map[string]any{"position": 10}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		setup.MockService.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown annotation gets 404", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		setup.MockService.On("Publish", mock.Anything, &setup.CallerID, annotationID, 10.0).
			Return(nil, annotations.ErrAnnotationNotFound).Once()

		req := testutil.CreateAuthenticatedRequest("POST", "/api/v1/annotations/"+annotationID.Hex()+"/publish",
			map[string]any{"position": 10}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestDeleteAnnotation(t *testing.T) {
	annotationID := bson.NewObjectID()

	t.Run("owner deletes", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		setup.MockService.On("Delete", mock.Anything, &setup.CallerID, annotationID).Return(nil).Once()

		req := testutil.CreateAuthenticatedRequest("DELETE", "/api/v1/annotations/"+annotationID.Hex(), nil, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 204, resp.StatusCode)

		setup.MockService.AssertExpectations(t)
	})

	t.Run("anonymous caller gets 401", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)

		req := testutil.CreateJSONRequest("DELETE", "/api/v1/annotations/"+annotationID.Hex(), nil)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		setup.MockService.On("Delete", mock.Anything, &setup.CallerID, annotationID).
			Return(annotations.ErrForbidden).Once()

		req := testutil.CreateAuthenticatedRequest("DELETE", "/api/v1/annotations/"+annotationID.Hex(), nil, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("unknown annotation gets 404", func(t *testing.T) {
		setup := SetupAnnotationsTest(t)
		setup.MockService.On("Delete", mock.Anything, &setup.CallerID, annotationID).
			Return(annotations.ErrAnnotationNotFound).Once()

		req := testutil.CreateAuthenticatedRequest("DELETE", "/api/v1/annotations/"+annotationID.Hex(), nil, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}
