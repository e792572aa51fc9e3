package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ptrainer/backend/internal/aggregation"
	"ptrainer/backend/internal/cache"
	"ptrainer/backend/internal/domain"
	"ptrainer/backend/internal/invalidation"
	"ptrainer/backend/internal/repository/memory"
	"ptrainer/backend/internal/service"
	"ptrainer/backend/internal/storage"
	"ptrainer/backend/internal/sweeper"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeSigner struct{ fail bool }

func (s fakeSigner) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if s.fail {
		return "", errors.New("signing failed")
	}
	return "https://upload.test/" + key, nil
}

func (s fakeSigner) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://media.test/" + key, nil
}

type testServer struct {
	db     *memory.DB
	router *gin.Engine
}

func newTestServer(t *testing.T, signer storage.MediaSigner) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := zap.NewNop()
	db := memory.NewDB(nil)
	store := cache.NewMemoryStore(ctx, 0)

	library := cache.NewLibraryCache(store, 0, logger, nil)
	oracle := cache.NewVersionOracle(db.Memberships(), db.Clients(), db.Plans())
	membershipCache := cache.NewMembershipCache(store, oracle, 0, logger, nil)
	pipeline := aggregation.NewPipeline(db.Memberships(), db.Clients(), db.Plans(), db.Exercises(), db.Foods(),
		db.Performance(), library, logger, nil)
	invalidator := invalidation.NewRouter(db.Memberships(), db.Plans(), membershipCache, library, logger)

	router := gin.New()
	router.Use(RequestLogger(logger))
	SetupRoutes(router, logger, Services{
		Membership: service.NewMembershipService(db.Memberships(), db.Packages(), db.Clients(), membershipCache, pipeline, invalidator, logger),
		Client:     service.NewClientService(db.Clients(), db.Exercises(), db.Performance(), invalidator, logger),
		Plan:       service.NewPlanService(db.Plans(), db.Memberships(), db.Clients(), invalidator, logger),
		Nutrition:  service.NewNutritionService(pipeline, logger),
		Library:    service.NewLibraryService(db.Exercises(), db.Foods(), invalidator, logger),
		Sweeper:    sweeper.New(db.Memberships(), db.Plans(), invalidator, 0, logger, nil),
		Signer:     signer,
	})
	return &testServer{db: db, router: router}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(UserHeader, "trainer")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// seedMembership creates an enabled client and a membership that started two weeks ago.
func (s *testServer) seedMembership(t *testing.T) (*domain.Client, string) {
	t.Helper()
	ctx := context.Background()
	client := &domain.Client{Name: "Ana Lopez", Enabled: true}
	_, err := s.db.Clients().Create(ctx, client)
	require.NoError(t, err)
	pkg := &domain.Package{Name: "Quarterly", Duration: 90 * 24 * 3600}
	_, err = s.db.Packages().Create(ctx, pkg)
	require.NoError(t, err)

	start := time.Now().UTC().AddDate(0, 0, -14)
	rec := s.do(t, http.MethodPost, "/api/v1/memberships", gin.H{
		"client_id":  client.ID.Hex(),
		"package_id": pkg.ID.Hex(),
		"start":      start,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return client, decode(t, rec)["id"].(string)
}

func (s *testServer) food(t *testing.T) primitive.ObjectID {
	t.Helper()
	id, err := s.db.Foods().Create(context.Background(), &domain.Food{
		Title: "Oats",
		Image: "foods/oats.jpg",
		NutritionalFacts: []domain.NutritionalFact{
			{Nutrient: "Energy", Value: 200, Unit: "kcal"},
			{Nutrient: "Protein", Value: 10, Unit: "g"},
		},
	})
	require.NoError(t, err)
	return id
}

func TestPing(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestGetMembership_AggregateWithSignedMedia(t *testing.T) {
	s := newTestServer(t, fakeSigner{})
	_, membershipID := s.seedMembership(t)
	exerciseID, err := s.db.Exercises().Create(context.Background(), &domain.Exercise{
		Name:      "Squat",
		Thumbnail: "exercises/squat.png",
		Video:     "https://cdn.test/squat.mp4",
	})
	require.NoError(t, err)
	foodID := s.food(t)

	rec := s.do(t, http.MethodPost, "/api/v1/plans", gin.H{
		"membership_id": membershipID,
		"config":        gin.H{"weekly_workouts": 3},
		"days": []gin.H{
			{
				"exercises": []gin.H{{"exerciseId": exerciseID.Hex(), "sets": 3, "reps": 10}},
				"foods":     []gin.H{{"foodId": foodID.Hex(), "meal": "breakfast", "amount": 150}},
			},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodGet, "/api/v1/membership/"+membershipID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		require.NotContains(t, body, "message", rec.Body.String())

		assert.Equal(t, true, body["membership"].(map[string]any)["active"])
		assert.Len(t, body["plans"], 1)

		refs := body["references"].(map[string]any)
		exercise := refs["exercises"].(map[string]any)[exerciseID.Hex()].(map[string]any)
		assert.Equal(t, "https://media.test/exercises/squat.png", exercise["thumbnail"])
		assert.Equal(t, "https://cdn.test/squat.mp4", exercise["video"])
		food := refs["foods"].(map[string]any)[foodID.Hex()].(map[string]any)
		assert.Equal(t, "https://media.test/foods/oats.jpg", food["image"])
	}
}

func TestGetMembership_FailuresAreMessages(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/membership/not-an-id", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Membership not found.", decode(t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/v1/membership/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Membership not found.", decode(t, rec)["message"])

	client, membershipID := s.seedMembership(t)
	rec = s.do(t, http.MethodPost, "/api/v1/clients/"+client.ID.Hex(), gin.H{"enabled": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/membership/"+membershipID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Client is disabled.", decode(t, rec)["message"])
}

func TestUpdateClient(t *testing.T) {
	s := newTestServer(t, nil)
	client, _ := s.seedMembership(t)
	path := "/api/v1/clients/" + client.ID.Hex()

	rec := s.do(t, http.MethodPost, path, gin.H{"weight": 71.5, "goal": "lose"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, err := s.db.Clients().GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, stored.Weight, 1)
	assert.Equal(t, 71.5, stored.Weight[0].Weight)
	assert.Equal(t, "lose", stored.Goal)
	assert.Equal(t, "trainer", stored.UpdatedBy)

	rec = s.do(t, http.MethodPost, path, gin.H{"goal": "gain", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	stored, err = s.db.Clients().GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "lose", stored.Goal)

	rec = s.do(t, http.MethodPost, path, gin.H{"exercise": primitive.NewObjectID().Hex() + ",50,8"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/clients/"+primitive.NewObjectID().Hex(), gin.H{"goal": "gain"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNutritionTotals(t *testing.T) {
	s := newTestServer(t, nil)
	foodID := s.food(t)

	table := `{"monday":[{"food":"` + foodID.Hex() + `","amount":150},{"food":"","amount":50}]}`
	for _, body := range []string{table, strings.TrimSpace(mustJSON(t, table))} {
		rec := s.do(t, http.MethodPost, "/api/v1/nutrition/totals", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		monday := decode(t, rec)["monday"].(map[string]any)
		assert.InDelta(t, 300.0, monday["energy"], 0.001)
		assert.InDelta(t, 15.0, monday["protein"], 0.001)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/nutrition/totals", "[1,2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func TestPlanLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	_, membershipID := s.seedMembership(t)

	rec := s.do(t, http.MethodPost, "/api/v1/plans", gin.H{"membership_id": membershipID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	planID := decode(t, rec)["id"].(string)

	rec = s.do(t, http.MethodPut, "/api/v1/plans/"+planID, gin.H{"config": gin.H{"weekly_workouts": 5}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(5), decode(t, rec)["config"].(map[string]any)["weekly_workouts"])

	rec = s.do(t, http.MethodDelete, "/api/v1/plans/"+planID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/v1/plans/"+planID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/plans", gin.H{"membership_id": primitive.NewObjectID().Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/plans", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLibraryEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/exercises", gin.H{"name": "Deadlift", "level": "beginner"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	exerciseID := decode(t, rec)["id"].(string)

	rec = s.do(t, http.MethodPut, "/api/v1/exercises/"+exerciseID, gin.H{"name": "Romanian Deadlift"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodGet, "/api/v1/exercises/"+exerciseID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Romanian Deadlift", decode(t, rec)["name"])

	rec = s.do(t, http.MethodPut, "/api/v1/exercises/"+exerciseID, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPut, "/api/v1/foods/"+primitive.NewObjectID().Hex(), gin.H{"title": "Rice"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/foods", gin.H{"title": "Rice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	foodID := decode(t, rec)["id"].(string)
	rec = s.do(t, http.MethodGet, "/api/v1/foods/"+foodID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMediaUploadURL(t *testing.T) {
	body := gin.H{"kind": "food", "file_name": "Oats.JPG", "content_type": "image/jpeg"}

	rec := newTestServer(t, nil).do(t, http.MethodPost, "/api/v1/media/upload-url", body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s := newTestServer(t, fakeSigner{})
	rec = s.do(t, http.MethodPost, "/api/v1/media/upload-url", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	key := out["objectKey"].(string)
	assert.True(t, strings.HasPrefix(key, "food/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, "https://upload.test/"+key, out["uploadUrl"])

	rec = s.do(t, http.MethodPost, "/api/v1/media/upload-url", gin.H{"kind": "video", "file_name": "a.mp4", "content_type": "video/mp4"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = newTestServer(t, fakeSigner{fail: true}).do(t, http.MethodPost, "/api/v1/media/upload-url", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRunSweep(t *testing.T) {
	s := newTestServer(t, nil)
	end := time.Now().UTC().AddDate(0, 0, -1)
	start := end.AddDate(0, -1, 0)
	_, err := s.db.Memberships().Create(context.Background(), &domain.Membership{
		ClientID: primitive.NewObjectID(), Start: &start, End: &end, Active: true,
	})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/v1/sweep", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode(t, rec)
	assert.Equal(t, float64(1), report["checked"])
	assert.Equal(t, float64(1), report["expired"])
	assert.NotEmpty(t, report["run_id"])
}
