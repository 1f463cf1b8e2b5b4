package misses

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleTop(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, "/a", KindNotFound))
	require.NoError(t, s.Record(ctx, "/b", KindInvalid))
	require.NoError(t, s.Record(ctx, "/b", KindInvalid))

	app := fiber.New()
	f := NewFeature(s, nil, zap.NewNop())
	assert.Equal(t, "misses", f.Name())
	require.True(t, f.IsEnabled())
	require.NoError(t, f.Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/misses?limit=1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Misses  []Miss `json:"misses"`
		Dropped uint64 `json:"dropped"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Misses, 1)
	assert.Equal(t, "/b", body.Misses[0].Path)
	assert.Equal(t, int64(2), body.Misses[0].Hits)
	assert.Zero(t, body.Dropped)
}

func TestHandleTop_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `misses`").WillReturnError(assert.AnError)

	app := fiber.New()
	NewHandler(NewStore(db), nil, zap.NewNop()).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/misses", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestFeature_DisabledWithoutStore(t *testing.T) {
	f := NewFeature(nil, nil, zap.NewNop())
	assert.False(t, f.IsEnabled())
}
