package shop

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/logger"
)

type directoryStub struct{}

func (directoryStub) Lookup(_ context.Context, handle string) (*domain.RecipientIdentity, error) {
	switch domain.NormalizeHandle(handle) {
	case "validuser":
		return &domain.RecipientIdentity{ID: 42, DisplayName: "Valid User", Handle: "@validuser", AvatarURL: "https://example.com/a.jpg"}, nil
	case "broken":
		return nil, domain.WrapLookupFailed(errors.New("timeout"))
	default:
		return nil, domain.ErrRecipientNotFound
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(directoryStub{}, domain.DefaultCatalog(), logger.Nop()).RegisterRoutes(router)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestController_FindUser(t *testing.T) {
	router := newRouter()

	rec := get(router, "/api/user/@validuser")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":42,"first_name":"Valid User","username":"validuser","avatar":"https://example.com/a.jpg"}`, rec.Body.String())

	for _, path := range []string{"/api/user/ghost", "/api/user/broken"} {
		rec = get(router, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
	}
}

func TestController_Catalog(t *testing.T) {
	rec := get(newRouter(), "/api/catalog")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []ProductResponse `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 2)

	premium := body.Products[0]
	assert.Equal(t, domain.ProductPremium, premium.Product)
	assert.False(t, premium.FreeQuantity)
	assert.Equal(t, []PlanResponse{
		{Quantity: 1, UnitPriceMinor: 3_500_000},
		{Quantity: 3, UnitPriceMinor: 3_000_000},
		{Quantity: 12, UnitPriceMinor: 2_500_000},
	}, premium.Plans)

	stars := body.Products[1]
	assert.Equal(t, domain.ProductStars, stars.Product)
	assert.Equal(t, int64(50), stars.MinQuantity)
}
