package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusufBro01/ymastar/internal/domain"
	"github.com/YusufBro01/ymastar/internal/pkg/logger"
)

func TestWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		want       Response
	}{
		{
			name:       "input invalid",
			err:        domain.NewInputInvalid(domain.FieldQuantity, domain.CodeQuantityInvalid),
			wantStatus: http.StatusBadRequest,
			want:       Response{Error: "input_invalid", Field: "quantity", Code: "quantity_invalid"},
		},
		{
			name:       "validation wrapped",
			err:        fmt.Errorf("submit: %w", domain.NewValidationFailed(domain.FieldPaymentMethod, domain.CodePaymentMethodRequired)),
			wantStatus: http.StatusUnprocessableEntity,
			want:       Response{Error: "validation_failed", Field: "payment_method", Code: "payment_method_required"},
		},
		{
			name:       "not found sentinel",
			err:        domain.ErrRecipientNotFound,
			wantStatus: http.StatusNotFound,
			want:       Response{Error: "not_found"},
		},
		{
			name:       "lookup failed",
			err:        domain.WrapLookupFailed(errors.New("dial tcp")),
			wantStatus: http.StatusBadGateway,
			want:       Response{Error: "lookup_failed", Code: "lookup_failed"},
		},
		{
			name:       "expired",
			err:        domain.NewExpired(domain.ErrNoPendingOrder),
			wantStatus: http.StatusGone,
			want:       Response{Error: "expired", Code: "order_expired"},
		},
		{
			name:       "internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			want:       Response{Error: "internal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Write(ctx, logger.Nop(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
