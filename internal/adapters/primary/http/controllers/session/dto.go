package session

import (
	"bytes"
	"encoding/json"

	"github.com/YusufBro01/ymastar/internal/domain"
)

type SearchRequest struct {
	Handle string `json:"handle"`
}

// QuantityInput количество как его ввёл покупатель; принимает и "100", и 100
type QuantityInput string

func (q *QuantityInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuantityInput(s)
		return nil
	}
	*q = QuantityInput(data)
	return nil
}

type SubmitOrderRequest struct {
	Product       domain.Product       `json:"product"`
	Quantity      QuantityInput        `json:"quantity"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

type NavigateRequest struct {
	View domain.View `json:"view"`
}

type CancelOrderResponse struct {
	Cancelled bool `json:"cancelled"`
}
