package billing

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestsRequireTitle(t *testing.T) {
	customerID := uuid.New()

	t.Run("quote", func(t *testing.T) {
		body := fmt.Sprintf(`{"customer_id": %q, "title": "Deck repair"}`, customerID)
		var req CreateQuoteRequest
		require.NoError(t, binding.JSON.BindBody([]byte(body), &req))
		assert.Equal(t, "Deck repair", req.Title)

		body = fmt.Sprintf(`{"customer_id": %q}`, customerID)
		req = CreateQuoteRequest{}
		assert.Error(t, binding.JSON.BindBody([]byte(body), &req))
	})

	t.Run("invoice", func(t *testing.T) {
		body := fmt.Sprintf(`{"customer_id": %q, "title": "Fence build"}`, customerID)
		var req CreateInvoiceRequest
		require.NoError(t, binding.JSON.BindBody([]byte(body), &req))

		body = fmt.Sprintf(`{"customer_id": %q, "title": ""}`, customerID)
		req = CreateInvoiceRequest{}
		assert.Error(t, binding.JSON.BindBody([]byte(body), &req))
	})
}
