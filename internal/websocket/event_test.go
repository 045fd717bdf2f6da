package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "a3c1",
		"title":  "Groceries",
		"amount": "40.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
	after := time.Now()

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTypeTransaction, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := NewEvent(EventTypeUpdated, EntityTypeBudget, map[string]interface{}{
		"amount": "200.00",
	})

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "budget.updated", decoded["type"])
	assert.Equal(t, "budget", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestTransactionEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "a3c1",
		"title":  "Groceries",
		"amount": "40.00",
	}

	t.Run("TransactionCreated", func(t *testing.T) {
		evt := TransactionCreated(payload)
		assert.Equal(t, "transaction.created", evt.Type)
		assert.Equal(t, EntityTypeTransaction, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("TransactionUpdated", func(t *testing.T) {
		evt := TransactionUpdated(payload)
		assert.Equal(t, "transaction.updated", evt.Type)
		assert.Equal(t, EntityTypeTransaction, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("TransactionDeleted", func(t *testing.T) {
		evt := TransactionDeleted(payload)
		assert.Equal(t, "transaction.deleted", evt.Type)
		assert.Equal(t, EntityTypeTransaction, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("TransactionRestored", func(t *testing.T) {
		evt := TransactionRestored(payload)
		assert.Equal(t, "transaction.restored", evt.Type)
		assert.Equal(t, EntityTypeTransaction, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}

func TestBudgetAlert(t *testing.T) {
	evt := BudgetAlert(BudgetAlertPayload{
		Threshold:      90,
		CurrentPercent: 95,
		Severity:       "normal",
	})

	assert.Equal(t, "budget.alert", evt.Type)
	assert.Equal(t, EntityTypeBudget, evt.Entity)

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(90), payload["threshold"])
	assert.Equal(t, float64(95), payload["currentPercent"])
	assert.Equal(t, "normal", payload["severity"])
}

func TestSettingsUpdated(t *testing.T) {
	evt := SettingsUpdated(map[string]interface{}{"currency": "EUR"})
	assert.Equal(t, "settings.updated", evt.Type)
	assert.Equal(t, EntityTypeSettings, evt.Entity)
}
