package hubservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PickupService/pkg/logger"
)

func TestClient_GetHub(t *testing.T) {
	hub := Hub{ID: uuid.New(), Name: "North", Address: "1 Main St", OwnerID: uuid.New()}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/internal/hubs/"+hub.ID.String() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(hub)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.NewNop())

	got, err := client.GetHub(context.Background(), hub.ID)
	require.NoError(t, err)
	assert.Equal(t, hub, *got)

	_, err = client.GetHub(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrHubNotFound)
}

func TestClient_GetHub_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second, logger.NewNop())

	_, err := client.GetHub(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrInternal)
}
