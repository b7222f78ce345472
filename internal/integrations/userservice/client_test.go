package userservice

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

func TestClient_DefaultVehicle(t *testing.T) {
	userID := uuid.New()
	withoutCar := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/users/" + userID.String() + "/cars/selected":
			_ = json.NewEncoder(w).Encode(Vehicle{
				ID:           1,
				UserID:       userID,
				Brand:        "Toyota",
				Model:        "Corolla",
				LicensePlate: "A123BC",
				IsSelected:   true,
			})
		case "/internal/users/" + withoutCar.String() + "/cars/selected":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.NewNop())

	t.Run("saved vehicle", func(t *testing.T) {
		info, err := client.DefaultVehicle(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "Toyota", info.Make)
		assert.Equal(t, "Corolla", info.Model)
		require.NotNil(t, info.LicensePlate)
		assert.Equal(t, "A123BC", *info.LicensePlate)
		assert.Nil(t, info.Color)
	})

	t.Run("no vehicle", func(t *testing.T) {
		_, err := client.DefaultVehicle(context.Background(), withoutCar)
		assert.ErrorIs(t, err, ErrVehicleNotFound)
	})

	t.Run("service degraded", func(t *testing.T) {
		_, err := client.DefaultVehicle(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrServiceDegraded)
	})
}
