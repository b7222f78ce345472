package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PickupService/internal/domain"
	"github.com/m04kA/SMC-PickupService/pkg/ptr"
)

// Client клиент для работы с UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetSelectedVehicle получает выбранный автомобиль пользователя
func (c *Client) GetSelectedVehicle(ctx context.Context, userID uuid.UUID) (*Vehicle, error) {
	url := fmt.Sprintf("%s/internal/users/%s/cars/selected", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid user ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrVehicleNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var vehicle Vehicle
	if err := json.NewDecoder(resp.Body).Decode(&vehicle); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &vehicle, nil
}

// DefaultVehicle возвращает сохранённый автомобиль пользователя в виде данных для слота.
// При недоступности UserService возвращает ErrServiceDegraded, бронирование решает само, что делать дальше.
func (c *Client) DefaultVehicle(ctx context.Context, userID uuid.UUID) (*domain.VehicleInfo, error) {
	c.log.Info("Fetching saved vehicle for user_id=%s", userID)

	vehicle, err := c.GetSelectedVehicle(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrVehicleNotFound) {
			c.log.Info("No saved vehicle for user_id=%s", userID)
			return nil, err
		}

		c.log.Error("UserService unavailable, applying graceful degradation for user_id=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: user_id=%s, error=%v", ErrServiceDegraded, userID, err)
	}

	info := &domain.VehicleInfo{
		Make:  vehicle.Brand,
		Model: vehicle.Model,
	}
	if vehicle.Color != "" {
		info.Color = ptr.Ptr(vehicle.Color)
	}
	if vehicle.LicensePlate != "" {
		info.LicensePlate = ptr.Ptr(vehicle.LicensePlate)
	}

	c.log.Info("Successfully fetched vehicle for user_id=%s: %s %s", userID, info.Make, info.Model)
	return info, nil
}
