package hubservice

import "github.com/google/uuid"

// Hub точка самовывоза из справочника хабов
type Hub struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	OwnerID uuid.UUID `json:"owner_id"`
}
