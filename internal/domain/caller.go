package domain

import "github.com/google/uuid"

// Role роль вызывающего пользователя
type Role string

const (
	RoleCustomer Role = "customer"
	RoleHubOwner Role = "hub_owner"
	RoleAdmin    Role = "admin"
)

// ParseRole проверяет строку роли
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleHubOwner, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Caller идентичность и роль вызывающего, приходящие от внешнего сервиса авторизации
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin true для администратора
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
