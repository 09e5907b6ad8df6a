package entity

import "time"

// User identidad de quien opera el almacén. Los permisos son nombres de
// capacidad libres ("receivings.complete", "requests.supply", ...) y la
// autorización es pertenencia simple al conjunto.
type User struct {
	ID          string
	Name        string
	Email       string
	Password    string // hash bcrypt
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPermission verifica pertenencia de la capacidad al conjunto del usuario.
func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
