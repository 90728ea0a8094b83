package model

// Роли пользователей и скоупы сервисных клиентов.
// Значения попадают в клейм authorities как есть.
const (
	RoleAdmin   = "ADMIN"
	RoleUser    = "USER"
	RoleService = "SERVICE"
)

const (
	ScopeRead     = "READ"
	ScopeWrite    = "WRITE"
	ScopeTransfer = "TRANSFER"
)

var knownScopes = map[string]struct{}{
	ScopeRead:     {},
	ScopeWrite:    {},
	ScopeTransfer: {},
}

// IsKnownScope проверяет, что скоуп входит в список поддерживаемых
func IsKnownScope(scope string) bool {
	_, ok := knownScopes[scope]
	return ok
}
