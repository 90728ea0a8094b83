package model

type PrincipalKind string

const (
	PrincipalUser   PrincipalKind = "user"
	PrincipalClient PrincipalKind = "client"
)

// Principal : аутентифицированная сущность (пользователь или сервисный клиент).
// Выдача токенов работает с принципалом единообразно, не зная, кто за ним стоит.
type Principal struct {
	Kind        PrincipalKind
	UUID        string
	Identity    string
	Authorities []string
}
