package entity

// User representa un usuario del sistema. Solo participa como responsable de movimientos.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt; filas antiguas pueden traer la contraseña en claro
}
