package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("Recurso não encontrado")
	ErrProductNotFound    = errors.New("Produto não encontrado")
	ErrUserNotFound       = errors.New("Usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("E-mail já cadastrado")
	ErrInvalidInput       = errors.New("Entrada inválida")
	ErrUnauthorized       = errors.New("Credenciais inválidas")
	ErrConflict           = errors.New("Conflito com o estado atual")
	ErrProductInUse       = errors.New("Produto possui movimentações registradas")

	// ErrQuantityOutOfRange la cantidad resultante no cabe en la columna quantidade.
	ErrQuantityOutOfRange error = &ValidationError{Message: "quantidade fora do intervalo permitido"}
)

// ValidationError describe un error de entrada con el mensaje que ve el cliente.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Message string
	Missing []string // campos obligatorios ausentes (nombres JSON)
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}
