package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Ferramentas-api/internal/application/auth"
	"github.com/jhoicas/Ferramentas-api/internal/application/dto"
	"github.com/jhoicas/Ferramentas-api/internal/application/inventory"
	"github.com/jhoicas/Ferramentas-api/internal/application/report"
	"github.com/jhoicas/Ferramentas-api/internal/application/usecase"
	"github.com/jhoicas/Ferramentas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ferramentas-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Ferramentas-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type failingChecker struct{}

func (failingChecker) Ping(context.Context) error { return errors.New("connection refused") }

// buildApp monta la API completa sobre un store en memoria.
func buildApp(t *testing.T, jwtSecret string, health apphttp.HealthChecker) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	if health == nil {
		health = store
	}
	productUC := usecase.NewProductUseCase(memory.NewProductRepository(store))
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger())
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:        productUC,
		RegisterMovement: inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), memory.NewMovementRepository(store), nil),
		AuthUC: auth.NewAuthUseCase(memory.NewUserRepository(store), auth.JWTConfig{
			Secret: jwtSecret, ExpMinutes: 5, Issuer: "test",
		}).WithBcryptCost(bcrypt.MinCost),
		ReportUC:  report.NewReportUseCase(productUC, pdf.NewMarotoPDFGenerator()),
		Health:    health,
		JWTSecret: jwtSecret,
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createUser(t *testing.T, app *fiber.App, email string) dto.UserResponse {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/usuarios", map[string]any{"nome": "Rita", "email": email, "senha": "segredo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.UserResponse](t, resp)
}

func createProduct(t *testing.T, app *fiber.App, name string, qty, min int) dto.ProductResponse {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/produtos", map[string]any{
		"nome": name, "marca": "Vonder", "modelo": "X", "quantidade": qty, "estoque_minimo": min,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_OK(t *testing.T) {
	resp := do(t, buildApp(t, "", nil), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[dto.HealthResponse](t, resp).Status)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
}

func TestHealth_StoreCaido_Retorna500(t *testing.T) {
	resp := do(t, buildApp(t, "", failingChecker{}), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Error, "connection refused")
}

func TestRequestID_SePropaga(t *testing.T) {
	const id = "0b8e7c52-4f44-4a47-9f3f-2b1f6b0f7a11"
	resp := do(t, buildApp(t, "", nil), http.MethodGet, "/health", nil, apphttp.HeaderRequestID, id)
	assert.Equal(t, id, resp.Header.Get(apphttp.HeaderRequestID))

	resp = do(t, buildApp(t, "", nil), http.MethodGet, "/health", nil, apphttp.HeaderRequestID, "not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(apphttp.HeaderRequestID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y login
// ──────────────────────────────────────────────────────────────────────────────

func TestUsuarios_RegistroYLogin(t *testing.T) {
	app := buildApp(t, "", nil)
	user := createUser(t, app, "rita@example.com")
	assert.Equal(t, "rita@example.com", user.Email)

	resp := do(t, app, http.MethodPost, "/usuarios", map[string]any{"nome": "Rita", "email": "rita@example.com", "senha": "x"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "E-mail já cadastrado", decode[dto.ErrorResponse](t, resp).Error)

	resp = do(t, app, http.MethodPost, "/usuarios", map[string]any{"email": "b@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Campos obrigatórios: nome, senha", decode[dto.ErrorResponse](t, resp).Error)

	resp = do(t, app, http.MethodPost, "/auth/login", map[string]any{"email": "rita@example.com", "senha": "segredo"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[map[string]any](t, resp)
	assert.Equal(t, float64(user.ID), login["id"])
	assert.NotContains(t, login, "token")
	assert.NotContains(t, login, "senha")

	resp = do(t, app, http.MethodPost, "/auth/login", map[string]any{"email": "rita@example.com", "senha": "errada"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Credenciais inválidas", decode[dto.ErrorResponse](t, resp).Error)

	resp = do(t, app, http.MethodPost, "/auth/login", map[string]any{"email": "rita@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Informe email e senha", decode[dto.ErrorResponse](t, resp).Error)
}

func TestLogin_TokenIdentificaUsuarioEnMovimientos(t *testing.T) {
	app := buildApp(t, "segredo-jwt", nil)
	user := createUser(t, app, "tok@example.com")
	product := createProduct(t, app, "Nível", 1, 0)

	resp := do(t, app, http.MethodPost, "/auth/login", map[string]any{"email": "tok@example.com", "senha": "segredo"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	resp = do(t, app, http.MethodPost, "/movimentacoes",
		map[string]any{"produto_id": product.ID, "tipo": "entrada", "quantidade": 2},
		"Authorization", "Bearer "+login.Token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.RecordMovementResponse](t, resp)
	assert.Equal(t, user.ID, out.Movement.UserID)
}

func TestLogin_TokenVencidoNoBloqueaLogin(t *testing.T) {
	app := buildApp(t, "segredo-jwt", nil)
	stale := []string{"Authorization", "Bearer expired.or.garbage"}

	resp := do(t, app, http.MethodPost, "/usuarios",
		map[string]any{"nome": "Rita", "email": "venc@example.com", "senha": "segredo"}, stale...)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/auth/login",
		map[string]any{"email": "venc@example.com", "senha": "segredo"}, stale...)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[dto.LoginResponse](t, resp).Token)

	// Las demás rutas siguen rechazando el token inválido.
	resp = do(t, app, http.MethodGet, "/produtos", nil, stale...)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsuarios_SenhaLarga_Retorna400(t *testing.T) {
	app := buildApp(t, "", nil)
	resp := do(t, app, http.MethodPost, "/usuarios",
		map[string]any{"nome": "Rita", "email": "longa@example.com", "senha": strings.Repeat("x", 80)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "senha deve ter no máximo 72 caracteres", body.Error)
}

// ──────────────────────────────────────────────────────────────────────────────
// Produtos
// ──────────────────────────────────────────────────────────────────────────────

func TestProdutos_CRUD(t *testing.T) {
	app := buildApp(t, "", nil)
	p := createProduct(t, app, "Chave inglesa", 3, 5)
	assert.True(t, p.BelowMinimum)

	resp := do(t, app, http.MethodGet, "/produtos/"+itoa(p.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, p, decode[dto.ProductResponse](t, resp))

	resp = do(t, app, http.MethodPut, "/produtos/"+itoa(p.ID), map[string]any{"quantidade": 5, "tensao_eletrica": "127V"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, "127V", updated.Voltage)
	assert.Equal(t, "Chave inglesa", updated.Name)
	assert.False(t, updated.BelowMinimum)

	resp = do(t, app, http.MethodDelete, "/produtos/"+itoa(p.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Produto deletado com sucesso", decode[dto.MessageResponse](t, resp).Message)

	resp = do(t, app, http.MethodGet, "/produtos/"+itoa(p.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "Produto não encontrado", body.Error)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestProdutos_Errores(t *testing.T) {
	app := buildApp(t, "", nil)

	resp := do(t, app, http.MethodPost, "/produtos", map[string]any{"nome": "Sem marca"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Campos obrigatórios: marca, modelo", decode[dto.ErrorResponse](t, resp).Error)

	resp = do(t, app, http.MethodGet, "/produtos/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodPut, "/produtos/42", map[string]any{"quantidade": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, app, http.MethodDelete, "/produtos/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/produtos", bytes.NewBufferString("{nome:"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)

	resp = do(t, app, http.MethodGet, "/nao-existe", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestProdutos_BusquedaYAbaixoDoMinimo(t *testing.T) {
	app := buildApp(t, "", nil)
	createProduct(t, app, "Furadeira de impacto", 1, 2)
	createProduct(t, app, "alicate", 10, 2)
	createProduct(t, app, "FURADEIRA", 2, 2)

	resp := do(t, app, http.MethodGet, "/produtos", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decode[[]dto.ProductResponse](t, resp)
	require.Len(t, all, 3)
	assert.Equal(t, "alicate", all[0].Name)
	assert.Equal(t, "FURADEIRA", all[1].Name)

	resp = do(t, app, http.MethodGet, "/produtos?q=furadeira", nil)
	hits := decode[[]dto.ProductResponse](t, resp)
	require.Len(t, hits, 2)

	resp = do(t, app, http.MethodGet, "/produtos?q=martelo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))

	resp = do(t, app, http.MethodGet, "/produtos/abaixo-do-minimo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	low := decode[[]dto.ProductResponse](t, resp)
	require.Len(t, low, 1)
	assert.Equal(t, "Furadeira de impacto", low[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimentações
// ──────────────────────────────────────────────────────────────────────────────

func TestMovimentacoes_EntradaYSalida(t *testing.T) {
	app := buildApp(t, "", nil)
	user := createUser(t, app, "op@example.com")
	p := createProduct(t, app, "Esmerilhadeira", 2, 5)

	resp := do(t, app, http.MethodPost, "/movimentacoes", map[string]any{
		"produto_id": p.ID, "usuario_id": user.ID, "tipo": "entrada", "quantidade": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.RecordMovementResponse](t, resp)
	assert.Equal(t, 12, out.Product.Quantity)
	assert.False(t, out.Product.BelowMinimum)
	assert.Equal(t, "entrada", out.Movement.Type)
	assert.Equal(t, 10, out.Movement.Quantity)

	resp = do(t, app, http.MethodPost, "/movimentacoes", map[string]any{
		"produto_id": p.ID, "usuario_id": user.ID, "tipo": "saida", "quantidade": 4,
		"data_movimentacao": "2024-02-01T08:00", "observacao": "obra",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out = decode[dto.RecordMovementResponse](t, resp)
	assert.Equal(t, 8, out.Product.Quantity)
	assert.False(t, out.Product.BelowMinimum)

	resp = do(t, app, http.MethodGet, "/movimentacoes?produto_id="+itoa(p.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]dto.MovementHistoryItem](t, resp)
	require.Len(t, history, 2)
	// la entrada se registró con NOW(): es la más reciente
	assert.Equal(t, "entrada", history[0].Type)
	assert.Equal(t, "Esmerilhadeira", history[0].ProductName)
	assert.Equal(t, "Rita", history[0].UserName)
	assert.Equal(t, "obra", history[1].Note)

	resp = do(t, app, http.MethodDelete, "/produtos/"+itoa(p.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)
}

func TestMovimentacoes_Errores(t *testing.T) {
	app := buildApp(t, "", nil)
	user := createUser(t, app, "err@example.com")
	p := createProduct(t, app, "Trena", 4, 0)

	resp := do(t, app, http.MethodPost, "/movimentacoes", map[string]any{"produto_id": p.ID, "tipo": "entrada"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Campos obrigatórios: produto_id, usuario_id, tipo, quantidade", decode[dto.ErrorResponse](t, resp).Error)

	resp = do(t, app, http.MethodPost, "/movimentacoes", map[string]any{
		"produto_id": p.ID, "usuario_id": user.ID, "tipo": "transferencia", "quantidade": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "tipo deve ser 'entrada' ou 'saida'", decode[dto.ErrorResponse](t, resp).Error)

	resp = do(t, app, http.MethodPost, "/movimentacoes", map[string]any{
		"produto_id": 999, "usuario_id": user.ID, "tipo": "entrada", "quantidade": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Produto não encontrado", decode[dto.ErrorResponse](t, resp).Error)

	resp = do(t, app, http.MethodPost, "/movimentacoes", map[string]any{
		"produto_id": p.ID, "usuario_id": 999, "tipo": "entrada", "quantidade": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Usuário não encontrado", decode[dto.ErrorResponse](t, resp).Error)

	resp = do(t, app, http.MethodGet, "/produtos/"+itoa(p.ID), nil)
	assert.Equal(t, 4, decode[dto.ProductResponse](t, resp).Quantity)

	resp = do(t, app, http.MethodGet, "/movimentacoes", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.MovementHistoryItem](t, resp))

	resp = do(t, app, http.MethodGet, "/movimentacoes?produto_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Relatórios
// ──────────────────────────────────────────────────────────────────────────────

func TestRelatorios_EstoqueBaixoPDF(t *testing.T) {
	app := buildApp(t, "", nil)
	createProduct(t, app, "Broca 8mm", 1, 10)

	resp := do(t, app, http.MethodGet, "/relatorios/estoque-baixo.pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "estoque-baixo_")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestMovimentacoes_QuantidadeFueraDeRango_Retorna400(t *testing.T) {
	app := buildApp(t, "", nil)
	user := createUser(t, app, "rango@example.com")
	p := createProduct(t, app, "Trena", 2, 0)

	resp := do(t, app, http.MethodPost, "/movimentacoes", map[string]any{
		"produto_id": p.ID, "usuario_id": user.ID, "tipo": "entrada", "quantidade": int64(9223372036854775807),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, http.MethodGet, "/produtos/"+itoa(p.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.ProductResponse](t, resp).Quantity)

	resp = do(t, app, http.MethodPost, "/produtos", map[string]any{
		"nome": "Trena", "marca": "Vonder", "modelo": "X", "quantidade": int64(2147483648),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "quantidade deve ser no máximo 2147483647", decode[dto.ErrorResponse](t, resp).Error)
}
