package dto

// CreateProductRequest entrada para crear un producto (POST /produtos).
type CreateProductRequest struct {
	Name         string `json:"nome" validate:"required,max=200"`
	Brand        string `json:"marca" validate:"required,max=120"`
	Model        string `json:"modelo" validate:"required,max=120"`
	MaterialType string `json:"tipo_material" validate:"max=120"`
	Size         string `json:"tamanho" validate:"max=60"`
	Weight       string `json:"peso" validate:"max=60"`
	Voltage      string `json:"tensao_eletrica" validate:"max=60"`
	Quantity     int    `json:"quantidade" validate:"min=0,max=2147483647"`
	MinQuantity  int    `json:"estoque_minimo" validate:"min=0,max=2147483647"`
}

// UpdateProductRequest entrada para actualizar un producto (PUT /produtos/:id).
// Campos nil conservan el valor actual.
type UpdateProductRequest struct {
	Name         *string `json:"nome" validate:"omitempty,max=200"`
	Brand        *string `json:"marca" validate:"omitempty,max=120"`
	Model        *string `json:"modelo" validate:"omitempty,max=120"`
	MaterialType *string `json:"tipo_material" validate:"omitempty,max=120"`
	Size         *string `json:"tamanho" validate:"omitempty,max=60"`
	Weight       *string `json:"peso" validate:"omitempty,max=60"`
	Voltage      *string `json:"tensao_eletrica" validate:"omitempty,max=60"`
	Quantity     *int    `json:"quantidade" validate:"omitempty,min=0,max=2147483647"`
	MinQuantity  *int    `json:"estoque_minimo" validate:"omitempty,min=0,max=2147483647"`
}

// ProductResponse salida de un producto con el indicador derivado abaixo_do_minimo.
type ProductResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"nome"`
	Brand        string `json:"marca"`
	Model        string `json:"modelo"`
	MaterialType string `json:"tipo_material"`
	Size         string `json:"tamanho"`
	Weight       string `json:"peso"`
	Voltage      string `json:"tensao_eletrica"`
	Quantity     int    `json:"quantidade"`
	MinQuantity  int    `json:"estoque_minimo"`
	BelowMinimum bool   `json:"abaixo_do_minimo"`
}
