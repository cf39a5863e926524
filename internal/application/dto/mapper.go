package dto

import "github.com/jhoicas/Ferramentas-api/internal/domain/entity"

// FromProduct convierte la entidad en respuesta, calculando abaixo_do_minimo.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Brand:        p.Brand,
		Model:        p.Model,
		MaterialType: p.MaterialType,
		Size:         p.Size,
		Weight:       p.Weight,
		Voltage:      p.Voltage,
		Quantity:     p.Quantity,
		MinQuantity:  p.MinQuantity,
		BelowMinimum: p.BelowMinimum(),
	}
}

// FromProducts convierte una lista; nunca devuelve nil.
func FromProducts(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromProduct(p))
	}
	return out
}

// FromMovement convierte un movimiento en respuesta.
func FromMovement(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Date:      m.Date,
		Note:      m.Note,
	}
}

// FromUser convierte un usuario en respuesta (sin credencial).
func FromUser(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
