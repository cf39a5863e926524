package usecase

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/Ferramentas-api/internal/application/dto"
	"github.com/jhoicas/Ferramentas-api/internal/application/validation"
	"github.com/jhoicas/Ferramentas-api/internal/domain"
	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
	"github.com/jhoicas/Ferramentas-api/internal/domain/repository"
)

// catalogLanguage idioma del catálogo para ordenar nombres (acentos y mayúsculas).
var catalogLanguage = language.BrazilianPortuguese

// ProductUseCase casos de uso CRUD para productos. La cantidad también cambia vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// List devuelve los productos cuyo nombre contiene query (sin distinguir mayúsculas),
// o todos si query está vacío, ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{NameContains: strings.TrimSpace(query)})
	if err != nil {
		return nil, err
	}
	SortByName(list)
	return dto.FromProducts(list), nil
}

// ListBelowMinimum devuelve los productos con quantidade < estoque_minimo, ordenados por nombre.
func (uc *ProductUseCase) ListBelowMinimum(ctx context.Context) ([]*entity.Product, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{BelowMinimum: true})
	if err != nil {
		return nil, err
	}
	SortByName(list)
	return list, nil
}

// SortByName ordena por nombre según la colación pt-BR ignorando mayúsculas; empates por ID.
// El Collator no es seguro para uso concurrente, por eso se crea uno por llamada.
func SortByName(list []*entity.Product) {
	c := collate.New(catalogLanguage, collate.IgnoreCase)
	sort.SliceStable(list, func(i, j int) bool {
		if cmp := c.CompareString(list[i].Name, list[j].Name); cmp != 0 {
			return cmp < 0
		}
		return list[i].ID < list[j].ID
	})
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	out := dto.FromProduct(product)
	return &out, nil
}

// Create crea un producto. nome, marca y modelo son obligatorios.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	product := &entity.Product{
		Name:         in.Name,
		Brand:        in.Brand,
		Model:        in.Model,
		MaterialType: strings.TrimSpace(in.MaterialType),
		Size:         strings.TrimSpace(in.Size),
		Weight:       strings.TrimSpace(in.Weight),
		Voltage:      strings.TrimSpace(in.Voltage),
		Quantity:     in.Quantity,
		MinQuantity:  in.MinQuantity,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	out := dto.FromProduct(product)
	return &out, nil
}

// Update aplica cambios parciales en una sola sentencia (no pisa movimientos concurrentes).
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var empty []string
	for _, f := range []struct {
		name  string
		value *string
	}{{"nome", in.Name}, {"marca", in.Brand}, {"modelo", in.Model}} {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			empty = append(empty, f.name)
		}
	}
	if len(empty) > 0 {
		return nil, domain.Invalid("Campos não podem ficar vazios: " + strings.Join(empty, ", "))
	}
	product, err := uc.repo.Update(ctx, id, repository.ProductUpdate{
		Name:         in.Name,
		Brand:        in.Brand,
		Model:        in.Model,
		MaterialType: trimPtr(in.MaterialType),
		Size:         trimPtr(in.Size),
		Weight:       trimPtr(in.Weight),
		Voltage:      trimPtr(in.Voltage),
		Quantity:     in.Quantity,
		MinQuantity:  in.MinQuantity,
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	out := dto.FromProduct(product)
	return &out, nil
}

// Delete elimina un producto. Con movimientos registrados devuelve ErrProductInUse.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	found, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrProductNotFound
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
