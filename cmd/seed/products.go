package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jhoicas/Ferramentas-api/internal/domain/entity"
)

var requiredColumns = []string{"nome", "marca", "modelo"}

// readProducts lee el CSV con cabecera. Las columnas desconocidas se ignoran.
func readProducts(r io.Reader, sep rune) ([]entity.Product, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("CSV vacío")
		}
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		idx[h] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q en la cabecera", col)
		}
	}

	var products []entity.Product
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if isBlank(rec) {
			continue
		}
		p := entity.Product{
			Name:         get("nome"),
			Brand:        get("marca"),
			Model:        get("modelo"),
			MaterialType: get("tipo_material"),
			Size:         get("tamanho"),
			Weight:       get("peso"),
			Voltage:      get("tensao_eletrica"),
		}
		if p.Name == "" || p.Brand == "" || p.Model == "" {
			return nil, fmt.Errorf("línea %d: nome, marca y modelo son obligatorios", line)
		}
		if p.Quantity, err = parseCount(get("quantidade")); err != nil {
			return nil, fmt.Errorf("línea %d: quantidade: %w", line, err)
		}
		if p.MinQuantity, err = parseCount(get("estoque_minimo")); err != nil {
			return nil, fmt.Errorf("línea %d: estoque_minimo: %w", line, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("valor no numérico %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("valor negativo %d", n)
	}
	return n, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// writeSQL escribe un INSERT por producto dentro de una transacción.
func writeSQL(w io.Writer, products []entity.Product, source string) error {
	var b strings.Builder
	b.WriteString("-- Carga inicial de produtos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)
	b.WriteString("BEGIN;\n\n")
	for _, p := range products {
		b.WriteString("INSERT INTO produtos (nome, marca, modelo, tipo_material, tamanho, peso, tensao_eletrica, quantidade, estoque_minimo)\n")
		fmt.Fprintf(&b, "VALUES (%s, %s, %s, %s, %s, %s, %s, %d, %d);\n",
			quote(p.Name), quote(p.Brand), quote(p.Model),
			quoteOrNull(p.MaterialType), quoteOrNull(p.Size), quoteOrNull(p.Weight), quoteOrNull(p.Voltage),
			p.Quantity, p.MinQuantity)
	}
	b.WriteString("\nCOMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}
