// seed genera un script SQL para poblar la tabla produtos a partir de un CSV.
//
// Uso: go run ./cmd/seed [--encoding latin1] [--sep ';'] [--out seed.sql] produtos.csv
// La primera línea del CSV es la cabecera con los nombres de columna de produtos
// (nome, marca, modelo, tipo_material, tamanho, peso, tensao_eletrica, quantidade, estoque_minimo).
// Por defecto escribe: internal/infrastructure/postgres/seed_produtos.sql
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	encoding := fs.String("encoding", "utf-8", "codificación del CSV: utf-8 | latin1")
	sep := fs.String("sep", ",", "separador de columnas")
	outPath := fs.String("out", "", "archivo de salida (por defecto internal/infrastructure/postgres/seed_produtos.sql)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("uso: seed [--encoding latin1] [--sep ';'] [--out seed.sql] produtos.csv")
	}
	if len([]rune(*sep)) != 1 {
		return fmt.Errorf("--sep debe ser un único carácter")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()

	in, err := decoderFor(*encoding, f)
	if err != nil {
		return err
	}
	products, err := readProducts(in, []rune(*sep)[0])
	if err != nil {
		return err
	}

	path := *outPath
	if path == "" {
		path = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seed_produtos.sql")
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crear archivo: %w", err)
	}
	if err := writeSQL(out, products, filepath.Base(fs.Arg(0))); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("cerrar archivo: %w", err)
	}
	fmt.Fprintf(stdout, "Generado %s: %d productos\n", path, len(products))
	return nil
}

// decoderFor envuelve r para convertir a UTF-8 las planillas exportadas en ISO-8859-1.
func decoderFor(encoding string, r io.Reader) (io.Reader, error) {
	switch encoding {
	case "utf-8", "utf8", "":
		return r, nil
	case "latin1", "iso-8859-1", "ISO-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("encoding no soportado: %q", encoding)
	}
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
