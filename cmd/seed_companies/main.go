// seed_companies da de alta empresas (tenants) desde un CSV exportado de la hoja comercial.
//
// Uso: go run ./cmd/seed_companies [ruta/empresas.csv]
// Por defecto busca empresas.csv en el directorio actual.
// Columnas: title,phone,website,platform_owner (con cabecera). Acepta UTF-8 o ISO-8859-1.
// Las empresas que ya existen (mismo título) se omiten.
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
)

func main() {
	csvPath := "empresas.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	companies, err := parseCompanies(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	created, skipped, err := seed(ctx, postgres.NewCompanyRepository(pool), companies)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Alta de empresas: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Empresas: %d creadas, %d omitidas\n", created, skipped)
}

// parseCompanies decodifica el CSV. Si no es UTF-8 válido se interpreta como ISO-8859-1.
func parseCompanies(raw []byte) ([]*entity.Company, error) {
	var in io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		in = transform.NewReader(in, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	var out []*entity.Company
	owners := 0
	for i, rec := range records[1:] {
		title := strings.TrimSpace(field(rec, 0))
		if title == "" {
			continue
		}
		owner := false
		if v := strings.TrimSpace(field(rec, 3)); v != "" {
			owner, err = strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("fila %d: platform_owner %q: %w", i+2, v, domain.ErrInvalidInput)
			}
		}
		if owner {
			owners++
		}
		out = append(out, &entity.Company{
			Title:           title,
			Phone:           strings.TrimSpace(field(rec, 1)),
			Website:         strings.TrimSpace(field(rec, 2)),
			Status:          entity.CompanyStatusActive,
			IsPlatformOwner: owner,
		})
	}
	if owners > 1 {
		return nil, fmt.Errorf("%d empresas marcadas como dueñas de la plataforma: %w", owners, domain.ErrInvalidInput)
	}
	return out, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// seed crea las empresas que no existan. Un duplicado concurrente cuenta como omitido.
// Una dueña de la plataforma nueva cuando ya hay otra es un error, no una omisión.
func seed(ctx context.Context, repo repository.CompanyRepository, companies []*entity.Company) (created, skipped int, err error) {
	owner, err := currentOwner(ctx, repo)
	if err != nil {
		return 0, 0, err
	}
	for _, c := range companies {
		existing, err := repo.GetByTitle(ctx, c.Title)
		if err != nil {
			return created, skipped, err
		}
		if existing != nil {
			skipped++
			continue
		}
		if c.IsPlatformOwner && owner != nil {
			return created, skipped, fmt.Errorf("%q no puede ser dueña de la plataforma, ya lo es %q: %w", c.Title, owner.Title, domain.ErrConflict)
		}
		if err := repo.Create(ctx, c); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				skipped++
				continue
			}
			return created, skipped, err
		}
		if c.IsPlatformOwner {
			owner = c
		}
		created++
	}
	return created, skipped, nil
}

func currentOwner(ctx context.Context, repo repository.CompanyRepository) (*entity.Company, error) {
	all, err := repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.IsPlatformOwner {
			return c, nil
		}
	}
	return nil, nil
}
