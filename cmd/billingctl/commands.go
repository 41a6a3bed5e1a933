package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/jwt"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

var version = "1.0.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "billingctl",
		Short:         "Tareas operativas de la API de facturación",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newGenerateCmd(), newTokenCmd())
	return root
}

// env carga configuración, logger y pool para los comandos que tocan la base.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{App: cfg.App.Name, Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("billingctl")
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()

			if err := postgres.RunMigrations(e.pool); err != nil {
				return err
			}
			v, dirty, err := postgres.MigrationVersion(e.pool)
			if err != nil {
				return err
			}
			e.log.Info().Uint("version", v).Bool("dirty", dirty).Msg("migraciones aplicadas")
			fmt.Fprintf(cmd.OutOrStdout(), "versión del esquema: %d\n", v)
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "generate-payments",
		Short: "Genera las cuotas mensuales del año para todas las empresas",
		Example: `  billingctl generate-payments
  billingctl generate-payments --at 2025-01-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now, err := parseAt(at)
			if err != nil {
				return err
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()

			uc := payment.NewGeneratorUseCase(
				postgres.NewPaymentRepository(e.pool),
				postgres.NewCompanyRepository(e.pool),
				e.cfg.Billing.MonthlyFee, e.log, nil,
			)
			res, err := uc.GenerateForAllCompanies(cmd.Context(), now)
			fmt.Fprintf(cmd.OutOrStdout(), "año %d: %d empresas, %d creadas, %d omitidas\n",
				res.Year, res.Companies, res.Created, res.Skipped)
			return err
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Fecha de referencia (YYYY-MM-DD, default: hoy UTC)")
	return cmd
}

// parseAt interpreta --at; vacío es el instante actual en UTC.
func parseAt(at string) (time.Time, error) {
	if at == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(dto.DateLayout, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at debe tener formato YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func newTokenCmd() *cobra.Command {
	var (
		userID    int64
		companyID int64
		role      string
		minutes   int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT de prueba firmado con JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if companyID <= 0 {
				return fmt.Errorf("--company es obligatorio")
			}
			switch role {
			case entity.RoleRoot, entity.RoleAdmin, entity.RoleManager, entity.RoleEmployee:
			default:
				return fmt.Errorf("rol desconocido %q", role)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			exp := minutes
			if exp <= 0 {
				exp = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, companyID, role, cfg.JWT.Issuer, exp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "ID del usuario")
	cmd.Flags().Int64Var(&companyID, "company", 0, "ID de la empresa (tenant)")
	cmd.Flags().StringVar(&role, "role", entity.RoleAdmin, "root | admin | manager | employee")
	cmd.Flags().IntVar(&minutes, "exp", 0, "Minutos de validez (default: JWT_EXPIRATION)")
	return cmd
}
