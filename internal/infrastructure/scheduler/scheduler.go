// Package scheduler dispara la generación mensual de cuotas con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/pkg/clock"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// JobGeneratePayments nombre del trabajo en logs y métricas.
const JobGeneratePayments = "generate_payments"

// DefaultSchedule 01:00 UTC del día 1 de cada mes.
const DefaultSchedule = "0 1 1 * *"

// PaymentGenerator lo implementa payment.GeneratorUseCase.
type PaymentGenerator interface {
	GenerateForAllCompanies(ctx context.Context, now time.Time) (payment.GenerationResult, error)
}

// JobObserver lo implementa metrics.BillingMetrics.
type JobObserver interface {
	ObserveJob(job string, duration time.Duration, err error)
}

// Config del disparador.
type Config struct {
	Schedule     string
	RunOnStartup bool
	Timeout      time.Duration // límite de cada ejecución; 0 = 10 minutos
}

// Scheduler ejecuta la generación al arrancar (opcional) y según Schedule.
// Dos ejecuciones nunca se solapan dentro del proceso.
type Scheduler struct {
	cron     *cron.Cron
	gen      PaymentGenerator
	clock    clock.Clock
	log      *logger.Logger
	observer JobObserver
	cfg      Config
	running  sync.Mutex
	startup  sync.WaitGroup
	baseCtx  context.Context
	cancel   context.CancelFunc
}

// New valida la expresión cron y registra el trabajo. observer puede ser nil.
func New(gen PaymentGenerator, clk clock.Clock, log *logger.Logger, observer JobObserver, cfg Config) (*Scheduler, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		gen:      gen,
		clock:    clk,
		log:      log.Named("scheduler"),
		observer: observer,
		cfg:      cfg,
		baseCtx:  ctx,
		cancel:   cancel,
	}
	if _, err := s.cron.AddFunc(cfg.Schedule, func() { _, _ = s.RunGeneration(s.baseCtx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("expresión cron %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

// Start arranca el cron y, si corresponde, una ejecución inmediata en segundo plano.
func (s *Scheduler) Start() {
	if s.cfg.RunOnStartup {
		s.startup.Add(1)
		go func() {
			defer s.startup.Done()
			_, _ = s.RunGeneration(s.baseCtx)
		}()
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.cfg.Schedule).Bool("run_on_startup", s.cfg.RunOnStartup).Msg("planificador de cuotas iniciado")
}

// Stop detiene el cron, cancela la ejecución en curso y devuelve un contexto que se
// cierra cuando terminan los trabajos, incluida la ejecución inicial.
func (s *Scheduler) Stop() context.Context {
	cronDone := s.cron.Stop()
	s.cancel()
	ctx, done := context.WithCancel(context.Background())
	go func() {
		<-cronDone.Done()
		s.startup.Wait()
		done()
	}()
	return ctx
}

// RunGeneration ejecuta la generación con la fecha del reloj.
func (s *Scheduler) RunGeneration(ctx context.Context) (payment.GenerationResult, error) {
	s.running.Lock()
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	res, err := s.gen.GenerateForAllCompanies(ctx, s.clock.Now())
	if s.observer != nil {
		s.observer.ObserveJob(JobGeneratePayments, time.Since(start), err)
	}
	if err != nil {
		s.log.Error().Err(err).Str("job", JobGeneratePayments).Msg("generación de cuotas con errores")
		return res, err
	}
	s.log.Info().Str("job", JobGeneratePayments).Int("year", res.Year).Int("created", res.Created).Msg("generación de cuotas terminada")
	return res, nil
}
