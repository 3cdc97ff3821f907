// Command example runs a demo form server: a plain select, a multi-value
// select, and a heavy select answered by the shared query endpoint. Options
// come from a static list, or from Postgres when DATABASE_URL is set. Set
// REDIS_URL to share widget registrations across instances and SENTRY_DSN
// to forward warnings and errors to Sentry.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tomselect"
	"github.com/dmitrymomot/tomselect/autoview"
	"github.com/dmitrymomot/tomselect/registry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger(os.Getenv("SENTRY_DSN"))

	settings, err := tomselect.LoadSettings(getEnv("TOMSELECT_CONFIG", "tomselect.yaml"))
	if err != nil {
		log.Error("load settings", slog.Any("error", err))
		os.Exit(1)
	}

	store, err := newStore(ctx, os.Getenv("REDIS_URL"))
	if err != nil {
		log.Error("open spec store", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	reg := registry.New(store,
		registry.WithPrefix(settings.CachePrefix),
		registry.WithTTL(settings.CacheTTL.Std()),
	)

	var signer *tomselect.Signer
	if secret := os.Getenv("TOMSELECT_SECRET"); secret != "" {
		signer, err = tomselect.NewSigner(secret)
		if err != nil {
			log.Error("bad signing secret", slog.Any("error", err))
			os.Exit(1)
		}
	}

	view := autoview.New(reg,
		autoview.WithSigner(signer),
		autoview.WithLogger(log),
		autoview.WithSource("cities", autoview.NewStaticSource(
			tomselect.Result{ID: 1, Text: "Amsterdam"},
			tomselect.Result{ID: 2, Text: "Berlin"},
			tomselect.Result{ID: 3, Text: "Copenhagen"},
			tomselect.Result{ID: 4, Text: "Dublin"},
			tomselect.Result{ID: 5, Text: "Edinburgh"},
			tomselect.Result{ID: 6, Text: "Florence"},
			tomselect.Result{ID: 7, Text: "Geneva"},
			tomselect.Result{ID: 8, Text: "Hamburg"},
		)),
	)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			log.Error("open database", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()

		view.Sources().Register("customers", autoview.NewSQLSource(pool,
			`SELECT id, name FROM customers
			  WHERE name ILIKE '%' || $1 || '%'
			  ORDER BY name LIMIT $2`))
		log.Info("customers source enabled")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	view.Mount(r, "/tomselect")
	r.Get("/", formHandler(settings, reg, signer, log))

	srv := &http.Server{
		Addr:              getEnv("ADDRESS", ":8080"),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

// formHandler renders the demo form. Partial requests get only the form
// fragment plus the setup trigger header; full requests get the whole page
// with the widget assets.
func formHandler(settings tomselect.Settings, reg *registry.Registry, signer *tomselect.Signer, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		color := tomselect.New(tomselect.KindSelect,
			tomselect.WithName("color"),
			tomselect.WithAllowEmptyOption(),
			tomselect.WithChoices(
				tomselect.Choice{Value: "r", Label: "Red"},
				tomselect.Choice{Value: "g", Label: "Green"},
				tomselect.Choice{Value: "b", Label: "Blue"},
			),
		)

		tags := tomselect.New(tomselect.KindTag,
			tomselect.WithName("tags"),
			tomselect.WithCreate(),
		)

		city, err := tomselect.NewHeavy(tomselect.KindSelect,
			tomselect.WithName("city"),
			tomselect.WithSource("cities"),
			tomselect.WithSigner(signer),
		)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if tomselect.IsPartial(r) {
			tomselect.TriggerSetup(w)
			renderForm(ctx, w, reg, color, tags, city, log)
			return
		}

		fmt.Fprint(w, "<!DOCTYPE html><html><head><title>tomselect demo</title>")
		if err := settings.Media().Render(ctx, w); err != nil {
			log.ErrorContext(ctx, "render media", slog.Any("error", err))
		}
		fmt.Fprint(w, "</head><body><h1>tomselect demo</h1>")
		renderForm(ctx, w, reg, color, tags, city, log)
		fmt.Fprint(w, "</body></html>")
	}
}

func renderForm(ctx context.Context, w http.ResponseWriter, reg *registry.Registry, color, tags, city *tomselect.Widget, log *slog.Logger) {
	fmt.Fprint(w, `<form method="post"><label>Color</label>`)
	if err := color.Component().Render(ctx, w); err != nil {
		log.ErrorContext(ctx, "render widget", slog.Any("error", err))
	}
	fmt.Fprint(w, "<label>Tags</label>")
	if err := tags.Component().Render(ctx, w); err != nil {
		log.ErrorContext(ctx, "render widget", slog.Any("error", err))
	}
	fmt.Fprint(w, "<label>City</label>")
	if err := city.Registered(reg).Render(ctx, w); err != nil {
		log.ErrorContext(ctx, "render widget", slog.Any("error", err))
	}
	fmt.Fprint(w, "</form>")
}

// newStore picks the spec store backend: Redis when a URL is configured,
// in-process memory otherwise.
func newStore(ctx context.Context, redisURL string) (registry.Store, error) {
	if redisURL == "" {
		return registry.NewMemory(), nil
	}
	client, err := registry.Dial(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	return registry.NewRedis(client), nil
}

// newLogger builds a JSON stdout logger, fanned out to Sentry when a DSN
// is configured.
func newLogger(dsn string) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if dsn == "" {
		return slog.New(stdout)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:        dsn,
		EnableLogs: true,
	}); err != nil {
		slog.New(stdout).Error("sentry init failed", slog.Any("error", err))
		return slog.New(stdout)
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(fanout{stdout, sentryHandler})
}

// fanout duplicates records to every wrapped handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, rec.Level) {
			errs = append(errs, h.Handle(ctx, rec.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// getEnv returns an environment variable value or a default if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
