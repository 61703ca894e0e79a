// Package planner runs a full plan request: fetch the caller's exercise
// catalog, generate an abstract plan, then assemble and submit one routine
// per day in plan order.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/hevyplan/internal/hevy"
	"github.com/claude/hevyplan/internal/models"
	"github.com/claude/hevyplan/internal/routine"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stages a day can fail in.
const (
	StageAssemble = "assemble"
	StageSubmit   = "submit"
)

// ErrEmptyCatalog means the catalog fetch produced no usable entry.
var ErrEmptyCatalog = errors.New("exercise catalog is empty")

const tracerName = "github.com/claude/hevyplan/internal/planner"

// Generator produces an abstract plan from preferences.
type Generator interface {
	Generate(ctx context.Context, p *models.Preferences) (*models.AbstractPlan, error)
}

// Hevy is the slice of the Hevy API a run needs.
type Hevy interface {
	FetchCatalog(ctx context.Context, pageSize int) ([]models.CatalogEntry, error)
	CreateRoutine(ctx context.Context, payload models.RoutinePayload) (json.RawMessage, error)
}

// HevyFactory builds a Hevy client for the caller's credential.
type HevyFactory func(apiKey string) Hevy

// HevyClients returns a factory producing real API clients.
func HevyClients(baseURL string, timeout time.Duration) HevyFactory {
	return func(apiKey string) Hevy {
		return hevy.NewClient(baseURL, apiKey, timeout)
	}
}

// DayError reports the day a run stopped at. Index is 1-based in plan
// order. Days before it were submitted and stay submitted.
type DayError struct {
	Index int
	Day   string
	Stage string
	Err   error
}

func (e *DayError) Error() string {
	return fmt.Sprintf("day %d (%s): %s: %v", e.Index, e.Day, e.Stage, e.Err)
}

func (e *DayError) Unwrap() error { return e.Err }

// Routine is one processed day.
type Routine struct {
	Day      string                `json:"day"`
	Title    string                `json:"title"`
	Payload  models.RoutinePayload `json:"payload"`
	Response json.RawMessage       `json:"response,omitempty"`
	Outcomes []routine.Outcome     `json:"outcomes"`
}

// Result describes a run. Routines are in plan order.
type Result struct {
	RunID          string    `json:"runId"`
	CatalogSize    int       `json:"catalogSize"`
	CatalogPartial bool      `json:"catalogPartial,omitempty"`
	Routines       []Routine `json:"routines"`
}

// Responses returns the raw creation responses in plan order.
func (r *Result) Responses() []json.RawMessage {
	out := make([]json.RawMessage, 0, len(r.Routines))
	for _, rt := range r.Routines {
		out = append(out, rt.Response)
	}
	return out
}

// Substitutions returns every non-exact resolution across all days.
func (r *Result) Substitutions() []routine.Outcome {
	var out []routine.Outcome
	for _, rt := range r.Routines {
		a := routine.Assembly{Outcomes: rt.Outcomes}
		out = append(out, a.Substitutions()...)
	}
	return out
}

// Dropped returns every exercise left out across all days.
func (r *Result) Dropped() []string {
	var out []string
	for _, rt := range r.Routines {
		a := routine.Assembly{Outcomes: rt.Outcomes}
		out = append(out, a.Dropped()...)
	}
	return out
}

// Options tunes a Planner.
type Options struct {
	// PageSize is the catalog page size; zero uses the client default.
	PageSize int
	// RunTimeout bounds a whole run; zero means no bound beyond ctx.
	RunTimeout time.Duration
	// TracerProvider records run and day spans; nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// Planner orchestrates plan runs. It holds no per-request state and is safe
// for concurrent use.
type Planner struct {
	gen    Generator
	hevy   HevyFactory
	opts   Options
	log    *slog.Logger
	tracer trace.Tracer
}

// New creates a Planner.
func New(gen Generator, hevy HevyFactory, opts Options, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Planner{gen: gen, hevy: hevy, opts: opts, log: logger, tracer: tp.Tracer(tracerName)}
}

// Run executes a plan request end to end. Days are submitted strictly in
// plan order; the first assembly or submission failure stops the run with
// a *DayError and the result so far. Nothing is rolled back.
func (p *Planner) Run(ctx context.Context, prefs *models.Preferences) (*Result, error) {
	return p.run(ctx, prefs, true)
}

// Preview performs a run without creating any routine. Every day is
// assembled and reported with its payload.
func (p *Planner) Preview(ctx context.Context, prefs *models.Preferences) (*Result, error) {
	return p.run(ctx, prefs, false)
}

func (p *Planner) run(ctx context.Context, prefs *models.Preferences, submit bool) (_ *Result, err error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	if p.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.RunTimeout)
		defer cancel()
	}

	res := &Result{RunID: uuid.NewString(), Routines: []Routine{}}
	log := p.log.With("run_id", res.RunID)

	ctx, span := p.tracer.Start(ctx, "planner.Run", trace.WithAttributes(
		attribute.String("run_id", res.RunID),
		attribute.Int("days_per_week", prefs.DaysPerWeek),
		attribute.Bool("submit", submit),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	client := p.hevy(prefs.HevyAPIKey)

	catalog, partial, err := p.fetchCatalog(ctx, log, client)
	if err != nil {
		return nil, err
	}
	res.CatalogSize = len(catalog)
	res.CatalogPartial = partial

	plan, err := p.gen.Generate(ctx, prefs)
	if err != nil {
		return nil, err
	}
	log.Info("plan generated", "days", len(plan.Workouts))

	for i, day := range plan.Workouts {
		rt, err := p.processDay(ctx, log, client, res.RunID, i+1, day, catalog, submit)
		if err != nil {
			return res, err
		}
		res.Routines = append(res.Routines, *rt)
	}

	log.Info("run complete",
		"routines", len(res.Routines),
		"submitted", submit,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

func (p *Planner) processDay(ctx context.Context, log *slog.Logger, client Hevy, runID string, index int, day models.AbstractWorkoutDay, catalog []models.CatalogEntry, submit bool) (_ *Routine, err error) {
	ctx, span := p.tracer.Start(ctx, "planner.day", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("index", index),
		attribute.String("day", day.Day),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log = log.With("index", index, "day", day.Day)

	a, err := routine.Assemble(day, catalog, log)
	if err != nil {
		return nil, &DayError{Index: index, Day: day.Day, Stage: StageAssemble, Err: err}
	}
	rt := &Routine{
		Day:      day.Day,
		Title:    a.Payload.Title,
		Payload:  a.Payload,
		Outcomes: a.Outcomes,
	}
	if !submit {
		return rt, nil
	}

	resp, err := client.CreateRoutine(ctx, a.Payload)
	if err != nil {
		return nil, &DayError{Index: index, Day: day.Day, Stage: StageSubmit, Err: err}
	}
	rt.Response = resp
	log.Info("routine created", "title", rt.Title, "exercises", len(a.Payload.Exercises))
	return rt, nil
}
