// Package gateway es la única puerta del bot hacia el almacenamiento.
// Los errores de dominio pasan tal cual; los del motor se registran y se
// devuelven como *Failure con un mensaje fijo.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/records"
	"finca-digital/internal/extract"
	"finca-digital/internal/platform/logger"
	"finca-digital/internal/platform/metrics"
)

// Resetter vacía animales, registros y sanidad. farmID vacío = todas las fincas.
type Resetter interface {
	Reset(ctx context.Context, farmID string) error
}

type Gateway struct {
	farms   *farms.Service
	animals *animals.Service
	records *records.Service
	reset   Resetter

	log     logger.Logger
	metrics *metrics.Metrics
}

type Options struct {
	Farms    *farms.Service
	Animals  *animals.Service
	Records  *records.Service
	Resetter Resetter

	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func New(opts Options) *Gateway {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		farms:   opts.Farms,
		animals: opts.Animals,
		records: opts.Records,
		reset:   opts.Resetter,
		log:     log.With(map[string]any{"component": "gateway"}),
		metrics: opts.Metrics,
	}
}

// domainErrors atraviesan el gateway sin convertirse en Failure.
var domainErrors = []error{
	farms.ErrNotFound,
	farms.ErrInvalidInput,
	farms.ErrNameTooShort,
	farms.ErrAlreadyRegistered,
	farms.ErrNameTaken,
	farms.ErrTooManyWorkers,
	animals.ErrNotFound,
	animals.ErrInvalidInput,
	records.ErrInvalidInput,
}

func (g *Gateway) fail(op, msg string, err error, fields map[string]any) error {
	if err == nil {
		return nil
	}
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields["op"] = op
	fields["err"] = err
	g.log.Error("store operation failed", fields)
	g.metrics.GatewayFailure(op)
	if msg == "" {
		msg = genericMessage
	}
	return &Failure{Op: op, Message: msg, Err: err}
}

func (g *Gateway) LookupUser(ctx context.Context, phone string) (farms.UserContext, error) {
	uc, err := g.farms.LookupUser(ctx, phone)
	if err != nil {
		return farms.UserContext{}, g.fail("lookup_user", "", err, map[string]any{"phone": phone})
	}
	return uc, nil
}

func (g *Gateway) RegisterFarm(ctx context.Context, name, ownerPhone string) (farms.Farm, error) {
	f, err := g.farms.Register(ctx, name, ownerPhone)
	if err != nil {
		return farms.Farm{}, g.fail("register_farm", "❌ No se pudo registrar la finca. Intenta de nuevo.", err,
			map[string]any{"phone": ownerPhone, "farm_name": name})
	}
	g.log.Info("farm registered", map[string]any{"farm_id": f.ID, "farm_name": f.Name})
	return f, nil
}

func (g *Gateway) UpsertAnimal(ctx context.Context, in animals.RegisterInput) (animals.Animal, error) {
	a, err := g.animals.Register(ctx, in)
	if err != nil {
		return animals.Animal{}, g.fail("upsert_animal", "", err,
			map[string]any{"farm_id": in.FarmID, "external_id": in.ExternalID})
	}
	return a, nil
}

// MarkDisposed devuelve cuántos animales cambiaron; 0 se registra como "no encontrado".
func (g *Gateway) MarkDisposed(ctx context.Context, farmID, tag string, status animals.Status, note string) (int, error) {
	n, err := g.animals.Dispose(ctx, farmID, tag, status, note)
	if err != nil {
		return 0, g.fail("mark_disposed", "", err, map[string]any{"farm_id": farmID, "tag": tag})
	}
	if n == 0 {
		g.log.Info("animal not found for disposal", map[string]any{"farm_id": farmID, "tag": tag})
	}
	return n, nil
}

// ResolveAnimal busca por marca exacta o external_id parcial, en cualquier estado.
func (g *Gateway) ResolveAnimal(ctx context.Context, farmID, tag string) (animals.Animal, error) {
	a, err := g.animals.Resolve(ctx, farmID, tag)
	if err != nil {
		return animals.Animal{}, g.fail("resolve_animal", "", err, map[string]any{"farm_id": farmID, "tag": tag})
	}
	return a, nil
}

func (g *Gateway) AppendHealthEvent(ctx context.Context, e animals.HealthEvent) error {
	_, err := g.animals.RecordHealth(ctx, e)
	if err != nil {
		return g.fail("append_health_event", "", err, map[string]any{"farm_id": e.FarmID, "external_id": e.ExternalID})
	}
	return nil
}

// UpdateWeight nunca falla hacia el llamador: errores y no-encontrados solo van al log.
func (g *Gateway) UpdateWeight(ctx context.Context, farmID, tag string, kg float64) {
	n, err := g.animals.UpdateWeight(ctx, farmID, tag, kg)
	fields := map[string]any{"farm_id": farmID, "tag": tag, "kg": kg}
	switch {
	case err != nil:
		_ = g.fail("update_weight", "", err, fields)
	case n == 0:
		g.log.Info("animal not found for weight update", fields)
	default:
		g.log.Debug("weight updated", fields)
	}
}

func (g *Gateway) Inventory(ctx context.Context, farmID string) ([]animals.Animal, error) {
	items, err := g.animals.Inventory(ctx, farmID)
	if err != nil {
		return nil, g.fail("inventory", "❌ No se pudo cargar el inventario de animales.", err, map[string]any{"farm_id": farmID})
	}
	return items, nil
}

func (g *Gateway) AnimalProfile(ctx context.Context, farmID, tag string) (animals.Profile, error) {
	p, err := g.animals.Profile(ctx, farmID, tag)
	if err != nil {
		return animals.Profile{}, g.fail("animal_profile", "", err, map[string]any{"farm_id": farmID, "tag": tag})
	}
	return p, nil
}

// AppendActivity inserta el registro y luego busca "peso N kg" + marca en mention
// para actualizar el peso del animal mencionado.
func (g *Gateway) AppendActivity(ctx context.Context, in records.AppendInput, mention string) (records.Record, error) {
	rec, err := g.records.Append(ctx, in)
	if err != nil {
		return records.Record{}, g.fail("append_activity", "", err, map[string]any{"farm_id": in.FarmID, "kind": string(in.Kind)})
	}
	if tag, kg, ok := extract.WeightMention(mention); ok {
		g.UpdateWeight(ctx, in.FarmID, tag, kg)
	}
	return rec, nil
}

func (g *Gateway) Records(ctx context.Context, farmID string, from, to time.Time) ([]records.Record, error) {
	rows, err := g.records.List(ctx, farmID, from, to)
	if err != nil {
		return nil, g.fail("list_records", "", err, map[string]any{"farm_id": farmID})
	}
	return rows, nil
}

// List cumple reports.Source.
func (g *Gateway) List(ctx context.Context, farmID string, from, to time.Time) ([]records.Record, error) {
	return g.Records(ctx, farmID, from, to)
}

func (g *Gateway) Reset(ctx context.Context, farmID string) error {
	if g.reset == nil {
		return g.fail("reset", "❌ No se pudo limpiar la base de datos.", errors.New("reset not configured"), nil)
	}
	if err := g.reset.Reset(ctx, strings.TrimSpace(farmID)); err != nil {
		return g.fail("reset", "❌ No se pudo limpiar la base de datos.", err, map[string]any{"farm_id": farmID})
	}
	g.log.Warn("data reset", map[string]any{"farm_id": farmID})
	return nil
}
