// Package conversation lleva el diálogo por remitente: categoría, subtipo,
// detalle, cantidad, unidad, jornales, valor, lugar y observación. Al cerrar
// despacha el borrador al gateway según el tipo de actividad.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finca-digital/internal/classify"
	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/records"
	"finca-digital/internal/platform/logger"
	"finca-digital/internal/platform/metrics"

	"github.com/oklog/ulid/v2"
)

// Gateway son las operaciones de persistencia que usa la finalización.
type Gateway interface {
	UpsertAnimal(ctx context.Context, in animals.RegisterInput) (animals.Animal, error)
	MarkDisposed(ctx context.Context, farmID, tag string, status animals.Status, note string) (int, error)
	ResolveAnimal(ctx context.Context, farmID, tag string) (animals.Animal, error)
	AppendHealthEvent(ctx context.Context, e animals.HealthEvent) error
	UpdateWeight(ctx context.Context, farmID, tag string, kg float64)
	AppendActivity(ctx context.Context, in records.AppendInput, mention string) (records.Record, error)
}

type Options struct {
	Store   Store
	Gateway Gateway
	Logger  logger.Logger
	Metrics *metrics.Metrics

	// FreeText permite elegir la categoría con texto libre ("vacunamos el lote")
	// además del menú numérico.
	FreeText bool
}

type Machine struct {
	store    Store
	gw       Gateway
	log      logger.Logger
	metrics  *metrics.Metrics
	freeText bool
	now      func() time.Time
}

func NewMachine(opts Options) *Machine {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Machine{
		store:    opts.Store,
		gw:       opts.Gateway,
		log:      log.With(map[string]any{"component": "conversation"}),
		metrics:  opts.Metrics,
		freeText: opts.FreeText,
		now:      time.Now,
	}
}

func (m *Machine) newSession(key string) Session {
	now := m.now()
	return Session{
		ID:        ulid.Make().String(),
		Key:       key,
		Step:      StepCategory,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// AwaitFarmName deja marcado que el próximo mensaje del remitente es el nombre de su finca.
func (m *Machine) AwaitFarmName(ctx context.Context, sender string) error {
	s := m.newSession(sender)
	s.PendingRegistration = true
	return m.store.Put(ctx, s)
}

// TakeFarmName consume la marca de registro pendiente, si existe.
func (m *Machine) TakeFarmName(ctx context.Context, sender string) (bool, error) {
	s, ok, err := m.store.Get(ctx, sender)
	if err != nil || !ok || !s.PendingRegistration {
		return false, err
	}
	return true, m.store.Delete(ctx, sender)
}

// Handle avanza un paso la sesión del remitente. Al completar, finaliza y
// borra la sesión pase lo que pase con la persistencia.
func (m *Machine) Handle(ctx context.Context, sender string, user farms.UserContext, text string) (string, error) {
	s, ok, err := m.store.Get(ctx, sender)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !ok || s.PendingRegistration {
		s = m.newSession(sender)
	}
	s.User = user

	reply, done := m.advance(&s, text)
	if done {
		if err := m.store.Delete(ctx, sender); err != nil {
			return "", fmt.Errorf("delete session: %w", err)
		}
		return reply, nil
	}
	if s.Step == StepComplete {
		if err := m.store.Delete(ctx, sender); err != nil {
			m.log.Warn("could not delete finished session", map[string]any{"session_id": s.ID, "err": err})
		}
		return m.finalize(ctx, s), nil
	}

	s.UpdatedAt = m.now()
	if err := m.store.Put(ctx, s); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return reply, nil
}

// advance aplica la transición. done=true significa que la sesión se cierra sin guardar.
func (m *Machine) advance(s *Session, text string) (reply string, done bool) {
	msg := strings.TrimSpace(text)
	d := &s.Draft

	switch s.Step {
	case StepCategory:
		if classify.IsExit(msg) {
			return msgFarewell, true
		}
		kind, ok := classify.Menu(msg)
		if !ok && m.freeText {
			if k := classify.FreeText(msg); k != records.KindGeneral {
				kind, ok = k, true
			}
		}
		if !ok {
			return promptMenu, false
		}
		if kind == records.KindRegisterFarm {
			return msgAlreadyRegistered, false
		}
		d.Kind = kind
		if kind.HasSubtype() {
			s.Step = StepSubtype
		} else {
			s.Step = StepDetail
		}
		return kindPrompts[kind], false

	case StepSubtype:
		sub, ok := classify.Subtype(d.Kind, msg)
		if !ok {
			return subtypeRetry(d.Kind), false
		}
		d.Subtype = sub
		s.Step = StepDetail
		return subtypePrompts[sub], false

	case StepDetail:
		d.Detail = msg
		s.Step = StepQuantity
		return promptQuantity, false

	case StepQuantity:
		if classify.IsNoneQuantity(msg) {
			d.Quantity = nil
		} else {
			v, err := parseAmount(msg)
			if err != nil {
				return retryQuantity, false
			}
			d.Quantity = &v
		}
		s.Step = StepUnit
		return promptUnit, false

	case StepUnit:
		d.Unit = msg
		switch {
		case d.Kind.NeedsLaborDays():
			s.Step = StepLaborDays
			return promptLaborDays, false
		case d.Kind.NeedsValue():
			s.Step = StepValue
			return promptValue, false
		}
		s.Step = StepPlace
		return promptPlace, false

	case StepLaborDays:
		n, err := parseLaborDays(msg)
		if err != nil {
			return retryLaborDays, false
		}
		d.LaborDays = &n
		s.Step = StepValue
		return promptLaborValue, false

	case StepValue:
		v, err := parseAmount(msg)
		if err != nil {
			return retryValue, false
		}
		d.Value = v
		s.Step = StepPlace
		return promptPlace, false

	case StepPlace:
		d.Place = msg
		s.Step = StepObservation
		return promptObservation, false

	case StepObservation:
		if classify.IsFinish(msg) {
			d.Observation = ""
		} else {
			d.Observation = msg
		}
		s.Step = StepComplete
		return "", false
	}

	// paso desconocido (sesión corrupta): reiniciar
	m.log.Warn("unknown step, resetting session", map[string]any{"session_id": s.ID, "step": string(s.Step)})
	return msgInternal, true
}
