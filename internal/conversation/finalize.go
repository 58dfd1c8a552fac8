package conversation

import (
	"context"
	"fmt"
	"strings"

	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/records"
	"finca-digital/internal/extract"
	"finca-digital/internal/gateway"

	"go.uber.org/multierr"
)

const msgNoBrands = "\n⚠️ No se detectaron marcas válidas.\n💡 Formato correcto: 'marca LG01, marca LG02'"

// finalize despacha el borrador según el tipo. Un fallo en una marca no
// deshace las anteriores: se acumulan y se informan al final.
func (m *Machine) finalize(ctx context.Context, s Session) string {
	d := s.Draft
	if err := d.Validate(); err != nil {
		m.log.Error("refusing to finalize draft", map[string]any{"session_id": s.ID, "err": err})
		return msgInternal
	}

	var reply string
	var err error
	switch d.Kind {
	case records.KindIntake:
		reply, err = m.finalizeIntake(ctx, s)
	case records.KindDisposal:
		reply, err = m.finalizeDisposal(ctx, s)
	case records.KindAnimalHealth:
		reply, err = m.finalizeHealth(ctx, s)
	default:
		reply, err = m.finalizeRecord(ctx, s, string(d.Kind), d.Detail)
	}

	m.metrics.SessionFinalized(string(d.Kind))
	if err != nil {
		m.log.Warn("finalize finished with errors", map[string]any{
			"session_id": s.ID,
			"farm_id":    s.User.FarmID,
			"kind":       string(d.Kind),
			"errors":     len(multierr.Errors(err)),
			"err":        err,
		})
	}
	return reply
}

func (m *Machine) appendInput(s Session, action, detail string) records.AppendInput {
	d := s.Draft
	return records.AppendInput{
		FarmID:      s.User.FarmID,
		UserID:      s.User.UserID,
		Kind:        d.Kind,
		Action:      action,
		Detail:      detail,
		Place:       d.Place,
		Quantity:    d.Quantity,
		Value:       d.Value,
		Unit:        d.Unit,
		Observation: d.Observation,
		LaborDays:   d.LaborDays,
	}
}

func (m *Machine) finalizeRecord(ctx context.Context, s Session, action, detail string) (string, error) {
	if _, err := m.gw.AppendActivity(ctx, m.appendInput(s, action, detail), s.Draft.mention()); err != nil {
		return gateway.UserMessage(err), err
	}
	return fmt.Sprintf("✅ ¡Registrado en %s! %s", s.User.FarmName, s.Draft.Detail), nil
}

func (m *Machine) finalizeIntake(ctx context.Context, s Session) (string, error) {
	d := s.Draft
	mentions := extract.Brands(joinNonEmpty(d.Detail, d.Observation))
	species := extract.IntakeSpecies(d.Detail)
	category := extract.IntakeCategory(d.Detail)

	var errs error
	stored := 0
	for _, mt := range mentions {
		_, err := m.gw.UpsertAnimal(ctx, animals.RegisterInput{
			FarmID:     s.User.FarmID,
			Species:    species,
			ExternalID: extract.ExternalID(species, mt.Tag, extract.SourceBrand),
			Tag:        mt.Tag,
			Category:   category,
			Pen:        d.Place,
			Weight:     mt.Weight,
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", mt.Tag, err))
			continue
		}
		stored++
	}

	detail := fmt.Sprintf("%s (%d animales)", d.Detail, stored)
	if _, err := m.gw.AppendActivity(ctx, m.appendInput(s, d.Subtype, detail), d.mention()); err != nil {
		errs = multierr.Append(errs, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ ¡Registrado en %s!", s.User.FarmName)
	if stored > 0 {
		fmt.Fprintf(&b, "\n🐮 %d animales guardados en inventario.", stored)
		fmt.Fprintf(&b, "\n📋 Marcas: %s", strings.Join(tagsOf(mentions), ", "))
	} else {
		b.WriteString(msgNoBrands)
	}
	if n := len(multierr.Errors(errs)); n > 0 {
		fmt.Fprintf(&b, "\n❌ Errores: %d", n)
	}
	return b.String(), errs
}

func (m *Machine) finalizeDisposal(ctx context.Context, s Session) (string, error) {
	d := s.Draft
	tags := extract.Tags(joinNonEmpty(d.Detail, d.Observation))

	status, notePrefix, verb := animals.StatusSold, "Vendido", "marcados como vendidos"
	if d.Subtype == records.SubtypeDeath {
		status, notePrefix, verb = animals.StatusDead, "Muerte", "registrados como muertos"
	}
	note := fmt.Sprintf("%s: %s - %s", notePrefix, d.Detail, d.Observation)

	var errs error
	disposed := 0
	for _, tag := range tags {
		n, err := m.gw.MarkDisposed(ctx, s.User.FarmID, tag, status, note)
		switch {
		case err != nil:
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", tag, err))
		case n == 0:
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", tag, animals.ErrNotFound))
		default:
			disposed += n
		}
	}

	detail := fmt.Sprintf("%s (%d animales)", d.Detail, disposed)
	if _, err := m.gw.AppendActivity(ctx, m.appendInput(s, d.Subtype, detail), d.mention()); err != nil {
		errs = multierr.Append(errs, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ ¡Registrado en %s!", s.User.FarmName)
	if disposed > 0 {
		fmt.Fprintf(&b, "\n💸 %d animales %s.", disposed, verb)
		fmt.Fprintf(&b, "\n📋 Marcas: %s", strings.Join(tags, ", "))
	} else {
		b.WriteString(msgNoBrands)
	}
	if n := len(multierr.Errors(errs)); n > 0 {
		fmt.Fprintf(&b, "\n❌ Errores: %d", n)
	}
	return b.String(), errs
}

// finalizeHealth siempre deja el registro en el libro; los eventos por marca son aparte.
func (m *Machine) finalizeHealth(ctx context.Context, s Session) (string, error) {
	d := s.Draft
	var errs error

	if _, err := m.gw.AppendActivity(ctx, m.appendInput(s, string(d.Kind), d.Detail), d.mention()); err != nil {
		errs = multierr.Append(errs, err)
	}

	typ := extract.HealthType(d.Detail)
	for _, mt := range extract.Brands(d.mention()) {
		a, err := m.gw.ResolveAnimal(ctx, s.User.FarmID, mt.Tag)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", mt.Tag, err))
			continue
		}
		err = m.gw.AppendHealthEvent(ctx, animals.HealthEvent{
			FarmID:      s.User.FarmID,
			ExternalID:  a.ExternalID,
			Type:        typ,
			Treatment:   d.Detail,
			Observation: d.Observation,
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", mt.Tag, err))
			continue
		}
		if mt.Weight != nil {
			m.gw.UpdateWeight(ctx, s.User.FarmID, mt.Tag, *mt.Weight)
		}
	}

	return fmt.Sprintf("✅ ¡Registrado en %s! %s", s.User.FarmName, d.Detail), errs
}

func tagsOf(ms []extract.Mention) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Tag)
	}
	return out
}
