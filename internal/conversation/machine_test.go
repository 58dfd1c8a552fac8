package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"finca-digital/internal/adapters/storage/memory"
	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/records"
	"finca-digital/internal/gateway"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mapStore struct {
	mu sync.Mutex
	m  map[string]Session
}

func newMapStore() *mapStore { return &mapStore{m: map[string]Session{}} }

func (s *mapStore) Get(_ context.Context, key string) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *mapStore) Put(_ context.Context, v Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[v.Key] = v
	return nil
}

func (s *mapStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// fakeGateway registra las llamadas; missing simula marcas inexistentes.
type fakeGateway struct {
	upserts  []animals.RegisterInput
	disposed []string
	events   []animals.HealthEvent
	weights  map[string]float64
	appended []records.AppendInput
	missing  map[string]bool
	failRec  bool
}

func (g *fakeGateway) UpsertAnimal(_ context.Context, in animals.RegisterInput) (animals.Animal, error) {
	g.upserts = append(g.upserts, in)
	return animals.Animal{ExternalID: in.ExternalID, Tag: in.Tag}, nil
}

func (g *fakeGateway) MarkDisposed(_ context.Context, _, tag string, _ animals.Status, _ string) (int, error) {
	if g.missing[tag] {
		return 0, nil
	}
	g.disposed = append(g.disposed, tag)
	return 1, nil
}

func (g *fakeGateway) ResolveAnimal(_ context.Context, _, tag string) (animals.Animal, error) {
	if g.missing[tag] {
		return animals.Animal{}, animals.ErrNotFound
	}
	return animals.Animal{ExternalID: "V-M-" + tag, Tag: tag}, nil
}

func (g *fakeGateway) AppendHealthEvent(_ context.Context, e animals.HealthEvent) error {
	g.events = append(g.events, e)
	return nil
}

func (g *fakeGateway) UpdateWeight(_ context.Context, _, tag string, kg float64) {
	if g.weights == nil {
		g.weights = map[string]float64{}
	}
	g.weights[tag] = kg
}

func (g *fakeGateway) AppendActivity(_ context.Context, in records.AppendInput, _ string) (records.Record, error) {
	if g.failRec {
		return records.Record{}, &gateway.Failure{Op: "append_activity", Message: "❌ No se pudo completar la operación. Intenta de nuevo más tarde.", Err: errors.New("boom")}
	}
	g.appended = append(g.appended, in)
	return records.Record{Kind: in.Kind}, nil
}

var owner = farms.UserContext{UserID: "u1", FarmID: "f1", FarmName: "La Esperanza", Role: farms.RoleOwner, SubscriptionActive: true}

const sender = "whatsapp:+573001112233"

func newTestMachine(gw Gateway) (*Machine, *mapStore) {
	st := newMapStore()
	return NewMachine(Options{Store: st, Gateway: gw}), st
}

// run manda los mensajes en orden y devuelve todas las respuestas.
func run(t *testing.T, m *Machine, msgs ...string) []string {
	t.Helper()
	out := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		reply, err := m.Handle(context.Background(), sender, owner, msg)
		require.NoError(t, err)
		out = append(out, reply)
	}
	return out
}

func TestHandle_HealthDigitPromptsHealth(t *testing.T) {
	m, st := newTestMachine(&fakeGateway{})

	r := run(t, m, "3")
	assert.True(t, strings.HasPrefix(r[0], "💉"), r[0])

	s, ok, _ := st.Get(context.Background(), sender)
	require.True(t, ok)
	assert.Equal(t, StepDetail, s.Step)
	assert.Equal(t, records.KindAnimalHealth, s.Draft.Kind)
}

func TestHandle_UnknownCategoryRedisplaysMenu(t *testing.T) {
	m, st := newTestMachine(&fakeGateway{})

	r := run(t, m, "hola que tal")
	assert.Equal(t, promptMenu, r[0])

	s, _, _ := st.Get(context.Background(), sender)
	assert.Equal(t, StepCategory, s.Step)
}

func TestHandle_ExitDestroysSession(t *testing.T) {
	m, st := newTestMachine(&fakeGateway{})

	r := run(t, m, "salir")
	assert.Equal(t, msgFarewell, r[0])

	_, ok, _ := st.Get(context.Background(), sender)
	assert.False(t, ok)
}

func TestHandle_IntakeBatchStoresEveryBrand(t *testing.T) {
	gw := &fakeGateway{}
	m, st := newTestMachine(gw)

	r := run(t, m, "4", "nacimiento", "marca LG01, marca LG02", "2", "animales", "0", "potrero 1", "fin")
	last := r[len(r)-1]

	want := []animals.RegisterInput{
		{FarmID: "f1", Species: animals.SpeciesBovine, ExternalID: "V-M-LG01", Tag: "LG01", Pen: "potrero 1"},
		{FarmID: "f1", Species: animals.SpeciesBovine, ExternalID: "V-M-LG02", Tag: "LG02", Pen: "potrero 1"},
	}
	if diff := cmp.Diff(want, gw.upserts); diff != "" {
		t.Fatalf("upserts mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, gw.appended, 1)
	assert.Equal(t, records.SubtypeBirth, gw.appended[0].Action)
	assert.Equal(t, "marca LG01, marca LG02 (2 animales)", gw.appended[0].Detail)

	assert.Contains(t, last, "✅ ¡Registrado en La Esperanza!")
	assert.Contains(t, last, "🐮 2 animales guardados en inventario.")
	assert.Contains(t, last, "📋 Marcas: LG01, LG02")

	_, ok, _ := st.Get(context.Background(), sender)
	assert.False(t, ok, "session must be gone after finalize")
}

func TestHandle_IntakeWithoutBrandsWarns(t *testing.T) {
	gw := &fakeGateway{}
	m, _ := newTestMachine(gw)

	r := run(t, m, "4", "compra", "3 terneros", "3", "cabezas", "1.500.000", "corral 2", "listo")
	last := r[len(r)-1]

	assert.Empty(t, gw.upserts)
	require.Len(t, gw.appended, 1)
	assert.Equal(t, 1500000.0, gw.appended[0].Value)
	assert.Contains(t, last, "⚠️ No se detectaron marcas válidas.")
}

func TestHandle_StepBranching(t *testing.T) {
	cases := []struct {
		digit    string
		subtype  string
		wantDays bool
		wantVal  bool
	}{
		{"1", "", true, true},
		{"7", "", true, true},
		{"3", "", true, true},
		{"4", "compra", false, true},
		{"5", "venta", false, true},
		{"6", "", false, true},
		{"2", "", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.digit, func(t *testing.T) {
			m, st := newTestMachine(&fakeGateway{})
			msgs := []string{tc.digit}
			if tc.subtype != "" {
				msgs = append(msgs, tc.subtype)
			}
			msgs = append(msgs, "detalle", "5", "unidad")
			run(t, m, msgs...)

			s, _, _ := st.Get(context.Background(), sender)
			switch {
			case tc.wantDays:
				assert.Equal(t, StepLaborDays, s.Step)
				run(t, m, "2")
				s, _, _ = st.Get(context.Background(), sender)
				assert.Equal(t, StepValue, s.Step)
			case tc.wantVal:
				assert.Equal(t, StepValue, s.Step)
			default:
				assert.Equal(t, StepPlace, s.Step)
			}
		})
	}
}

func TestHandle_InvalidNumbersRepromptWithoutAdvancing(t *testing.T) {
	m, st := newTestMachine(&fakeGateway{})
	ctx := context.Background()

	r := run(t, m, "1", "maíz", "muchos")
	assert.Equal(t, retryQuantity, r[2])
	s, _, _ := st.Get(ctx, sender)
	assert.Equal(t, StepQuantity, s.Step)

	r = run(t, m, "ninguna", "bultos", "dos", "1e20")
	assert.Equal(t, retryLaborDays, r[2])
	assert.Equal(t, retryLaborDays, r[3], "absurd labor days reprompt instead of failing later")
	s, _, _ = st.Get(ctx, sender)
	assert.Nil(t, s.Draft.Quantity)
	assert.Equal(t, StepLaborDays, s.Step)

	r = run(t, m, "2", "-5")
	assert.Equal(t, retryValue, r[1])
	s, _, _ = st.Get(ctx, sender)
	assert.Equal(t, StepValue, s.Step)
	require.NotNil(t, s.Draft.LaborDays)
	assert.Equal(t, 2, *s.Draft.LaborDays)
}

func TestHandle_UnknownSubtypeReprompts(t *testing.T) {
	m, st := newTestMachine(&fakeGateway{})

	r := run(t, m, "5", "regalo")
	assert.Equal(t, retryDisposalSubtype, r[1])
	s, _, _ := st.Get(context.Background(), sender)
	assert.Equal(t, StepSubtype, s.Step)
}

func TestHandle_RegisterFarmWhileRegistered(t *testing.T) {
	m, st := newTestMachine(&fakeGateway{})

	r := run(t, m, "8")
	assert.Equal(t, msgAlreadyRegistered, r[0])
	s, _, _ := st.Get(context.Background(), sender)
	assert.Equal(t, StepCategory, s.Step)
}

func TestHandle_DisposalTalliesMissing(t *testing.T) {
	gw := &fakeGateway{missing: map[string]bool{"LG09": true}}
	m, _ := newTestMachine(gw)

	r := run(t, m, "5", "muerte", "marca LG01 y marca LG09", "ninguna", "animales", "0", "potrero", "fin")
	last := r[len(r)-1]

	assert.Equal(t, []string{"LG01"}, gw.disposed)
	require.Len(t, gw.appended, 1)
	assert.Equal(t, records.SubtypeDeath, gw.appended[0].Action)
	assert.Contains(t, last, "💸 1 animales registrados como muertos.")
	assert.Contains(t, last, "❌ Errores: 1")
}

func TestHandle_HealthEventsPerBrand(t *testing.T) {
	gw := &fakeGateway{missing: map[string]bool{"X9": true}}
	m, _ := newTestMachine(gw)

	r := run(t, m, "3", "vacuna aftosa marca T1 peso 300 kg marca X9", "2", "dosis", "1", "20000", "corral", "fin")
	last := r[len(r)-1]

	require.Len(t, gw.appended, 1, "health always leaves one record")
	assert.Equal(t, string(records.KindAnimalHealth), gw.appended[0].Action)

	require.Len(t, gw.events, 1)
	assert.Equal(t, animals.HealthVaccine, gw.events[0].Type)
	assert.Equal(t, "V-M-T1", gw.events[0].ExternalID)
	assert.Equal(t, 300.0, gw.weights["T1"])
	assert.Equal(t, "✅ ¡Registrado en La Esperanza! vacuna aftosa marca T1 peso 300 kg marca X9", last)
}

func TestHandle_StoreFailureStillEndsSession(t *testing.T) {
	gw := &fakeGateway{failRec: true}
	m, st := newTestMachine(gw)

	r := run(t, m, "6", "gasolina", "ninguna", "galones", "80000", "finca", "fin")
	assert.Equal(t, "❌ No se pudo completar la operación. Intenta de nuevo más tarde.", r[len(r)-1])

	_, ok, _ := st.Get(context.Background(), sender)
	assert.False(t, ok)
}

func TestPendingRegistration(t *testing.T) {
	m, _ := newTestMachine(&fakeGateway{})
	ctx := context.Background()

	ok, err := m.TakeFarmName(ctx, sender)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.AwaitFarmName(ctx, sender))
	ok, err = m.TakeFarmName(ctx, sender)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = m.TakeFarmName(ctx, sender)
	assert.False(t, ok, "the mark is consumed once")
}

func TestFreeTextCategory(t *testing.T) {
	st := newMapStore()
	m := NewMachine(Options{Store: st, Gateway: &fakeGateway{}, FreeText: true})

	r := run(t, m, "hoy vacunamos el lote")
	assert.True(t, strings.HasPrefix(r[0], "💉"), r[0])
}

// Con el gateway real sobre memoria: re-ingresar las mismas marcas no duplica.
func TestIntake_IdempotentAgainstMemoryStore(t *testing.T) {
	mem := memory.NewStore()
	gw := gateway.New(gateway.Options{
		Farms:    farms.NewService(mem.Farms()),
		Animals:  animals.NewService(mem.Animals()),
		Records:  records.NewService(mem.Records()),
		Resetter: mem,
	})
	m, _ := newTestMachine(gw)

	flow := []string{"4", "inventario inicial", "novillos marca A1 peso 200 kg, marca A2", "2", "cabezas", "0", "corral 1", "fin"}
	run(t, m, flow...)
	flow[2] = "novillos marca A1 peso 250 kg, marca A2"
	run(t, m, flow...)

	items, err := gw.Inventory(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Weight)
	assert.Equal(t, 250.0, *items[0].Weight)
}

func TestParseLaborDays(t *testing.T) {
	n, err := parseLaborDays("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = parseLaborDays("10000")
	require.NoError(t, err)
	assert.Equal(t, maxLaborDays, n)

	for _, bad := range []string{"10001", "1e20", "9223372036854775808", "-1"} {
		_, err := parseLaborDays(bad)
		assert.Error(t, err, bad)
	}
}

func newMemoryGateway() *gateway.Gateway {
	mem := memory.NewStore()
	return gateway.New(gateway.Options{
		Farms:    farms.NewService(mem.Farms()),
		Animals:  animals.NewService(mem.Animals()),
		Records:  records.NewService(mem.Records()),
		Resetter: mem,
	})
}

func TestDisposal_SellsOnlyTheExactBrand(t *testing.T) {
	gw := newMemoryGateway()
	m, _ := newTestMachine(gw)

	run(t, m, "4", "compra", "novillos marca LG1, marca LG10, marca LG11", "3", "cabezas", "0", "corral 1", "fin")
	r := run(t, m, "5", "venta", "vendimos marca LG1", "ninguna", "animales", "900000", "feria", "fin")
	last := r[len(r)-1]
	assert.Contains(t, last, "💸 1 animales marcados como vendidos.")
	assert.NotContains(t, last, "❌")

	items, err := gw.Inventory(context.Background(), "f1")
	require.NoError(t, err)
	tags := make([]string, 0, len(items))
	for _, a := range items {
		tags = append(tags, a.Tag)
	}
	assert.Equal(t, []string{"LG10", "LG11"}, tags)

	p, err := gw.AnimalProfile(context.Background(), "f1", "LG1")
	require.NoError(t, err)
	assert.Equal(t, animals.StatusSold, p.Animal.Status)
}

func TestHealth_EarTagWeightUpdatedFromRecord(t *testing.T) {
	gw := newMemoryGateway()
	m, _ := newTestMachine(gw)
	ctx := context.Background()

	_, err := gw.UpsertAnimal(ctx, animals.RegisterInput{
		FarmID: "f1", Species: animals.SpeciesBovine, ExternalID: "V-12", Tag: "12",
	})
	require.NoError(t, err)

	run(t, m, "3", "vacuna aftosa arete 12 peso 300 kg", "1", "dosis", "1", "20000", "corral", "fin")

	items, err := gw.Inventory(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Weight)
	assert.Equal(t, 300.0, *items[0].Weight)
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"60000":     60000,
		"60.000":    60000,
		"1,500,000": 1500000,
		"2,5":       2.5,
		"$ 60.000":  60000,
		"12.5":      12.5,
		" 0 ":       0,
	}
	for in, want := range cases {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "abc", "-3", "1.2.3,4"} {
		_, err := parseAmount(bad)
		assert.Error(t, err, bad)
	}
}
