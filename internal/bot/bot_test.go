package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	sessionmem "finca-digital/internal/adapters/sessions/memory"
	"finca-digital/internal/adapters/storage/memory"
	"finca-digital/internal/conversation"
	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/records"
	"finca-digital/internal/domain/reports"
	"finca-digital/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerPhone = "whatsapp:+573001112233"
	adminPhone = "whatsapp:+573009999999"
)

type harness struct {
	bot      *Bot
	farms    *farms.Service
	sessions *sessionmem.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := memory.NewStore()
	farmSvc := farms.NewService(st.Farms())
	gw := gateway.New(gateway.Options{
		Farms:    farmSvc,
		Animals:  animals.NewService(st.Animals()),
		Records:  records.NewService(st.Records()),
		Resetter: st,
	})
	sessions := sessionmem.New(0)
	b := New(Options{
		Gateway:      gw,
		Reports:      reports.NewService(gw),
		Conversation: conversation.NewMachine(conversation.Options{Store: sessions, Gateway: gw}),
		AdminPhones:  []string{adminPhone},
	})
	return &harness{bot: b, farms: farmSvc, sessions: sessions}
}

func (h *harness) send(body string) string {
	return h.bot.Handle(context.Background(), ownerPhone, body)
}

func (h *harness) registerFarm(t *testing.T, until time.Time) {
	t.Helper()
	ctx := context.Background()
	_, err := h.farms.Register(ctx, "La Esperanza", ownerPhone)
	require.NoError(t, err)
	if !until.IsZero() {
		_, err = h.farms.Activate(ctx, farms.ActivateInput{FarmName: "La Esperanza", Until: until})
		require.NoError(t, err)
	}
}

func TestHandle_EmptyInput(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, msgNoSender, h.bot.Handle(context.Background(), "", "hola"))
	assert.Equal(t, msgEmpty, h.send("   "))
}

func TestHandle_UnknownSenderRegistersFarm(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, msgRegisterMenu, h.send("qué es esto"))
	assert.Equal(t, msgAskFarmName, h.send("Hola"))

	reply := h.send("Hacienda el Frayle")
	assert.True(t, strings.HasPrefix(reply, "🏡 ¡Finca 'Hacienda el Frayle' registrada!"), reply)

	// recién registrada: suscripción inactiva
	assert.Equal(t, msgRenewal, h.send("3"))
}

func TestHandle_FarmNameTooShort(t *testing.T) {
	h := newHarness(t)
	h.send("8")
	assert.Equal(t, "❌ El nombre debe tener al menos 3 caracteres.", h.send("LA"))
}

func TestHandle_ExpiredSubscriptionBlocksConversation(t *testing.T) {
	h := newHarness(t)
	h.registerFarm(t, time.Now().AddDate(0, 0, -1))

	assert.Equal(t, msgRenewal, h.send("3"))
	assert.Equal(t, msgRenewal, h.send("inventario"))
	assert.Equal(t, 0, h.sessions.Len(), "no session may start while expired")
}

func TestHandle_ReservedCommands(t *testing.T) {
	h := newHarness(t)
	h.registerFarm(t, time.Now().AddDate(0, 1, 0))

	assert.Equal(t, msgAnimalUsage, h.send("estado animal"))
	assert.Equal(t, msgAnimalNotFound("LG99"), h.send("estado animal LG99"))
	assert.Equal(t, msgExportSoon, h.send("exportar reporte"))
	assert.Equal(t, msgFarmMenu("La Esperanza"), h.send("AYUDA"))
	assert.Equal(t, "📋 No hay animales activos registrados en esta finca.", h.send("inventario"))
	assert.True(t, strings.HasPrefix(h.send("reporte semanal"), "⚠️ No hay actividades registradas"))
	assert.Equal(t, 0, h.sessions.Len())
}

func TestHandle_IntakeThenInventoryAndReport(t *testing.T) {
	h := newHarness(t)
	h.registerFarm(t, time.Now().AddDate(0, 1, 0))

	var last string
	for _, m := range []string{"4", "compra", "toro marca LG01 peso 420 kg", "1", "cabeza", "3.500.000", "corral 2", "fin"} {
		last = h.send(m)
	}
	assert.Contains(t, last, "🐮 1 animales guardados en inventario.")
	assert.Equal(t, 0, h.sessions.Len())

	inv := h.send("inventario animales")
	assert.Contains(t, inv, "🐮 BOVINOS (1)")
	assert.Contains(t, inv, "LG01")

	prof := h.send("estado animal lg01")
	assert.Contains(t, prof, "LG01")

	rep := h.send("reporte diario")
	assert.Contains(t, rep, "REPORTE DIARIO")
}

func TestHandle_ResetRequiresAllowlist(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.Equal(t, msgUnauthorized, h.send("vaciar bd"))
	assert.Equal(t, msgResetDone, h.bot.Handle(ctx, adminPhone, "VACIAR BD"))
}
