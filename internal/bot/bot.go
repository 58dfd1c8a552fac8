// Package bot es la entrada de cada mensaje de WhatsApp: valida remitente,
// resuelve registro y suscripción, atiende comandos reservados y delega el
// resto a la conversación.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"finca-digital/internal/conversation"
	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/reports"
	"finca-digital/internal/gateway"
	"finca-digital/internal/platform/logger"
	"finca-digital/internal/platform/metrics"
)

// Gateway son las lecturas y escrituras que el bot hace fuera de la conversación.
type Gateway interface {
	LookupUser(ctx context.Context, phone string) (farms.UserContext, error)
	RegisterFarm(ctx context.Context, name, ownerPhone string) (farms.Farm, error)
	Inventory(ctx context.Context, farmID string) ([]animals.Animal, error)
	AnimalProfile(ctx context.Context, farmID, tag string) (animals.Profile, error)
	Reset(ctx context.Context, farmID string) error
}

type Options struct {
	Gateway      Gateway
	Reports      *reports.Service
	Conversation *conversation.Machine
	AdminPhones  []string

	Logger  logger.Logger
	Metrics *metrics.Metrics
}

type Bot struct {
	gw      Gateway
	reports *reports.Service
	conv    *conversation.Machine
	admins  map[string]struct{}

	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(opts Options) *Bot {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	admins := make(map[string]struct{}, len(opts.AdminPhones))
	for _, p := range opts.AdminPhones {
		if p = farms.NormalizePhone(p); p != "" {
			admins[p] = struct{}{}
		}
	}
	return &Bot{
		gw:      opts.Gateway,
		reports: opts.Reports,
		conv:    opts.Conversation,
		admins:  admins,
		log:     log.With(map[string]any{"component": "bot"}),
		metrics: opts.Metrics,
		now:     time.Now,
	}
}

var (
	registerWords = set("8", "finca", "registrar", "hola", "hi", "buenos días", "buenas", "menu", "ayuda")
	inventoryCmds = set("inventario", "inventario animales", "lista de animales")
	helpCmds      = set("ayuda", "help", "menu", "hola")
)

const (
	resetCmd        = "vaciar bd"
	animalCmdPrefix = "estado animal"
	exportCmdPrefix = "exportar reporte"
)

// Handle procesa un mensaje entrante y devuelve la respuesta. Nunca devuelve
// error: todo fallo se traduce a un texto para el usuario.
func (b *Bot) Handle(ctx context.Context, sender, body string) string {
	sender = farms.NormalizePhone(sender)
	if sender == "" {
		return msgNoSender
	}
	msg := strings.TrimSpace(body)
	if msg == "" {
		return msgEmpty
	}
	lower := strings.ToLower(msg)

	if lower == resetCmd {
		return b.handleReset(ctx, sender)
	}

	pending, err := b.conv.TakeFarmName(ctx, sender)
	if err != nil {
		b.log.Error("session lookup failed", map[string]any{"sender": sender, "err": err})
		return msgProcessFailed
	}
	if pending {
		b.metrics.Message("register")
		f, err := b.gw.RegisterFarm(ctx, msg, sender)
		if err != nil {
			return gateway.UserMessage(err)
		}
		return msgFarmRegistered(f.Name)
	}

	user, err := b.gw.LookupUser(ctx, sender)
	if errors.Is(err, farms.ErrNotFound) {
		return b.handleUnknown(ctx, sender, lower)
	}
	if err != nil {
		return gateway.UserMessage(err)
	}

	if !user.SubscriptionValid(b.now()) {
		b.metrics.Message("expired")
		return msgRenewal
	}

	switch {
	case strings.Contains(lower, "reporte") && !strings.HasPrefix(lower, exportCmdPrefix):
		b.metrics.Message("report")
		return b.handleReport(ctx, user, msg)
	case lower == animalCmdPrefix || strings.HasPrefix(lower, animalCmdPrefix+" "):
		b.metrics.Message("animal")
		return b.handleAnimal(ctx, user, strings.TrimSpace(msg[len(animalCmdPrefix):]))
	case has(inventoryCmds, lower):
		b.metrics.Message("inventory")
		return b.handleInventory(ctx, user)
	case strings.HasPrefix(lower, exportCmdPrefix):
		b.metrics.Message("export")
		return msgExportSoon
	case has(helpCmds, lower):
		b.metrics.Message("help")
		return msgFarmMenu(user.FarmName)
	}

	b.metrics.Message("conversation")
	reply, err := b.conv.Handle(ctx, sender, user, msg)
	if err != nil {
		b.log.Error("conversation failed", map[string]any{"sender": sender, "farm_id": user.FarmID, "err": err})
		return msgProcessFailed
	}
	return reply
}

func (b *Bot) handleReset(ctx context.Context, sender string) string {
	b.metrics.Message("reset")
	if _, ok := b.admins[sender]; !ok {
		b.log.Warn("unauthorized reset attempt", map[string]any{"sender": sender})
		return msgUnauthorized
	}
	if err := b.gw.Reset(ctx, ""); err != nil {
		return gateway.UserMessage(err)
	}
	return msgResetDone
}

func (b *Bot) handleUnknown(ctx context.Context, sender, lower string) string {
	b.metrics.Message("unknown")
	if !has(registerWords, lower) {
		return msgRegisterMenu
	}
	if err := b.conv.AwaitFarmName(ctx, sender); err != nil {
		b.log.Error("could not open registration", map[string]any{"sender": sender, "err": err})
		return msgProcessFailed
	}
	return msgAskFarmName
}

func (b *Bot) handleReport(ctx context.Context, user farms.UserContext, msg string) string {
	text, err := b.reports.Generate(ctx, user.FarmID, b.reports.Request(msg))
	if err != nil {
		return gateway.UserMessage(err)
	}
	return text
}

func (b *Bot) handleAnimal(ctx context.Context, user farms.UserContext, tag string) string {
	if tag == "" {
		return msgAnimalUsage
	}
	p, err := b.gw.AnimalProfile(ctx, user.FarmID, tag)
	if errors.Is(err, animals.ErrNotFound) {
		return msgAnimalNotFound(tag)
	}
	if err != nil {
		return gateway.UserMessage(err)
	}
	return animals.FormatProfile(p, tag)
}

func (b *Bot) handleInventory(ctx context.Context, user farms.UserContext) string {
	items, err := b.gw.Inventory(ctx, user.FarmID)
	if err != nil {
		return gateway.UserMessage(err)
	}
	return animals.FormatInventory(items, b.now())
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func has(m map[string]struct{}, s string) bool {
	_, ok := m[s]
	return ok
}
