package farms

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNameTooShort      = errors.New("farm name must have at least 3 characters")
	ErrAlreadyRegistered = errors.New("phone already registered in a farm")
	ErrNameTaken         = errors.New("farm name already taken")
	ErrTooManyWorkers    = errors.New("too many workers for farm")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) LookupUser(ctx context.Context, phone string) (UserContext, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return UserContext{}, ErrNotFound
	}
	return s.repo.LookupUser(ctx, phone)
}

// Register crea la finca (suscripción inactiva, sin vencimiento) y su dueño.
func (s *Service) Register(ctx context.Context, name, ownerPhone string) (Farm, error) {
	name = strings.TrimSpace(name)
	ownerPhone = NormalizePhone(ownerPhone)
	if ownerPhone == "" {
		return Farm{}, ErrInvalidInput
	}
	if utf8.RuneCountInString(name) < 3 {
		return Farm{}, ErrNameTooShort
	}

	taken, err := s.repo.PhoneRegistered(ctx, ownerPhone)
	if err != nil {
		return Farm{}, err
	}
	if taken {
		return Farm{}, ErrAlreadyRegistered
	}

	f := Farm{
		ID:         uuid.NewString(),
		Name:       name,
		OwnerPhone: ownerPhone,
		CreatedAt:  s.now(),
	}
	owner := User{
		ID:     uuid.NewString(),
		Phone:  ownerPhone,
		Name:   "Dueño",
		Role:   RoleOwner,
		FarmID: f.ID,
	}
	if err := s.repo.CreateFarm(ctx, f, owner); err != nil {
		return Farm{}, err
	}
	return f, nil
}

type ActivateInput struct {
	FarmName string
	Until    time.Time
	Workers  []string // números de WhatsApp; el del dueño no se incluye
}

// Activate habilita la suscripción hasta Until, regenera la clave y agrega empleados.
func (s *Service) Activate(ctx context.Context, in ActivateInput) (Farm, error) {
	if in.Until.IsZero() {
		return Farm{}, ErrInvalidInput
	}
	f, err := s.repo.GetByName(ctx, strings.TrimSpace(in.FarmName))
	if err != nil {
		return Farm{}, err
	}

	workers := make([]User, 0, len(in.Workers))
	seen := map[string]struct{}{}
	for _, raw := range in.Workers {
		phone := NormalizePhone(raw)
		if phone == "" || phone == f.OwnerPhone {
			continue
		}
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}

		registered, err := s.repo.PhoneRegistered(ctx, phone)
		if err != nil {
			return Farm{}, err
		}
		if registered {
			// ya pertenece a una finca (esta u otra); no se mueve.
			continue
		}
		workers = append(workers, User{
			ID:     uuid.NewString(),
			Phone:  phone,
			Name:   "Trabajador",
			Role:   RoleWorker,
			FarmID: f.ID,
		})
	}

	current, err := s.repo.CountWorkers(ctx, f.ID)
	if err != nil {
		return Farm{}, err
	}
	if current+len(workers) > MaxWorkers {
		return Farm{}, ErrTooManyWorkers
	}

	key := uuid.NewString()
	expiry := dateOf(in.Until)
	if err := s.repo.Activate(ctx, f.ID, expiry, key, workers); err != nil {
		return Farm{}, err
	}

	f.SubscriptionActive = true
	f.SubscriptionExpiry = &expiry
	f.AccessKey = key
	return f, nil
}

func (s *Service) Deactivate(ctx context.Context, farmName string) error {
	f, err := s.repo.GetByName(ctx, strings.TrimSpace(farmName))
	if err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, f.ID)
}

// Authenticate resuelve la finca por su clave secreta (dashboard).
func (s *Service) Authenticate(ctx context.Context, key string) (Farm, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Farm{}, ErrNotFound
	}
	f, err := s.repo.GetByAccessKey(ctx, key)
	if err != nil {
		return Farm{}, err
	}
	if !(UserContext{SubscriptionActive: f.SubscriptionActive, SubscriptionExpiry: f.SubscriptionExpiry}).SubscriptionValid(s.now()) {
		return Farm{}, ErrNotFound
	}
	return f, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (Farm, error) {
	return s.repo.GetByName(ctx, strings.TrimSpace(name))
}

// NormalizePhone deja el identificador tal como llega de Twilio ("whatsapp:+57...") sin espacios.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
