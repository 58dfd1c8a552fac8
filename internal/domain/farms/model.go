package farms

import "time"

// Role del usuario dentro de la finca.
// @Enum dueño, supervisor, trabajador
type Role string

const (
	RoleOwner      Role = "dueño"
	RoleSupervisor Role = "supervisor"
	RoleWorker     Role = "trabajador"
)

// MaxWorkers es el cupo de empleados incluido en la suscripción.
const MaxWorkers = 3

// Farm es el tenant: todo (animales, registros, usuarios) cuelga de una finca.
type Farm struct {
	ID         string
	Name       string
	OwnerPhone string

	SubscriptionActive bool
	SubscriptionExpiry *time.Time // nil = sin vencimiento definido
	AccessKey          string

	CreatedAt time.Time
}

// User es un número de WhatsApp autorizado a registrar en una finca.
type User struct {
	ID     string
	Phone  string
	Name   string
	Role   Role
	FarmID string
}

// UserContext es el join usuario + finca que usa el bot en cada mensaje.
type UserContext struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Role     Role   `json:"role"`

	FarmID   string `json:"farm_id"`
	FarmName string `json:"farm_name"`

	SubscriptionActive bool       `json:"subscription_active"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
}

// SubscriptionValid: activa y no vencida (el día de vencimiento todavía cuenta).
func (u UserContext) SubscriptionValid(today time.Time) bool {
	if !u.SubscriptionActive {
		return false
	}
	if u.SubscriptionExpiry == nil {
		return true
	}
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := u.SubscriptionExpiry.Date()
	exp := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return !day.After(exp)
}
