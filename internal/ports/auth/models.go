package auth

// Claims identifica la finca dueña de la clave de acceso del dashboard.
type Claims struct {
	FarmID   string
	FarmName string
}
