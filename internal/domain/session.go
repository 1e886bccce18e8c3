package domain

// AdminSession identifica al administrador autenticado de una tienda.
type AdminSession struct {
	Shop      string `json:"shop"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Token     string `json:"-"`
}
