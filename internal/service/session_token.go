package service

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"message-admin/internal/domain"
)

// SessionTokenVerifier valida los session tokens que App Bridge envía al backend
// de una app embebida de Shopify.
type SessionTokenVerifier struct {
	apiKey string
	secret []byte
	leeway time.Duration
}

// SessionTokenClaims son los claims de un session token de Shopify.
type SessionTokenClaims struct {
	Dest      string `json:"dest"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrSessionTokenMissing = errors.New("session token missing")
	ErrSessionTokenInvalid = errors.New("session token invalid")
	ErrSessionTokenExpired = errors.New("session token expired")
)

const shopDomainSuffix = ".myshopify.com"

func NewSessionTokenVerifier(apiKey, apiSecret string) *SessionTokenVerifier {
	return &SessionTokenVerifier{
		apiKey: apiKey,
		secret: []byte(apiSecret),
		leeway: 5 * time.Second,
	}
}

// AuthenticateAdmin busca el token en el header Authorization, luego en el query
// param id_token y por último en el campo id_token del formulario.
func (v *SessionTokenVerifier) AuthenticateAdmin(r *http.Request) (domain.AdminSession, error) {
	token := SessionTokenFromRequest(r)
	if token == "" {
		return domain.AdminSession{}, ErrSessionTokenMissing
	}
	return v.Verify(token)
}

func (v *SessionTokenVerifier) Verify(token string) (domain.AdminSession, error) {
	if len(v.secret) == 0 || v.apiKey == "" {
		return domain.AdminSession{}, ErrSessionTokenInvalid
	}
	var claims SessionTokenClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.apiKey),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.AdminSession{}, ErrSessionTokenExpired
		}
		return domain.AdminSession{}, ErrSessionTokenInvalid
	}

	shop, ok := shopFromDest(claims.Dest)
	if !ok {
		return domain.AdminSession{}, ErrSessionTokenInvalid
	}
	if strings.TrimRight(claims.Issuer, "/") != strings.TrimRight(claims.Dest, "/")+"/admin" {
		return domain.AdminSession{}, ErrSessionTokenInvalid
	}

	return domain.AdminSession{
		Shop:      shop,
		UserID:    claims.Subject,
		SessionID: claims.SessionID,
		Token:     token,
	}, nil
}

func SessionTokenFromRequest(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if token := strings.TrimSpace(r.URL.Query().Get("id_token")); token != "" {
		return token
	}
	if r.Method == http.MethodPost {
		return strings.TrimSpace(r.PostFormValue("id_token"))
	}
	return ""
}

func shopFromDest(dest string) (string, bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, shopDomainSuffix) || len(host) == len(shopDomainSuffix) {
		return "", false
	}
	return host, true
}

// StaticAuthenticator autentica cualquier request con una sesión fija.
// Solo para desarrollo local (AUTH_DISABLED=true) y tests.
type StaticAuthenticator struct {
	Session domain.AdminSession
}

func NewStaticAuthenticator(shop string) *StaticAuthenticator {
	return &StaticAuthenticator{Session: domain.AdminSession{Shop: shop, UserID: "dev"}}
}

func (a *StaticAuthenticator) AuthenticateAdmin(_ *http.Request) (domain.AdminSession, error) {
	return a.Session, nil
}
