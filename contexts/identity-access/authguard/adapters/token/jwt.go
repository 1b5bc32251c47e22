package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "vantage/contexts/identity-access/authguard/domain/errors"
	"vantage/contexts/identity-access/authguard/ports"
)

// Parser validates HS256 tokens issued by the external auth provider.
// Expected claims: sub (subject id) and role.
type Parser struct {
	secret []byte
}

func NewParser(secret string) (*Parser, error) {
	if secret == "" {
		return nil, errors.New("empty token signing secret")
	}
	return &Parser{secret: []byte(secret)}, nil
}

func (p *Parser) Parse(raw string) (ports.TokenClaims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return ports.TokenClaims{Subject: subject, Role: role}, nil
}

// Sign issues a token for tests and local tooling.
func (p *Parser) Sign(subject string, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
