package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizdoc/quizdoc/internal/httpx"
)

type AuthService struct {
	hmac []byte
	db   *sql.DB
}

func NewAuthService(secret string, db *sql.DB) *AuthService {
	return &AuthService{hmac: []byte(secret), db: db}
}

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // "admin" or "learner"
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sub, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quizdoc",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// Login verifies an email/password pair against the users table and
// returns a signed token plus the user's id and role.
func (a *AuthService) Login(ctx context.Context, email, password string) (token, userID, role string, err error) {
	var hash string
	err = a.db.QueryRowContext(ctx,
		`SELECT id, role, password_hash FROM users WHERE email=$1`, email,
	).Scan(&userID, &role, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", "", errors.New("invalid credentials")
	}
	if err != nil {
		return "", "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", "", "", errors.New("invalid credentials")
	}
	token, err = a.IssueJWT(userID, role)
	return token, userID, role, err
}

// EnsureAdmin seeds an admin account on first boot when none exists.
func EnsureAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role='admin'`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, role, created_at) VALUES ($1,$2,$3,$4,'admin',$5)`,
		uuid.NewString(), email, "admin", string(hash), time.Now().Unix())
	if err == nil {
		log.Printf("seeded admin account %s", email)
	}
	return err
}

// POST /auth/login  { "email": "...", "password": "..." }
func LoginHandler(a *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, "bad json")
			return
		}
		tok, userID, role, err := a.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		httpx.OK(w, "logged in", map[string]string{
			"access_token": tok,
			"user_id":      userID,
			"role":         role,
		})
	}
}
