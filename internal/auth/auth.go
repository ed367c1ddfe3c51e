// server/internal/auth/auth.go
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	DivisionID string `json:"divisionID"`
	jwt.RegisteredClaims
}

// JwtSecret is set once from config at startup.
var JwtSecret []byte

// Init installs the signing secret.
func Init(secret string) {
	JwtSecret = []byte(secret)
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateJWT signs a token for a logged-in user.
func GenerateJWT(username, name, role, divisionID string, expiration time.Duration) (string, error) {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	claims := &JWTClaims{
		Username:   username,
		Name:       name,
		Role:       role,
		DivisionID: divisionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtSecret)
}
