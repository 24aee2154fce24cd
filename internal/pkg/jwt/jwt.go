package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenTTL = 5 * time.Minute
)

type Service interface {
	GenerateAccessToken(employeeID string, email string, name string, role employee.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTTL time.Duration
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

func NewJWTService(secretKey string, accessTTL time.Duration) Service {
	return &JWTService{
		accessTTL: accessTTL,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:       time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(employeeID string, email string, name string, role employee.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"email":       email,
		"name":        name,
		"role":        string(role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken issues a short-lived token that EventSource clients pass as
// a query parameter, since they cannot set an Authorization header.
func (j *JWTService) GenerateSSEToken(employeeID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"type":        TokenTypeSSE,
		"exp":         expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenTTL.Seconds()), nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (employeeID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return "", jwt.ErrInvalidJWT()
	}

	idVal, ok := token.Get("employee_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	employeeID, ok = idVal.(string)
	if !ok || employeeID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return employeeID, nil
}
