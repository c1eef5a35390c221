package utils

import (
    "os"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/rentwheels/rentwheels-backend/internal/models"
)

// TokenLifetime is how long an issued session token stays valid.
const TokenLifetime = time.Hour * 24 * 7 // 7 days

func GenerateToken(user *models.User) (string, error) {
    claims := jwt.MapClaims{
        "id":    user.ID,
        "email": user.Email,
        "exp":   time.Now().Add(TokenLifetime).Unix(),
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func ValidateToken(tokenString string) (*jwt.Token, error) {
    return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
        return []byte(os.Getenv("JWT_SECRET")), nil
    })
}
