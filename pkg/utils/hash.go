package utils

import (
	"golang.org/x/crypto/bcrypt"
)

func HashCode(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckCodeHash(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
