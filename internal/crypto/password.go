package crypto

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, DefaultCost)
}

func HashPasswordCost(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateDefaultPassword produces the credential handed back to an admin
// when no password is supplied: eight random alphanumeric characters with a
// numeric tail.
func GenerateDefaultPassword() string {
	buf := make([]byte, 8)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			buf[i] = passwordAlphabet[0]
			continue
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf) + "123"
}
