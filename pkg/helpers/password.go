package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash stored in the user document.
// Cost stays at the library default; raising it later invalidates nothing,
// old hashes keep verifying.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored hash.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
