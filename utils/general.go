package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/argon2"
)

var (
	errInvalidHash         = errors.New("the encoded hash is not in the correct format")
	errIncompatibleVersion = errors.New("incompatible version of argon2")
)

// GenerateRandomBytes panics if the entropy source fails: a predictable
// salt or token is worse than no process at all.
func GenerateRandomBytes(size uint32) []byte {
	token := make([]byte, size)
	if _, err := rand.Read(token); err != nil {
		panic(err)
	}
	return token
}

func DecodeBase64(message []byte) ([]byte, error) {
	base64Text := make([]byte, base64.StdEncoding.DecodedLen(len(message)))

	_, err := base64.URLEncoding.Decode(base64Text, message)
	if err != nil {
		return nil, err
	}
	return base64Text, nil
}

func ParseFlags() bool {
	devMode := flag.Bool("dev", false, "Run in dev mode")
	envFile := flag.String("env", "", ".env file path")

	flag.Parse()

	if err := godotenv.Load(func() string {
		if len(*envFile) > 0 {
			return *envFile
		}

		return ".prod.env"
	}()); err != nil {
		log.Panic().Err(err).Msg("Could not load .env file")
	}

	return !*devMode
}

func IsInList(item string, list *[]string) int {
	for i, val := range *list {
		if val == item {
			return i
		}
	}
	return -1
}

func ParsePublicKey(key string) *rsa.PublicKey {
	raw, err := DecodeBase64([]byte(key))
	if err != nil {
		log.Panic().Err(err).Msg("Failed to decode jwt public key")
	}
	jwtPublicKey, err := jwt.ParseRSAPublicKeyFromPEM(raw)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to parse jwt public key")
	}
	return jwtPublicKey
}

type params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

func HashPassword(password string) (string, error) {
	salt := GenerateRandomBytes(16)

	hash := argon2.IDKey([]byte(password), salt, 3, 64*1024, 2, 32)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return "$argon2id$v=19$m=65536,t=3,p=2$" + b64Salt + "$" + b64Hash, nil
}

func VerifyHash(password string, hash string) bool {
	p, salt, plainHash, err := decodeHash(hash)
	if err != nil {
		return false
	}

	otherHash := argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.parallelism, p.keyLength)

	return subtle.ConstantTimeCompare(plainHash, otherHash) == 1
}

func decodeHash(encodedHash string) (p *params, salt, hash []byte, err error) {
	values := strings.Split(encodedHash, "$")
	if len(values) != 6 {
		return nil, nil, nil, errInvalidHash
	}

	var version int
	_, err = fmt.Sscanf(values[2], "v=%d", &version)
	if err != nil {
		return nil, nil, nil, err
	}
	if version != argon2.Version {
		return nil, nil, nil, errIncompatibleVersion
	}

	p = &params{}
	_, err = fmt.Sscanf(values[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism)
	if err != nil {
		return nil, nil, nil, err
	}

	salt, err = base64.RawStdEncoding.Strict().DecodeString(values[4])
	if err != nil {
		return nil, nil, nil, err
	}
	p.saltLength = uint32(len(salt))

	hash, err = base64.RawStdEncoding.Strict().DecodeString(values[5])
	if err != nil {
		return nil, nil, nil, err
	}
	p.keyLength = uint32(len(hash))

	return p, salt, hash, nil
}

func Format(in string, data map[string]string) string {
	for k, v := range data {
		in = strings.Replace(in, k, v, -1)
	}
	return in
}

func ValidateStruct(err error) []*ErrorResponse {
	var errors []*ErrorResponse
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
