package secret

import (
	"os"
	"strings"
)

// EnvStore resolves secrets from environment variables. The key
// "rewrite.api_key" is read from TRAININGS_SECRET_REWRITE_API_KEY.
type EnvStore struct {
	Prefix string
}

// NewEnvStore returns an EnvStore using the TRAININGS_SECRET_ prefix.
func NewEnvStore() *EnvStore {
	return &EnvStore{Prefix: "TRAININGS_SECRET_"}
}

func (e *EnvStore) name(key string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_")
	return e.Prefix + strings.ToUpper(r.Replace(key))
}

func (e *EnvStore) Get(key string) ([]byte, error) {
	v, ok := os.LookupEnv(e.name(key))
	if !ok {
		return nil, nil
	}
	return []byte(strings.TrimSpace(v)), nil
}

func (e *EnvStore) Set(string, []byte) error { return ErrReadOnly }
func (e *EnvStore) Delete(string) error      { return ErrReadOnly }
