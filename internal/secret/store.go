package secret

import "errors"

// SecretStore holds credentials referenced by name from the configuration,
// such as the rewrite API key or a database password.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns an empty slice and nil error if the key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// ErrReadOnly is returned by stores that cannot be written.
var ErrReadOnly = errors.New("secret store is read-only")

// Chain reads from the first store that holds a key. Writes go to the first store.
type Chain []SecretStore

func (c Chain) Get(key string) ([]byte, error) {
	for _, s := range c {
		v, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			return v, nil
		}
	}
	return nil, nil
}

func (c Chain) Set(key string, value []byte) error {
	if len(c) == 0 {
		return ErrReadOnly
	}
	return c[0].Set(key, value)
}

func (c Chain) Delete(key string) error {
	for _, s := range c {
		if err := s.Delete(key); err != nil && !errors.Is(err, ErrReadOnly) {
			return err
		}
	}
	return nil
}

// Lookup returns the secret for key as a string, or "" when key is empty or unknown.
func Lookup(s SecretStore, key string) (string, error) {
	if key == "" || s == nil {
		return "", nil
	}
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}
