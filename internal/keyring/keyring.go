package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/betteryou/internal/constants"
)

// Reference is the database config value that defers to the keyring. A
// named account is selected with "keyring:<account>".
const Reference = "keyring"

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// IsReference reports whether a database config value points at the keyring
// and, if so, which account it names.
func IsReference(value string) (string, bool) {
	if value == Reference {
		return constants.DefaultKeyringUser, true
	}
	account, ok := strings.CutPrefix(value, Reference+":")
	if !ok || account == "" {
		return "", false
	}
	return account, true
}

// Resolve returns value unchanged unless it is a keyring reference, in which
// case the stored connection string is looked up.
func Resolve(value string) (string, error) {
	account, ok := IsReference(value)
	if !ok {
		return value, nil
	}
	return Get(account)
}

// Get retrieves the connection string stored under account.
func Get(account string) (string, error) {
	connStr, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// Set stores connStr under account.
func Set(account, connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, account, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the connection string stored under account.
func Delete(account string) error {
	if err := keyring.Delete(constants.AppName, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Shorthands for the shared database account.
func GetConnectionString() (string, error) { return Get(constants.DefaultKeyringUser) }

func SetConnectionString(connStr string) error { return Set(constants.DefaultKeyringUser, connStr) }

func DeleteConnectionString() error { return Delete(constants.DefaultKeyringUser) }

// IsAvailable checks if the OS keyring is available on the current system.
// A miss on a probe key still means the keyring answered.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
