package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// User is one API account declared in the users file. Passwords are stored as
// bcrypt hashes, never in the clear.
type User struct {
	Username     string   `yaml:"username"`
	PasswordHash string   `yaml:"password_hash"`
	Roles        []string `yaml:"roles"`
}

type usersFile struct {
	Users []User `yaml:"users"`
}

// LoadUsers reads and validates the YAML users file.
func LoadUsers(path string) ([]User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var parsed usersFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}
	if len(parsed.Users) == 0 {
		return nil, fmt.Errorf("users file %s declares no users", path)
	}

	seen := make(map[string]bool, len(parsed.Users))
	for i, u := range parsed.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("user %d has no username", i)
		}
		if seen[u.Username] {
			return nil, fmt.Errorf("duplicate username %q", u.Username)
		}
		seen[u.Username] = true
		if u.PasswordHash == "" {
			return nil, fmt.Errorf("user %q has no password hash", u.Username)
		}
		if len(u.Roles) == 0 {
			return nil, fmt.Errorf("user %q has no roles", u.Username)
		}
	}

	return parsed.Users, nil
}
