// Package config resolves NDEx credentials from a TOML profile file.
//
// The file holds one table per profile:
//
//	[main]
//	username = "alice"
//	password = "secret"
//	server = "public.ndexbio.org"
//
// On the command line, passing "-" for username, password, or server means
// "take this value from the named profile"; literal values pass through
// untouched. The three fields resolve independently, so any mix of literals
// and placeholders works.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cxtools/cxlayout/pkg/errors"
)

// Placeholder is the command-line value that requests config resolution.
const Placeholder = "-"

// DefaultProfile is the profile used when --profile is not set.
const DefaultProfile = "main"

// appName is used for the config directory under ~/.config.
const appName = "cxlayout"

// Profile is one named credential set in the config file.
type Profile struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Server   string `toml:"server"`
}

// Credentials are the values the pipeline connects with, after resolution.
type Credentials struct {
	Username string
	Password string
	Server   string
}

// DefaultPath returns the default config file location
// (~/.config/cxlayout/config.toml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load parses the config file into its profile tables.
func Load(path string) (map[string]Profile, error) {
	profiles := map[string]Profile{}
	if _, err := toml.DecodeFile(path, &profiles); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeConfigNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeConfigProfile, err, "parse config %s", path)
	}
	return profiles, nil
}

// Resolve replaces each placeholder field of creds with the value from the
// named profile in the config file at path. If no field is a placeholder the
// config file is never touched. An empty path falls back to [DefaultPath].
func Resolve(creds Credentials, profileName, path string) (Credentials, error) {
	if creds.Username != Placeholder && creds.Password != Placeholder && creds.Server != Placeholder {
		return creds, nil
	}

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return Credentials{}, err
		}
	}

	profiles, err := Load(path)
	if err != nil {
		return Credentials{}, err
	}
	profile, ok := profiles[profileName]
	if !ok {
		return Credentials{}, errors.New(errors.ErrCodeConfigProfile,
			"profile %q not found in %s", profileName, path)
	}

	if creds.Username == Placeholder {
		if creds.Username = profile.Username; creds.Username == "" {
			return Credentials{}, errors.New(errors.ErrCodeConfigProfile,
				"profile %q has no username", profileName)
		}
	}
	if creds.Password == Placeholder {
		if creds.Password = profile.Password; creds.Password == "" {
			return Credentials{}, errors.New(errors.ErrCodeConfigProfile,
				"profile %q has no password", profileName)
		}
	}
	if creds.Server == Placeholder {
		if creds.Server = profile.Server; creds.Server == "" {
			return Credentials{}, errors.New(errors.ErrCodeConfigProfile,
				"profile %q has no server", profileName)
		}
	}

	return creds, nil
}
