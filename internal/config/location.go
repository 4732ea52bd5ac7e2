package config

import (
	"os"
	"path/filepath"
)

// EnvConfig names the environment variable that overrides the config path.
const EnvConfig = "LIFESIM_CONFIG"

// Path returns $LIFESIM_CONFIG, or ~/.lifesim/config.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lifesim", "config"), nil
}

// DataDir is the directory holding the config file, used for default
// archive and journal locations.
func DataDir() (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}
