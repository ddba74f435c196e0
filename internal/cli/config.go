package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	GameID    string
	GameFile  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("WORDCRUSH_SERVER", "http://localhost:8080"),
		GameID:    os.Getenv("WORDCRUSH_GAME"),
		GameFile:  getEnvOrDefault("WORDCRUSH_GAME_FILE", defaultGameFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadGameID reads the last started game from the game file if no game was
// given by flag or environment
func (c *Config) LoadGameID() error {
	if c.GameID != "" {
		return nil
	}

	data, err := os.ReadFile(c.GameFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	c.GameID = strings.TrimSpace(string(data))
	return nil
}

// SaveGameID remembers a game for later commands
func (c *Config) SaveGameID(id string) error {
	c.GameID = id

	dir := filepath.Dir(c.GameFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.GameFile, []byte(id), 0600)
}

// RequireGameID returns the current game or an error telling the user how to pick one
func (c *Config) RequireGameID() (string, error) {
	if c.GameID == "" {
		return "", errors.New("no game selected: run 'wordcrush game start' or pass --game")
	}
	return c.GameID, nil
}

func defaultGameFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wordcrush/game"
	}
	return filepath.Join(home, ".wordcrush", "game")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
