package redis

import (
	"fmt"
	"strings"

	"github.com/mcoot/wordcrush/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wordcrush"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// dictionaryKey returns the Redis key for the dictionary word set
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}

// verdictKey returns the Redis key for a cached oracle verdict
func verdictKey(word string) string {
	return fmt.Sprintf("%s:verdict:%s", keyPrefix, strings.ToLower(word))
}
