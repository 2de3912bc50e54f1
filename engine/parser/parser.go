// Package parser converts command strings into Intent structs.
// Intentionally dumb: a verb, its aliases, and whitespace-separated arguments.
package parser

import (
	"strings"

	"github.com/nathoo/dicelab/types"
)

var verbAliases = map[string]string{
	// Play
	"p":   "play",
	"run": "play",

	// Results
	"r":    "results",
	"show": "results",

	// Statistics
	"j":            "jackpot",
	"jackpots":     "jackpot",
	"f":            "faces",
	"facecount":    "faces",
	"c":            "combos",
	"combo":        "combos",
	"combinations": "combos",
	"perm":         "perms",
	"permutations": "perms",
	"stats":        "summary",

	// Dice
	"list":   "dice",
	"state":  "weights",
	"weight": "weights",
	"w":      "weigh",
	"set":    "weigh",

	// Help
	"h": "help",
	"?": "help",
}

// Parse converts a raw command string into an Intent. Only the verb is
// lowercased; arguments keep their case because face labels are
// case-sensitive.
func Parse(input string) types.Intent {
	words := strings.Fields(input)
	if len(words) == 0 {
		return types.Intent{}
	}

	words[0] = strings.ToLower(words[0])

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	var args []string
	if len(words) > 1 {
		args = words[1:]
	}
	return types.Intent{Verb: words[0], Args: args}
}

// expandMultiWordVerbs handles "face count", "combo count" and friends.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 || strings.ToLower(words[1]) != "count" {
		return words
	}

	switch words[0] {
	case "face", "faces":
		return append([]string{"faces"}, words[2:]...)
	case "combo", "combos", "combination", "combinations":
		return append([]string{"combos"}, words[2:]...)
	case "perm", "perms", "permutation", "permutations":
		return append([]string{"perms"}, words[2:]...)
	}

	return words
}

// Verbs lists the canonical command verbs in help order.
var Verbs = []string{
	"play", "results", "jackpot", "faces", "combos", "perms",
	"summary", "dice", "weights", "weigh", "roll", "help",
}

// IsVerb reports whether v is a canonical command verb.
func IsVerb(v string) bool {
	for _, known := range Verbs {
		if v == known {
			return true
		}
	}
	return false
}
