package academy

import "fmt"

// The six enrollment levels, in progression order. Every level carries
// exactly SessionsPerLevel attendance slots, seeded at setup time.
var Levels = []string{
	"Level One",
	"Level Two",
	"Level Three",
	"Level Four",
	"Level Five",
	"Level Six",
}

const SessionsPerLevel = 4

var levelIndex = func() map[string]int {
	m := make(map[string]int, len(Levels))
	for i, l := range Levels {
		m[l] = i
	}
	return m
}()

func ValidLevel(name string) bool {
	_, ok := levelIndex[name]
	return ok
}

// CheckLevel returns ErrInvalidArgument for any name outside Levels.
func CheckLevel(name string) error {
	if !ValidLevel(name) {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidArgument, name)
	}
	return nil
}
