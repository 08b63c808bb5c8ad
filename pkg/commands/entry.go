package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// entryNumber parses the "Entry N" number users see in list output.
func entryNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not an entry number", arg)
	}
	return n, nil
}

func oneEntryNumber(args []string) (int, error) {
	if len(args) < 1 {
		return 0, errors.New("requires an entry number")
	}
	return entryNumber(args[0])
}
