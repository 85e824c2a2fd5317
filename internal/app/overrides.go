package app

import (
	"strconv"
	"strings"

	"go.trai.ch/carve/internal/core/domain"
	"go.trai.ch/zerr"
)

// ParseOverrides turns --set name=value flags into GUI state. "true" and
// "false" become booleans, numbers become float64 and anything else stays a
// string. Later flags win.
func ParseOverrides(flags []string) (domain.GUIState, error) {
	state := make(domain.GUIState, len(flags))
	for _, flag := range flags {
		name, raw, ok := strings.Cut(flag, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOverride, "cannot parse --set"), "value", flag)
		}
		state[name] = overrideValue(raw)
	}
	return state, nil
}

func overrideValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
