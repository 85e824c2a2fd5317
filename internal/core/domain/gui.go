package domain

// CacheToggle is the reserved GUI state key that enables the operation cache.
const CacheToggle = "Cache?"

// GUIState maps control names to their current values. Values are float64,
// bool or string.
type GUIState map[string]any

// Clone returns a shallow copy of the state. A nil state clones to an empty one.
func (g GUIState) Clone() GUIState {
	out := make(GUIState, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}

// CachingEnabled reports whether the cache toggle is on. It defaults to true.
func (g GUIState) CachingEnabled() bool {
	v, ok := g[CacheToggle].(bool)
	if !ok {
		return true
	}
	return v
}

// SliderPayload declares a numeric slider.
type SliderPayload struct {
	Name      string  `json:"name"`
	Default   float64 `json:"default"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Step      float64 `json:"step"`
	Precision int     `json:"precision"`
	RealTime  bool    `json:"realTime"`
}

// CheckboxPayload declares a boolean control.
type CheckboxPayload struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// TextboxPayload declares a text control.
type TextboxPayload struct {
	Name     string `json:"name"`
	Default  string `json:"default"`
	RealTime bool   `json:"realTime"`
}

// DropdownPayload declares a choice control.
type DropdownPayload struct {
	Name    string   `json:"name"`
	Default string   `json:"default"`
	Options []string `json:"options"`
}

// ButtonPayload declares a momentary button.
type ButtonPayload struct {
	Name string `json:"name"`
}
