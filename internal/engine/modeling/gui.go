package modeling

import (
	"fmt"
	"slices"
	"strconv"

	"go.trai.ch/carve/internal/core/domain"
)

// Slider declares a numeric control and returns its current value.
func (c *Context) Slider(p domain.SliderPayload) float64 {
	v := control(c, p.Name, p.Default, asNumber)
	c.notify(domain.MsgAddSlider, p)
	return v
}

// Checkbox declares a boolean control and returns its current value.
func (c *Context) Checkbox(p domain.CheckboxPayload) bool {
	v := control(c, p.Name, p.Default, asBool)
	c.notify(domain.MsgAddCheckbox, p)
	return v
}

// TextInput declares a text control and returns its current value.
func (c *Context) TextInput(p domain.TextboxPayload) string {
	v := control(c, p.Name, p.Default, asText)
	c.notify(domain.MsgAddTextbox, p)
	return v
}

// Dropdown declares a choice control and returns the selected option. A value
// outside the options falls back to the default.
func (c *Context) Dropdown(p domain.DropdownPayload) string {
	v := control(c, p.Name, p.Default, func(raw any) (string, bool) {
		s, ok := asText(raw)
		if ok && len(p.Options) > 0 && !slices.Contains(p.Options, s) {
			return "", false
		}
		return s, ok
	})
	c.notify(domain.MsgAddDropdown, p)
	return v
}

// Button declares a momentary button. It reports whether the button was
// pressed for this evaluation.
func (c *Context) Button(p domain.ButtonPayload) bool {
	pressed, _ := asBool(c.gui[p.Name])
	c.notify(domain.MsgAddButton, p)
	return pressed
}

// control returns the GUI value of name converted by conv and stores it back.
// A missing value installs def. A value conv rejects is replaced by def and
// reported to the user.
func control[T any](c *Context, name string, def T, conv func(any) (T, bool)) T {
	raw, present := c.gui[name]
	v, ok := conv(raw)
	if !ok {
		if present {
			c.Print(fmt.Sprintf("warning: control %q cannot use value %v, using default %v", name, raw, def))
		}
		v = def
	}
	c.gui[name] = v
	return v
}

func asNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func asBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(v)
		return b, err == nil
	case float64:
		return v != 0, true
	}
	return false, false
}

func asText(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}
