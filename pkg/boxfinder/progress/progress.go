// Package progress renders the step indicator shown above multi-step forms.
package progress

import "strings"

// State of a single step
type State string

const (
	Complete State = "complete"
	Active   State = "active"
	Pending  State = "pending"
)

// Item is one rendered step
type Item struct {
	Label string `json:"label"`
	State State  `json:"state"`
}

// Render marks steps before current complete, current active and the rest
// pending. An out-of-range current leaves every step pending.
func Render(labels []string, current int) []Item {
	items := make([]Item, len(labels))
	inRange := current >= 0 && current < len(labels)
	for i, label := range labels {
		state := Pending
		if inRange {
			switch {
			case i < current:
				state = Complete
			case i == current:
				state = Active
			}
		}
		items[i] = Item{Label: label, State: state}
	}
	return items
}

// String renders items as a text bar, e.g. "[x] Essentials > [*] Contact > [ ] Owner"
func String(items []Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		mark := " "
		switch it.State {
		case Complete:
			mark = "x"
		case Active:
			mark = "*"
		}
		parts[i] = "[" + mark + "] " + it.Label
	}
	return strings.Join(parts, " > ")
}
