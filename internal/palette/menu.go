package palette

import (
	"fmt"
	"strings"

	"github.com/1broseidon/bismuth/internal/ipc"
)

// ChoiceKind says what a menu selection refers to.
type ChoiceKind int

const (
	ChoiceLayout ChoiceKind = iota
	ChoiceAction
)

// Choice is the layout or action picked from the menu.
type Choice struct {
	Kind ChoiceKind
	Name string
}

const (
	layoutPrefix = "layout:"
	actionPrefix = "action:"
)

// Entries builds the menu rows: enabled layouts first, with the active one
// highlighted, then every shortcut action with its bound keys.
func Entries(layouts *ipc.LayoutsData, actions *ipc.ActionsData) []Item {
	var items []Item
	if layouts != nil && len(layouts.Layouts) > 0 {
		items = append(items, Item{Label: "Layouts", IsHeader: true})
		for _, l := range layouts.Layouts {
			items = append(items, Item{
				Label:    l.Name,
				Value:    layoutPrefix + l.Name,
				Icon:     "view-grid",
				Meta:     l.Description,
				IsActive: l.Name == layouts.ActiveLayout,
			})
		}
	}
	if actions != nil && len(actions.Actions) > 0 {
		items = append(items, Item{Label: "Actions", IsHeader: true})
		for _, a := range actions.Actions {
			label := a.Name
			if a.Keys != "" {
				label = fmt.Sprintf("%s  [%s]", a.Name, a.Keys)
			}
			items = append(items, Item{
				Label: label,
				Value: actionPrefix + a.Name,
				Icon:  "input-keyboard",
				Meta:  a.Description,
			})
		}
	}
	return items
}

// Pick shows items until a layout or action row is chosen. Header rows are
// re-shown for launchers that cannot make them unselectable.
func Pick(l Launcher, items []Item, message string) (Choice, error) {
	for {
		item, err := l.Show("bismuth", items, message)
		if err != nil {
			return Choice{}, err
		}
		if item.IsHeader {
			continue
		}
		return ParseChoice(item.Value)
	}
}

// ParseChoice decodes an Item value produced by Entries.
func ParseChoice(value string) (Choice, error) {
	switch {
	case strings.HasPrefix(value, layoutPrefix):
		return Choice{Kind: ChoiceLayout, Name: strings.TrimPrefix(value, layoutPrefix)}, nil
	case strings.HasPrefix(value, actionPrefix):
		return Choice{Kind: ChoiceAction, Name: strings.TrimPrefix(value, actionPrefix)}, nil
	default:
		return Choice{}, fmt.Errorf("palette: unknown entry %q", value)
	}
}
