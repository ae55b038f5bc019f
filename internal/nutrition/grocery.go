package nutrition

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrGroceryItemNotFound = errors.New("grocery item not found")

// GroceryItem is a line of the shopping list.
type GroceryItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
	// Custom marks items the user added by hand.
	Custom bool `json:"custom,omitempty"`
}

// GroceryList is the shopping list for a meal plan week.
type GroceryList struct {
	ID        string        `json:"id"`
	WeekStart string        `json:"weekStart"`
	Items     []GroceryItem `json:"items"`
}

// Clone returns a deep copy.
func (l GroceryList) Clone() GroceryList {
	l.Items = slices.Clone(l.Items)
	return l
}

// GroceryListFromMealPlan collects the distinct ingredients of every meal in the plan, in first-seen order.
// Ingredient names are compared case-insensitively.
func GroceryListFromMealPlan(p WeeklyMealPlan, newID func() string) GroceryList {
	list := GroceryList{ID: newID(), WeekStart: p.WeekStart, Items: []GroceryItem{}}
	seen := make(map[string]bool)
	for _, d := range p.Days {
		for _, m := range d.Meals() {
			for _, ingredient := range m.Ingredients {
				name := strings.TrimSpace(ingredient)
				key := strings.ToLower(name)
				if name == "" || seen[key] {
					continue
				}
				seen[key] = true
				list.Items = append(list.Items, GroceryItem{ID: newID(), Name: name, Checked: false, Custom: false})
			}
		}
	}
	return list
}

// ToggleGroceryItem flips the checked mark of an item.
func (l GroceryList) ToggleGroceryItem(itemID string) (GroceryList, error) {
	i := slices.IndexFunc(l.Items, func(it GroceryItem) bool { return it.ID == itemID })
	if i < 0 {
		return GroceryList{}, fmt.Errorf("%w: %s", ErrGroceryItemNotFound, itemID)
	}
	out := l.Clone()
	out.Items[i].Checked = !out.Items[i].Checked
	return out, nil
}

// AddGroceryItem appends a hand-written item. Blank names are rejected.
func (l GroceryList) AddGroceryItem(name string, id string) (GroceryList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GroceryList{}, fmt.Errorf("%w: empty grocery item", ErrInvalidMeal)
	}
	out := l.Clone()
	out.Items = append(out.Items, GroceryItem{ID: id, Name: name, Checked: false, Custom: true})
	return out, nil
}

// Remaining counts the unchecked items.
func (l GroceryList) Remaining() int {
	n := 0
	for _, it := range l.Items {
		if !it.Checked {
			n++
		}
	}
	return n
}
