package menu

// ItemFlags mark individual menu items
type ItemFlags uint8

const (
	ItemSelected ItemFlags = 1 << iota
	ItemChecked
	ItemRadio
	ItemHasSubmenu
	ItemStaysOpen
)

// Has reports whether all bits in x are set
func (f ItemFlags) Has(x ItemFlags) bool { return f&x == x }

// Flags modify how a menu is shown
type Flags uint8

const (
	// IsExitMenu lets the Exit key act as Select when so configured
	IsExitMenu Flags = 1 << iota
	// NoAnimation shows (or replaces) the menu instantly
	NoAnimation
	// DialogStyle makes the first item a prompt that can't be selected
	DialogStyle
	// User marks menus shown by scripts
	User
)

// Has reports whether all bits in x are set
func (f Flags) Has(x Flags) bool { return f&x == x }

// Item is one menu line. Items without a command are separators.
type Item struct {
	Label   string    `json:"label"`
	Command string    `json:"command,omitempty"`
	Flags   ItemFlags `json:"flags,omitempty"`
}

// DefaultPageSize is the number of items per page for paged menus
const DefaultPageSize = 12

// Descriptor describes a menu to show
type Descriptor struct {
	ID    string `json:"id"`
	Items []Item `json:"items"`
	Page  int    `json:"page"`
	// PageSize of zero disables paging
	PageSize int   `json:"page_size,omitempty"`
	Flags    Flags `json:"flags,omitempty"`
}

// Pages returns the page count, at least 1
func (d Descriptor) Pages() int {
	if d.PageSize <= 0 || len(d.Items) <= d.PageSize {
		return 1
	}
	return (len(d.Items) + d.PageSize - 1) / d.PageSize
}

// Visible returns the items on the current page
func (d Descriptor) Visible() []Item {
	if d.Pages() == 1 {
		return d.Items
	}
	page := d.Page % d.Pages()
	if page < 0 {
		page += d.Pages()
	}
	start := page * d.PageSize
	end := min(start+d.PageSize, len(d.Items))
	return d.Items[start:end]
}

// WithPage returns a copy showing page p, wrapped into range
func (d Descriptor) WithPage(p int) Descriptor {
	n := d.Pages()
	d.Page = ((p % n) + n) % n
	return d
}

func (d Descriptor) selectable(items []Item, i int) bool {
	if i < 0 || i >= len(items) {
		return false
	}
	if d.Flags.Has(DialogStyle) && i == 0 && d.Page == 0 {
		return false
	}
	return items[i].Command != ""
}

// initialSelection picks the flagged item or the first selectable one
func (d Descriptor) initialSelection() int {
	items := d.Visible()
	for i, item := range items {
		if item.Flags.Has(ItemSelected) && d.selectable(items, i) {
			return i
		}
	}
	for i := range items {
		if d.selectable(items, i) {
			return i
		}
	}
	return -1
}
