package tray

import "fmt"

func errUnknownItem(id int32) error {
	return fmt.Errorf("unknown menu item %d", id)
}

func errUnknownProperty(name string) error {
	return fmt.Errorf("unknown menu property %q", name)
}
