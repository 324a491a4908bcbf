package envpath

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

var locations = []struct {
	root registry.Key
	path string
}{
	{registry.LOCAL_MACHINE, `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`},
	{registry.CURRENT_USER, `Environment`},
}

// storedPath reads the machine and user Path values, machine first.
func storedPath() ([]string, error) {
	var lists []string
	for _, loc := range locations {
		value, err := readPath(loc.root, loc.path)
		if err != nil {
			return nil, err
		}
		if value != "" {
			lists = append(lists, value)
		}
	}
	return lists, nil
}

func readPath(root registry.Key, path string) (string, error) {
	k, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer k.Close()

	value, valType, err := k.GetStringValue("Path")
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read Path from %s: %w", path, err)
	}

	if valType == registry.EXPAND_SZ {
		if expanded, err := registry.ExpandString(value); err == nil {
			value = expanded
		}
	}
	return value, nil
}
