//go:build !windows

package envpath

func storedPath() ([]string, error) {
	return nil, nil
}
