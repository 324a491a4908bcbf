//go:build !windows

package detector

import (
	"bufio"
	"io"
	"os"
	"strings"
)

func detectPlatform(info *SystemInfo) {
	if info.OS != OSLinux {
		return
	}

	f, err := os.Open("/etc/os-release")
	if err != nil {
		return
	}
	defer f.Close()

	release := ParseOSRelease(f)
	info.PrettyName = release["PRETTY_NAME"]
	info.Version = release["VERSION_ID"]
}

// ParseOSRelease parses os-release(5) key=value lines.
func ParseOSRelease(r io.Reader) map[string]string {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	return values
}
