package detector

import (
	"golang.org/x/sys/windows/registry"
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

// detectPlatform reads the product name and build from the registry.
func detectPlatform(info *SystemInfo) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, currentVersionKey, registry.QUERY_VALUE)
	if err != nil {
		return
	}
	defer k.Close()

	if name, _, err := k.GetStringValue("ProductName"); err == nil {
		info.PrettyName = name
	}
	if version, _, err := k.GetStringValue("DisplayVersion"); err == nil {
		info.Version = version
	}
	if build, _, err := k.GetStringValue("CurrentBuild"); err == nil {
		info.Build = build
	}
}
