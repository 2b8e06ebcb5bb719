package pipeline

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// launchCommand starts the platform's URL opener; swapped out in tests.
var launchCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenBrowser opens the given URL in the user's default browser.
func OpenBrowser(url string) error {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = launchCommand("open", url)
	case "windows":
		err = launchCommand("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		err = launchCommand("xdg-open", url)
	}
	if err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// FileURL converts an absolute file path into a file:// URL, the fallback
// target when the preview server cannot bind its port.
func FileURL(path string) string {
	return "file://" + filepath.ToSlash(path)
}
