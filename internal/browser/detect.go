package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// DetectBrowser looks for a Chromium-based browser, returning "" if none is
// found.
func DetectBrowser() string {
	for _, path := range candidates(runtime.GOOS) {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "chrome"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// candidates lists install locations per OS, Chrome first.
func candidates(goos string) []string {
	switch goos {
	case "windows":
		var paths []string
		for _, root := range []string{os.Getenv("ProgramFiles"), os.Getenv("ProgramFiles(x86)"), os.Getenv("LOCALAPPDATA")} {
			if root == "" {
				continue
			}
			paths = append(paths,
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
				filepath.Join(root, "Microsoft", "Edge", "Application", "msedge.exe"),
				filepath.Join(root, "BraveSoftware", "Brave-Browser", "Application", "brave.exe"),
			)
		}
		return paths
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
			"/usr/bin/microsoft-edge-stable",
			"/usr/bin/brave-browser",
		}
	}
}

// DefaultProfilePath returns a dedicated profile directory so the tool keeps
// its own login and does not fight the user's main browser.
func DefaultProfilePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tumblr-chat-scroller", "profile")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tumblr-chat-scroller-profile")
}
