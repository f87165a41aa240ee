package paths

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

const (
	AppDirName      = "shortcut-icons"
	ConfigFileName  = "shortcut-icons.json"
	HistoryFileName = "history.db"
	DirPerm         = 0755
	FilePerm        = 0644
)

// AtomicWrite writes data to path via a temporary file + rename to avoid
// partial writes. The parent directory is created if needed.
func AtomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// DataDir returns the platform-specific data directory:
//   - Windows: %APPDATA%\shortcut-icons
//   - Unix:    ~/.config/shortcut-icons
//
// Falls back to os.TempDir()/shortcut-icons if neither is available.
func DataDir() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(home, ".config", AppDirName)
}

// HistoryPath returns the location of the run history database.
func HistoryPath() string {
	return filepath.Join(DataDir(), HistoryFileName)
}

// Expand resolves a leading "~" to the user's home directory. Other
// paths, relative ones included, are returned cleaned but unchanged.
func Expand(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	exp, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(exp), nil
}
