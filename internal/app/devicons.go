package app

import (
	"os"
	"time"

	"github.com/chmouel/lazystack/internal/models"
	devicons "github.com/epilande/go-devicons"
)

// iconFileInfo lets go-devicons pick an icon from a name alone; the files of
// a commit need not exist in the work tree.
type iconFileInfo struct {
	name  string
	isDir bool
}

func (i iconFileInfo) Name() string { return i.name }

func (i iconFileInfo) Size() int64 { return 0 }

func (i iconFileInfo) Mode() os.FileMode {
	if i.isDir {
		return os.ModeDir | 0o755
	}
	return 0
}

func (i iconFileInfo) ModTime() time.Time { return time.Time{} }

func (i iconFileInfo) IsDir() bool { return i.isDir }

func (i iconFileInfo) Sys() any { return nil }

func deviconForName(name string, isDir bool) string {
	if name == "" {
		return ""
	}
	return devicons.IconForInfo(iconFileInfo{name: name, isDir: isDir}).Icon
}

func iconWithSpace(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}

// disclosure returns the marker drawn before a collapsible row.
func disclosure(collapsed, showIcons bool) string {
	if !showIcons {
		if collapsed {
			return ">"
		}
		return "v"
	}
	if collapsed {
		return "▶"
	}
	return "▼"
}

// changeIndicator maps a git change type to its short marker.
func changeIndicator(changeType string) string {
	switch changeType {
	case models.ChangeAdded:
		return "[+]"
	case models.ChangeDeleted:
		return "[-]"
	case models.ChangeModified, models.ChangeType:
		return "[~]"
	case models.ChangeRenamed:
		return "[R]"
	case models.ChangeCopied:
		return "[C]"
	}
	return "[?]"
}
