package daemon

import (
	"os"
	"path/filepath"
	"strings"
)

func isHidden(p string) bool {
	return strings.HasPrefix(filepath.Base(p), ".")
}

func isMarkdown(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".md")
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
