package utils

import (
	"crypto/rand"
	"encoding/hex"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

func FileNameFromCd(cd string) string {
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	fn := strings.TrimSpace(params["filename"])
	fn = strings.ReplaceAll(fn, string(os.PathSeparator), "_")
	return fn
}

// Attachment builds a Content-Disposition value offering name as a download.
func Attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": SanitizeFilename(name, ".png")})
}

// SanitizeFilename strips any directory part and whitespace from name so it
// is safe to hand to a browser or write next to other files.
func SanitizeFilename(name, defaultExt string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(os.PathSeparator) {
		name = ""
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = defaultExt
	}

	stem = strings.Join(strings.Fields(stem), "-")
	stem = strings.Trim(stem, "-")
	if stem == "" {
		stem = "download"
	}
	return stem + strings.ReplaceAll(ext, " ", "")
}

func NewRequestID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
