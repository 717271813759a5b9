// Package fs provides file-based storage for extracted page text.
package fs

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	betterbing "github.com/huyouare/better-bing"
)

// maxNameLen keeps generated names well under the common 255-byte limit
// once a disambiguation suffix and the .txt extension are added.
const maxNameLen = 200

// MapPath converts a page URL to the file its text is written to.
// Example: https://example.com/a/b.html → <outputRoot>/a-b.txt
func MapPath(rawURL, outputRoot string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", betterbing.Errorf(betterbing.EINVALID, "invalid URL %q", rawURL)
	}
	return filepath.Join(outputRoot, FileName(u.Path)), nil
}

// FileName flattens a URL path into a single file name.
//
//	/talk.html → talk.txt
//	/a/b.html  → a-b.txt
//	/          → main.txt
func FileName(urlPath string) string {
	name := strings.TrimPrefix(urlPath, "/")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, `\`, "-")

	// A leading dot is part of the name, not an extension.
	if ext := path.Ext(name); ext != name {
		name = strings.TrimSuffix(name, ext)
	}

	if name == "" {
		name = "main"
	}

	// Keep ".", ".." and dotfiles from escaping or hiding in the root.
	if strings.HasPrefix(name, ".") {
		name = "_" + name
	}

	if len(name) > maxNameLen {
		name = strings.ToValidUTF8(name[:maxNameLen], "") + "-" + ShortHash(urlPath)
	}

	return name + ".txt"
}

// ShortHash returns a short, stable hex digest of s.
func ShortHash(s string) string {
	return fmt.Sprintf("%08x", uint32(xxhash.Sum64String(s)))
}
