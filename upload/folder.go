package upload

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// one Folder for one post
type Folder interface {
	Delete(filename string) error
	PostID() int
	Files() ([]os.FileInfo, error)
	HasFile(filename string) (bool, error)
	Upload(filename string, src io.Reader) error
}

func CleanFilename(filename string) (string, error) {
	filename = filepath.Base(filename)
	filename = strings.TrimSpace(filename)
	if strings.Contains(filename, "/") || strings.Contains(filename, `\`) {
		return "", errors.New("filename contains a slash")
	}
	if filename == "" || filename == "." {
		return "", errors.New("filename is empty")
	}
	return filename, nil
}

// HMAC creates an HMAC of a resized uploaded file. Store implementations can use it to prevent DoS attacks on image resizing.
func HMAC(secret []byte, postID int, filename string, w int, h int, ts int64) string {

	buf := make([]byte, 32)
	binary.PutVarint(buf[0:], int64(postID))
	binary.PutVarint(buf[8:], ts)
	binary.PutVarint(buf[16:], int64(w))
	binary.PutVarint(buf[24:], int64(h))
	buf = append(buf, []byte(filename)...)

	hash := hmac.New(sha256.New, secret)
	hash.Write(buf)
	return base64.URLEncoding.EncodeToString(hash.Sum(nil))
}
