// Package controllers holds the plain-HTTP handlers that live next to
// the GraphQL surface.
package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/shashiranjanraj/vastra/pkg/faults"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/storage"
)

// maxUploadBytes caps item image uploads at 10 MB.
const maxUploadBytes = 10 << 20

// UploadController accepts item images and stores them through the
// configured storage driver. The returned URLs go straight into
// createItem/updateItem as image/largeImage.
type UploadController struct {
	store storage.Store
}

func NewUploadController(store storage.Store) *UploadController {
	return &UploadController{store: store}
}

// Upload handles POST /api/upload with a multipart "file" field.
func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	if middleware.UserFromCtx(r.Context()) == nil {
		response.Fault(w, faults.New(faults.AuthenticationRequired, "you must be signed in to do that"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Fault(w, faults.New(faults.Validation, "could not parse upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Fault(w, faults.New(faults.Validation, "a file field is required"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		response.Fault(w, faults.New(faults.Validation, "unsupported image type"))
		return
	}

	name, err := randomName(ext)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	key := "items/" + name
	if err := c.store.Put(key, file); err != nil {
		response.Fault(w, faults.Wrap(faults.TransientStore, "could not store upload", err))
		return
	}

	url := c.store.URL(key)
	response.Created(w, map[string]string{
		"image":      url,
		"largeImage": url,
	})
}

func randomName(ext string) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("upload name: %w", err)
	}
	return hex.EncodeToString(b) + ext, nil
}
