package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const maxImageSize = 10 << 20 // 10 MB

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImagesHandler stores uploads as flat files under <dataDir>/images,
// alongside the JSON collections.
type ImagesHandler struct {
	dir string
}

func NewImagesHandler(dataDir string) *ImagesHandler {
	return &ImagesHandler{dir: filepath.Join(dataDir, "images")}
}

type imageInfo struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := imageExtensions[contentType]
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid file type; only JPEG, PNG, GIF and WebP are allowed")
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		log.Printf("create images dir: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), hex.EncodeToString(suffix), ext)

	dst, err := os.Create(filepath.Join(h.dir, filename))
	if err != nil {
		log.Printf("create image file: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		log.Printf("write image file: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	respondJSON(w, http.StatusOK, imageInfo{
		Filename: filename,
		URL:      "/data/images/" + filename,
		Size:     size,
	})
}

func (h *ImagesHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		if os.IsNotExist(err) {
			respondJSON(w, http.StatusOK, []imageInfo{})
			return
		}
		log.Printf("list images: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list images")
		return
	}

	images := make([]imageInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		images = append(images, imageInfo{
			Filename: entry.Name(),
			URL:      "/data/images/" + entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().UTC().Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, images)
}

func (h *ImagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	// Reject anything that could escape the images directory.
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		respondError(w, http.StatusBadRequest, "invalid filename")
		return
	}
	if err := os.Remove(filepath.Join(h.dir, filename)); err != nil {
		if os.IsNotExist(err) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		log.Printf("delete image: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "image deleted"})
}

// Serve exposes stored images for the public site.
func (h *ImagesHandler) Serve() http.Handler {
	return http.StripPrefix("/data/images/", http.FileServer(http.Dir(h.dir)))
}
