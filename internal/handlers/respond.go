package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/TheiTango/Mayobe-Bros/internal/auth"
	"github.com/TheiTango/Mayobe-Bros/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps store failures to status codes: a missing
// record is a 404, anything else is logged and surfaced as a generic
// 500.
func respondStoreError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	log.Printf("%s: %v", message, err)
	respondError(w, http.StatusInternalServerError, message)
}

// readPatch reads an update body and requires it to be a JSON object;
// arrays, strings and other valid-but-unmergeable JSON are a caller
// error, not a storage fault.
func readPatch(r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	// JSON null also unmarshals cleanly; only a real object merges.
	if fields == nil {
		return nil, errors.New("patch must be a JSON object")
	}
	return body, nil
}

// viewerFrom derives the read-path capability from the session
// middleware. Any live session counts as staff; there is no finer role
// split in the read path.
func viewerFrom(r *http.Request) store.Viewer {
	if _, ok := auth.FromContext(r.Context()); ok {
		return store.ViewerStaff
	}
	return store.ViewerPublic
}
