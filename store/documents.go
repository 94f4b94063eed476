// ABOUTME: Document and folder store with uploads, moves and search
// ABOUTME: Folder navigation scopes the document list to the current folder
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/cache"
	"github.com/nordflytt/flyttcrm/models"
)

type DocumentStore struct {
	mu              sync.RWMutex
	client          *api.Client
	cache           *cache.Store
	documents       []models.Document
	folders         []models.Folder
	currentFolderID string
	selectedID      string
	loading         bool
	lastErr         string
}

type documentSnapshot struct {
	Documents       []models.Document `json:"documents"`
	Folders         []models.Folder   `json:"folders"`
	CurrentFolderID string            `json:"current_folder_id,omitempty"`
}

func NewDocumentStore(client *api.Client, c *cache.Store) *DocumentStore {
	s := &DocumentStore{client: client, cache: c}
	s.rehydrate()
	return s
}

func (s *DocumentStore) rehydrate() {
	if s.cache == nil {
		return
	}
	var snap documentSnapshot
	switch err := s.cache.Load(documentsKey, &snap); {
	case err == nil:
		s.documents = snap.Documents
		s.folders = snap.Folders
		s.currentFolderID = snap.CurrentFolderID
	case errors.Is(err, cache.ErrNotFound):
	case errors.Is(err, cache.ErrSnapshotVersion):
		log.Printf("warning: discarding stale %s snapshot", documentsKey)
		if err := s.cache.Delete(documentsKey); err != nil {
			log.Printf("warning: failed to delete stale snapshot %s: %v", documentsKey, err)
		}
	default:
		log.Printf("warning: failed to load %s snapshot: %v", documentsKey, err)
	}
}

func (s *DocumentStore) persistLocked() {
	if s.cache == nil {
		return
	}
	snap := documentSnapshot{
		Documents:       s.documents,
		Folders:         s.folders,
		CurrentFolderID: s.currentFolderID,
	}
	if err := s.cache.Save(documentsKey, snap); err != nil {
		log.Printf("warning: failed to persist %s: %v", documentsKey, err)
	}
}

func (s *DocumentStore) indexLocked(id string) int {
	for i := range s.documents {
		if s.documents[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *DocumentStore) folderIndexLocked(id string) int {
	for i := range s.folders {
		if s.folders[i].ID == id {
			return i
		}
	}
	return -1
}

// FetchDocuments replaces the document list with the contents of the current
// folder (all documents when no folder is open).
func (s *DocumentStore) FetchDocuments(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	folderID := s.currentFolderID
	s.mu.Unlock()

	docs, err := s.client.ListDocuments(ctx, folderID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = "Failed to fetch documents"
		return fmt.Errorf("failed to fetch documents: %w", err)
	}
	s.documents = docs
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// FetchFolders replaces the folder tree.
func (s *DocumentStore) FetchFolders(ctx context.Context) error {
	folders, err := s.client.ListFolders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = "Failed to fetch folders"
		return fmt.Errorf("failed to fetch folders: %w", err)
	}
	s.folders = folders
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Upload streams a file to the backend and appends the stored document.
func (s *DocumentStore) Upload(ctx context.Context, filename string, content io.Reader) (models.Document, error) {
	s.mu.RLock()
	folderID := s.currentFolderID
	s.mu.RUnlock()

	doc, err := s.client.UploadDocument(ctx, filename, content, folderID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = "Failed to upload document"
		return models.Document{}, fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	s.documents = append(s.documents, doc)
	s.lastErr = ""
	s.persistLocked()
	return doc, nil
}

// Update applies the patch locally, syncs, and reverts on failure.
func (s *DocumentStore) Update(ctx context.Context, id string, patch models.DocumentPatch) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("document %s not found", id)
	}
	prev := s.documents[idx]
	patch.Apply(&s.documents[idx])
	s.documents[idx].UpdatedAt = time.Now()
	s.persistLocked()
	s.mu.Unlock()

	updated, err := s.client.UpdateDocument(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if idx := s.indexLocked(id); idx >= 0 {
			s.documents[idx] = prev
		}
		s.lastErr = "Failed to update document"
		s.persistLocked()
		return fmt.Errorf("failed to update document %s: %w", id, err)
	}
	if idx := s.indexLocked(id); idx >= 0 {
		s.documents[idx] = updated
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Move reassigns a document's folder optimistically and reverts if the
// backend rejects the move. An empty folderID moves it to the root.
func (s *DocumentStore) Move(ctx context.Context, id, folderID string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("document %s not found", id)
	}
	prevFolder := s.documents[idx].FolderID
	s.documents[idx].FolderID = folderID
	s.documents[idx].UpdatedAt = time.Now()
	s.persistLocked()
	s.mu.Unlock()

	if err := s.client.MoveDocument(ctx, id, folderID); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx := s.indexLocked(id); idx >= 0 {
			s.documents[idx].FolderID = prevFolder
		}
		s.lastErr = "Failed to move document"
		s.persistLocked()
		return fmt.Errorf("failed to move document %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	return nil
}

// Delete removes the document on the backend first, then locally.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteDocument(ctx, id); err != nil {
		s.mu.Lock()
		s.lastErr = "Failed to delete document"
		s.mu.Unlock()
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.documents = append(s.documents[:idx], s.documents[idx+1:]...)
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// CreateFolder posts the folder to the backend and appends the result.
func (s *DocumentStore) CreateFolder(ctx context.Context, folder models.Folder) (models.Folder, error) {
	if folder.ID == "" {
		folder.ID = models.NewID()
	}
	now := time.Now()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	folder.UpdatedAt = now

	created, err := s.client.CreateFolder(ctx, folder)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = "Failed to create folder"
		return models.Folder{}, fmt.Errorf("failed to create folder: %w", err)
	}
	s.folders = append(s.folders, created)
	s.lastErr = ""
	s.persistLocked()
	return created, nil
}

// DeleteFolder removes the folder on the backend first, then locally. An
// open folder that gets deleted resets navigation to the root.
func (s *DocumentStore) DeleteFolder(ctx context.Context, id string) error {
	if err := s.client.DeleteFolder(ctx, id); err != nil {
		s.mu.Lock()
		s.lastErr = "Failed to delete folder"
		s.mu.Unlock()
		return fmt.Errorf("failed to delete folder %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.folderIndexLocked(id); idx >= 0 {
		s.folders = append(s.folders[:idx], s.folders[idx+1:]...)
	}
	if s.currentFolderID == id {
		s.currentFolderID = ""
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// OpenFolder scopes the document view to one folder. An empty ID returns to
// the root. Callers refetch documents afterwards.
func (s *DocumentStore) OpenFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.folderIndexLocked(id) < 0 {
		return fmt.Errorf("folder %s not found", id)
	}
	s.currentFolderID = id
	s.persistLocked()
	return nil
}

// CurrentFolder returns the open folder, if any.
func (s *DocumentStore) CurrentFolder() (models.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentFolderID == "" {
		return models.Folder{}, false
	}
	if idx := s.folderIndexLocked(s.currentFolderID); idx >= 0 {
		return s.folders[idx], true
	}
	return models.Folder{}, false
}

// SearchFilter narrows document search. Empty fields match everything.
type SearchFilter struct {
	FileType         string
	Category         string
	LinkedEntityType string
}

// Search returns documents whose name, description or tags contain the
// query, further narrowed by the filter.
func (s *DocumentStore) Search(query string, f SearchFilter) []models.Document {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Document
	for _, d := range s.documents {
		if f.FileType != "" && d.FileType != f.FileType {
			continue
		}
		if f.Category != "" && d.Category != f.Category {
			continue
		}
		if f.LinkedEntityType != "" && d.LinkedEntityType != f.LinkedEntityType {
			continue
		}
		if q != "" && !documentMatches(d, q) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func documentMatches(d models.Document, q string) bool {
	if strings.Contains(strings.ToLower(d.Name), q) ||
		strings.Contains(strings.ToLower(d.Description), q) {
		return true
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Documents returns a copy of the current list.
func (s *DocumentStore) Documents() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// Folders returns a copy of the folder tree.
func (s *DocumentStore) Folders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

func (s *DocumentStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

func (s *DocumentStore) Selected() (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return models.Document{}, false
	}
	if idx := s.indexLocked(s.selectedID); idx >= 0 {
		return s.documents[idx], true
	}
	return models.Document{}, false
}

func (s *DocumentStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

func (s *DocumentStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *DocumentStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
