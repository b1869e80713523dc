package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"realestatecrm/internal/common"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"

	"github.com/google/uuid"
)

// URLPrefix starts every reference handed out by the Manager.
const URLPrefix = "/uploads/"

const (
	avatarDir       = "avatars"
	avatarPrefix    = "avatar_"
	maxExtensionLen = 10
)

// Kind selects the naming scheme of a stored file.
type Kind int

const (
	KindPhoto Kind = iota
	KindAvatar
)

// File is one uploaded payload. Name is only used for its extension.
type File struct {
	Name string
	Data []byte
}

// ImageAppender persists photo references on a listing.
type ImageAppender interface {
	AppendImageURLs(ctx context.Context, id string, refs []string) (*models.Listing, error)
}

type Manager struct {
	store    ContentStore
	listings ImageAppender
	log      logging.Logger
}

// NewManager wires a Manager. listings may be nil when AttachMany is not used.
func NewManager(store ContentStore, listings ImageAppender, log logging.Logger) *Manager {
	return &Manager{
		store:    store,
		listings: listings,
		log:      log.With("component", "attachments"),
	}
}

// Store writes f under a fresh unique name and returns its reference.
func (m *Manager) Store(ctx context.Context, kind Kind, f File) (string, error) {
	if len(f.Data) == 0 {
		return "", common.NewValidationError("file", "is empty")
	}

	ext := sanitizeExtension(f.Name)
	var lastErr error
	// A second attempt only matters on a name collision.
	for attempt := 0; attempt < 2; attempt++ {
		key := newKey(kind, ext)
		err := m.store.Put(ctx, key, f.Data)
		if err == nil {
			return URLPrefix + key, nil
		}
		lastErr = err
		if !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	return "", &common.StorageError{Op: "store", Ref: f.Name, Err: lastErr}
}

// StoreMany stores the non-empty files in order. When one of them fails the
// files already written by this call are removed.
func (m *Manager) StoreMany(ctx context.Context, kind Kind, files []File) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, f := range files {
		if len(f.Data) == 0 {
			continue
		}
		ref, err := m.Store(ctx, kind, f)
		if err != nil {
			m.Delete(context.WithoutCancel(ctx), refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// AttachMany stores files as photos and appends their references to the
// listing, keeping the existing ones first.
func (m *Manager) AttachMany(ctx context.Context, listingID string, files []File) ([]string, error) {
	if m.listings == nil {
		return nil, errors.New("attachments: no listing store configured")
	}
	refs, err := m.StoreMany(ctx, KindPhoto, files)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return refs, nil
	}
	if _, err := m.listings.AppendImageURLs(ctx, listingID, refs); err != nil {
		m.Delete(context.WithoutCancel(ctx), refs)
		return nil, err
	}
	return refs, nil
}

// Delete removes the referenced files. It never fails: missing files are
// skipped, I/O errors are retried once and then logged.
func (m *Manager) Delete(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		key, err := m.Resolve(ref)
		if err != nil {
			m.log.Warn(ctx, "skipping unmanaged file reference", "ref", ref, "err", err)
			continue
		}

		err = m.store.Delete(ctx, key)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			err = m.store.Delete(ctx, key)
		}
		switch {
		case err == nil:
			m.log.Debug(ctx, "file deleted", "ref", ref)
		case errors.Is(err, fs.ErrNotExist):
			m.log.Debug(ctx, "file already gone", "ref", ref)
		default:
			m.log.Warn(ctx, "failed to delete file", "ref", ref, "err", err)
		}
	}
}

// Resolve maps a reference to its store key. References that could point
// outside the managed root are rejected with common.ErrInvalidReference.
func (m *Manager) Resolve(ref string) (string, error) {
	invalid := func(reason string) (string, error) {
		return "", fmt.Errorf("%w %q: %s", common.ErrInvalidReference, ref, reason)
	}

	if !strings.HasPrefix(ref, URLPrefix) {
		return invalid("outside " + URLPrefix)
	}
	key := strings.TrimPrefix(ref, URLPrefix)
	if key == "" || strings.ContainsAny(key, "\\\x00") || strings.HasPrefix(key, "/") {
		return invalid("malformed path")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return invalid("malformed path")
		}
	}
	if path.Clean(key) != key {
		return invalid("malformed path")
	}
	return key, nil
}

// Open streams the file behind ref. Missing files report common.ErrNotFound.
func (m *Manager) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	key, err := m.Resolve(ref)
	if err != nil {
		return nil, err
	}
	rc, err := m.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", ref, common.ErrNotFound)
		}
		return nil, &common.StorageError{Op: "open", Ref: ref, Err: err}
	}
	return rc, nil
}

// Prune removes stored files whose reference is not in referenced and
// returns the references it removed (or would remove, with dryRun).
func (m *Manager) Prune(ctx context.Context, referenced []string, dryRun bool) ([]string, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, ref := range referenced {
		keep[ref] = struct{}{}
	}

	keys, err := m.store.List(ctx)
	if err != nil {
		return nil, &common.StorageError{Op: "list", Err: err}
	}

	var orphans []string
	for _, key := range keys {
		ref := URLPrefix + key
		if _, ok := keep[ref]; !ok {
			orphans = append(orphans, ref)
		}
	}
	if !dryRun {
		m.Delete(ctx, orphans)
	}
	m.log.Info(ctx, "prune finished", "stored", len(keys), "orphans", len(orphans), "dry_run", dryRun)
	return orphans, nil
}

func newKey(kind Kind, ext string) string {
	id := uuid.New().String()
	if kind == KindAvatar {
		return avatarDir + "/" + avatarPrefix + id + ext
	}
	return id + ext
}

// sanitizeExtension keeps a short alphanumeric extension of name, with its
// dot, or returns "" when there is none worth keeping.
func sanitizeExtension(name string) string {
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	ext := name[i+1:]
	if ext == "" || len(ext) > maxExtensionLen {
		return ""
	}
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return "." + ext
}
