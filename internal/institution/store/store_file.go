package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"certledger/internal/institution/models"
	"certledger/pkg/platform/sentinel"
)

// FileStore keeps the onboarding dataset in two JSON files, one for approved
// institutions and one for pending requests. The full dataset is loaded at
// open and written through on every mutation with an atomic rename, so a
// crash mid-write never leaves a half-serialized file behind.
type FileStore struct {
	mu           sync.Mutex
	st           state
	approvedPath string
	pendingPath  string
}

func OpenFileStore(approvedPath, pendingPath string) (*FileStore, error) {
	f := &FileStore{
		approvedPath: approvedPath,
		pendingPath:  pendingPath,
	}
	if err := loadJSON(approvedPath, &f.st.Approved); err != nil {
		return nil, fmt.Errorf("load institutions: %w", err)
	}
	if err := loadJSON(pendingPath, &f.st.Pending); err != nil {
		return nil, fmt.Errorf("load pending institutions: %w", err)
	}
	return f, nil
}

func (f *FileStore) AppendPending(_ context.Context, req models.PendingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st.appendPending(req)
	return f.persistPending()
}

func (f *FileStore) ListPending(_ context.Context) ([]models.PendingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PendingRequest, len(f.st.Pending))
	copy(out, f.st.Pending)
	return out, nil
}

func (f *FileStore) ListApproved(_ context.Context) ([]models.Institution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Institution, len(f.st.Approved))
	copy(out, f.st.Approved)
	return out, nil
}

func (f *FileStore) FindApprovedByDomain(_ context.Context, domain string) (*models.Institution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inst := f.st.findApproved(domain); inst != nil {
		return inst, nil
	}
	return nil, sentinel.ErrNotFound
}

func (f *FileStore) ApproveDomain(_ context.Context, domain string, newCode CodeFunc) (*models.Institution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := f.st.clone()
	inst, err := f.st.approve(domain, newCode)
	if err != nil {
		return nil, err
	}
	if err := f.persistApproved(); err != nil {
		f.st = snapshot
		return nil, err
	}
	if err := f.persistPending(); err != nil {
		f.st = snapshot
		return nil, err
	}
	return inst, nil
}

func (f *FileStore) RemovePending(_ context.Context, domain string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	removed := f.st.removePending(domain)
	if removed == 0 {
		return 0, nil
	}
	if err := f.persistPending(); err != nil {
		return 0, err
	}
	return removed, nil
}

func (f *FileStore) persistApproved() error {
	return writeJSONAtomic(f.approvedPath, f.st.Approved)
}

func (f *FileStore) persistPending() error {
	return writeJSONAtomic(f.pendingPath, f.st.Pending)
}

func loadJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
