package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/careconnect/careconnect/server/internal/patients"
	"github.com/careconnect/careconnect/server/internal/patients/repository"
	"github.com/careconnect/careconnect/server/internal/provider"
	"github.com/careconnect/careconnect/server/internal/storage"
	"github.com/careconnect/careconnect/server/pkg/logger"
)

// DocumentUpload carries an identification document attached to a
// registration request.
type DocumentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// RegisterInput is a patient registration request: the record fields
// plus an optional identification document.
type RegisterInput struct {
	Patient  patients.Patient
	Document *DocumentUpload
}

// Service defines the patient registration operations used by the
// handler layer.
type Service interface {
	EnsureAccount(ctx context.Context, name, email, phone string) (*provider.Account, error)
	Register(ctx context.Context, input RegisterInput) (*patients.Patient, error)
	Get(ctx context.Context, userID string) (*patients.Patient, error)
	List(ctx context.Context) ([]*patients.Patient, error)
}

type patientService struct {
	repo     repository.Repository
	identity provider.Identity
	files    storage.FileStore
}

// New wires a patient service. files may be nil when no object store
// is configured; registrations then proceed without document upload.
func New(repo repository.Repository, identity provider.Identity, files storage.FileStore) Service {
	return &patientService{repo: repo, identity: identity, files: files}
}

// EnsureAccount creates a provider account for the patient, falling
// back to the existing account when the email is already registered.
func (s *patientService) EnsureAccount(ctx context.Context, name, email, phone string) (*provider.Account, error) {
	acct, err := s.identity.CreateAccount(ctx, email, "", name)
	if err == nil {
		if perr := s.identity.UpdatePrefs(ctx, acct.ID, map[string]any{"role": "patient", "phone": phone}); perr != nil {
			logger.Warnf("patient account %s created but prefs update failed: %v", acct.ID, perr)
		}
		return acct, nil
	}
	if !provider.IsConflict(err) {
		return nil, fmt.Errorf("create patient account: %w", err)
	}
	existing, lerr := s.identity.ListAccountsByEmail(ctx, email)
	if lerr != nil || len(existing) == 0 {
		return nil, fmt.Errorf("lookup existing account for %s: %w", email, err)
	}
	return &existing[0], nil
}

func (s *patientService) Register(ctx context.Context, input RegisterInput) (*patients.Patient, error) {
	p := input.Patient
	if p.UserID == "" {
		return nil, fmt.Errorf("register patient: missing user id")
	}

	if input.Document != nil && s.files != nil {
		key := path.Join("identification", p.UserID, input.Document.FileName)
		if err := s.files.Upload(ctx, key, input.Document.Reader, input.Document.Size, input.Document.ContentType); err != nil {
			return nil, fmt.Errorf("upload identification document: %w", err)
		}
		url, err := s.files.ViewURL(ctx, key, 7*24*time.Hour)
		if err != nil {
			return nil, fmt.Errorf("presign identification document: %w", err)
		}
		p.IdentificationDocumentID = key
		p.IdentificationDocumentURL = url
	}

	if _, err := s.repo.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("store patient record: %w", err)
	}
	return &p, nil
}

func (s *patientService) Get(ctx context.Context, userID string) (*patients.Patient, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *patientService) List(ctx context.Context) ([]*patients.Patient, error) {
	return s.repo.List(ctx)
}
