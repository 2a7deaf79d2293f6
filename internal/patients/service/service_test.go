package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/careconnect/careconnect/server/internal/patients"
	"github.com/careconnect/careconnect/server/internal/patients/repository"
	"github.com/careconnect/careconnect/server/internal/provider"
)

// fakeIdentity covers the two provider calls the patient service makes.
type fakeIdentity struct {
	provider.Identity
	existing   []provider.Account
	conflict   bool
	created    int
	lastPrefs  map[string]any
	prefsCalls int
}

func (f *fakeIdentity) CreateAccount(ctx context.Context, email, password, name string) (*provider.Account, error) {
	if f.conflict {
		return nil, &provider.APIError{Status: http.StatusConflict, Message: "user already exists"}
	}
	f.created++
	return &provider.Account{ID: "user-new", Email: email, Name: name}, nil
}

func (f *fakeIdentity) UpdatePrefs(ctx context.Context, userID string, prefs map[string]any) error {
	f.prefsCalls++
	f.lastPrefs = prefs
	return nil
}

func (f *fakeIdentity) ListAccountsByEmail(ctx context.Context, email string) ([]provider.Account, error) {
	return f.existing, nil
}

// fakeFiles records uploads in memory.
type fakeFiles struct {
	objects map[string][]byte
}

func (f *fakeFiles) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = b
	return nil
}

func (f *fakeFiles) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.objects[key])), nil
}

func (f *fakeFiles) ViewURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://files.example.com/" + key, nil
}

func TestEnsureAccount_CreatesNew(t *testing.T) {
	ident := &fakeIdentity{}
	svc := New(repository.NewMemoryRepo(), ident, nil)

	acct, err := svc.EnsureAccount(context.Background(), "Pat Doe", "pat@example.com", "+15550100")
	require.NoError(t, err)
	require.Equal(t, "user-new", acct.ID)
	require.Equal(t, 1, ident.created)
	require.Equal(t, "patient", ident.lastPrefs["role"])
}

func TestEnsureAccount_ConflictReturnsExisting(t *testing.T) {
	ident := &fakeIdentity{
		conflict: true,
		existing: []provider.Account{{ID: "user-old", Email: "pat@example.com"}},
	}
	svc := New(repository.NewMemoryRepo(), ident, nil)

	acct, err := svc.EnsureAccount(context.Background(), "Pat Doe", "pat@example.com", "+15550100")
	require.NoError(t, err)
	require.Equal(t, "user-old", acct.ID)
	require.Equal(t, 0, ident.created)
}

func TestRegister_WithIdentificationDocument(t *testing.T) {
	files := &fakeFiles{}
	repo := repository.NewMemoryRepo()
	svc := New(repo, &fakeIdentity{}, files)

	p, err := svc.Register(context.Background(), RegisterInput{
		Patient: patients.Patient{UserID: "user-1", Name: "Pat Doe", Email: "pat@example.com", Phone: "+15550100"},
		Document: &DocumentUpload{
			FileName:    "passport.png",
			ContentType: "image/png",
			Size:        4,
			Reader:      strings.NewReader("data"),
		},
	})
	require.NoError(t, err)
	require.Equal(t, "identification/user-1/passport.png", p.IdentificationDocumentID)
	require.Equal(t, "https://files.example.com/identification/user-1/passport.png", p.IdentificationDocumentURL)
	require.Equal(t, []byte("data"), files.objects["identification/user-1/passport.png"])

	got, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, p.IdentificationDocumentURL, got.IdentificationDocumentURL)
}

func TestRegister_WithoutDocumentOrStore(t *testing.T) {
	svc := New(repository.NewMemoryRepo(), &fakeIdentity{}, nil)

	p, err := svc.Register(context.Background(), RegisterInput{
		Patient: patients.Patient{UserID: "user-2", Name: "Sam Roe", Email: "sam@example.com"},
	})
	require.NoError(t, err)
	require.Empty(t, p.IdentificationDocumentID)

	_, err = svc.Register(context.Background(), RegisterInput{})
	require.Error(t, err)
}
