package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/drivebox/apiserver/types"
	"github.com/google/uuid"
)

// Fabricated listing bounds. There is no file content behind any of
// this; the subsystem only exercises quota accounting.
const (
	minListedFiles = 3
	maxListedFiles = 8
	maxListedSize  = 50 << 20
)

var sampleNames = []string{
	"relatorio", "apresentacao", "orcamento", "contrato",
	"foto_viagem", "backup", "notas", "planilha",
}

var sampleExtensions = []struct {
	ext  string
	mime string
}{
	{"pdf", "application/pdf"},
	{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	{"jpg", "image/jpeg"},
	{"png", "image/png"},
	{"zip", "application/zip"},
}

// FileService simulates uploads and listings. Uploads only move the
// account's storage counter; listings are random records.
type FileService struct {
	accounts *AccountService
}

func NewFileService(accounts *AccountService) *FileService {
	return &FileService{accounts: accounts}
}

// List fabricates a listing for the account. The account must exist.
func (s *FileService) List(ctx context.Context, accountID string) ([]types.File, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	count := minListedFiles + rand.Intn(maxListedFiles-minListedFiles+1)
	files := make([]types.File, 0, count)
	for i := 0; i < count; i++ {
		name := sampleNames[rand.Intn(len(sampleNames))]
		kind := sampleExtensions[rand.Intn(len(sampleExtensions))]
		files = append(files, types.File{
			ID:         uuid.NewString(),
			Name:       fmt.Sprintf("%s_%d.%s", name, i+1, kind.ext),
			Size:       1 + rand.Int63n(maxListedSize),
			MimeType:   kind.mime,
			UploadedAt: time.Now().UTC().Add(-time.Duration(rand.Intn(30*24)) * time.Hour),
		})
	}
	return files, nil
}

// Upload charges size bytes against the account's quota and returns a
// fabricated file record. Quota failures leave the counter unchanged.
func (s *FileService) Upload(ctx context.Context, accountID, name string, size int64) (types.File, types.Account, error) {
	account, err := s.accounts.AddStorage(ctx, accountID, size)
	if err != nil {
		return types.File{}, types.Account{}, err
	}

	if name == "" {
		name = fmt.Sprintf("arquivo_%d", time.Now().Unix())
	}
	file := types.File{
		ID:         uuid.NewString(),
		Name:       name,
		Size:       size,
		MimeType:   "application/octet-stream",
		UploadedAt: time.Now().UTC(),
	}
	return file, account, nil
}
