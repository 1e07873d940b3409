package handlers

import (
	"errors"
	"net/http"

	"github.com/drivebox/apiserver/internal/auth"
	"github.com/drivebox/apiserver/internal/services"
	"github.com/drivebox/apiserver/internal/store"
)

// User-facing messages. The API speaks Portuguese; the two strings for
// credentials and quota are part of the public contract.
const (
	msgInvalidRequest     = "Requisição inválida"
	msgMissingFields      = "Campos obrigatórios ausentes"
	msgInvalidCredentials = "Credenciais inválidas"
	msgDuplicateAccount   = "Email ou nome de usuário já cadastrado"
	msgQuotaExceeded      = "Limite de armazenamento excedido"
	msgAccountNotFound    = "Conta não encontrada"
	msgTokenMissing       = "Token não fornecido"
	msgTokenInvalid       = "Token inválido"
	msgTokenExpired       = "Token expirado"
	msgInternalError      = "Erro interno do servidor"
	msgInvalidFileSize    = "Tamanho de arquivo inválido"
)

// errorStatusTable maps core error kinds to HTTP semantics. The core
// packages never produce status codes; this table is the only place
// where the translation happens.
var errorStatusTable = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrInvalidCredentials, http.StatusUnauthorized, msgInvalidCredentials},
	{store.ErrDuplicate, http.StatusConflict, msgDuplicateAccount},
	{store.ErrQuotaExceeded, http.StatusBadRequest, msgQuotaExceeded},
	{store.ErrInvalidDelta, http.StatusBadRequest, msgInvalidFileSize},
	{store.ErrNotFound, http.StatusNotFound, msgAccountNotFound},
	{auth.ErrTokenExpired, http.StatusUnauthorized, msgTokenExpired},
	{auth.ErrTokenInvalid, http.StatusUnauthorized, msgTokenInvalid},
}

// respondError writes the mapped status and message for a core error.
// Unrecognized errors become a 500 with a generic message.
func respondError(w http.ResponseWriter, err error) {
	for _, entry := range errorStatusTable {
		if errors.Is(err, entry.err) {
			writeError(w, entry.status, entry.message)
			return
		}
	}
	writeError(w, http.StatusInternalServerError, msgInternalError)
}
