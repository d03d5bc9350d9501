// Package links строит ссылки на форму принятия происшествия и подписывает их,
// чтобы больница не могла принять чужое предложение подделанной ссылкой.
package links

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Signer struct {
	baseURL string
	secret  []byte
}

// NewSigner создает Signer. Пустой secret отключает подписи.
func NewSigner(baseURL, secret string) *Signer {
	return &Signer{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
	}
}

// AcceptURL возвращает ссылку вида {base}/accept/{id}?hospital_id={rid}&sig={hmac}
func (s *Signer) AcceptURL(incidentID uuid.UUID, responderID int64) string {
	query := url.Values{}
	query.Set("hospital_id", strconv.FormatInt(responderID, 10))
	if sig := s.Sign(incidentID, responderID); sig != "" {
		query.Set("sig", sig)
	}
	return fmt.Sprintf("%s/accept/%s?%s", s.baseURL, incidentID, query.Encode())
}

// Sign возвращает HMAC-SHA256 подпись пары (происшествие, больница)
func (s *Signer) Sign(incidentID uuid.UUID, responderID int64) string {
	if len(s.secret) == 0 {
		return ""
	}
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(incidentID.String()))
	h.Write([]byte{':'})
	h.Write([]byte(strconv.FormatInt(responderID, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify проверяет подпись ссылки; без секрета любая ссылка считается валидной
func (s *Signer) Verify(incidentID uuid.UUID, responderID int64, signature string) bool {
	if len(s.secret) == 0 {
		return true
	}
	expected := s.Sign(incidentID, responderID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
