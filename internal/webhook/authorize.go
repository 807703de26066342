package webhook

import (
	"context"
	"errors"
	"strings"

	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

// Resolver decide se um remetente está autorizado a receber respostas
// da IA. Números autorizados podem ter sido cadastrados em formatos
// históricos diferentes (com ou sem DDI 55), então a busca tenta
// variantes em ordem fixa e para na primeira que casa.
type Resolver struct {
	repo storage.AuthorizedNumberRepository
}

func NewResolver(repo storage.AuthorizedNumberRepository) *Resolver {
	return &Resolver{repo: repo}
}

// NormalizeDigits remove tudo que não é dígito.
func NormalizeDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve aplica a busca em quatro passos:
//  1. match exato com o número normalizado
//  2. sem o DDI 55, quando presente e o número tem mais de 10 dígitos
//  3. com o DDI 55 adicionado, quando ausente e o número tem até 11 dígitos
//  4. sufixo dos últimos 9 dígitos, para cadastros legados de tamanho misto
//
// Só registros ativos da instância participam; a primeira variante que
// casar vence. Um erro de banco interrompe a busca: não dá para afirmar
// que o remetente não está autorizado.
func (r *Resolver) Resolve(ctx context.Context, instanceID, senderID string) (model.AuthorizedNumber, bool, error) {
	normalized := NormalizeDigits(senderID)
	if normalized == "" {
		return model.AuthorizedNumber{}, false, nil
	}

	num, err := r.repo.FindActive(ctx, instanceID, normalized)
	if err == nil {
		return num, true, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return model.AuthorizedNumber{}, false, err
	}

	if strings.HasPrefix(normalized, "55") && len(normalized) > 10 {
		num, err = r.repo.FindActive(ctx, instanceID, normalized[2:])
		if err == nil {
			return num, true, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return model.AuthorizedNumber{}, false, err
		}
	}

	if !strings.HasPrefix(normalized, "55") && len(normalized) <= 11 {
		num, err = r.repo.FindActive(ctx, instanceID, "55"+normalized)
		if err == nil {
			return num, true, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return model.AuthorizedNumber{}, false, err
		}
	}

	suffix := normalized
	if len(suffix) > 9 {
		suffix = suffix[len(suffix)-9:]
	}
	num, err = r.repo.FindActiveBySuffix(ctx, instanceID, suffix)
	if err == nil {
		return num, true, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return model.AuthorizedNumber{}, false, err
	}

	return model.AuthorizedNumber{}, false, nil
}
