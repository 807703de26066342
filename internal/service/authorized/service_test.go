package authorized

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verlic/zapcentral/internal/storage"
	"github.com/verlic/zapcentral/internal/storage/model"
)

type fakeRepo struct {
	byID map[string]model.AuthorizedNumber
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]model.AuthorizedNumber{}}
}

func (f *fakeRepo) Create(ctx context.Context, number model.AuthorizedNumber) (model.AuthorizedNumber, error) {
	if number.ID == "" {
		number.ID = uuid.New().String()
	}
	number.CreatedAt = time.Now()
	number.UpdatedAt = number.CreatedAt
	f.byID[number.ID] = number
	return number, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (model.AuthorizedNumber, error) {
	number, ok := f.byID[id]
	if !ok {
		return model.AuthorizedNumber{}, storage.ErrNotFound
	}
	return number, nil
}

func (f *fakeRepo) FindActive(ctx context.Context, instanceID, phone string) (model.AuthorizedNumber, error) {
	for _, number := range f.byID {
		if number.InstanceID == instanceID && number.PhoneNumber == phone && number.IsActive {
			return number, nil
		}
	}
	return model.AuthorizedNumber{}, storage.ErrNotFound
}

func (f *fakeRepo) FindActiveBySuffix(ctx context.Context, instanceID, suffix string) (model.AuthorizedNumber, error) {
	return model.AuthorizedNumber{}, storage.ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context, instanceID string) ([]model.AuthorizedNumber, error) {
	var out []model.AuthorizedNumber
	for _, number := range f.byID {
		if instanceID == "" || number.InstanceID == instanceID {
			out = append(out, number)
		}
	}
	return out, nil
}

func (f *fakeRepo) NamesByPhone(ctx context.Context, phones []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (f *fakeRepo) Update(ctx context.Context, number model.AuthorizedNumber) (model.AuthorizedNumber, error) {
	if _, ok := f.byID[number.ID]; !ok {
		return model.AuthorizedNumber{}, storage.ErrNotFound
	}
	number.UpdatedAt = time.Now()
	f.byID[number.ID] = number
	return number, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeInstanceRepo struct {
	ids map[string]bool
}

func (f *fakeInstanceRepo) Create(ctx context.Context, instance model.Instance) (model.Instance, error) {
	return instance, nil
}

func (f *fakeInstanceRepo) GetByID(ctx context.Context, id string) (model.Instance, error) {
	if !f.ids[id] {
		return model.Instance{}, storage.ErrNotFound
	}
	return model.Instance{ID: id}, nil
}

func (f *fakeInstanceRepo) GetByName(ctx context.Context, name string) (model.Instance, error) {
	return model.Instance{}, storage.ErrNotFound
}

func (f *fakeInstanceRepo) List(ctx context.Context) ([]model.Instance, error) {
	return nil, nil
}

func (f *fakeInstanceRepo) Update(ctx context.Context, instance model.Instance) (model.Instance, error) {
	return instance, nil
}

func (f *fakeInstanceRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	instances := &fakeInstanceRepo{ids: map[string]bool{"inst-1": true}}
	return NewService(repo, instances, zap.NewNop())
}

func TestCreateNormalizesPhone(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	number, err := svc.Create(context.Background(), CreateInput{
		InstanceID:  "inst-1",
		PhoneNumber: "+55 (11) 99999-8888",
		Name:        "Maria",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if number.PhoneNumber != "5511999998888" {
		t.Errorf("phone = %q, esperado somente dígitos", number.PhoneNumber)
	}
	if !number.IsActive {
		t.Error("número deveria nascer ativo")
	}
}

func TestCreateValidations(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, err := svc.Create(context.Background(), CreateInput{InstanceID: "inst-1", PhoneNumber: "123", Name: "Maria"}); !errors.Is(err, ErrInvalidPhone) {
		t.Errorf("telefone curto: err = %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{InstanceID: "inst-1", PhoneNumber: "5511999998888", Name: "  "}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("nome vazio: err = %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{InstanceID: "inst-404", PhoneNumber: "5511999998888", Name: "Maria"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("instância inexistente: err = %v", err)
	}
}

func TestCreateRejectsDuplicate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	input := CreateInput{InstanceID: "inst-1", PhoneNumber: "5511999998888", Name: "Maria"}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// mesmo número com máscara diferente continua duplicado
	input.PhoneNumber = "+55 11 99999-8888"
	if _, err := svc.Create(context.Background(), input); !errors.Is(err, ErrDuplicatePhone) {
		t.Errorf("err = %v, esperado ErrDuplicatePhone", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInput{InstanceID: "inst-1", PhoneNumber: "5511999998888", Name: "Maria"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inactive := false
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.IsActive {
		t.Error("número deveria estar inativo")
	}
	if updated.PhoneNumber != "5511999998888" || updated.Name != "Maria" {
		t.Error("campos não informados foram alterados")
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())

	name := "Outro"
	if _, err := svc.Update(context.Background(), "id-404", UpdateInput{Name: &name}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, esperado ErrNotFound", err)
	}
}
