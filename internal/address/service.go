package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetloom/velvetloom-backend/pkg/db"
	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	pkgerrors "github.com/velvetloom/velvetloom-backend/pkg/errors"
	"github.com/velvetloom/velvetloom-backend/pkg/types"
)

// Service manages the customer's saved addresses.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]DTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*DTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, input Input) (*DTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) (*DTO, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an address service.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error) {
	addr, err := input.toModel(userID)
	if err != nil {
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		count, err := repo.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		// The first address is the default; an explicit default displaces
		// the previous one.
		if count == 0 {
			addr.IsDefault = true
		} else if addr.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, addr)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating address")
	}
	dto := toDTO(addr)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]DTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing addresses")
	}
	out := make([]DTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*DTO, error) {
	addr, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(addr)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input Input) (*DTO, error) {
	addr, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	updated, err := input.toModel(userID)
	if err != nil {
		return nil, err
	}
	updated.ID = addr.ID
	updated.CreatedAt = addr.CreatedAt

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if updated.IsDefault && !addr.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return repo.Update(ctx, updated)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating address")
	}
	dto := toDTO(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	addr, err := s.find(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Delete(ctx, userID, id); err != nil {
			return err
		}
		// Deleting the default hands the flag to the newest survivor.
		if addr.IsDefault {
			return repo.PromoteNewest(ctx, userID)
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting address")
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, userID, id uuid.UUID) (*DTO, error) {
	addr, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearDefault(ctx, userID); err != nil {
			return err
		}
		addr.IsDefault = true
		return repo.Update(ctx, addr)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "setting default address")
	}
	dto := toDTO(addr)
	return &dto, nil
}

func (s *service) find(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	addr, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading address")
	}
	return addr, nil
}

// Input is the create/update payload for a saved address.
type Input struct {
	Type       string `json:"type" validate:"omitempty,oneof=Home Work Other"`
	FullName   string `json:"full_name" validate:"required,min=2,max=120"`
	Phone      string `json:"phone" validate:"required,min=7,max=20"`
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2" validate:"omitempty,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
	Landmark   string `json:"landmark" validate:"omitempty,max=200"`
	IsDefault  bool   `json:"is_default"`
}

func (in Input) toModel(userID uuid.UUID) (*models.Address, error) {
	addrType := enums.AddressTypeHome
	if trimmed := strings.TrimSpace(in.Type); trimmed != "" {
		parsed, err := enums.ParseAddressType(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid address type")
		}
		addrType = parsed
	}

	addr := &models.Address{
		UserID:     userID,
		Type:       addrType,
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      strings.TrimSpace(in.Phone),
		Line1:      strings.TrimSpace(in.Line1),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		IsDefault:  in.IsDefault,
	}
	if line2 := strings.TrimSpace(in.Line2); line2 != "" {
		addr.Line2 = &line2
	}
	if landmark := strings.TrimSpace(in.Landmark); landmark != "" {
		addr.Landmark = &landmark
	}
	if addr.FullName == "" || addr.Line1 == "" || addr.City == "" ||
		addr.State == "" || addr.PostalCode == "" || addr.Country == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is incomplete")
	}
	return addr, nil
}

// DTO is the API projection of a saved address.
type DTO struct {
	ID         uuid.UUID         `json:"id"`
	Type       enums.AddressType `json:"type"`
	FullName   string            `json:"full_name"`
	Phone      string            `json:"phone"`
	Line1      string            `json:"line1"`
	Line2      *string           `json:"line2,omitempty"`
	City       string            `json:"city"`
	State      string            `json:"state"`
	PostalCode string            `json:"postal_code"`
	Country    string            `json:"country"`
	Landmark   *string           `json:"landmark,omitempty"`
	IsDefault  bool              `json:"is_default"`
}

func toDTO(a *models.Address) DTO {
	return DTO{
		ID:         a.ID,
		Type:       a.Type,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Landmark:   a.Landmark,
		IsDefault:  a.IsDefault,
	}
}

// ToShipping converts a saved address into the snapshot stored on orders.
func (d DTO) ToShipping() types.ShippingAddress {
	line2 := ""
	if d.Line2 != nil {
		line2 = *d.Line2
	}
	return types.ShippingAddress{
		FullName:   d.FullName,
		Phone:      d.Phone,
		Line1:      d.Line1,
		Line2:      line2,
		City:       d.City,
		State:      d.State,
		PostalCode: d.PostalCode,
		Country:    d.Country,
	}
}
