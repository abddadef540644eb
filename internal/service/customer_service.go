package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zayar/cashflow-pwa-sub000/internal/dto"
	"github.com/zayar/cashflow-pwa-sub000/internal/model"
	"github.com/zayar/cashflow-pwa-sub000/internal/repository"
)

// CustomerService backs the customer picker and customer management screens.
type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func mapCustomer(c model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:     c.ID.String(),
		Name:   c.Name,
		Email:  c.Email,
		Phone:  c.Phone,
		Active: c.Active,
	}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (dto.CustomerResponse, error) {
	c := &model.Customer{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Active: true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CustomerResponse{}, err
	}
	return mapCustomer(*c), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CustomerResponse{}, errors.New("customer not found")
		}
		return dto.CustomerResponse{}, err
	}
	return mapCustomer(*c), nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		data = append(data, mapCustomer(c))
	}
	return &dto.CustomerListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CustomerResponse{}, errors.New("customer not found")
		}
		return dto.CustomerResponse{}, err
	}
	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CustomerResponse{}, err
	}
	return mapCustomer(*c), nil
}

func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("customer not found")
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}
