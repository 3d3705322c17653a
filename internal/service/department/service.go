package department

import (
	"context"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/department"
)

type DepartmentServiceImpl struct {
	departments department.DepartmentRepository
}

func NewDepartmentService(departments department.DepartmentRepository) department.DepartmentService {
	return &DepartmentServiceImpl{departments: departments}
}

// Create implements department.DepartmentService.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	created, err := s.departments.Create(ctx, department.Department{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return toResponse(created), nil
}

// Get implements department.DepartmentService.
func (s *DepartmentServiceImpl) Get(ctx context.Context, id string) (department.DepartmentResponse, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return toResponse(dept), nil
}

// List implements department.DepartmentService.
func (s *DepartmentServiceImpl) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		responses = append(responses, toResponse(dept))
	}
	return responses, nil
}

// Update implements department.DepartmentService.
func (s *DepartmentServiceImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) error {
	return s.departments.Update(ctx, req)
}

// Delete implements department.DepartmentService. Departments with members
// cannot be removed.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, id string) error {
	count, err := s.departments.CountMembers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return department.ErrDepartmentInUse
	}
	return s.departments.Delete(ctx, id)
}

func toResponse(d department.Department) department.DepartmentResponse {
	return department.DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
	}
}
