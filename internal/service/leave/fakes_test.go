package leave

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
)

// In-memory repositories backing the service tests. The balance fake keeps
// the same guarantees the SQL layer gives: Reserve is a guarded atomic
// check-and-increment, Release floors at zero, and decision updates only
// touch pending rows.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ListActiveByRole(_ context.Context, role user.Role) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, u := range r.users {
		if u.Role == role && u.IsActive {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, req user.UpdateUserRequest) error {
	return nil
}

type fakeTypeRepo struct {
	mu    sync.Mutex
	types map[string]leave.LeaveType
}

func newFakeTypeRepo(types ...leave.LeaveType) *fakeTypeRepo {
	r := &fakeTypeRepo{types: make(map[string]leave.LeaveType)}
	for _, lt := range types {
		r.types[lt.ID] = lt
	}
	return r
}

func (r *fakeTypeRepo) Create(_ context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lt.ID == "" {
		lt.ID = fmt.Sprintf("lt-%d", len(r.types)+1)
	}
	r.types[lt.ID] = lt
	return lt, nil
}

func (r *fakeTypeRepo) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lt, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *fakeTypeRepo) GetByName(_ context.Context, name string) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lt := range r.types {
		if lt.Name == name {
			return lt, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (r *fakeTypeRepo) List(_ context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveType
	for _, lt := range r.types {
		if activeOnly && !lt.IsActive {
			continue
		}
		out = append(out, lt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTypeRepo) Update(_ context.Context, req leave.UpdateLeaveTypeRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lt, ok := r.types[req.ID]
	if !ok {
		return leave.ErrLeaveTypeNotFound
	}
	if req.Name != nil {
		lt.Name = *req.Name
	}
	if req.Description != nil {
		lt.Description = req.Description
	}
	if req.MaxDaysPerRequest != nil {
		lt.MaxDaysPerRequest = req.MaxDaysPerRequest
	}
	if req.IsActive != nil {
		lt.IsActive = *req.IsActive
	}
	r.types[req.ID] = lt
	return nil
}

func (r *fakeTypeRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lt, ok := r.types[id]
	if !ok {
		return leave.ErrLeaveTypeNotFound
	}
	lt.IsActive = false
	r.types[id] = lt
	return nil
}

func balanceKey(employeeID, leaveTypeID string, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, leaveTypeID, year)
}

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]leave.LeaveBalance
	nextID   int
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]leave.LeaveBalance)}
}

func (r *fakeBalanceRepo) GetByEmployeeTypeYear(_ context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[balanceKey(employeeID, leaveTypeID, year)]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r *fakeBalanceRepo) ListByEmployeeYear(_ context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveBalance
	for _, b := range r.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveTypeID < out[j].LeaveTypeID })
	return out, nil
}

func (r *fakeBalanceRepo) CreateIfAbsent(_ context.Context, balance leave.LeaveBalance) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey(balance.EmployeeID, balance.LeaveTypeID, balance.Year)
	if _, ok := r.balances[key]; ok {
		return false, nil
	}
	r.nextID++
	balance.ID = fmt.Sprintf("bal-%d", r.nextID)
	r.balances[key] = balance
	return true, nil
}

func (r *fakeBalanceRepo) Reserve(_ context.Context, employeeID, leaveTypeID string, year, days int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey(employeeID, leaveTypeID, year)
	b, ok := r.balances[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if b.UsedDays+days > b.EntitledDays {
		return leave.ErrInsufficientBalance
	}
	b.UsedDays += days
	r.balances[key] = b
	return nil
}

func (r *fakeBalanceRepo) Release(_ context.Context, employeeID, leaveTypeID string, year, days int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey(employeeID, leaveTypeID, year)
	b, ok := r.balances[key]
	if !ok {
		return false, leave.ErrBalanceNotFound
	}
	clamped := false
	if b.UsedDays >= days {
		b.UsedDays -= days
	} else {
		b.UsedDays = 0
		clamped = true
	}
	r.balances[key] = b
	return clamped, nil
}

func (r *fakeBalanceRepo) SetEntitlement(_ context.Context, employeeID, leaveTypeID string, year, days int, markOverride bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey(employeeID, leaveTypeID, year)
	b, ok := r.balances[key]
	if !ok {
		r.nextID++
		b = leave.LeaveBalance{
			ID:          fmt.Sprintf("bal-%d", r.nextID),
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Year:        year,
		}
	}
	b.EntitledDays = days
	b.HasOverride = b.HasOverride || markOverride
	r.balances[key] = b
	return nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]leave.LeaveRequest
	nextID   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (r *fakeRequestRepo) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	request.ID = fmt.Sprintf("req-%d", r.nextID)
	request.Status = leave.LeaveRequestStatusPending
	request.CreatedAt = time.Now()
	r.requests[request.ID] = request
	return request, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) ListByEmployee(_ context.Context, employeeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) List(_ context.Context, managerID *string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.LeaveRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) HasOverlap(_ context.Context, employeeID string, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if req.Status != leave.LeaveRequestStatusPending && req.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		if !req.StartDate.After(end) && !req.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) UpdateDecision(_ context.Context, id string, status leave.LeaveRequestStatus, approvedBy string, comments *string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if req.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrInvalidTransition
	}
	now := time.Now()
	req.Status = status
	req.ApprovedBy = &approvedBy
	req.ApprovalComments = comments
	req.DecidedAt = &now
	r.requests[id] = req
	return req, nil
}

func roleEntKey(role user.Role, leaveTypeID string, year int) string {
	return fmt.Sprintf("%s|%s|%d", role, leaveTypeID, year)
}

type fakeRoleEntitlementRepo struct {
	mu   sync.Mutex
	ents map[string]leave.RoleEntitlement
}

func newFakeRoleEntitlementRepo() *fakeRoleEntitlementRepo {
	return &fakeRoleEntitlementRepo{ents: make(map[string]leave.RoleEntitlement)}
}

func (r *fakeRoleEntitlementRepo) Upsert(_ context.Context, ent leave.RoleEntitlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ents[roleEntKey(ent.Role, ent.LeaveTypeID, ent.Year)] = ent
	return nil
}

func (r *fakeRoleEntitlementRepo) GetByRoleTypeYear(_ context.Context, role user.Role, leaveTypeID string, year int) (leave.RoleEntitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ent, ok := r.ents[roleEntKey(role, leaveTypeID, year)]
	if !ok {
		return leave.RoleEntitlement{}, leave.ErrEntitlementNotFound
	}
	return ent, nil
}

func (r *fakeRoleEntitlementRepo) ListByRoleYear(_ context.Context, role user.Role, year int) ([]leave.RoleEntitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.RoleEntitlement
	for _, ent := range r.ents {
		if ent.Role == role && ent.Year == year {
			out = append(out, ent)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveTypeID < out[j].LeaveTypeID })
	return out, nil
}
