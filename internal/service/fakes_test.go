package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/hrstack/onboarding-service/internal/domain"
	pkgdto "github.com/hrstack/onboarding-service/pkg/dto"
)

// In-memory repository fakes. The services only ever see the repository
// interfaces, so these stand in for the database row-for-row.

type fakeUserRepo struct {
	users  map[int64]domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]domain.User), nextID: 1}
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.DeletedAt == nil {
			return u, nil
		}
	}
	return domain.User{}, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (domain.User, error) {
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return domain.User{}, nil
	}
	return u, nil
}

func (r *fakeUserRepo) AddUser(_ context.Context, data domain.User) (int64, error) {
	data.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	data.CreatedAt = now
	data.UpdatedAt = now
	r.users[data.ID] = data
	return data.ID, nil
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _ pkgdto.Filter) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) CountUsers(_ context.Context, _ pkgdto.Filter) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) RecordFailedLogin(_ context.Context, userID int64, attempts int, lockedUntil *time.Time) error {
	u := r.users[userID]
	u.FailedLoginAttempts = attempts
	u.LockedUntil = lockedUntil
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, hashedPassword string) error {
	u := r.users[userID]
	u.HashedPassword = hashedPassword
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, userID int64, role domain.Role) error {
	u := r.users[userID]
	u.Role = role
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) DeactivateUser(_ context.Context, userID int64) error {
	u := r.users[userID]
	u.IsActive = false
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) FindEligibleApprover(_ context.Context, excludeUserID int64) (domain.User, error) {
	candidates := make([]domain.User, 0)
	for _, u := range r.users {
		if u.ID == excludeUserID || !u.IsActive || u.DeletedAt != nil {
			continue
		}
		if u.Role != domain.RoleAdmin && u.Role != domain.RoleHRManager {
			continue
		}
		candidates = append(candidates, u)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].Role == domain.RoleAdmin && candidates[j].Role != domain.RoleAdmin
	})
	if len(candidates) == 0 {
		return domain.User{}, nil
	}
	return candidates[0], nil
}

type fakeSessionRepo struct {
	sessions map[int64]domain.Session
	nextID   int64
	users    *fakeUserRepo
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[int64]domain.Session), nextID: 1, users: users}
}

func (r *fakeSessionRepo) AddSessionForLogin(_ context.Context, data domain.Session) (int64, error) {
	data.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	data.CreatedAt = now
	r.sessions[data.ID] = data

	u := r.users.users[data.UserID]
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	r.users.users[data.UserID] = u

	return data.ID, nil
}

func (r *fakeSessionRepo) GetSessionByTokenHash(_ context.Context, tokenHash string) (domain.Session, error) {
	for _, s := range r.sessions {
		if s.TokenHash == tokenHash {
			return s, nil
		}
	}
	return domain.Session{}, nil
}

func (r *fakeSessionRepo) GetSessionByID(_ context.Context, id int64) (domain.Session, error) {
	return r.sessions[id], nil
}

func (r *fakeSessionRepo) GetActiveSessionsByUser(_ context.Context, userID int64) ([]domain.Session, error) {
	now := time.Now().UTC()
	out := make([]domain.Session, 0)
	for _, s := range r.sessions {
		if s.UserID == userID && s.Usable(now) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSessionRepo) RotateSessionToken(_ context.Context, sessionID int64, tokenHash string, expiresAt time.Time) error {
	s := r.sessions[sessionID]
	s.TokenHash = tokenHash
	s.ExpiresAt = expiresAt
	r.sessions[sessionID] = s
	return nil
}

func (r *fakeSessionRepo) DeactivateSession(_ context.Context, sessionID int64) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	s.IsActive = false
	r.sessions[sessionID] = s
	return nil
}

func (r *fakeSessionRepo) DeactivateAllSessions(_ context.Context, userID int64) error {
	for id, s := range r.sessions {
		if s.UserID == userID {
			s.IsActive = false
			r.sessions[id] = s
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeactivateOtherSessions(_ context.Context, userID int64, keepSessionID int64) error {
	for id, s := range r.sessions {
		if s.UserID == userID && s.ID != keepSessionID {
			s.IsActive = false
			r.sessions[id] = s
		}
	}
	return nil
}

type fakeTemplateRepo struct {
	templates map[int64]domain.Template
	items     map[int64][]domain.TemplateItem
	versions  []domain.TemplateVersion
	nextID    int64
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{
		templates: make(map[int64]domain.Template),
		items:     make(map[int64][]domain.TemplateItem),
		nextID:    1,
	}
}

func (r *fakeTemplateRepo) AddTemplate(_ context.Context, data domain.Template, items []domain.TemplateItem) (int64, error) {
	data.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	data.CreatedAt = now
	data.UpdatedAt = now
	r.templates[data.ID] = data
	for i := range items {
		items[i].TemplateID = data.ID
		if items[i].SortOrder == 0 {
			items[i].SortOrder = i + 1
		}
	}
	r.items[data.ID] = items
	return data.ID, nil
}

func (r *fakeTemplateRepo) GetTemplateByID(_ context.Context, id int64) (domain.Template, error) {
	t, ok := r.templates[id]
	if !ok || t.DeletedAt != nil {
		return domain.Template{}, nil
	}
	return t, nil
}

func (r *fakeTemplateRepo) GetTemplateItems(_ context.Context, templateID int64) ([]domain.TemplateItem, error) {
	return r.items[templateID], nil
}

func (r *fakeTemplateRepo) GetTemplates(_ context.Context, _ pkgdto.Filter) ([]domain.Template, error) {
	out := make([]domain.Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTemplateRepo) CountTemplates(_ context.Context, _ pkgdto.Filter) (int64, error) {
	return int64(len(r.templates)), nil
}

func (r *fakeTemplateRepo) UpdateTemplate(_ context.Context, data domain.Template, items []domain.TemplateItem) error {
	current := r.templates[data.ID]

	snapshot, err := json.Marshal(r.items[current.ID])
	if err != nil {
		return err
	}
	r.versions = append(r.versions, domain.TemplateVersion{
		ID:            int64(len(r.versions) + 1),
		TemplateID:    current.ID,
		Version:       current.Version,
		Name:          current.Name,
		Description:   current.Description,
		CategoryID:    current.CategoryID,
		Status:        current.Status,
		ItemsSnapshot: snapshot,
		CreatedAt:     time.Now().UTC(),
	})

	data.Version = current.Version + 1
	data.Status = current.Status
	data.UpdatedAt = time.Now().UTC()
	r.templates[data.ID] = data
	r.items[data.ID] = items
	return nil
}

func (r *fakeTemplateRepo) ArchiveTemplate(_ context.Context, id int64) error {
	t := r.templates[id]
	t.Status = domain.TemplateArchived
	r.templates[id] = t
	return nil
}

func (r *fakeTemplateRepo) GetTemplateVersions(_ context.Context, templateID int64) ([]domain.TemplateVersion, error) {
	out := make([]domain.TemplateVersion, 0)
	for _, v := range r.versions {
		if v.TemplateID == templateID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (r *fakeTemplateRepo) GetCategories(_ context.Context) ([]domain.TemplateCategory, error) {
	return []domain.TemplateCategory{
		{ID: 1, Name: "Engineering", Description: "Engineering onboarding"},
		{ID: 2, Name: "Sales", Description: "Sales onboarding"},
	}, nil
}

func (r *fakeTemplateRepo) setStatus(id int64, status domain.TemplateStatus) {
	t := r.templates[id]
	t.Status = status
	r.templates[id] = t
}

type fakeApprovalRepo struct {
	requests  map[int64]domain.ApprovalRequest
	nextID    int64
	templates *fakeTemplateRepo
}

func newFakeApprovalRepo(templates *fakeTemplateRepo) *fakeApprovalRepo {
	return &fakeApprovalRepo{requests: make(map[int64]domain.ApprovalRequest), nextID: 1, templates: templates}
}

func (r *fakeApprovalRepo) GetPendingByTemplate(_ context.Context, templateID int64) (domain.ApprovalRequest, error) {
	for _, req := range r.requests {
		if req.TemplateID == templateID && req.Status == domain.ApprovalPending {
			return req, nil
		}
	}
	return domain.ApprovalRequest{}, nil
}

func (r *fakeApprovalRepo) GetApprovalByID(_ context.Context, id int64) (domain.ApprovalRequest, error) {
	return r.requests[id], nil
}

func (r *fakeApprovalRepo) SubmitApproval(_ context.Context, data domain.ApprovalRequest) (int64, error) {
	data.ID = r.nextID
	r.nextID++
	data.Status = domain.ApprovalPending
	data.CreatedAt = time.Now().UTC()
	r.requests[data.ID] = data
	r.templates.setStatus(data.TemplateID, domain.TemplatePendingApproval)
	return data.ID, nil
}

func (r *fakeApprovalRepo) ResolveApproval(_ context.Context, requestID int64, status domain.ApprovalStatus, comments, changesRequested string, templateStatus domain.TemplateStatus, approverID int64) error {
	req := r.requests[requestID]
	now := time.Now().UTC()
	req.Status = status
	req.Comments = comments
	req.ChangesRequested = changesRequested
	req.RespondedAt = &now
	r.requests[requestID] = req

	t := r.templates.templates[req.TemplateID]
	t.Status = templateStatus
	if templateStatus == domain.TemplateApproved {
		t.ApprovedBy = &approverID
		t.ApprovedAt = &now
	}
	r.templates.templates[req.TemplateID] = t
	return nil
}

func (r *fakeApprovalRepo) GetApprovalsByAssignee(_ context.Context, assigneeID int64, filter pkgdto.Filter) ([]domain.ApprovalRequest, error) {
	out := make([]domain.ApprovalRequest, 0)
	for _, req := range r.requests {
		if req.AssigneeID != assigneeID {
			continue
		}
		if filter.Status != "" && string(req.Status) != filter.Status {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeApprovalRepo) CountApprovalsByAssignee(_ context.Context, assigneeID int64, filter pkgdto.Filter) (int64, error) {
	reqs, _ := r.GetApprovalsByAssignee(context.Background(), assigneeID, filter)
	return int64(len(reqs)), nil
}

func (r *fakeApprovalRepo) GetApprovalsByTemplate(_ context.Context, templateID int64) ([]domain.ApprovalRequest, error) {
	out := make([]domain.ApprovalRequest, 0)
	for _, req := range r.requests {
		if req.TemplateID == templateID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
