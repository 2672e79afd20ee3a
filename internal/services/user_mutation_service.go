package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"usersadmin/internal/domain"
	"usersadmin/internal/domain/models"
	"usersadmin/internal/events"
	"usersadmin/internal/idgen"
	"usersadmin/internal/repositories"
	"usersadmin/internal/utils"
)

// UserMutationService creates, updates and deletes users.
//
// Create checks email uniqueness with a read before the insert. The two
// steps are not atomic; the unique index on users.email catches the
// concurrent case and is reported with the same DUPLICATE_EMAIL code.
type UserMutationService struct {
	Repo      UserWriter
	Events    events.Publisher
	Now       func() time.Time
	NewID     func() (string, error)
	RequestID string
}

func (s UserMutationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

func (s UserMutationService) newID() (string, error) {
	if s.NewID != nil {
		return s.NewID()
	}
	return idgen.NewUserID()
}

// Get loads one user.
func (s UserMutationService) Get(ctx context.Context, id string) (models.User, error) {
	u, err := s.Repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return models.User{}, s.translate("get", id, err)
	}
	return u, nil
}

// Create validates in, rejects a taken email and inserts a new user.
func (s UserMutationService) Create(ctx context.Context, in models.CreateUserInput) (models.User, error) {
	in, err := normalizeCreate(in)
	if err != nil {
		return models.User{}, err
	}

	// cek email dulu sebelum insert; unique index tetap jadi penentu akhir
	exists, err := s.Repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return models.User{}, domain.StoreError{Op: "create", Err: err}
	}
	if exists {
		return models.User{}, duplicateEmail(in.Email, nil)
	}

	id, err := s.newID()
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "cannot assign id", Err: err}
	}
	now := s.now()
	u := models.User{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Insert(ctx, u); err != nil {
		return models.User{}, s.translate("create", id, err)
	}

	// event gagal tidak membatalkan create

	utils.LogEvent(s.RequestID, "users", "create", "id="+u.ID)
	s.publish(ctx, events.TopicUserCreated, events.UserCreated{User: u})
	return u, nil
}

// Update applies the provided fields of in to user id.
// Email uniqueness is not re-checked by a read; the unique index still applies.
func (s UserMutationService) Update(ctx context.Context, id string, in models.UpdateUserInput) (models.User, error) {
	id = strings.TrimSpace(id)
	in, err := normalizeUpdate(in)
	if err != nil {
		return models.User{}, err
	}
	if in.Empty() {
		return s.Get(ctx, id)
	}

	if _, err := s.Repo.Update(ctx, id, in, s.now()); err != nil {
		return models.User{}, s.translate("update", id, err)
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, s.translate("update", id, err)
	}

	utils.LogEvent(s.RequestID, "users", "update", "id="+id)
	s.publish(ctx, events.TopicUserUpdated, events.UserUpdated{User: u, Changes: changes(in)})
	return u, nil
}

// Delete removes user id and returns the removed record.
func (s UserMutationService) Delete(ctx context.Context, id string) (models.User, error) {
	id = strings.TrimSpace(id)
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, s.translate("delete", id, err)
	}
	n, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return models.User{}, s.translate("delete", id, err)
	}
	if n == 0 {
		return models.User{}, domain.NotFoundError{Resource: "user", ID: id}
	}

	utils.LogEvent(s.RequestID, "users", "delete", "id="+id)
	s.publish(ctx, events.TopicUserDeleted, events.UserDeleted{UserID: id, User: u})
	return u, nil
}

func (s UserMutationService) publish(ctx context.Context, topic string, event any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, event); err != nil {
		utils.LogFailure(s.RequestID, "events", topic, err)
	}
}

func (s UserMutationService) translate(op, id string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.NotFoundError{Resource: "user", ID: id, Err: err}
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return duplicateEmail("", err)
	default:
		utils.LogFailure(s.RequestID, "users", op, err)
		return domain.StoreError{Op: op, Err: err}
	}
}

func duplicateEmail(email string, cause error) error {
	msg := "email is already registered"
	if email != "" {
		msg = fmt.Sprintf("email %s is already registered", email)
	}
	return domain.ValidationError{Field: "email", Code: domain.CodeDuplicateEmail, Msg: msg, Err: cause}
}

func normalizeCreate(in models.CreateUserInput) (models.CreateUserInput, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Email = utils.NormalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if in.Status == "" {
		in.Status = models.StatusActive
	}

	if in.Name == "" {
		return in, required("name")
	}
	if in.Email == "" {
		return in, required("email")
	}
	if err := checkEnums(&in.Role, &in.Status); err != nil {
		return in, err
	}
	return in, nil
}

func normalizeUpdate(in models.UpdateUserInput) (models.UpdateUserInput, error) {
	if in.Name != nil {
		name := utils.NormalizeSpace(*in.Name)
		if name == "" {
			return in, required("name")
		}
		in.Name = &name
	}
	if in.Email != nil {
		email := utils.NormalizeEmail(*in.Email)
		if email == "" {
			return in, required("email")
		}
		in.Email = &email
	}
	if err := checkEnums(in.Role, in.Status); err != nil {
		return in, err
	}
	return in, nil
}

func checkEnums(role *models.Role, status *models.Status) error {
	if role != nil {
		*role = models.Role(utils.FoldCase(strings.TrimSpace(string(*role))))
		if !role.Valid() {
			return domain.ValidationError{Field: "role", Code: domain.CodeInvalidEnum, Msg: fmt.Sprintf("unknown role %q", *role)}
		}
	}
	if status != nil {
		*status = models.Status(utils.FoldCase(strings.TrimSpace(string(*status))))
		if !status.Valid() {
			return domain.ValidationError{Field: "status", Code: domain.CodeInvalidEnum, Msg: fmt.Sprintf("unknown status %q", *status)}
		}
	}
	return nil
}

func required(field string) error {
	return domain.ValidationError{Field: field, Code: domain.CodeRequired, Msg: "is required"}
}

func changes(in models.UpdateUserInput) map[string]any {
	out := map[string]any{}
	if in.Name != nil {
		out["name"] = *in.Name
	}
	if in.Email != nil {
		out["email"] = *in.Email
	}
	if in.Role != nil {
		out["role"] = string(*in.Role)
	}
	if in.Status != nil {
		out["status"] = string(*in.Status)
	}
	return out
}
