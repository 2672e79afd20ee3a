package listview

import (
	"context"
	"errors"

	"usersadmin/internal/client"
	"usersadmin/internal/domain"
	"usersadmin/internal/domain/models"
)

// Mutations are the write calls the coordinator wraps. *client.HTTPClient
// satisfies it.
type Mutations interface {
	CreateUser(ctx context.Context, req client.CreateUserRequest) (models.User, error)
	UpdateUser(ctx context.Context, id string, req client.UpdateUserRequest) (models.User, error)
	DeleteUser(ctx context.Context, id string) (client.DeleteUserResponse, error)
}

// Notifier surfaces outcomes to the user.
type Notifier interface {
	Success(msg string)
	Error(err error)
	FieldError(field, msg string)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Success(string)            {}
func (NopNotifier) Error(error)               {}
func (NopNotifier) FieldError(string, string) {}

// Coordinator keeps a View consistent after writes.
//
// After a create it returns to page 1, where the new record shows under the
// default newest-first order. After an update it refreshes the current page.
// After a delete it refreshes the current page and steps back one page if
// that page came back empty. Create and delete drop every cached page since
// positions shift across the whole list.
type Coordinator struct {
	View     *View
	Mut      Mutations
	Notifier Notifier
}

func (c *Coordinator) notifier() Notifier {
	if c.Notifier != nil {
		return c.Notifier
	}
	return NopNotifier{}
}

// Create runs the create call and, on success, refreshes the list.
func (c *Coordinator) Create(ctx context.Context, req client.CreateUserRequest) (models.User, error) {
	u, err := c.Mut.CreateUser(ctx, req)
	if err != nil {
		c.Fail(err)
		return models.User{}, err
	}
	c.notifier().Success("user " + u.Name + " created")
	return u, c.Created(ctx)
}

// Update runs the update call and, on success, refreshes the list.
func (c *Coordinator) Update(ctx context.Context, id string, req client.UpdateUserRequest) (models.User, error) {
	u, err := c.Mut.UpdateUser(ctx, id, req)
	if err != nil {
		c.Fail(err)
		return models.User{}, err
	}
	c.notifier().Success("user " + u.Name + " updated")
	return u, c.Updated(ctx)
}

// Delete runs the delete call and, on success, refreshes the list.
func (c *Coordinator) Delete(ctx context.Context, id string) (models.User, error) {
	resp, err := c.Mut.DeleteUser(ctx, id)
	if err != nil {
		c.Fail(err)
		return models.User{}, err
	}
	c.notifier().Success("user " + resp.Item.Name + " deleted")
	return resp.Item, c.Deleted(ctx)
}

// Created invalidates page 1 of the current sort/filter and moves there.
func (c *Coordinator) Created(ctx context.Context) error {
	c.View.Do(func(s *QueryState) {
		// page 1 is among the dropped pages
		c.View.cache.Clear()
		s.SetPage(1)
	})
	return c.reload(ctx)
}

// Updated invalidates the current variables and reloads them.
func (c *Coordinator) Updated(ctx context.Context) error {
	c.View.Do(func(s *QueryState) {
		c.View.cache.Invalidate(s.Variables())
	})
	return c.reload(ctx)
}

// Deleted invalidates and reloads, stepping back a page when the current
// one is now empty and not the first.
func (c *Coordinator) Deleted(ctx context.Context) error {
	c.View.Do(func(*QueryState) { c.View.cache.Clear() })
	res := c.View.Reload(ctx)
	if res.Err != nil {
		return c.reloadErr(res.Err)
	}
	if len(res.Response.Items) > 0 || res.Vars.Page <= 1 {
		return nil
	}

	stepped := false
	c.View.Do(func(s *QueryState) {
		// a transition may have run while the reload was in flight
		if s.Page() == res.Vars.Page {
			s.SetPage(res.Vars.Page - 1)
			stepped = true
		}
	})
	if !stepped {
		return nil
	}
	return c.reload(ctx)
}

// Fail reports a failed mutation. Validation errors bound to a field go to
// FieldError; everything else to Error. The view state is left unchanged.
func (c *Coordinator) Fail(err error) {
	if v, ok := domain.AsValidation(err); ok && v.Field != "" {
		c.notifier().FieldError(v.Field, v.Msg)
		return
	}
	c.notifier().Error(err)
}

func (c *Coordinator) reload(ctx context.Context) error {
	return c.reloadErr(c.View.Reload(ctx).Err)
}

func (c *Coordinator) reloadErr(err error) error {
	if err == nil || errors.Is(err, ErrSuperseded) {
		return nil
	}
	c.notifier().Error(err)
	return err
}
