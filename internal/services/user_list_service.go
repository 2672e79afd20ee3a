package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"usersadmin/internal/domain"
	"usersadmin/internal/domain/models"
	"usersadmin/internal/query"
	"usersadmin/internal/utils"
)

// UserListService answers paginated list requests.
//
// Items and totalCount come from two separate reads that are not linked by a
// transaction; under concurrent writes they may describe different moments.
// Callers must tolerate that skew.
type UserListService struct {
	Repo      UserReader
	RequestID string
}

// List returns the requested page. An empty page is not an error; a page
// past the end yields no items but the real totalCount.
func (s UserListService) List(ctx context.Context, filter domain.FilterSpec, sort *domain.SortSpec, page domain.PageRequest) (domain.PageResult, error) {
	if err := page.Validate(); err != nil {
		return domain.PageResult{}, err
	}

	q := query.Translate(filter, sort, page)

	var (
		items []models.User
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.Repo.Find(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.Repo.Count(gctx, q.Predicate)
		return err
	})
	if err := g.Wait(); err != nil {
		utils.LogFailure(s.RequestID, "users", "list", err)
		return domain.PageResult{}, domain.StoreError{Op: "list", Err: err}
	}

	if items == nil {
		items = []models.User{}
	}
	utils.LogEvent(s.RequestID, "users", "list",
		fmt.Sprintf("page=%d size=%d order=%s conditions=%d total=%d", page.Page, page.PageSize, q.Ordering.SQL(), len(q.Predicate.Conditions), total))

	return domain.PageResult{
		Items:      items,
		TotalCount: total,
		TotalPages: domain.TotalPages(total, page.PageSize),
		Page:       page.Page,
		PageSize:   page.PageSize,
	}, nil
}
