package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"usersadmin/internal/client"
	"usersadmin/internal/domain"
	"usersadmin/internal/query"
)

var (
	listPage    int
	listSort    string
	listFilters []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users one page at a time",
	Example: `  usersctl list --sort name:asc --filter role=admin
  usersctl list --page 2 -o yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := domain.ListRequest{Page: listPage, Limit: pageSize}
		if s := strings.TrimSpace(listSort); s != "" {
			field, order, _ := strings.Cut(s, ":")
			req.Sort = &domain.SortSpec{Field: field, Order: domain.ParseSortOrder(order)}
		}
		filter, err := parseFilterFlags(listFilters)
		if err != nil {
			return err
		}
		req.Filter = filter

		resp, err := apiClient.ListUsers(cmd.Context(), req)
		if err != nil {
			return err
		}
		return writePage(os.Stdout, listPage, resp)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := apiClient.GetUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeUser(os.Stdout, u)
	},
}

var (
	createRole   string
	createStatus string
)

var createCmd = &cobra.Command{
	Use:   "create <name> <email>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := apiClient.CreateUser(cmd.Context(), client.CreateUserRequest{
			Name:   args[0],
			Email:  args[1],
			Role:   createRole,
			Status: createStatus,
		})
		if err != nil {
			return err
		}
		return writeUser(os.Stdout, u)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a user",
	Example: `  usersctl update usr_abc --status banned
  usersctl update usr_abc --name "Jane Doe" --email jane@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req client.UpdateUserRequest
		for flag, dst := range map[string]**string{
			"name":   &req.Name,
			"email":  &req.Email,
			"role":   &req.Role,
			"status": &req.Status,
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*dst = &v
			}
		}
		if req.Name == nil && req.Email == nil && req.Role == nil && req.Status == nil {
			return fmt.Errorf("nothing to update: pass at least one of --name, --email, --role, --status")
		}
		u, err := apiClient.UpdateUser(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		return writeUser(os.Stdout, u)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more users",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			resp, err := apiClient.DeleteUser(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("deleting %s: %w", id, err)
			}
			fmt.Printf("Deleted %s (%s)\n", resp.Item.ID, resp.Item.Email)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort as field:asc or field:desc; fields: "+strings.Join(query.SortableFields(), ", "))
	listCmd.Flags().StringArrayVar(&listFilters, "filter", nil, "filter as field=value (repeatable)")

	createCmd.Flags().StringVar(&createRole, "role", "", "admin, user or moderator")
	createCmd.Flags().StringVar(&createStatus, "status", "", "active, banned or pending")

	updateCmd.Flags().String("name", "", "new name")
	updateCmd.Flags().String("email", "", "new email")
	updateCmd.Flags().String("role", "", "new role")
	updateCmd.Flags().String("status", "", "new status")
}

func parseFilterFlags(values []string) (domain.FilterSpec, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := domain.FilterSpec{}
	for _, kv := range values {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --filter %q, expected field=value", kv)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
