package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"usersadmin/internal/domain"
	"usersadmin/internal/domain/models"
	"usersadmin/internal/utils"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// userRow is the serialized shape for json and yaml output.
type userRow struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	Role      string `json:"role" yaml:"role"`
	Status    string `json:"status" yaml:"status"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
}

type pageOut struct {
	Items      []userRow `json:"items" yaml:"items"`
	Page       int       `json:"page" yaml:"page"`
	TotalCount int       `json:"totalCount" yaml:"totalCount"`
	TotalPages int       `json:"totalPages" yaml:"totalPages"`
}

func toRow(u models.User) userRow {
	return userRow{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: utils.FormatTimestamp(u.CreatedAt),
	}
}

func renderUsersTable(users []models.User) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "EMAIL", "ROLE", "STATUS", "CREATED").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, u := range users {
		t.Row(u.ID, u.Name, u.Email, string(u.Role), string(u.Status), utils.FormatDate(u.CreatedAt))
	}
	return t.String()
}

func writePage(w io.Writer, page int, resp domain.ListResponse) error {
	switch outputFormat {
	case "table":
		fmt.Fprintln(w, renderUsersTable(resp.Items))
		fmt.Fprintf(w, "page %d of %d, %d users\n", page, resp.TotalPages, resp.TotalCount)
		return nil
	default:
		out := pageOut{Items: make([]userRow, 0, len(resp.Items)), Page: page, TotalCount: resp.TotalCount, TotalPages: resp.TotalPages}
		for _, u := range resp.Items {
			out.Items = append(out.Items, toRow(u))
		}
		return encode(w, out)
	}
}

func writeUser(w io.Writer, u models.User) error {
	if outputFormat == "table" {
		fmt.Fprintln(w, renderUsersTable([]models.User{u}))
		return nil
	}
	return encode(w, toRow(u))
}

func encode(w io.Writer, v any) error {
	if outputFormat == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
