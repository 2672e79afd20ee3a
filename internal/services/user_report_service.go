package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"usersadmin/internal/domain"
	"usersadmin/internal/utils"
)

// UserReportService membuat PDF daftar user untuk satu halaman.
// It runs the same list path as the JSON endpoint, so totals match.
type UserReportService struct {
	Lister    UserListService
	Now       func() time.Time
	RequestID string
}

var reportColumns = []struct {
	title string
	width float64
}{
	{"Name", 55},
	{"Email", 70},
	{"Role", 22},
	{"Status", 22},
	{"Created", 28},
}

// Render returns the PDF bytes and a suggested filename.
func (s UserReportService) Render(ctx context.Context, filter domain.FilterSpec, sort *domain.SortSpec, page domain.PageRequest) ([]byte, string, error) {
	res, err := s.Lister.List(ctx, filter, sort, page)
	if err != nil {
		return nil, "", err
	}

	now := utils.NowUTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	// filter & sort ikut dicetak di header
	out, err := buildUsersPDF(res, filter, sort, now)
	if err != nil {
		utils.LogFailure(s.RequestID, "report", "render", err)
		return nil, "", domain.InternalError{Msg: "cannot render report", Err: err}
	}

	utils.LogEvent(s.RequestID, "report", "render", fmt.Sprintf("page=%d items=%d bytes=%d", res.Page, len(res.Items), len(out)))
	filename := fmt.Sprintf("USERS_%s_p%d.pdf", now.Format("20060102"), res.Page)
	return out, filename, nil
}

func buildUsersPDF(res domain.PageResult, filter domain.FilterSpec, sort *domain.SortSpec, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Users", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "USERS")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	header := []string{
		fmt.Sprintf("Generated : %s", now.Format("2006-01-02 15:04 MST")),
		fmt.Sprintf("Page      : %d of %d (%d per page)", res.Page, res.TotalPages, res.PageSize),
		fmt.Sprintf("Total     : %d", res.TotalCount),
		fmt.Sprintf("Sort      : %s", describeSort(sort)),
		fmt.Sprintf("Filter    : %s", describeFilter(filter)),
	}
	for _, line := range header {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range reportColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, u := range res.Items {
		cells := []string{u.Name, u.Email, string(u.Role), string(u.Status), utils.FormatDate(u.CreatedAt)}
		for i, c := range reportColumns {
			pdf.CellFormat(c.width, 6, clip(cells[i], c.width), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(res.Items) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 8, "No users on this page.")
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func describeSort(sort *domain.SortSpec) string {
	if sort == nil || strings.TrimSpace(sort.Field) == "" {
		return "createdAt desc (default)"
	}
	return sort.Field + " " + string(sort.Order)
}

func describeFilter(filter domain.FilterSpec) string {
	parts := make([]string, 0, len(filter))
	for _, k := range []string{"name", "email", "role", "status"} {
		if v := strings.TrimSpace(filter[k]); v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// clip keeps text inside a cell of width mm at 9pt Helvetica.
func clip(s string, width float64) string {
	max := int(width / 1.8)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "~"
}
