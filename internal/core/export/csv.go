// Package export renders user lists as CSV downloads.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

const dateLayout = "2006-01-02"

// Header is the first CSV row.
var Header = []string{"Name", "Email", "Role", "Status", "Join Date", "Last Login"}

// Row renders one user with the table's display defaults. Status follows
// the premium flag alone; a premium role without the flag exports as Free.
func Row(u *domain.User) []string {
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	status := "Free"
	if u.IsPremium {
		status = "Premium"
	}
	return []string{
		u.NameOrDefault(),
		u.Email,
		role,
		status,
		formatDate(u.CreatedAt, "Unknown"),
		formatDate(u.LastLogin, "Never"),
	}
}

// WriteCSV writes the header and one row per user. Every field is quoted and
// embedded quotes are doubled; rows end with "\n" and there is no trailing
// newline.
func WriteCSV(w io.Writer, users []*domain.User) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, Header)
	for _, u := range users {
		bw.WriteByte('\n')
		writeRow(bw, Row(u))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Filename returns the download name for an export taken at t.
func Filename(t time.Time) string {
	return "users-export-" + t.UTC().Format(dateLayout) + ".csv"
}

func writeRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
}

func formatDate(t time.Time, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.Format(dateLayout)
}
