package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"jobtrack/internal/analytics"
	"jobtrack/internal/config"
	"jobtrack/internal/database/sqlc"
	"jobtrack/internal/query"
	"jobtrack/internal/tracker"
)

const dateLayout = "2006-01-02"

func printConfig(cfg *config.Config) {
	fmt.Printf("Owner ID:   %s\n", cfg.OwnerID)
	fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
	fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
	fmt.Printf("Log Level:  %s\n", cfg.LogLevel)
	fmt.Printf("Server:     %s\n", cfg.Server.Addr)
	fmt.Printf("\nDatabase:\n")
	fmt.Printf("  Type:     %s\n", cfg.Database.Type)
	if cfg.Database.DataDir != "" {
		fmt.Printf("  Data Dir: %s\n", cfg.Database.DataDir)
	}
	fmt.Printf("\nEncryption:\n")
	fmt.Printf("  Type:        %s\n", cfg.Encryption.Type)
	fmt.Printf("  Public Key:  %s\n", cfg.Encryption.PublicKeyPath)
	fmt.Printf("  Private Key: %s\n", cfg.Encryption.PrivateKeyPath)

	if len(cfg.Vaults) == 0 {
		fmt.Printf("\nNo vaults configured.\n")
		return
	}
	fmt.Printf("\nVaults:\n")
	for _, v := range cfg.Vaults {
		fmt.Printf("  - %s (%s)\n", v.Name, v.Type)
		switch v.Type {
		case "s3":
			fmt.Printf("      Bucket: %s\n", v.S3Bucket)
			if v.S3Prefix != "" {
				fmt.Printf("      Prefix: %s\n", v.S3Prefix)
			}
		case "filesystem":
			fmt.Printf("      Root: %s\n", v.FSVaultRoot)
		}
	}
}

func printPage(w io.Writer, page query.Page) error {
	if page.Total == 0 {
		fmt.Fprintln(w, "No applications found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tROLE\tSTATUS\tAPPLIED\tINTERVIEW")
	for _, a := range page.Items {
		interview := "-"
		if a.InterviewDate != nil {
			interview = a.InterviewDate.Format(dateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Company, a.Role, a.Status.Label(), a.ApplicationDate.Format(dateLayout), interview)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d applications)\n", page.Page, page.TotalPages, page.Total)
	return nil
}

func printApplication(w io.Writer, a *tracker.Application) {
	fmt.Fprintf(w, "%s\n", a.ID)
	fmt.Fprintf(w, "  Company:   %s\n", a.Company)
	fmt.Fprintf(w, "  Role:      %s\n", a.Role)
	fmt.Fprintf(w, "  Status:    %s\n", a.Status.Label())
	fmt.Fprintf(w, "  Applied:   %s\n", a.ApplicationDate.Format(dateLayout))
	fmt.Fprintf(w, "  Updated:   %s\n", a.LastUpdated.Format(dateLayout))
	if a.InterviewDate != nil {
		fmt.Fprintf(w, "  Interview: %s\n", a.InterviewDate.Format(dateLayout))
	}
	if a.Salary != "" {
		fmt.Fprintf(w, "  Salary:    %s\n", a.Salary)
	}
	if a.JobURL != "" {
		fmt.Fprintf(w, "  URL:       %s\n", a.JobURL)
	}
	if a.Notes != "" {
		fmt.Fprintf(w, "  Notes:     %s\n", a.Notes)
	}
	if len(a.NotesList) > 0 {
		fmt.Fprintf(w, "  Notes list:\n")
		for _, n := range a.NotesList {
			fmt.Fprintf(w, "    [%s] %s (%s)\n", n.Type.Label(), n.Content, n.CreatedAt.Format(dateLayout))
		}
	}
}

func printStats(w io.Writer, s analytics.Stats) {
	fmt.Fprintf(w, "Total applications:    %d\n", s.TotalApplications)
	fmt.Fprintf(w, "This month:            %d\n", s.ThisMonth)
	fmt.Fprintf(w, "Success rate:          %d%%\n", s.SuccessRate)
	fmt.Fprintf(w, "Avg days to interview: %d\n", s.AvgDaysToInterview)

	fmt.Fprintf(w, "\nBy status:\n")
	for _, sc := range s.ByStatus {
		fmt.Fprintf(w, "  %-12s %d\n", sc.Status.Label(), sc.Count)
	}
	fmt.Fprintf(w, "\nLast %d months:\n", len(s.MonthlyTrends))
	for _, m := range s.MonthlyTrends {
		fmt.Fprintf(w, "  %-8s %d\n", m.Month, m.Count)
	}
}

func printHistory(w io.Writer, ops []*sqlc.Operation) {
	for _, op := range ops {
		finished := "running"
		if op.FinishedAt.Valid {
			finished = op.FinishedAt.Time.Sub(op.StartedAt).String()
		}
		fmt.Fprintf(w, "#%d  %-18s  %s  %-8s  %-10s  %s\n",
			op.ID,
			op.Operation,
			op.StartedAt.Format("2006-01-02 15:04:05"),
			op.Status,
			finished,
			op.Parameters,
		)
	}
}

// promptSecret reads a line from the terminal with echo disabled. When
// stdin is not a terminal the line is read as-is, which lets scripts pipe a
// passphrase in.
func promptSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return line, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}
