package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"jobtrack/internal/app"
	"jobtrack/internal/config"
	"jobtrack/internal/encryption"
	"jobtrack/internal/export"
	"jobtrack/internal/query"
	"jobtrack/internal/tracker"
)

func main() {
	// A missing .env file is normal.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by the defaults.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates a TrackerApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "CreateApplication", "ChangeStatus").
func newApp(operation string) (*app.TrackerApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewTrackerApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "jt",
	Short:        "Job application tracker",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		ownerID := uuid.New().String()
		cfg := config.NewConfig(ownerID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Owner ID: %s\n", ownerID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		printConfig(cfg)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate the snapshot encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return err
		}
		if enc == nil {
			return fmt.Errorf(`encryption is disabled: set type = "age" under [encryption] first`)
		}
		if enc.IsConfigured() && !force {
			return fmt.Errorf("keys already exist; use --force to replace them (existing snapshots become unreadable)")
		}

		passphrase, err := readNewPassphrase()
		if err != nil {
			return err
		}
		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		company, _ := f.GetString("company")
		role, _ := f.GetString("role")
		rawStatus, _ := f.GetString("status")
		rawDate, _ := f.GetString("date")
		rawInterview, _ := f.GetString("interview")
		salary, _ := f.GetString("salary")
		jobURL, _ := f.GetString("url")
		notes, _ := f.GetString("notes")

		in := tracker.ApplicationInput{
			Company: company,
			Role:    role,
			Notes:   notes,
			Salary:  salary,
			JobURL:  jobURL,
		}
		if rawStatus != "" {
			s, err := tracker.ParseStatus(rawStatus)
			if err != nil {
				return err
			}
			in.Status = s
		}
		if rawDate != "" {
			d, err := query.ParseDate("date", rawDate)
			if err != nil {
				return err
			}
			in.ApplicationDate = d
		}
		if rawInterview != "" {
			d, err := query.ParseDate("interview", rawInterview)
			if err != nil {
				return err
			}
			in.InterviewDate = &d
		}

		a, err := newApp("CreateApplication")
		if err != nil {
			return err
		}
		defer a.Close()

		created, err := a.CreateApplication(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s: %s at %s\n", created.ID, created.Role, created.Company)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List and search applications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		get := func(name string) string {
			v, _ := f.GetString(name)
			return v
		}
		flag := func(name string) string {
			if !f.Changed(name) {
				return ""
			}
			v, _ := f.GetBool(name)
			return strconv.FormatBool(v)
		}
		page, _ := f.GetInt("page")

		req, err := query.Params{
			Query:        get("query"),
			Status:       get("status"),
			Company:      get("company"),
			Role:         get("role"),
			From:         get("from"),
			To:           get("to"),
			HasInterview: flag("has-interview"),
			HasNotes:     flag("has-notes"),
			MinSalary:    get("min-salary"),
			MaxSalary:    get("max-salary"),
			Filter:       get("filter"),
			Sort:         get("sort"),
			Page:         strconv.Itoa(page),
		}.Request()
		if err != nil {
			return err
		}

		a, err := newApp("ListApplications")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.ListApplications(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printPage(os.Stdout, result)
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, _ := cmd.Flags().GetBool("report")

		a, err := newApp("GetApplication")
		if err != nil {
			return err
		}
		defer a.Close()

		if report {
			return a.Report(cmd.Context(), args[0], os.Stdout)
		}
		got, err := a.GetApplication(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printApplication(os.Stdout, got)
		return nil
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Move an application to a new status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ChangeStatus")
		if err != nil {
			return err
		}
		defer a.Close()

		updated, err := a.ChangeStatus(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", updated.ID, updated.Status.Label())
		return nil
	},
}

// note command
var noteCmd = &cobra.Command{
	Use:   "note ID CONTENT",
	Short: "Attach a note to an application",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")

		a, err := newApp("AddNote")
		if err != nil {
			return err
		}
		defer a.Close()

		updated, err := a.AddNote(cmd.Context(), args[0], args[1], typ)
		if err != nil {
			return err
		}
		fmt.Printf("Added note to %s (%d total)\n", updated.ID, len(updated.NotesList))
		return nil
	},
}

// interview command
var interviewCmd = &cobra.Command{
	Use:   "interview ID DATE",
	Short: "Schedule an interview (YYYY-MM-DD or RFC 3339)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ScheduleInterview")
		if err != nil {
			return err
		}
		defer a.Close()

		updated, err := a.ScheduleInterview(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Interview for %s scheduled on %s\n", updated.ID, updated.InterviewDate.Format("2006-01-02"))
		return nil
	},
}

// edit command
var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change application details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("UpdateApplication")
		if err != nil {
			return err
		}
		defer a.Close()

		updated, err := a.UpdateApplication(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}
		printApplication(os.Stdout, updated)
		return nil
	},
}

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an application and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteApplication")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteApplication(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show job search statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Analytics")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Analytics(cmd.Context())
		if err != nil {
			return err
		}
		printStats(os.Stdout, stats)
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export applications (csv, json, yaml or summary)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawFormat, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format, err := export.ParseFormat(rawFormat)
		if err != nil {
			return err
		}

		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		if output == "" || output == "-" {
			return a.Export(cmd.Context(), format, os.Stdout)
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		if err := a.Export(cmd.Context(), format, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.GetHistory(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}
		printHistory(os.Stdout, ops)
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if addr == "" {
			addr = cfg.Server.Addr
		}
		if addr == "" {
			addr = config.DefaultServerAddr
		}

		a, err := app.NewTrackerApp(cfg, "Serve")
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		l, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Listening on http://%s\n", l.Addr())
		return a.Serve(ctx, l)
	},
}

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage database snapshots",
}

var snapshotPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local database with the vault's latest snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		version, err := app.PullSnapshot(cfg, readPassphrase, force)
		if err != nil {
			return err
		}
		fmt.Printf("Restored snapshot version %d\n", version)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysCmd)
	configKeysCmd.Flags().Bool("force", false, "Replace existing keys")

	// snapshot subcommands
	snapshotCmd.AddCommand(snapshotPullCmd)
	snapshotPullCmd.Flags().Bool("force", false, "Discard local operations newer than the snapshot")

	addCmd.Flags().String("company", "", "Company name")
	addCmd.Flags().String("role", "", "Job role")
	addCmd.Flags().String("status", "", "Initial status (default Applied)")
	addCmd.Flags().String("date", "", "Application date (default today)")
	addCmd.Flags().String("interview", "", "Interview date")
	addCmd.Flags().String("salary", "", "Salary or range, free text")
	addCmd.Flags().String("url", "", "Job posting URL")
	addCmd.Flags().String("notes", "", "Free-form notes")
	_ = addCmd.MarkFlagRequired("company")
	_ = addCmd.MarkFlagRequired("role")

	listCmd.Flags().StringP("query", "q", "", "Search company, role, notes and salary")
	listCmd.Flags().String("status", "", "Only this status")
	listCmd.Flags().String("company", "", "Company contains")
	listCmd.Flags().String("role", "", "Role contains")
	listCmd.Flags().String("from", "", "Applied on or after this date")
	listCmd.Flags().String("to", "", "Applied on or before this date")
	listCmd.Flags().Bool("has-interview", false, "Only applications with an interview date")
	listCmd.Flags().Bool("has-notes", false, "Only applications with notes")
	listCmd.Flags().String("min-salary", "", "Minimum salary")
	listCmd.Flags().String("max-salary", "", "Maximum salary")
	listCmd.Flags().String("filter", "", `Filter expression, e.g. 'status = "Offer" OR salary >= 100000'`)
	listCmd.Flags().String("sort", "", "date-desc (default), date-asc, updated-desc or updated-asc")
	listCmd.Flags().IntP("page", "p", 1, "Page number")

	showCmd.Flags().Bool("report", false, "Print the full text report")
	noteCmd.Flags().StringP("type", "t", "general", "Note type: general, interview or followup")

	editCmd.Flags().String("company", "", "Company name")
	editCmd.Flags().String("role", "", "Job role")
	editCmd.Flags().String("status", "", "Status")
	editCmd.Flags().String("date", "", "Application date")
	editCmd.Flags().String("salary", "", "Salary")
	editCmd.Flags().String("url", "", "Job posting URL")
	editCmd.Flags().String("notes", "", "Notes")

	exportCmd.Flags().StringP("format", "f", "csv", "csv, json, yaml or summary")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// patchFromFlags builds a patch from the flags the user actually set.
func patchFromFlags(cmd *cobra.Command) (tracker.ApplicationPatch, error) {
	f := cmd.Flags()
	var p tracker.ApplicationPatch
	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}

	p.Company = str("company")
	p.Role = str("role")
	p.Salary = str("salary")
	p.JobURL = str("url")
	p.Notes = str("notes")

	if raw := str("status"); raw != nil {
		s, err := tracker.ParseStatus(*raw)
		if err != nil {
			return p, err
		}
		p.Status = &s
	}
	if raw := str("date"); raw != nil {
		d, err := query.ParseDate("date", *raw)
		if err != nil {
			return p, err
		}
		p.ApplicationDate = &d
	}
	return p, nil
}

// readPassphrase prompts on the terminal without echo.
func readPassphrase() (string, error) {
	return promptSecret("Passphrase: ")
}

func readNewPassphrase() (string, error) {
	first, err := promptSecret("New passphrase: ")
	if err != nil {
		return "", err
	}
	second, err := promptSecret("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passphrases do not match")
	}
	return first, nil
}
