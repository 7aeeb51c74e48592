package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/CrestNiraj12/postboard/app"
	"github.com/CrestNiraj12/postboard/domain"
	"github.com/CrestNiraj12/postboard/infra/config"
	"github.com/CrestNiraj12/postboard/infra/editor"
	"github.com/CrestNiraj12/postboard/infra/logging"
	"github.com/CrestNiraj12/postboard/infra/poststore"
	"github.com/CrestNiraj12/postboard/tui"
	"github.com/CrestNiraj12/postboard/tui/common"
)

// errReported marks failures already printed to the user.
var errReported = errors.New("already reported")

// runTUI runs the interactive program. Swapped out in tests.
var runTUI = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// session is the wiring shared by every command.
type session struct {
	ctrl   *app.Controller
	logger *slog.Logger
	closer io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

func openSession(storeURL string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if storeURL != "" {
		if cfg, err = cfg.WithStoreURL(storeURL); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	logger, closer, err := logging.NewFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	logger.Info("session started", "store_url", cfg.StoreURL)

	store := poststore.NewStore(poststore.NewClient(cfg.StoreURL, logger))
	return &session{
		ctrl:   app.NewController(store, logger),
		logger: logger,
		closer: closer,
	}, nil
}

func newRootCmd() *cobra.Command {
	var storeURL string

	root := &cobra.Command{
		Use:           "postboard",
		Short:         "Read and publish posts from the terminal",
		Version:       versionText(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(storeURL)
			if err != nil {
				return err
			}
			defer s.Close()

			err = runTUI(tui.NewApp(tui.Deps{
				Controller: s.ctrl,
				Editor:     editor.NewEnvEditor(),
			}))
			if err != nil {
				s.logger.Error("tui exited with error", "error", err)
				return err
			}
			s.logger.Info("session ended")
			return nil
		},
	}
	root.SetVersionTemplate("{{.Version}}")
	root.PersistentFlags().StringVar(&storeURL, "store-url", "", "post store base URL (overrides config and env)")

	root.AddCommand(
		listCmd(&storeURL),
		postCmd(&storeURL),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionText())
		},
	}
}

func listCmd(storeURL *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(*storeURL)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ctrl.Refresh(cmd.Context()); err != nil {
				return err
			}
			posts := s.ctrl.State().Posts
			if limit > 0 && len(posts) > limit {
				posts = posts[:limit]
			}
			renderPosts(cmd.OutOrStdout(), posts)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many posts (0 for all)")
	return cmd
}

func postCmd(storeURL *string) *cobra.Command {
	var draft domain.Draft
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Validate before touching config or the network.
			if _, errs := draft.Validate(); errs != nil {
				reportFieldErrors(cmd.ErrOrStderr(), errs)
				return fmt.Errorf("%w: %w", errReported, errs.Err())
			}

			s, err := openSession(*storeURL)
			if err != nil {
				return err
			}
			defer s.Close()

			return publish(cmd, s.ctrl, draft)
		},
	}
	cmd.Flags().StringVar(&draft.Title, "title", "", "post title")
	cmd.Flags().StringVar(&draft.Body, "body", "", "post body")
	cmd.Flags().StringVar(&draft.Author, "author", "", "author name")
	return cmd
}

// publish drives the same authoring flow as the TUI form.
func publish(cmd *cobra.Command, ctrl *app.Controller, draft domain.Draft) error {
	ctrl.OpenAuthoring()
	for _, f := range domain.Fields {
		if err := ctrl.UpdateDraft(f, draft.Get(f)); err != nil {
			return err
		}
	}

	payload, errs := ctrl.State().Draft.Validate()
	if errs != nil {
		ctrl.CloseAuthoring()
		reportFieldErrors(cmd.ErrOrStderr(), errs)
		return fmt.Errorf("%w: %w", errReported, errs.Err())
	}

	if err := ctrl.SubmitPost(cmd.Context(), payload); err != nil {
		var apiErr *poststore.APIError
		if errors.As(err, &apiErr) {
			if fe := apiErr.FieldErrors(); fe != nil {
				reportFieldErrors(cmd.ErrOrStderr(), fe)
				return fmt.Errorf("%w: %w", errReported, err)
			}
		}
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.Bold, color.FgHiGreen).Fprintf(out, "✔ Published %q\n", payload.Title)
	st := ctrl.State()
	if st.RefreshErr != nil {
		color.New(color.FgYellow).Fprintf(out, "Could not reload posts: %v\n", st.RefreshErr)
		return nil
	}
	fmt.Fprintf(out, "%d posts on the board\n", len(st.Posts))
	return nil
}

func reportFieldErrors(w io.Writer, errs domain.FieldErrors) {
	red := color.New(color.FgHiRed)
	for _, f := range domain.Fields {
		if msg, ok := errs[f]; ok {
			red.Fprintf(w, "✘ %s\n", msg)
		}
	}
}

func renderPosts(w io.Writer, posts []domain.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts yet.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Title", "Author", "Posted", "Body"})
	table.SetAutoWrapText(false)

	for _, p := range posts {
		table.Append([]string{
			oneLine(p.Title, 32),
			oneLine(p.Author, 20),
			common.FormatTimestamp(p.CreatedAt()),
			oneLine(p.Body, 48),
		})
	}
	table.Render()
}

// oneLine flattens store text into a single sanitized table cell.
func oneLine(s string, width int) string {
	s = common.SanitizeForTerminal(s)
	s = strings.Join(strings.Fields(s), " ")
	return ansi.Truncate(s, width, "…")
}
