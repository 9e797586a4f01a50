package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abezemskiy/todokeeper/internal/client/handlers"
	"github.com/abezemskiy/todokeeper/internal/client/identity"
	"github.com/abezemskiy/todokeeper/internal/client/logger"
	"github.com/abezemskiy/todokeeper/internal/repositories/todo"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// newRootCmd - собирает дерево команд клиента. Вывод команд пишется в out.
func newRootCmd(out io.Writer) *cobra.Command {
	opts := defaultOptions()
	var cl *handlers.Client

	root := &cobra.Command{
		Use:           "todokeeper",
		Short:         "CLI client for the todokeeper server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.out != "text" && opts.out != "json" {
				return fmt.Errorf("unknown output format %q, expected json or text", opts.out)
			}
			if opts.logFile != "" {
				if err := logger.Initialize(opts.logLevel, opts.logFile); err != nil {
					return fmt.Errorf("failed to initialize logger, %w", err)
				}
			}
			cl = handlers.NewClient(opts.serverURL, identity.NewFileTokenStorage(opts.tokenFile))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.serverURL, "server", opts.serverURL, "server URL (env TODOKEEPER_CLIENT_SERVER_URL)")
	root.PersistentFlags().StringVar(&opts.tokenFile, "token-file", opts.tokenFile, "file to keep the session token (env TODOKEEPER_CLIENT_TOKEN_FILE)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (env TODOKEEPER_CLIENT_LOG_LEVEL)")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", opts.logFile, "log file, logging is disabled if empty (env TODOKEEPER_CLIENT_LOG_FILE)")
	root.PersistentFlags().StringVar(&opts.out, "out", opts.out, "output format: json|text (env TODOKEEPER_CLIENT_OUT)")

	p := &printer{out: out, format: &opts.out}
	client := func() *handlers.Client { return cl }

	root.AddCommand(newUserCmds(client, p)...)
	root.AddCommand(newTodoCmd(client, p))
	return root
}

// credentials - флаги логина и пароля.
type credentials struct {
	email    string
	password string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.email, "email", "", "user email")
	cmd.Flags().StringVar(&c.password, "password", os.Getenv("TODOKEEPER_CLIENT_PASSWORD"), "user password (env TODOKEEPER_CLIENT_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
}

func newUserCmds(client func() *handlers.Client, p *printer) []*cobra.Command {
	var reg credentials
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user and keep the issued token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := client().Register(cmd.Context(), reg.email, reg.password)
			if err != nil {
				return err
			}
			return p.print(info, "registered as %s (%s)", info.Login, info.ID)
		},
	}
	reg.bind(registerCmd)

	var login credentials
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the issued token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := client().Login(cmd.Context(), login.email, login.password)
			if err != nil {
				return err
			}
			return p.print(info, "logged in as %s (%s)", info.Login, info.ID)
		},
	}
	login.bind(loginCmd)

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := client().Logout(cmd.Context()); err != nil {
				return err
			}
			return p.print(map[string]bool{"ok": true}, "logged out")
		},
	}

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := client().Me(cmd.Context())
			if err != nil {
				return err
			}
			return p.print(info, "%s (%s)", info.Login, info.ID)
		},
	}

	var newPassword string
	passwdCmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := client().ChangePassword(cmd.Context(), newPassword); err != nil {
				return err
			}
			return p.print(map[string]bool{"ok": true}, "password changed, other sessions are closed")
		},
	}
	passwdCmd.Flags().StringVar(&newPassword, "new-password", "", "new password")
	_ = passwdCmd.MarkFlagRequired("new-password")

	return []*cobra.Command{registerCmd, loginCmd, logoutCmd, meCmd, passwdCmd}
}

func newTodoCmd(client func() *handlers.Client, p *printer) *cobra.Command {
	todoCmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage todos of the current user",
	}

	addCmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client().CreateTodo(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return p.print(t, "%s", formatTodo(t))
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			todos, err := client().ListTodos(cmd.Context())
			if err != nil {
				return err
			}
			lines := make([]string, 0, len(todos))
			for _, t := range todos {
				lines = append(lines, formatTodo(t))
			}
			return p.print(todos, "%s", strings.Join(lines, "\n"))
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client().GetTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return p.print(t, "%s", formatTodo(t))
		},
	}

	patchCmd := func(use, short string, patch func(args []string) todo.Patch, args cobra.PositionalArgs) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := client().UpdateTodo(cmd.Context(), args[0], patch(args))
				if err != nil {
					return err
				}
				return p.print(t, "%s", formatTodo(t))
			},
		}
	}
	doneCmd := patchCmd("done <id>", "Mark a todo as completed", func([]string) todo.Patch {
		completed := true
		return todo.Patch{Completed: &completed}
	}, cobra.ExactArgs(1))
	undoneCmd := patchCmd("undone <id>", "Mark a todo as not completed", func([]string) todo.Patch {
		completed := false
		return todo.Patch{Completed: &completed}
	}, cobra.ExactArgs(1))
	editCmd := patchCmd("edit <id> <text>", "Change the text of a todo", func(args []string) todo.Patch {
		text := strings.Join(args[1:], " ")
		return todo.Patch{Text: &text}
	}, cobra.MinimumNArgs(2))

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client().DeleteTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return p.print(t, "deleted %s", t.ID)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all todos of the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := client().ClearTodos(cmd.Context())
			if err != nil {
				return err
			}
			return p.print(handlers.Deleted{Deleted: n}, "deleted %d todos", n)
		},
	}

	todoCmd.AddCommand(addCmd, listCmd, getCmd, doneCmd, undoneCmd, editCmd, rmCmd, clearCmd)
	return todoCmd
}

// printer - печатает результат команды в текстовом виде или в json.
type printer struct {
	out    io.Writer
	format *string
}

func (p *printer) print(v any, textFormat string, args ...any) error {
	if *p.format == "json" {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintf(p.out, textFormat+"\n", args...)
	return err
}

func formatTodo(t todo.Todo) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %s %s", mark, t.ID, t.Text)
	if t.CompletedAt != nil {
		line += " (done " + time.UnixMilli(*t.CompletedAt).UTC().Format(time.RFC3339) + ")"
	}
	return line
}
