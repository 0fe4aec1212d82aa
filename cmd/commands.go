package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/memfs/filesystem"
	"github.com/brettbedarf/memfs/internal/shell"
	"github.com/brettbedarf/memfs/requests"
)

func notFound(arg string) error {
	return fmt.Errorf("%w: %q", filesystem.ErrNotFound, arg)
}

func printItem(w io.Writer, it filesystem.Item) {
	name := it.Name()
	if _, ok := it.(*filesystem.Folder); ok {
		name += filesystem.Separator
	}
	fmt.Fprintf(w, "%4d  %s\n", it.ID(), name)
}

func (a *app) folderArg(args []string, i int) (*filesystem.Folder, error) {
	if i >= len(args) {
		return a.sess.Root(), nil
	}
	it, err := a.lookup(args[i])
	if err != nil {
		return nil, err
	}
	f, ok := it.(*filesystem.Folder)
	if !ok {
		return nil, fmt.Errorf("%w: %q", filesystem.ErrNotAFolder, args[i])
	}
	return f, nil
}

// destFolder resolves the --parent flag of the add commands
func (a *app) destFolder(parent string) (*filesystem.Folder, error) {
	if parent == "" {
		return a.sess.Root(), nil
	}
	return a.folderArg([]string{parent}, 0)
}

func (a *app) fileArg(arg string) (*filesystem.File, error) {
	it, err := a.lookup(arg)
	if err != nil {
		return nil, err
	}
	f, ok := it.(*filesystem.File)
	if !ok {
		return nil, fmt.Errorf("%w: %q", filesystem.ErrNotAFile, arg)
	}
	return f, nil
}

func (a *app) newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path|id]",
		Short: "List the children of a folder (default root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := a.folderArg(args, 0)
			if err != nil {
				return err
			}
			for _, child := range folder.Children() {
				printItem(cmd.OutOrStdout(), child)
			}
			return nil
		},
	}
}

func (a *app) newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [path|id]",
		Short: "Print a folder and everything below it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := a.folderArg(args, 0)
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), folder, 0)
			return nil
		},
	}
}

func printTree(w io.Writer, it filesystem.Item, depth int) {
	name := it.Name()
	folder, isFolder := it.(*filesystem.Folder)
	if isFolder {
		name += filesystem.Separator
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), name)
	if isFolder {
		for _, child := range folder.Children() {
			printTree(w, child, depth+1)
		}
	}
}

func (a *app) newMkdirCmd() *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "mkdir [name]",
		Short: "Create a folder; a default name is picked when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := a.destFolder(parent)
			if err != nil {
				return err
			}
			f, err := a.sess.AddFolder(cmd.Context(), argOr(args, 0), dest.ID())
			if f == nil {
				return err
			}
			printItem(cmd.OutOrStdout(), f)
			return err
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Folder to create the new folder in (default root)")
	return cmd
}

func (a *app) newTouchCmd() *cobra.Command {
	var (
		parent  string
		content string
	)
	cmd := &cobra.Command{
		Use:   "touch [name]",
		Short: "Create a file; a default name is picked when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := a.destFolder(parent)
			if err != nil {
				return err
			}
			var c *string
			if cmd.Flags().Changed("content") {
				c = &content
			}
			f, err := a.sess.AddFile(cmd.Context(), argOr(args, 0), dest.ID(), c)
			if f == nil {
				return err
			}
			printItem(cmd.OutOrStdout(), f)
			return err
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Folder to create the file in (default root)")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Initial file content")
	return cmd
}

func (a *app) newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path|id> <name>",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			return a.sess.RenameItem(cmd.Context(), it.ID(), args[1])
		},
	}
}

func (a *app) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path|id>",
		Short: "Delete an item and everything below it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			if it.ID() == filesystem.RootID {
				return fmt.Errorf("cannot remove %s", it.Name())
			}
			return a.sess.DeleteItem(cmd.Context(), it.ID())
		},
	}
}

func (a *app) newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path|id>",
		Short: "Print a file's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fileArg(args[0])
			if err != nil {
				return err
			}
			if content, ok := f.Content(); ok {
				fmt.Fprintln(cmd.OutOrStdout(), content)
			}
			return nil
		},
	}
}

func (a *app) newWriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <path|id> <content>",
		Short: "Replace a file's content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fileArg(args[0])
			if err != nil {
				return err
			}
			return a.sess.SetFileContent(cmd.Context(), f.ID(), args[1])
		},
	}
}

func (a *app) newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <script>",
		Short: "Apply a JSON or YAML op script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := requests.Load(args[0])
			if err != nil {
				return err
			}
			failed := 0
			for _, res := range requests.Apply(cmd.Context(), a.sess, ops) {
				status := "ok"
				if res.Err != nil {
					status = res.Err.Error()
					failed++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%s\n", res.RequestID, res.Op, res.ItemID, status)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d ops failed", failed, len(ops))
			}
			return nil
		},
	}
}

func (a *app) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Browse the tree interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return shell.New(a.sess, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}
}

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
