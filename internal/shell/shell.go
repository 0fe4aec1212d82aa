// Package shell implements a line-oriented browser over a [session.Session].
//
// Paths are absolute when they start with the root's name, otherwise they are
// relative to the working folder: the current item when it is a folder, or its
// parent when it is a file. A bare number is taken as an item id. Arguments
// follow shell quoting rules.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/brettbedarf/memfs/filesystem"
	"github.com/brettbedarf/memfs/internal/util"
	"github.com/brettbedarf/memfs/session"
)

var (
	ErrUsage          = errors.New("usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnclosedQuote  = errors.New("unclosed quote")
)

type command struct {
	usage string
	help  string
	run   func(sh *Shell, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"ls":      {"ls [path]", "list a folder", (*Shell).ls},
		"cd":      {"cd <path|id>", "visit a folder", (*Shell).cd},
		"open":    {"open <path|id>", "visit an item, printing a file's content", (*Shell).open},
		"back":    {"back", "go back in history", (*Shell).back},
		"forward": {"forward", "go forward in history", (*Shell).forward},
		"up":      {"up", "visit the parent folder", (*Shell).up},
		"cancel":  {"cancel", "leave the current item for the one visited before", (*Shell).cancel},
		"pwd":     {"pwd", "print the current path", (*Shell).pwd},
		"mkdir":   {"mkdir [name]", "create a folder in the working folder", (*Shell).mkdir},
		"touch":   {"touch [name] [content]", "create a file in the working folder", (*Shell).touch},
		"rename":  {"rename <path|id> <name>", "rename an item", (*Shell).rename},
		"rm":      {"rm <path|id>", "delete an item and everything below it", (*Shell).rm},
		"cat":     {"cat <path|id>", "print a file's content", (*Shell).cat},
		"write":   {"write <path|id> <content>", "replace a file's content", (*Shell).write},
		"help":    {"help", "show this help", (*Shell).help},
	}
}

// Shell reads commands line by line and writes results to out
type Shell struct {
	s   *session.Session
	in  io.Reader
	out io.Writer
}

func New(s *session.Session, in io.Reader, out io.Writer) *Shell {
	return &Shell{s: s, in: in, out: out}
}

// Run executes commands until exit or end of input. Command failures are
// printed and do not stop the loop; only read errors are returned.
func (sh *Shell) Run(ctx context.Context) error {
	logger := util.GetLogger("Shell")

	scanner := bufio.NewScanner(sh.in)
	sh.prompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := sh.Exec(ctx, scanner.Text())
		if err != nil {
			logger.Debug().Err(err).Str("line", scanner.Text()).Msg("Command failed")
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		sh.prompt()
	}
	return scanner.Err()
}

// Exec runs a single command line. quit is true for exit/quit.
func (sh *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	args, err := splitArgs(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}
	name, args := args[0], args[1:]
	if name == "exit" || name == "quit" {
		return true, nil
	}
	cmd, ok := commands[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if err := cmd.run(sh, ctx, args); err != nil {
		if errors.Is(err, ErrUsage) {
			return false, fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
		}
		return false, err
	}
	return false, nil
}

func (sh *Shell) prompt() {
	path, _ := sh.s.GetPath(sh.s.Current().ID())
	fmt.Fprintf(sh.out, "%s> ", path)
}

// cwd is the folder relative paths start from
func (sh *Shell) cwd() *filesystem.Folder {
	cur := sh.s.Current()
	if f, ok := cur.(*filesystem.Folder); ok {
		return f
	}
	if parent := sh.s.ParentOf(cur.ID()); parent != nil {
		return parent
	}
	return sh.s.Root()
}

func (sh *Shell) resolve(arg string) (filesystem.Item, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if it := sh.s.GetItemByID(id); it != nil {
			return it, nil
		}
		return nil, fmt.Errorf("%w: %d", filesystem.ErrNotFound, id)
	}

	var it filesystem.Item = sh.cwd()
	segs := strings.Split(strings.TrimSuffix(arg, filesystem.Separator), filesystem.Separator)
	if segs[0] == sh.s.Root().Name() {
		it, segs = sh.s.Root(), segs[1:]
	}
	for _, seg := range segs {
		switch seg {
		case ".":
			continue
		case "..":
			if parent := sh.s.ParentOf(it.ID()); parent != nil {
				it = parent
			}
			continue
		}
		folder, ok := it.(*filesystem.Folder)
		if !ok {
			return nil, fmt.Errorf("%w: %q", filesystem.ErrNotFound, arg)
		}
		if it = folder.FindChildByName(seg); it == nil {
			return nil, fmt.Errorf("%w: %q", filesystem.ErrNotFound, arg)
		}
	}
	return it, nil
}

func (sh *Shell) resolveFile(arg string) (*filesystem.File, error) {
	it, err := sh.resolve(arg)
	if err != nil {
		return nil, err
	}
	f, ok := it.(*filesystem.File)
	if !ok {
		return nil, fmt.Errorf("%w: %q", filesystem.ErrNotAFile, arg)
	}
	return f, nil
}

func (sh *Shell) ls(_ context.Context, args []string) error {
	var folder *filesystem.Folder
	switch len(args) {
	case 0:
		folder = sh.cwd()
	case 1:
		it, err := sh.resolve(args[0])
		if err != nil {
			return err
		}
		f, ok := it.(*filesystem.Folder)
		if !ok {
			return fmt.Errorf("%w: %q", filesystem.ErrNotAFolder, args[0])
		}
		folder = f
	default:
		return ErrUsage
	}
	for _, child := range folder.Children() {
		fmt.Fprintf(sh.out, "%4d  %s\n", child.ID(), displayName(child))
	}
	return nil
}

func (sh *Shell) cd(_ context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	it, err := sh.resolve(args[0])
	if err != nil {
		return err
	}
	if _, ok := it.(*filesystem.Folder); !ok {
		return fmt.Errorf("%w: %q", filesystem.ErrNotAFolder, args[0])
	}
	return sh.visit(it)
}

func (sh *Shell) open(_ context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	it, err := sh.resolve(args[0])
	if err != nil {
		return err
	}
	if err := sh.visit(it); err != nil {
		return err
	}
	if f, ok := it.(*filesystem.File); ok {
		sh.printContent(f)
	}
	return nil
}

func (sh *Shell) visit(it filesystem.Item) error {
	if _, err := sh.s.Visit(it.ID()); err != nil {
		return err
	}
	sh.printPath()
	return nil
}

func (sh *Shell) back(_ context.Context, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if _, err := sh.s.Back(); err != nil {
		return err
	}
	sh.printPath()
	return nil
}

func (sh *Shell) forward(_ context.Context, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if _, err := sh.s.Forward(); err != nil {
		return err
	}
	sh.printPath()
	return nil
}

func (sh *Shell) up(_ context.Context, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	parent := sh.s.ParentOf(sh.s.Current().ID())
	if parent == nil {
		sh.printPath()
		return nil
	}
	return sh.visit(parent)
}

func (sh *Shell) cancel(_ context.Context, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	sh.s.CancelEdit()
	sh.printPath()
	return nil
}

func (sh *Shell) pwd(_ context.Context, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	sh.printPath()
	return nil
}

func (sh *Shell) printPath() {
	path, _ := sh.s.GetPath(sh.s.Current().ID())
	fmt.Fprintln(sh.out, path)
}

func (sh *Shell) mkdir(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	f, err := sh.s.AddFolder(ctx, argOr(args, 0, ""), sh.cwd().ID())
	if f == nil {
		return err
	}
	fmt.Fprintf(sh.out, "%4d  %s\n", f.ID(), displayName(f))
	return err
}

func (sh *Shell) touch(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return ErrUsage
	}
	var content *string
	if len(args) == 2 {
		content = &args[1]
	}
	f, err := sh.s.AddFile(ctx, argOr(args, 0, ""), sh.cwd().ID(), content)
	if f == nil {
		return err
	}
	fmt.Fprintf(sh.out, "%4d  %s\n", f.ID(), displayName(f))
	return err
}

func (sh *Shell) rename(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	it, err := sh.resolve(args[0])
	if err != nil {
		return err
	}
	return sh.s.RenameItem(ctx, it.ID(), args[1])
}

func (sh *Shell) rm(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	it, err := sh.resolve(args[0])
	if err != nil {
		return err
	}
	if it.ID() == sh.s.Root().ID() {
		return fmt.Errorf("cannot remove %s", it.Name())
	}
	_, err = sh.s.Delete(ctx, it.ID())
	return err
}

func (sh *Shell) cat(_ context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	f, err := sh.resolveFile(args[0])
	if err != nil {
		return err
	}
	sh.printContent(f)
	return nil
}

func (sh *Shell) printContent(f *filesystem.File) {
	if content, ok := f.Content(); ok {
		fmt.Fprintln(sh.out, content)
	}
}

func (sh *Shell) write(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	f, err := sh.resolveFile(args[0])
	if err != nil {
		return err
	}
	return sh.s.SetFileContent(ctx, f.ID(), strings.Join(args[1:], " "))
}

func (sh *Shell) help(_ context.Context, _ []string) error {
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		cmd := commands[name]
		fmt.Fprintf(sh.out, "  %-26s %s\n", cmd.usage, cmd.help)
	}
	fmt.Fprintf(sh.out, "  %-26s %s\n", "exit", "leave the shell")
	return nil
}

func displayName(it filesystem.Item) string {
	if _, ok := it.(*filesystem.Folder); ok {
		return it.Name() + filesystem.Separator
	}
	return it.Name()
}

func argOr(args []string, i int, def string) string {
	if i < len(args) {
		return args[i]
	}
	return def
}

// splitArgs splits line with shell quoting rules, so names with spaces can be
// written as "new folder" or 'new folder'.
func splitArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnclosedQuote, err)
	}
	return args, nil
}
