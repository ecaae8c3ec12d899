// Command folioctl inspects the category hierarchy of a running folio
// server through its REST API.
//
//	folioctl [-api URL] tree
//	folioctl [-api URL] list
//	folioctl [-api URL] path <id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"folio/internal/apiclient"
	"folio/internal/category"
	"folio/internal/config"
	"folio/internal/models"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

const usage = `usage: folioctl [-api URL] [-timeout D] <command>

commands:
  tree        print the category tree
  list        print categories depth-first with ids and slugs
  path <id>   print the breadcrumb of a category
`

var errUsage = errors.New("usage")

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("folioctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := fs.String("api", config.APIURL(), "folio API base URL")
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	verbose := fs.Bool("v", false, "log requests to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc := category.NewService(apiclient.New(*apiURL), category.NewMemoryCache[[]models.Category](0))
	err := run(ctx, svc, fs.Args(), stdout)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return 2
	default:
		fmt.Fprintf(stderr, "folioctl: %v\n", err)
		return 1
	}
}

func run(ctx context.Context, svc *category.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "tree":
		roots, err := svc.Tree(ctx)
		if err != nil {
			return err
		}
		printTree(out, roots, "")
		return nil

	case "list":
		roots, err := svc.Tree(ctx)
		if err != nil {
			return err
		}
		for _, e := range category.Flatten(roots) {
			fmt.Fprintf(out, "%4d  %s%s (%s)\n", e.ID, strings.Repeat("  ", e.Depth), e.Name, e.Slug)
		}
		return nil

	case "path":
		if len(rest) != 1 {
			return errUsage
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", rest[0])
		}
		list, err := svc.GetCategories(ctx)
		if err != nil {
			return err
		}
		c := category.FindByID(id, list)
		if c == nil {
			return fmt.Errorf("category %d: %w", id, category.ErrNotFound)
		}
		var names []string
		for _, p := range svc.GetCategoryPath(c, list) {
			names = append(names, p.Name)
		}
		fmt.Fprintln(out, strings.Join(names, " > "))
		return nil
	}
	return errUsage
}

// printTree draws nodes with box-drawing connectors.
func printTree(out io.Writer, nodes []*models.CategoryNode, prefix string) {
	for i, n := range nodes {
		connector, childPrefix := "├── ", "│   "
		if i == len(nodes)-1 {
			connector, childPrefix = "└── ", "    "
		}
		fmt.Fprintf(out, "%s%s%s\n", prefix, connector, n.Name)
		printTree(out, n.Children, prefix+childPrefix)
	}
}
