// Package main is a small command-line client for the inkwell API, built on
// the same client package the tests use. The bearer token from login is
// kept in INKWELL_TOKEN so write commands work across invocations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/client"
)

func main() {
	addr := flag.String("addr", envOr("INKWELL_ADDR", "http://localhost:8080"), "API base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	c := client.New(*addr)
	if token := os.Getenv("INKWELL_TOKEN"); token != "" {
		c.SetToken(token)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch args[0] {
	case "list":
		err = runList(ctx, c, args[1:])
	case "get":
		err = runGet(ctx, c, args[1:])
	case "login":
		err = runLogin(ctx, c, args[1:])
	case "create":
		err = runCreate(ctx, c, args[1:])
	case "comment":
		err = runComment(ctx, c, args[1:])
	case "categories":
		err = runCategories(ctx, c)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: inkwell-cli [-addr URL] <command>

commands:
  list [-page N] [-limit N] [-search TERM] [-category UUID]
  get <post-id>
  login -email ADDR -password PASS
  create -title T -content TEXT -category UUID
  comment <post-id> <content>
  categories`)
}

func runList(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "page size")
	search := fs.String("search", "", "search term")
	category := fs.String("category", "", "category id")
	fs.Parse(args)

	opts := client.ListOptions{Page: *page, Limit: *limit, Search: *search}
	if *category != "" {
		id, err := uuid.Parse(*category)
		if err != nil {
			return fmt.Errorf("invalid category id: %w", err)
		}
		opts.Category = id
	}

	result, err := c.ListPosts(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("page %d/%d (%d posts)\n", result.CurrentPage, result.TotalPages, result.TotalPosts)
	for _, p := range result.Posts {
		fmt.Printf("  %s  %-40q  by %s in %s (%d comments, %d views)\n",
			p.ID, p.Title, p.Author.Username, p.Category.Name, p.CommentCount, p.ViewCount)
	}
	return nil
}

func runGet(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: get <post-id>")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid post id: %w", err)
	}

	post, err := c.GetPost(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s\nby %s in %s | %d views | slug %s\n\n%s\n",
		post.Title, post.Author.Username, post.Category.Name, post.ViewCount, post.Slug, post.Content)
	for _, cm := range post.Comments {
		fmt.Printf("\n[%s] %s: %s\n", cm.CreatedAt.Format(time.RFC822), cm.Author.Username, cm.Content)
	}
	return nil
}

func runLogin(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s (%s)\n", user.Username, user.Role)
	fmt.Println("export INKWELL_TOKEN to reuse the session in later commands")
	return nil
}

func runCreate(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post body (markdown)")
	category := fs.String("category", "", "category id")
	fs.Parse(args)

	categoryID, err := uuid.Parse(*category)
	if err != nil {
		return fmt.Errorf("invalid category id: %w", err)
	}

	post, err := c.CreatePost(ctx, client.PostDraft{
		Title:    *title,
		Content:  *content,
		Category: categoryID,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created %s (%s)\n", post.ID, post.Slug)
	return nil
}

func runComment(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: comment <post-id> <content>")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid post id: %w", err)
	}

	post, err := c.AddComment(ctx, id, args[1])
	if err != nil {
		return err
	}

	fmt.Printf("comment added, post now has %d comments\n", len(post.Comments))
	return nil
}

func runCategories(ctx context.Context, c *client.Client) error {
	categories, err := c.Categories(ctx)
	if err != nil {
		return err
	}
	for _, cat := range categories {
		fmt.Printf("  %s  %s\n", cat.ID, cat.Name)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
