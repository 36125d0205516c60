package posts

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/crucial707/blogspace/cmd/cli/config"
	"github.com/crucial707/blogspace/cmd/cli/output"
	"github.com/crucial707/blogspace/cmd/cli/root"
	"github.com/crucial707/blogspace/internal/client"
	"github.com/crucial707/blogspace/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Posts
// ==========================
func InitPosts(rootCmd *cobra.Command) {
	postsCmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"post"},
		Short:   "Manage the posts in your blog",
	}

	postsCmd.AddCommand(
		listCmd(),
		showCmd(),
		createCmd(),
		updateCmd(),
		deleteCmd(),
	)

	rootCmd.AddCommand(postsCmd)
}

// ==========================
// LIST
// ==========================
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			list, err := config.NewClient().ListPosts(cmd.Context(), token)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if root.JSONOutput {
				return output.PrintJSON(w, list)
			}
			fmt.Fprintf(w, "%s (%s): %d posts\n", list.Blog.Name, list.Blog.Subdomain, len(list.Posts))
			rows := make([][]interface{}, 0, len(list.Posts))
			for _, p := range list.Posts {
				rows = append(rows, []interface{}{
					p.ID,
					output.Truncate(p.Title, 40),
					p.Status,
					p.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			output.RenderTable(w, []string{"ID", "Title", "Status", "Created"}, rows)
			return nil
		},
	}
}

// ==========================
// SHOW
// ==========================
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			post, err := config.NewClient().GetPost(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printPost(cmd.OutOrStdout(), post)
		},
	}
}

// ==========================
// CREATE
// ==========================
func createCmd() *cobra.Command {
	var title, content, contentFile, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a post in your blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			if contentFile != "" {
				if content, err = readContent(contentFile); err != nil {
					return err
				}
			}
			post, err := config.NewClient().CreatePost(cmd.Context(), token, title, content, image)
			if err != nil {
				return err
			}
			return printPost(cmd.OutOrStdout(), post)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&content, "content", "", "post content")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "read content from a file (- for stdin)")
	cmd.Flags().StringVar(&image, "image", "", "featured image URL")
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateCmd() *cobra.Command {
	var title, content, contentFile, image string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			token, err := config.LoadToken()
			if err != nil {
				return err
			}

			var in client.PostUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = &title
			}
			if flags.Changed("content") {
				in.Content = &content
			}
			if contentFile != "" {
				if content, err = readContent(contentFile); err != nil {
					return err
				}
				in.Content = &content
			}
			if flags.Changed("image") {
				in.FeaturedImage = &image
			}
			if in.Title == nil && in.Content == nil && in.FeaturedImage == nil {
				return fmt.Errorf("nothing to update: set --title, --content or --image")
			}

			post, err := config.NewClient().UpdatePost(cmd.Context(), token, id, in)
			if err != nil {
				return err
			}
			return printPost(cmd.OutOrStdout(), post)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "read new content from a file (- for stdin)")
	cmd.Flags().StringVar(&image, "image", "", "new featured image URL")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			if err := config.NewClient().DeletePost(cmd.Context(), token, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post %d deleted.\n", id)
			return nil
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return id, nil
}

func readContent(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

func printPost(w io.Writer, p *models.Post) error {
	if root.JSONOutput {
		return output.PrintJSON(w, p)
	}
	pairs := [][2]string{
		{"ID", fmt.Sprint(p.ID)},
		{"Title", p.Title},
		{"Author", p.Author.Username},
		{"Status", p.Status},
		{"Created", p.CreatedAt.Local().Format("2006-01-02 15:04")},
		{"Updated", p.UpdatedAt.Local().Format("2006-01-02 15:04")},
	}
	if p.FeaturedImage != "" {
		pairs = append(pairs, [2]string{"Image", p.FeaturedImage})
	}
	output.RenderKV(w, pairs)
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Content)
	return nil
}
