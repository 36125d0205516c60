package blogs

import (
	"fmt"
	"io"

	"github.com/crucial707/blogspace/cmd/cli/config"
	"github.com/crucial707/blogspace/cmd/cli/output"
	"github.com/crucial707/blogspace/cmd/cli/root"
	"github.com/crucial707/blogspace/internal/client"
	"github.com/crucial707/blogspace/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Blogs
// ==========================
func InitBlogs(rootCmd *cobra.Command) {
	blogCmd := &cobra.Command{
		Use:     "blog",
		Aliases: []string{"blogs"},
		Short:   "Show or update blogs",
	}

	blogCmd.AddCommand(
		meCmd(),
		showCmd(),
		updateCmd(),
	)

	rootCmd.AddCommand(blogCmd)
}

// ==========================
// ME
// ==========================
func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}
			blog, err := config.NewClient().MyBlog(cmd.Context(), token)
			if err != nil {
				return err
			}
			return printBlog(cmd.OutOrStdout(), blog)
		},
	}
}

// ==========================
// SHOW
// ==========================
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <subdomain>",
		Short: "Show a public blog by subdomain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blog, err := config.NewClient().BlogBySubdomain(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printBlog(cmd.OutOrStdout(), blog)
		},
	}
}

// ==========================
// UPDATE
// ==========================
func updateCmd() *cobra.Command {
	var name, description, subdomain string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your blog's name, description or subdomain",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}

			var in client.BlogUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("subdomain") {
				in.Subdomain = &subdomain
			}
			if in.Name == nil && in.Description == nil && in.Subdomain == nil {
				return fmt.Errorf("nothing to update: set --name, --description or --subdomain")
			}

			c := config.NewClient()
			mine, err := c.MyBlog(cmd.Context(), token)
			if err != nil {
				return err
			}
			blog, err := c.UpdateBlog(cmd.Context(), token, mine.ID, in)
			if err != nil {
				return err
			}
			return printBlog(cmd.OutOrStdout(), blog)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "blog name (max 50 characters)")
	cmd.Flags().StringVar(&description, "description", "", "blog description (max 200 characters)")
	cmd.Flags().StringVar(&subdomain, "subdomain", "", "new subdomain (a-z, 0-9, -)")
	return cmd
}

func printBlog(w io.Writer, b *models.Blog) error {
	if root.JSONOutput {
		return output.PrintJSON(w, b)
	}
	pairs := [][2]string{
		{"ID", fmt.Sprint(b.ID)},
		{"Name", b.Name},
		{"Subdomain", b.Subdomain},
		{"Owner", b.Owner.Username},
		{"Description", b.Description},
		{"Created", b.CreatedAt.Local().Format("2006-01-02 15:04")},
	}
	if b.Owner.Email != "" {
		pairs = append(pairs, [2]string{"Owner email", b.Owner.Email})
	}
	output.RenderKV(w, pairs)
	return nil
}
